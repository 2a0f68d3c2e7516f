package model

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	appErrors "github.com/limaJavier/blocker/pkg/errors"
)

// FreeSubjectName is the sentinel subject standing for a free period
const FreeSubjectName = "Free"

type RawStudent struct {
	Surname  string   `mapstructure:"surname"`
	Forename string   `mapstructure:"forename"`
	Subjects []string `mapstructure:"subjects"`
}

type RawSubject struct {
	Name     string `mapstructure:"name"`
	Sections int    `mapstructure:"sections"`
}

type RawModelInput struct {
	Students []RawStudent `mapstructure:"students"`
	Subjects []RawSubject `mapstructure:"subjects"`
}

type Subject struct {
	Id         int
	Name       string
	Sections   int
	Students   []int      // Ids of the enrolled students in input order, once per choice of the subject
	Candidates []BlockSet // Every size-Sections subset of the blocks, rotated by Rotation
	Rank       int        // 0 for the least popular subject (fewest sections, then fewest students)
	Rotation   int
}

// PerClass is the ideal population of each section
func (subject Subject) PerClass() float64 {
	return float64(len(subject.Students)) / float64(subject.Sections)
}

type Student struct {
	Id       int
	Surname  string
	Forename string
	Subjects []int // Ids of the chosen subjects in input order; a subject chosen twice takes two slots
}

func (student Student) Name() string {
	return strings.TrimSpace(student.Forename + " " + student.Surname)
}

type DiagnosticKind string

const (
	EmptyChoice   DiagnosticKind = "empty-choice"
	TooFewOptions DiagnosticKind = "too-few-options"
)

// Diagnostic reports a malformed student record. The student is still scheduled, but no guarantee is given for it
type Diagnostic struct {
	Student int
	Kind    DiagnosticKind
	Message string
}

type ModelInput struct {
	Blocks      []Block
	Subjects    []Subject
	Students    []Student
	Ranking     []int // Subject ids ordered by rank
	FreePeriods bool  // Whether the Free subject was created
	Diagnostics []Diagnostic
}

func (input ModelInput) SubjectByName(name string) (Subject, bool) {
	return lo.Find(input.Subjects, func(subject Subject) bool { return subject.Name == name })
}

// SingleSectionSubjects returns the ids of the subjects with exactly one section in input order
func (input ModelInput) SingleSectionSubjects() []int {
	return input.subjectsWhere(func(subject Subject) bool { return subject.Sections == 1 })
}

// MultiSectionSubjects returns the ids of the subjects with more than one section in input order
func (input ModelInput) MultiSectionSubjects() []int {
	return input.subjectsWhere(func(subject Subject) bool { return subject.Sections > 1 })
}

// TwoSectionSubjects returns the ids of the subjects with exactly two sections in input order
func (input ModelInput) TwoSectionSubjects() []int {
	return input.subjectsWhere(func(subject Subject) bool { return subject.Sections == 2 })
}

func (input ModelInput) subjectsWhere(predicate func(subject Subject) bool) []int {
	return lo.FilterMap(input.Subjects, func(subject Subject, _ int) (int, bool) {
		return subject.Id, predicate(subject)
	})
}

func InputFromJson(file string, allowFreePeriods bool) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, appErrors.Wrap(err, appErrors.ErrInvalidInput, "cannot read input file")
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ModelInput{}, appErrors.Wrap(err, appErrors.ErrInvalidInput, "cannot parse json input")
	}
	return decodeRawInput(inputJson, allowFreePeriods)
}

func InputFromYaml(file string, allowFreePeriods bool) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, appErrors.Wrap(err, appErrors.ErrInvalidInput, "cannot read input file")
	}
	var inputYaml map[string]any
	if err := yaml.Unmarshal(bytes, &inputYaml); err != nil {
		return ModelInput{}, appErrors.Wrap(err, appErrors.ErrInvalidInput, "cannot parse yaml input")
	}
	return decodeRawInput(inputYaml, allowFreePeriods)
}

func decodeRawInput(document map[string]any, allowFreePeriods bool) (ModelInput, error) {
	var rawInput RawModelInput
	if err := mapstructure.Decode(document, &rawInput); err != nil {
		return ModelInput{}, appErrors.Wrap(err, appErrors.ErrInvalidInput, "cannot decode input")
	}
	return ProcessRawInput(rawInput, allowFreePeriods)
}

// ProcessRawInput normalizes the raw tables into the catalog consumed by the blockers.
// When allowFreePeriods is set the first empty choice of a student becomes the Free subject, otherwise empty choices are dropped and reported
func ProcessRawInput(rawInput RawModelInput, allowFreePeriods bool) (ModelInput, error) {
	input := ModelInput{}

	//** Manage subjects table
	subjectIds := make(map[string]int)
	for _, rawSubject := range rawInput.Subjects {
		name := strings.TrimSpace(rawSubject.Name)
		if name == "" {
			return ModelInput{}, appErrors.Errorf(appErrors.ErrInvalidInput, "subject without name")
		} else if _, ok := subjectIds[name]; ok {
			return ModelInput{}, appErrors.Errorf(appErrors.ErrInvalidInput, "subject \"%v\" is defined more than once", name)
		} else if rawSubject.Sections < 1 {
			return ModelInput{}, appErrors.Errorf(appErrors.ErrInvalidInput, "subject \"%v\" must have at least one section: %v", name, rawSubject.Sections)
		}
		subjectIds[name] = len(input.Subjects)
		input.Subjects = append(input.Subjects, Subject{
			Id:       len(input.Subjects),
			Name:     name,
			Sections: rawSubject.Sections,
			Students: make([]int, 0),
		})
	}

	//** Manage students' choices
	if len(rawInput.Students) == 0 {
		return ModelInput{}, appErrors.Errorf(appErrors.ErrInvalidInput, "no students were given")
	}
	choices := make([][]string, len(rawInput.Students))
	blocks := 0
	for id, rawStudent := range rawInput.Students {
		names, diagnostics := normalizeChoices(id, rawStudent, allowFreePeriods)
		input.Diagnostics = append(input.Diagnostics, diagnostics...)
		if allowFreePeriods && slices.Contains(names, FreeSubjectName) {
			input.FreePeriods = true
		}

		choices[id] = names
		blocks = max(blocks, len(names))
	}
	if blocks == 0 {
		return ModelInput{}, appErrors.Errorf(appErrors.ErrInvalidInput, "no student has chosen any subject")
	} else if blocks > MaxBlocks {
		return ModelInput{}, appErrors.Errorf(appErrors.ErrInvalidInput, "a student has chosen %v subjects but only %v blocks are available", blocks, MaxBlocks)
	}
	input.Blocks = newBlocks(blocks)

	// The Free subject has a section in every block
	if _, ok := subjectIds[FreeSubjectName]; input.FreePeriods && !ok {
		subjectIds[FreeSubjectName] = len(input.Subjects)
		input.Subjects = append(input.Subjects, Subject{
			Id:       len(input.Subjects),
			Name:     FreeSubjectName,
			Sections: blocks,
			Students: make([]int, 0),
		})
	}

	//** Manage students
	for id, rawStudent := range rawInput.Students {
		student := Student{
			Id:       id,
			Surname:  strings.TrimSpace(rawStudent.Surname),
			Forename: strings.TrimSpace(rawStudent.Forename),
			Subjects: make([]int, 0, len(choices[id])),
		}
		for _, name := range choices[id] {
			subjectId, ok := subjectIds[name]
			if !ok {
				return ModelInput{}, appErrors.Errorf(appErrors.ErrInvalidInput, "%v has chosen an unknown subject \"%v\"", student.Name(), name)
			}
			student.Subjects = append(student.Subjects, subjectId)
			input.Subjects[subjectId].Students = append(input.Subjects[subjectId].Students, id)
		}
		// A subject chosen several times takes one of its sections per choice
		for subjectId, times := range lo.CountValues(student.Subjects) {
			if subject := input.Subjects[subjectId]; times > subject.Sections {
				return ModelInput{}, appErrors.Errorf(appErrors.ErrInvalidInput, "%v has chosen \"%v\" %v times but it only has %v sections", student.Name(), subject.Name, times, subject.Sections)
			}
		}
		input.Students = append(input.Students, student)
	}

	//** Manage candidate block-sets
	rotation := 0
	for i := range input.Subjects {
		subject := &input.Subjects[i]
		if subject.Sections > blocks {
			return ModelInput{}, appErrors.Errorf(appErrors.ErrInvalidInput, "subject \"%v\" needs %v sections but there are only %v blocks", subject.Name, subject.Sections, blocks)
		}
		// Rotating avoids every subject being biased towards block A
		rotation = (rotation + 1) % subject.Sections
		subject.Rotation = rotation
		subject.Candidates = rotate(combinations(input.Blocks, subject.Sections), rotation)
	}

	//** Manage ranking
	input.Ranking = lo.Map(input.Subjects, func(subject Subject, _ int) int { return subject.Id })
	slices.SortStableFunc(input.Ranking, func(a, b int) int {
		subjectA, subjectB := input.Subjects[a], input.Subjects[b]
		if subjectA.Sections != subjectB.Sections {
			return subjectA.Sections - subjectB.Sections
		}
		return len(subjectA.Students) - len(subjectB.Students)
	})
	for rank, id := range input.Ranking {
		input.Subjects[id].Rank = rank
	}

	return input, nil
}

func normalizeChoices(id int, rawStudent RawStudent, allowFreePeriods bool) ([]string, []Diagnostic) {
	name := strings.TrimSpace(strings.TrimSpace(rawStudent.Forename) + " " + strings.TrimSpace(rawStudent.Surname))
	diagnostics := make([]Diagnostic, 0)
	names := make([]string, 0, len(rawStudent.Subjects))
	empty := 0

	for _, choice := range rawStudent.Subjects {
		choice = strings.TrimSpace(choice)
		if choice == "" {
			empty++
			continue
		}
		names = append(names, choice)
	}

	if empty == 0 {
		return names, diagnostics
	}

	if !allowFreePeriods {
		diagnostics = append(diagnostics, Diagnostic{
			Student: id,
			Kind:    EmptyChoice,
			Message: fmt.Sprintf("%v has an empty choice and free periods are not allowed", name),
		})
		return names, diagnostics
	}

	if !slices.Contains(names, FreeSubjectName) {
		names = append(names, FreeSubjectName)
		empty--
	}
	if empty > 0 {
		diagnostics = append(diagnostics, Diagnostic{
			Student: id,
			Kind:    TooFewOptions,
			Message: fmt.Sprintf("%v has chosen too few options.", name),
		})
	}
	return names, diagnostics
}
