package model

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	appErrors "github.com/limaJavier/blocker/pkg/errors"
)

// InputFromCsv reads the students table (surname, forename, subject...) and the subjects table (name, sections)
func InputFromCsv(studentsFile, subjectsFile string, allowFreePeriods bool) (ModelInput, error) {
	students, err := os.Open(studentsFile)
	if err != nil {
		return ModelInput{}, appErrors.Wrap(err, appErrors.ErrInvalidInput, "cannot open students file")
	}
	defer students.Close()

	subjects, err := os.Open(subjectsFile)
	if err != nil {
		return ModelInput{}, appErrors.Wrap(err, appErrors.ErrInvalidInput, "cannot open subjects file")
	}
	defer subjects.Close()

	rawInput, err := RawInputFromCsv(students, subjects)
	if err != nil {
		return ModelInput{}, err
	}
	return ProcessRawInput(rawInput, allowFreePeriods)
}

func RawInputFromCsv(students, subjects io.Reader) (RawModelInput, error) {
	rawInput := RawModelInput{}

	studentsReader := csv.NewReader(students)
	studentsReader.FieldsPerRecord = -1 // Students choose a variable number of subjects
	studentRecords, err := studentsReader.ReadAll()
	if err != nil {
		return RawModelInput{}, appErrors.Wrap(err, appErrors.ErrInvalidInput, "cannot parse students table")
	}
	for line, record := range studentRecords {
		if len(record) < 2 {
			return RawModelInput{}, appErrors.Errorf(appErrors.ErrInvalidInput, "students table line %v must contain a surname and a forename", line+1)
		}
		rawInput.Students = append(rawInput.Students, RawStudent{
			Surname:  record[0],
			Forename: record[1],
			Subjects: record[2:],
		})
	}

	subjectsReader := csv.NewReader(subjects)
	subjectsReader.FieldsPerRecord = 2
	subjectRecords, err := subjectsReader.ReadAll()
	if err != nil {
		return RawModelInput{}, appErrors.Wrap(err, appErrors.ErrInvalidInput, "cannot parse subjects table")
	}
	for line, record := range subjectRecords {
		sections, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			return RawModelInput{}, appErrors.Wrap(err, appErrors.ErrInvalidInput, "subjects table line "+strconv.Itoa(line+1)+" has an invalid section count")
		}
		rawInput.Subjects = append(rawInput.Subjects, RawSubject{
			Name:     record[0],
			Sections: sections,
		})
	}

	return rawInput, nil
}
