package export

import (
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/limaJavier/blocker/pkg/model"
)

// Dataset is a table: its column headers and one cell per header on every row
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

const (
	HeaderSurname  = "Surname"
	HeaderForename = "Forename"
	HeaderSubject  = "Subject"
	HeaderBlock    = "Block"
	HeaderSize     = "Size"
	HeaderStudents = "Students"
)

// TimetableDataset lists the block each student attends for every subject, subjects ordered by rank.
// Cells of subjects the student does not study are blank
func TimetableDataset(input model.ModelInput, timetable model.Timetable) Dataset {
	subjects := lo.Map(input.Ranking, func(subject int, _ int) model.Subject { return input.Subjects[subject] })

	headers := []string{HeaderSurname, HeaderForename}
	headers = append(headers, lo.Map(subjects, func(subject model.Subject, _ int) string { return subject.Name })...)

	rows := lo.Map(input.Students, func(student model.Student, _ int) map[string]string {
		row := map[string]string{
			HeaderSurname:  student.Surname,
			HeaderForename: student.Forename,
		}
		for _, subject := range subjects {
			// Both labels when the student takes two sections, "" when the subject is not studied
			row[subject.Name] = model.NewBlockSet(timetable.BlocksOf(student, subject.Id)...).String()
		}
		return row
	})

	return Dataset{Headers: headers, Rows: rows}
}

// ClassListDataset lists every class (subject and block) with its size and students, subjects ordered by rank
func ClassListDataset(input model.ModelInput, timetable model.Timetable) Dataset {
	rows := make([]map[string]string, 0)
	for _, subjectId := range input.Ranking {
		subject := input.Subjects[subjectId]
		for _, block := range timetable.Blocking[subject.Id].Blocks() {
			students := lo.FilterMap(lo.Uniq(subject.Students), func(studentId int, _ int) (string, bool) {
				student := input.Students[studentId]
				return student.Name(), slices.Contains(timetable.BlocksOf(student, subject.Id), block)
			})
			rows = append(rows, map[string]string{
				HeaderSubject:  subject.Name,
				HeaderBlock:    block.String(),
				HeaderSize:     strconv.Itoa(len(students)),
				HeaderStudents: strings.Join(students, "; "),
			})
		}
	}

	return Dataset{
		Headers: []string{HeaderSubject, HeaderBlock, HeaderSize, HeaderStudents},
		Rows:    rows,
	}
}
