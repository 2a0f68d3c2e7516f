package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/blocker/pkg/model"
)

func buildTimetable(t *testing.T) (model.ModelInput, model.Timetable) {
	input, err := model.ProcessRawInput(model.RawModelInput{
		Students: []model.RawStudent{
			{Surname: "Doe", Forename: "Jane", Subjects: []string{"X", "Y"}},
			{Surname: "Roe", Forename: "Rick", Subjects: []string{"X"}},
		},
		Subjects: []model.RawSubject{
			{Name: "X", Sections: 1},
			{Name: "Y", Sections: 1},
		},
	}, true)
	require.Nil(t, err)

	options := model.DefaultOptions()
	options.Seed = 7
	timetable, err := model.NewSampledBlocker(options).Build(input)
	require.Nil(t, err)

	return input, timetable
}

func TestTimetableCSV(t *testing.T) {
	//** Arrange
	input, timetable := buildTimetable(t)

	//** Act
	content, err := NewCSVExporter().RenderTimetable(input, timetable)

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, "Surname,Forename,Y,X\nDoe,Jane,B,A\nRoe,Rick,,A\n", string(content))
}

func TestClassListDataset(t *testing.T) {
	//** Arrange
	input, timetable := buildTimetable(t)

	//** Act
	dataset := ClassListDataset(input, timetable)

	//** Assert
	assert.Equal(t, []string{HeaderSubject, HeaderBlock, HeaderSize, HeaderStudents}, dataset.Headers)
	assert.Equal(t, []map[string]string{
		{HeaderSubject: "Y", HeaderBlock: "B", HeaderSize: "1", HeaderStudents: "Jane Doe"},
		{HeaderSubject: "X", HeaderBlock: "A", HeaderSize: "2", HeaderStudents: "Jane Doe; Rick Roe"},
	}, dataset.Rows)
}

func TestPDFExporter(t *testing.T) {
	//** Arrange
	input, timetable := buildTimetable(t)

	//** Act
	content, err := NewPDFExporter().RenderClassLists(input, timetable)

	//** Assert
	assert.Nil(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF")))
}

func TestRenderWithoutHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.NotNil(t, err)

	_, err = NewPDFExporter().Render(Dataset{}, "")
	assert.NotNil(t, err)
}

func TestExportStudentTakingBothSections(t *testing.T) {
	//** Arrange
	input, err := model.ProcessRawInput(model.RawModelInput{
		Students: []model.RawStudent{
			{Surname: "Doe", Forename: "Jane", Subjects: []string{"Maths", "Maths", "Art"}},
			{Surname: "Roe", Forename: "Rick", Subjects: []string{"Maths", "Art"}},
		},
		Subjects: []model.RawSubject{
			{Name: "Maths", Sections: 2},
			{Name: "Art", Sections: 1},
		},
	}, false)
	require.Nil(t, err)

	options := model.DefaultOptions()
	options.Seed = 7
	timetable, err := model.NewSampledBlocker(options).Build(input)
	require.Nil(t, err)

	//** Act
	content, err := NewCSVExporter().RenderTimetable(input, timetable)
	dataset := ClassListDataset(input, timetable)

	//** Assert
	require.Nil(t, err)
	assert.True(t, strings.HasPrefix(string(content), "Surname,Forename,Art,Maths\nDoe,Jane,A,BC\n"))

	// Jane is listed once in each of her Maths classes
	require.Len(t, dataset.Rows, 3)
	for _, row := range dataset.Rows[1:] {
		assert.Equal(t, "Maths", row[HeaderSubject])
		assert.Equal(t, 1, strings.Count(row[HeaderStudents], "Jane Doe"))
	}
}

func TestCSVExporterWrite(t *testing.T) {
	//** Arrange
	var buffer bytes.Buffer
	data := Dataset{
		Headers: []string{"Subject", "Block"},
		Rows:    []map[string]string{{"Subject": "Maths, Further", "Block": "A"}, {"Subject": "Art"}},
	}

	//** Act
	err := NewCSVExporter().Write(&buffer, data)

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, "Subject,Block\n\"Maths, Further\",A\nArt,\n", buffer.String())
}
