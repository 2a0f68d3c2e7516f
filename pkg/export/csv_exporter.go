package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/samber/lo"

	"github.com/limaJavier/blocker/pkg/model"
)

// CSVExporter writes datasets as comma separated tables, one record per row in dataset order
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// RenderTimetable renders the block of every student's subjects, subjects ordered by rank
func (e *CSVExporter) RenderTimetable(input model.ModelInput, timetable model.Timetable) ([]byte, error) {
	return e.Render(TimetableDataset(input, timetable))
}

func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	var buffer bytes.Buffer
	if err := e.Write(&buffer, data); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Write streams the header line and the rows of data into w. Cells missing from a row are left blank
func (e *CSVExporter) Write(w io.Writer, data Dataset) error {
	if len(data.Headers) == 0 {
		return fmt.Errorf("cannot export a table without columns")
	}

	writer := csv.NewWriter(w)
	records := append([][]string{data.Headers}, lo.Map(data.Rows, func(row map[string]string, _ int) []string {
		return lo.Map(data.Headers, func(header string, _ int) string { return row[header] })
	})...)

	// WriteAll flushes and reports the first write error
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("cannot write table: %w", err)
	}
	return nil
}
