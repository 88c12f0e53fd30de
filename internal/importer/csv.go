package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/stockcheck-dev/stockcheck/internal/model"
)

// CSVReader reads comma-separated exports. Every non-empty cell is text.
type CSVReader struct{}

// Format returns the reader name.
func (c *CSVReader) Format() string { return "csv" }

// Read decodes all records; rows may have differing lengths.
func (c *CSVReader) Read(r io.Reader, opts Options) (*model.Sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	sheet := &model.Sheet{}
	for i, rec := range records {
		if i < opts.HeaderRows {
			sheet.Header = rec
			continue
		}
		row := model.Row{Number: i + 1, Cells: make([]model.Cell, len(rec))}
		for j, v := range rec {
			row.Cells[j] = model.TextCell(v)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}
