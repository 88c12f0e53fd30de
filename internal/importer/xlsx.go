package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/stockcheck-dev/stockcheck/internal/model"
)

// XLSXReader reads Excel workbooks. Cells keep their type: numbers stay
// numbers, and numbers with a date format also carry the converted date.
type XLSXReader struct{}

// Format returns the reader name.
func (x *XLSXReader) Format() string { return "xlsx" }

// Read decodes the configured sheet, or the first one.
func (x *XLSXReader) Read(r io.Reader, opts Options) (*model.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	name := opts.Sheet
	if name == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		name = sheets[0]
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", name, err)
	}

	dec := &cellDecoder{f: f, sheet: name, dateStyles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		dec.date1904 = *props.Date1904
	}

	sheet := &model.Sheet{Name: name}
	for i, raw := range rows {
		if i < opts.HeaderRows {
			sheet.Header = raw
			continue
		}
		row := model.Row{Number: i + 1, Cells: make([]model.Cell, len(raw))}
		for j, v := range raw {
			row.Cells[j] = dec.decode(j+1, i+1, v)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

type cellDecoder struct {
	f          *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

func (d *cellDecoder) decode(col, row int, raw string) model.Cell {
	if raw == "" {
		return model.Blank()
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return model.TextCell(raw)
	}
	typ, err := d.f.GetCellType(d.sheet, axis)
	if err != nil {
		return model.TextCell(raw)
	}

	switch typ {
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "true") {
			return model.Cell{Kind: model.CellBool, Text: "TRUE"}
		}
		return model.Cell{Kind: model.CellBool, Text: "FALSE"}
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError, excelize.CellTypeDate:
		return model.TextCell(raw)
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return model.TextCell(raw)
	}
	if d.isDateStyled(axis) {
		if t, err := excelize.ExcelDateToTime(n, d.date1904); err == nil {
			return model.DateCell(n, t)
		}
	}
	return model.NumberCell(n)
}

func (d *cellDecoder) isDateStyled(axis string) bool {
	idx, err := d.f.GetCellStyle(d.sheet, axis)
	if err != nil || idx == 0 {
		return false
	}
	if v, ok := d.dateStyles[idx]; ok {
		return v
	}
	isDate := false
	if style, err := d.f.GetStyle(idx); err == nil {
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		} else {
			isDate = isBuiltInDateFormat(style.NumFmt)
		}
	}
	d.dateStyles[idx] = isDate
	return isDate
}

// isBuiltInDateFormat reports whether a built-in number format id is a
// date or time format.
func isBuiltInDateFormat(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 45 && id <= 47)
}

// isDateFormatCode reports whether a custom format code renders a date.
// Quoted literals and bracketed sections such as colours are ignored.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	return strings.ContainsAny(b.String(), "dy")
}
