package model

import (
	"strconv"
	"strings"
	"time"
)

// CellKind describes the shape of a raw spreadsheet cell.
type CellKind int

const (
	CellBlank CellKind = iota
	CellNumber
	CellText
	CellBool
)

// Cell is one raw input value as handed over by a tabular reader.
type Cell struct {
	Kind      CellKind
	Text      string  // raw text for CellText and CellBool
	Number    float64 // value for CellNumber
	DateTyped bool    // number carries a date number format
	Date      time.Time
}

// Blank returns an empty cell.
func Blank() Cell { return Cell{Kind: CellBlank} }

// TextCell returns a text cell, or a blank cell when s is empty.
func TextCell(s string) Cell {
	if s == "" {
		return Blank()
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell returns a numeric cell.
func NumberCell(n float64) Cell {
	return Cell{Kind: CellNumber, Number: n}
}

// DateCell returns a numeric cell that carries a date format. The serial and
// the already converted calendar date are both kept.
func DateCell(serial float64, d time.Time) Cell {
	return Cell{Kind: CellNumber, Number: serial, DateTyped: true, Date: d}
}

// IsBlank reports whether the cell is empty or only whitespace.
func (c Cell) IsBlank() bool {
	switch c.Kind {
	case CellBlank:
		return true
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// String renders the cell the way it shows up in a report: integral numbers
// without a fraction, date-typed numbers as yyyy-mm-dd.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		if c.DateTyped && !c.Date.IsZero() {
			return c.Date.Format("2006-01-02")
		}
		if c.Number == float64(int64(c.Number)) {
			return strconv.FormatInt(int64(c.Number), 10)
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellText, CellBool:
		return c.Text
	default:
		return ""
	}
}

// Row is one input row. Number is the 1-based row number in the source.
type Row struct {
	Number int
	Cells  []Cell
}

// Cell returns the cell at column i, or a blank cell when the row is short.
func (r Row) Cell(i int) Cell {
	if i < 0 || i >= len(r.Cells) {
		return Blank()
	}
	return r.Cells[i]
}

// Sheet is a decoded input table: the header row and the data rows below it.
type Sheet struct {
	Name   string
	Header []string
	Rows   []Row
}
