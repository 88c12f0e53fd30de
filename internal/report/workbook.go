// Package report writes processed inventory to a workbook with a Data sheet
// and a Dashboard sheet, and to plain CSV.
package report

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/stockcheck-dev/stockcheck/internal/model"
)

const (
	DataSheet      = "Data"
	DashboardSheet = "Dashboard"

	dashboardTitle = "Inventory Dashboard"
	chartTitle     = "Expiry Status Summary"

	// dashboardTableRow is the 1-based row of the status/count table header.
	dashboardTableRow = 3
)

// DataHeaders are the Data sheet column titles.
var DataHeaders = []string{
	"S.No",
	"Item",
	"Quantity",
	"Cost",
	"Sell Price",
	"Profit",
	"Category",
	"Expiry",
	"Expiry Status",
	"Duplicate?",
	"Recommendation",
}

const (
	// inputCols leading Data sheet columns mirror the input sheet.
	inputCols = 8
	// profitCol keeps its own title since profit is recomputed.
	profitCol = 5
)

// Report is everything a run hands to the writer.
type Report struct {
	// Header holds input column titles in Data sheet order. Blank or
	// missing entries fall back to DataHeaders.
	Header  []string
	Records []model.InventoryRecord
	Summary model.DashboardSummary
}

// Titles returns the Data sheet header row for rep.
func (rep Report) Titles() []string {
	titles := append([]string(nil), DataHeaders...)
	for i := 0; i < len(rep.Header) && i < inputCols; i++ {
		if h := rep.Header[i]; i != profitCol && h != "" {
			titles[i] = h
		}
	}
	return titles
}

// WriteWorkbook renders rep as an xlsx workbook to w.
func WriteWorkbook(w io.Writer, rep Report) error {
	f, err := build(rep)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes rep to path.
func SaveWorkbook(path string, rep Report) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer out.Close()

	if err := WriteWorkbook(out, rep); err != nil {
		return err
	}
	return out.Close()
}

func build(rep Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", DataSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming data sheet: %w", err)
	}
	if _, err := f.NewSheet(DashboardSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("adding dashboard sheet: %w", err)
	}

	if err := writeData(f, rep.Titles(), rep.Records); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing data sheet: %w", err)
	}
	if err := writeDashboard(f, rep.Summary); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing dashboard: %w", err)
	}
	return f, nil
}

func writeData(f *excelize.File, titles []string, records []model.InventoryRecord) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9D9D9"}, Pattern: 1},
		Border:    []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return err
	}

	header := make([]any, len(titles))
	widths := make([]int, len(titles))
	for i, h := range titles {
		header[i] = h
		widths[i] = utf8.RuneCountInString(h)
	}
	if err := f.SetSheetRow(DataSheet, "A1", &header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(titles), 1)
	if err := f.SetCellStyle(DataSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, rec := range records {
		values := []any{
			rec.Serial,
			rec.ItemName,
			rec.Quantity,
			rec.Cost.InexactFloat64(),
			rec.SellPrice.InexactFloat64(),
			rec.Profit.InexactFloat64(),
			rec.Category,
			rec.ExpiryText,
			rec.ExpiryStatus.String(),
			yesNo(rec.IsDuplicate),
			rec.Recommendation,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(DataSheet, cell, &values); err != nil {
			return err
		}
		for j, v := range values {
			if n := utf8.RuneCountInString(fmt.Sprint(v)); n > widths[j] {
				widths[j] = n
			}
		}
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(DataSheet, col, col, float64(min(w+2, 60))); err != nil {
			return err
		}
	}
	return f.SetPanes(DataSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeDashboard(f *excelize.File, s model.DashboardSummary) error {
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return err
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.SetCellValue(DashboardSheet, "A1", dashboardTitle); err != nil {
		return err
	}
	if err := f.SetCellStyle(DashboardSheet, "A1", "A1", titleStyle); err != nil {
		return err
	}

	r := dashboardTableRow
	if err := f.SetSheetRow(DashboardSheet, cellName(1, r), &[]any{"Expiry Status", "Count"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(DashboardSheet, cellName(1, r), cellName(2, r), boldStyle); err != nil {
		return err
	}
	rows := s.Rows()
	for i, row := range rows {
		if err := f.SetSheetRow(DashboardSheet, cellName(1, r+1+i), &[]any{row.Status.String(), row.Count}); err != nil {
			return err
		}
	}

	// Below the charted table: invalid dates and duplicated names.
	next := r + len(rows) + 2
	if err := f.SetSheetRow(DashboardSheet, cellName(1, next), &[]any{model.StatusInvalidDate.String(), s.Invalid}); err != nil {
		return err
	}
	if err := f.SetSheetRow(DashboardSheet, cellName(1, next+1), &[]any{"Duplicated items", len(s.Duplicates)}); err != nil {
		return err
	}
	for i, name := range s.Duplicates {
		if err := f.SetCellValue(DashboardSheet, cellName(1, next+2+i), name); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(DashboardSheet, "A", "A", 22); err != nil {
		return err
	}

	return addChart(f, r, len(rows))
}

func addChart(f *excelize.File, headerRow, n int) error {
	first, lastRow := headerRow+1, headerRow+n
	varyColors := true
	return f.AddChart(DashboardSheet, cellName(4, headerRow), &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$%d", DashboardSheet, headerRow),
			Categories: fmt.Sprintf("%s!$A$%d:$A$%d", DashboardSheet, first, lastRow),
			Values:     fmt.Sprintf("%s!$B$%d:$B$%d", DashboardSheet, first, lastRow),
		}},
		Title:      []excelize.RichTextRun{{Text: chartTitle}},
		Legend:     excelize.ChartLegend{Position: "right"},
		XAxis:      excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Status"}}},
		YAxis:      excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Count"}}},
		VaryColors: &varyColors,
	})
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
