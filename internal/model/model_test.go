package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCellString(t *testing.T) {
	tests := []struct {
		cell Cell
		want string
	}{
		{Blank(), ""},
		{TextCell("Milk"), "Milk"},
		{NumberCell(12), "12"},
		{NumberCell(12.5), "12.5"},
		{DateCell(45678, time.Date(2025, 1, 21, 0, 0, 0, 0, time.UTC)), "2025-01-21"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cell.String())
	}
}

func TestCellIsBlank(t *testing.T) {
	assert.True(t, Blank().IsBlank())
	assert.True(t, TextCell("").IsBlank())
	assert.True(t, TextCell("   ").IsBlank())
	assert.False(t, TextCell("x").IsBlank())
	assert.False(t, NumberCell(0).IsBlank())
}

func TestRowCellOutOfRange(t *testing.T) {
	r := Row{Number: 2, Cells: []Cell{TextCell("a")}}
	assert.Equal(t, "a", r.Cell(0).Text)
	assert.True(t, r.Cell(5).IsBlank())
	assert.True(t, r.Cell(-1).IsBlank())
}

func TestSummaryRowsOrder(t *testing.T) {
	s := DashboardSummary{Counts: map[ExpiryStatus]int{
		StatusValid:      3,
		StatusExpired:    1,
		StatusNoExpiry:   4,
		StatusNearExpiry: 2,
	}, Invalid: 7}

	rows := s.Rows()
	assert.Len(t, rows, 4)
	assert.Equal(t, StatusExpired, rows[0].Status)
	assert.Equal(t, StatusNearExpiry, rows[1].Status)
	assert.Equal(t, StatusValid, rows[2].Status)
	assert.Equal(t, StatusNoExpiry, rows[3].Status)
	assert.Equal(t, 10, s.DashboardTotal())
}

func TestExpiryStatusIsDashboard(t *testing.T) {
	for _, st := range DashboardStatuses {
		assert.True(t, st.IsDashboard(), st.String())
	}
	assert.False(t, StatusInvalidDate.IsDashboard())
	assert.Equal(t, "Invalid Date", StatusInvalidDate.String())
}
