package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpiryStatus classifies how close an item is to its expiry date.
type ExpiryStatus int

const (
	StatusExpired ExpiryStatus = iota
	StatusNearExpiry
	StatusValid
	StatusNoExpiry
	StatusInvalidDate
)

// DashboardStatuses lists the statuses shown on the dashboard, in report order.
// StatusInvalidDate is tracked separately.
var DashboardStatuses = []ExpiryStatus{
	StatusExpired,
	StatusNearExpiry,
	StatusValid,
	StatusNoExpiry,
}

func (s ExpiryStatus) String() string {
	switch s {
	case StatusExpired:
		return "Expired"
	case StatusNearExpiry:
		return "Near Expiry"
	case StatusValid:
		return "Valid"
	case StatusNoExpiry:
		return "No Expiry"
	case StatusInvalidDate:
		return "Invalid Date"
	default:
		return "Unknown"
	}
}

// IsDashboard reports whether the status has its own dashboard counter.
func (s ExpiryStatus) IsDashboard() bool {
	return s >= StatusExpired && s <= StatusNoExpiry
}

// InventoryRecord is one enriched input row.
type InventoryRecord struct {
	RowNumber        int
	Serial           string // first input column, passed through
	ItemName         string
	Quantity         string
	Cost             decimal.Decimal
	SellPrice        decimal.Decimal
	Profit           decimal.Decimal // SellPrice - Cost, never clamped
	Category         string
	RawExpiry        Cell
	NormalizedExpiry *time.Time // nil when no date could be derived
	ExpiryText       string     // yyyy-mm-dd when normalized, raw text otherwise
	ExpiryStatus     ExpiryStatus
	IsDuplicate      bool
	Recommendation   string
}

// DashboardSummary holds the per-status counts of one run.
type DashboardSummary struct {
	Counts     map[ExpiryStatus]int
	Invalid    int      // rows with StatusInvalidDate
	Processed  int      // rows that went through the pipeline
	Skipped    int      // rows dropped for a blank item name
	Duplicates []string // distinct duplicated names, first-collision order
}

// SummaryRow is one line of the dashboard table.
type SummaryRow struct {
	Status ExpiryStatus
	Count  int
}

// Rows returns the dashboard table in fixed status order.
func (s DashboardSummary) Rows() []SummaryRow {
	rows := make([]SummaryRow, 0, len(DashboardStatuses))
	for _, st := range DashboardStatuses {
		rows = append(rows, SummaryRow{Status: st, Count: s.Counts[st]})
	}
	return rows
}

// DashboardTotal returns the sum of the four dashboard counters.
func (s DashboardSummary) DashboardTotal() int {
	total := 0
	for _, st := range DashboardStatuses {
		total += s.Counts[st]
	}
	return total
}
