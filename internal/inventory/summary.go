package inventory

import "github.com/stockcheck-dev/stockcheck/internal/model"

// Aggregator counts processed records per expiry status.
type Aggregator struct {
	counts    map[model.ExpiryStatus]int
	invalid   int
	processed int
	skipped   int
}

// NewAggregator returns an Aggregator with all counters at zero.
func NewAggregator() *Aggregator {
	counts := make(map[model.ExpiryStatus]int, len(model.DashboardStatuses))
	for _, st := range model.DashboardStatuses {
		counts[st] = 0
	}
	return &Aggregator{counts: counts}
}

// Add counts one processed record. Invalid dates do not touch the dashboard
// counters.
func (a *Aggregator) Add(status model.ExpiryStatus) {
	a.processed++
	if status.IsDashboard() {
		a.counts[status]++
		return
	}
	a.invalid++
}

// Skip counts a row dropped before processing.
func (a *Aggregator) Skip() {
	a.skipped++
}

// Count returns the current counter for status.
func (a *Aggregator) Count(status model.ExpiryStatus) int {
	if status == model.StatusInvalidDate {
		return a.invalid
	}
	return a.counts[status]
}

// Summary snapshots the counters.
func (a *Aggregator) Summary(duplicates []string) model.DashboardSummary {
	counts := make(map[model.ExpiryStatus]int, len(a.counts))
	for k, v := range a.counts {
		counts[k] = v
	}
	return model.DashboardSummary{
		Counts:     counts,
		Invalid:    a.invalid,
		Processed:  a.processed,
		Skipped:    a.skipped,
		Duplicates: duplicates,
	}
}
