// Package inventory enriches inventory rows: profit, expiry status, duplicate
// flag and a stocking recommendation, plus the per-status dashboard counts.
//
// A Run owns all mutable state of one batch. Rows must be fed in input order;
// duplicate flags and counts depend on it.
package inventory

import (
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockcheck-dev/stockcheck/internal/dates"
	"github.com/stockcheck-dev/stockcheck/internal/model"
)

// Columns holds 0-based input column positions.
type Columns struct {
	Serial   int
	Item     int
	Quantity int
	Cost     int
	Sell     int
	Category int
	Expiry   int
}

// DefaultColumns matches the shop inventory sheet layout. Column 5 holds a
// stale profit value in the input and is recomputed.
var DefaultColumns = Columns{
	Serial:   0,
	Item:     1,
	Quantity: 2,
	Cost:     3,
	Sell:     4,
	Category: 6,
	Expiry:   7,
}

// Titles picks the input header cells for the output columns serial, item,
// quantity, cost, sell, profit, category and expiry, in that order. The
// profit slot is always blank since profit is recomputed. Missing cells are
// blank.
func (c Columns) Titles(header []string) []string {
	at := func(i int) string {
		if i < 0 || i >= len(header) {
			return ""
		}
		return strings.TrimSpace(header[i])
	}
	return []string{
		at(c.Serial), at(c.Item), at(c.Quantity), at(c.Cost),
		at(c.Sell), "", at(c.Category), at(c.Expiry),
	}
}

// Options configures a Run.
type Options struct {
	Now            time.Time
	Location       *time.Location
	NearExpiryDays int
	LowProfit      decimal.Decimal
	Columns        Columns
	Layouts        []dates.Layout
	Logger         *slog.Logger
}

// DefaultOptions returns the standard thresholds evaluated at now.
func DefaultOptions(now time.Time) Options {
	return Options{
		Now:            now,
		Location:       now.Location(),
		NearExpiryDays: DefaultNearExpiryDays,
		LowProfit:      DefaultLowProfit,
		Columns:        DefaultColumns,
		Layouts:        dates.DefaultLayouts,
	}
}

// Run processes the rows of one batch.
type Run struct {
	opts       Options
	normalizer *dates.Normalizer
	detector   *Detector
	agg        *Aggregator
	log        *slog.Logger
}

// NewRun starts a batch with empty duplicate and counter state.
func NewRun(opts Options) *Run {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Location == nil {
		opts.Location = opts.Now.Location()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Run{
		opts:       opts,
		normalizer: dates.NewNormalizer(opts.Location, opts.Layouts),
		detector:   NewDetector(),
		agg:        NewAggregator(),
		log:        log,
	}
}

// Process enriches one row. ok is false when the row has no item name; such
// rows are left out of the output and every count except Skipped.
func (r *Run) Process(row model.Row) (rec model.InventoryRecord, ok bool) {
	cols := r.opts.Columns

	itemName := strings.TrimSpace(row.Cell(cols.Item).String())
	if itemName == "" {
		r.agg.Skip()
		r.log.Debug("skipping row without item name", slog.Int("row", row.Number))
		return model.InventoryRecord{}, false
	}

	// Profit. Bad amounts fall back to zero.
	cost, costOK := ParseAmount(row.Cell(cols.Cost))
	sell, sellOK := ParseAmount(row.Cell(cols.Sell))
	if !costOK || !sellOK {
		r.log.Debug("amount defaulted to zero",
			slog.Int("row", row.Number),
			slog.String("item", itemName),
			slog.Bool("cost_ok", costOK),
			slog.Bool("sell_ok", sellOK))
	}
	profit := sell.Sub(cost)

	// Expiry.
	raw := row.Cell(cols.Expiry)
	norm := r.normalizer.Normalize(raw)
	status := Classify(norm, r.opts.Now, r.opts.NearExpiryDays)
	if status == model.StatusInvalidDate {
		r.log.Debug("unreadable expiry date",
			slog.Int("row", row.Number),
			slog.String("item", itemName),
			slog.String("raw", raw.String()))
	}

	isDup := r.detector.Check(itemName)

	rec = model.InventoryRecord{
		RowNumber:      row.Number,
		Serial:         strings.TrimSpace(row.Cell(cols.Serial).String()),
		ItemName:       itemName,
		Quantity:       strings.TrimSpace(row.Cell(cols.Quantity).String()),
		Cost:           cost,
		SellPrice:      sell,
		Profit:         profit,
		Category:       strings.TrimSpace(row.Cell(cols.Category).String()),
		RawExpiry:      raw,
		ExpiryText:     raw.String(),
		ExpiryStatus:   status,
		IsDuplicate:    isDup,
		Recommendation: Recommend(status, profit, itemName, r.opts.LowProfit),
	}
	if norm.Kind == dates.Parsed {
		d := norm.Date
		rec.NormalizedExpiry = &d
		rec.ExpiryText = norm.String()
	}

	r.agg.Add(status)
	return rec, true
}

// Finish returns the dashboard summary of everything processed so far.
func (r *Run) Finish() model.DashboardSummary {
	return r.agg.Summary(r.detector.Duplicates())
}

// Result is the output of a whole batch.
type Result struct {
	Records []model.InventoryRecord
	Summary model.DashboardSummary
}

// Process runs rows through a fresh Run, preserving input order.
func Process(rows []model.Row, opts Options) Result {
	run := NewRun(opts)
	records := make([]model.InventoryRecord, 0, len(rows))
	for _, row := range rows {
		if rec, ok := run.Process(row); ok {
			records = append(records, rec)
		}
	}
	return Result{Records: records, Summary: run.Finish()}
}
