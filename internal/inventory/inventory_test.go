package inventory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockcheck-dev/stockcheck/internal/dates"
	"github.com/stockcheck-dev/stockcheck/internal/model"
)

var testNow = time.Date(2026, 10, 18, 10, 30, 0, 0, time.UTC)

func parsed(d time.Time) dates.Result {
	return dates.Result{Kind: dates.Parsed, Date: d}
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// row builds an input row in the default column layout.
func row(n int, item string, qty string, cost, sell model.Cell, category string, expiry model.Cell) model.Row {
	return model.Row{Number: n, Cells: []model.Cell{
		model.NumberCell(float64(n - 1)),
		model.TextCell(item),
		model.TextCell(qty),
		cost,
		sell,
		model.Blank(),
		model.TextCell(category),
		expiry,
	}}
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want model.ExpiryStatus
	}{
		{"yesterday", testNow.Add(-day), model.StatusExpired},
		{"today", testNow, model.StatusNearExpiry},
		{"30 days", testNow.Add(30 * day), model.StatusNearExpiry},
		{"30.5 days truncates", testNow.Add(30*day + 12*time.Hour), model.StatusNearExpiry},
		{"31 days", testNow.Add(31 * day), model.StatusValid},
		{"long ago", testNow.AddDate(-1, 0, 0), model.StatusExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(parsed(tt.date), testNow, DefaultNearExpiryDays))
		})
	}
}

func TestClassify_NoneAndFailed(t *testing.T) {
	assert.Equal(t, model.StatusNoExpiry, Classify(dates.Result{Kind: dates.None}, testNow, 30))
	assert.Equal(t, model.StatusInvalidDate, Classify(dates.Result{Kind: dates.Failed}, testNow, 30))
}

func TestClassify_CustomThreshold(t *testing.T) {
	assert.Equal(t, model.StatusValid, Classify(parsed(testNow.Add(8*day)), testNow, 7))
	assert.Equal(t, model.StatusNearExpiry, Classify(parsed(testNow.Add(7*day)), testNow, 7))
}

func TestDaysUntil_TruncatesTowardZero(t *testing.T) {
	assert.Equal(t, int64(0), DaysUntil(testNow.Add(-10*time.Hour), testNow))
	assert.Equal(t, int64(-1), DaysUntil(testNow.Add(-34*time.Hour), testNow))
	assert.Equal(t, int64(4), DaysUntil(testNow.Add(4*day+23*time.Hour), testNow))
}

func TestDetector(t *testing.T) {
	d := NewDetector()
	var flags []bool
	for _, name := range []string{"Rice", "rice ", "Oats", "RICE"} {
		flags = append(flags, d.Check(name))
	}
	assert.Equal(t, []bool{false, true, false, true}, flags)
	assert.Equal(t, []string{"Rice"}, d.Duplicates())
}

func TestDetector_OrderOfDuplicates(t *testing.T) {
	d := NewDetector()
	for _, name := range []string{"Oats", "Rice", "rice", "oats", "Tea", "OATS"} {
		d.Check(name)
	}
	assert.Equal(t, []string{"Rice", "Oats"}, d.Duplicates())
}

func TestDetector_DuplicatesIsCopy(t *testing.T) {
	d := NewDetector()
	d.Check("a")
	d.Check("A")
	got := d.Duplicates()
	got[0] = "changed"
	assert.Equal(t, []string{"a"}, d.Duplicates())
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name   string
		status model.ExpiryStatus
		profit string
		want   string
	}{
		{"expired beats profit", model.StatusExpired, "100", "reorder: Milk"},
		{"expired low profit", model.StatusExpired, "1", "reorder: Milk"},
		{"near expiry", model.StatusNearExpiry, "1", RecDiscount},
		{"low profit", model.StatusValid, "4.99", RecLowProfit},
		{"negative profit", model.StatusNoExpiry, "-2", RecLowProfit},
		{"threshold is not low", model.StatusValid, "5", RecStockOK},
		{"invalid date ok profit", model.StatusInvalidDate, "10", RecStockOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recommend(tt.status, dec(tt.profit), "Milk", DefaultLowProfit))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		cell   model.Cell
		want   string
		wantOK bool
	}{
		{model.NumberCell(12.5), "12.5", true},
		{model.TextCell("$1,250.75"), "1250.75", true},
		{model.TextCell(" -3 "), "-3", true},
		{model.TextCell("abc"), "0", false},
		{model.TextCell("1.2.3"), "0", false},
		{model.Blank(), "0", false},
		{model.Cell{Kind: model.CellBool, Text: "TRUE"}, "0", false},
	}
	for _, tt := range tests {
		got, ok := ParseAmount(tt.cell)
		assert.Equal(t, tt.wantOK, ok, tt.cell.String())
		assert.True(t, dec(tt.want).Equal(got), "%q: got %s", tt.cell.String(), got)
	}
}

func TestAggregator(t *testing.T) {
	a := NewAggregator()
	a.Add(model.StatusExpired)
	a.Add(model.StatusExpired)
	a.Add(model.StatusValid)
	a.Add(model.StatusInvalidDate)
	a.Skip()

	s := a.Summary(nil)
	assert.Equal(t, 2, s.Counts[model.StatusExpired])
	assert.Equal(t, 0, s.Counts[model.StatusNearExpiry])
	assert.Equal(t, 1, s.Counts[model.StatusValid])
	assert.Equal(t, 1, s.Invalid)
	assert.Equal(t, 4, s.Processed)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, a.Count(model.StatusInvalidDate))
	assert.Equal(t, s.Processed-s.Invalid, s.DashboardTotal())
}

func TestProcess_EndToEnd(t *testing.T) {
	expiry := testNow.AddDate(0, 0, 5).Format("2006-01-02")
	rows := []model.Row{
		row(2, "Milk", "10", model.NumberCell(20), model.NumberCell(18), "Dairy", model.TextCell(expiry)),
		row(3, "Milk", "5", model.NumberCell(20), model.NumberCell(30), "Dairy", model.TextCell("none")),
	}

	res := Process(rows, DefaultOptions(testNow))
	require.Len(t, res.Records, 2)

	first := res.Records[0]
	assert.True(t, dec("-2").Equal(first.Profit), first.Profit.String())
	assert.Equal(t, model.StatusNearExpiry, first.ExpiryStatus)
	assert.False(t, first.IsDuplicate)
	assert.Equal(t, RecDiscount, first.Recommendation)
	assert.Equal(t, expiry, first.ExpiryText)
	require.NotNil(t, first.NormalizedExpiry)

	second := res.Records[1]
	assert.True(t, dec("10").Equal(second.Profit), second.Profit.String())
	assert.Equal(t, model.StatusNoExpiry, second.ExpiryStatus)
	assert.True(t, second.IsDuplicate)
	assert.Equal(t, RecStockOK, second.Recommendation)
	assert.Nil(t, second.NormalizedExpiry)
	assert.Equal(t, "none", second.ExpiryText)

	assert.Equal(t, 1, res.Summary.Counts[model.StatusNearExpiry])
	assert.Equal(t, 1, res.Summary.Counts[model.StatusNoExpiry])
	assert.Equal(t, []string{"Milk"}, res.Summary.Duplicates)
}

func TestProcess_SkipsBlankNames(t *testing.T) {
	rows := []model.Row{
		row(2, "  ", "1", model.NumberCell(1), model.NumberCell(2), "X", model.Blank()),
		row(3, "Tea", "1", model.NumberCell(1), model.NumberCell(20), "Drinks", model.Blank()),
		{Number: 4},
	}
	res := Process(rows, DefaultOptions(testNow))
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Tea", res.Records[0].ItemName)
	assert.Equal(t, 1, res.Summary.Processed)
	assert.Equal(t, 2, res.Summary.Skipped)
	assert.Equal(t, 1, res.Summary.DashboardTotal())
}

func TestProcess_BadAmountsDefaultToZero(t *testing.T) {
	rows := []model.Row{
		row(2, "Soap", "3", model.TextCell("n/a"), model.TextCell("Rs 12"), "Home", model.Blank()),
	}
	res := Process(rows, DefaultOptions(testNow))
	require.Len(t, res.Records, 1)
	rec := res.Records[0]
	assert.True(t, rec.Cost.IsZero())
	assert.True(t, dec("12").Equal(rec.SellPrice))
	assert.True(t, rec.Profit.Equal(rec.SellPrice.Sub(rec.Cost)))
}

func TestProcess_InvalidDateStillEmitted(t *testing.T) {
	rows := []model.Row{
		row(2, "Bread", "2", model.NumberCell(1), model.NumberCell(3), "Bakery", model.TextCell("someday")),
	}
	res := Process(rows, DefaultOptions(testNow))
	require.Len(t, res.Records, 1)
	rec := res.Records[0]
	assert.Equal(t, model.StatusInvalidDate, rec.ExpiryStatus)
	assert.Equal(t, "someday", rec.ExpiryText)
	assert.Equal(t, RecLowProfit, rec.Recommendation)
	assert.Equal(t, 1, res.Summary.Invalid)
	assert.Equal(t, 0, res.Summary.DashboardTotal())
}

func TestProcess_AggregateConsistency(t *testing.T) {
	rows := []model.Row{
		row(2, "A", "1", model.NumberCell(1), model.NumberCell(10), "c", model.TextCell("2020-01-01")),
		row(3, "B", "1", model.NumberCell(1), model.NumberCell(10), "c", model.TextCell("2030-01-01")),
		row(4, "C", "1", model.NumberCell(1), model.NumberCell(10), "c", model.TextCell("N/A")),
		row(5, "D", "1", model.NumberCell(1), model.NumberCell(10), "c", model.TextCell("bad")),
		row(6, "", "1", model.NumberCell(1), model.NumberCell(10), "c", model.TextCell("bad")),
		row(7, "E", "1", model.NumberCell(1), model.NumberCell(10), "c", model.NumberCell(46320)),
	}
	res := Process(rows, DefaultOptions(testNow))
	s := res.Summary
	assert.Equal(t, len(res.Records), s.Processed)
	assert.Equal(t, s.Processed-s.Invalid, s.DashboardTotal())
	assert.Equal(t, 1, s.Counts[model.StatusExpired])
	assert.Equal(t, 1, s.Counts[model.StatusValid])
	// serial 46320 is 2026-10-25
	assert.Equal(t, 1, s.Counts[model.StatusNearExpiry])
	assert.Equal(t, 1, s.Counts[model.StatusNoExpiry])
	assert.Equal(t, 1, s.Invalid)

	for _, rec := range res.Records {
		assert.True(t, rec.Profit.Equal(rec.SellPrice.Sub(rec.Cost)))
	}
}

func TestProcess_ExpiredProfitableIsReordered(t *testing.T) {
	rows := []model.Row{
		row(2, "Cheese", "1", model.NumberCell(10), model.NumberCell(110), "Dairy", model.TextCell("1 Jan 2020")),
	}
	res := Process(rows, DefaultOptions(testNow))
	require.Len(t, res.Records, 1)
	assert.Equal(t, model.StatusExpired, res.Records[0].ExpiryStatus)
	assert.Equal(t, "reorder: Cheese", res.Records[0].Recommendation)
}

func TestProcess_FreshStatePerRun(t *testing.T) {
	rows := []model.Row{
		row(2, "Milk", "1", model.NumberCell(1), model.NumberCell(10), "Dairy", model.Blank()),
	}
	opts := DefaultOptions(testNow)
	first := Process(rows, opts)
	second := Process(rows, opts)
	assert.False(t, first.Records[0].IsDuplicate)
	assert.False(t, second.Records[0].IsDuplicate)
	assert.Empty(t, second.Summary.Duplicates)
}

func TestProcess_CustomColumns(t *testing.T) {
	opts := DefaultOptions(testNow)
	opts.Columns = Columns{Serial: -1, Item: 0, Quantity: 1, Cost: 2, Sell: 3, Category: 4, Expiry: 5}
	rows := []model.Row{{Number: 2, Cells: []model.Cell{
		model.TextCell("Jam"),
		model.NumberCell(4),
		model.NumberCell(2),
		model.NumberCell(9),
		model.TextCell("Pantry"),
		model.TextCell("2030-05-01"),
	}}}
	res := Process(rows, opts)
	require.Len(t, res.Records, 1)
	rec := res.Records[0]
	assert.Equal(t, "Jam", rec.ItemName)
	assert.Equal(t, "4", rec.Quantity)
	assert.Equal(t, "", rec.Serial)
	assert.Equal(t, model.StatusValid, rec.ExpiryStatus)
	assert.Equal(t, RecStockOK, rec.Recommendation)
}

func TestColumnsTitles(t *testing.T) {
	header := []string{"S.No", " Item ", "Qty", "Cost", "Sell", "Old Profit", "Category", "Expiry"}
	assert.Equal(t,
		[]string{"S.No", "Item", "Qty", "Cost", "Sell", "", "Category", "Expiry"},
		DefaultColumns.Titles(header))

	custom := Columns{Serial: -1, Item: 0, Quantity: 1, Cost: 2, Sell: 3, Category: 9, Expiry: 4}
	assert.Equal(t,
		[]string{"", "S.No", "Item", "Qty", "Cost", "", "", "Sell"},
		custom.Titles(header))

	assert.Equal(t, make([]string, 8), DefaultColumns.Titles(nil))
}
