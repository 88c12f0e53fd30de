package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stockcheck-dev/stockcheck/internal/model"
)

// Header is the CSV header for an enriched records export.
const Header = "row,serial,item,quantity,cost,sell_price,profit,category,expiry,expiry_status,duplicate,recommendation"

const (
	numFields    = 12
	colRow       = 0
	colSerial    = 1
	colItem      = 2
	colQuantity  = 3
	colCost      = 4
	colSell      = 5
	colProfit    = 6
	colCategory  = 7
	colExpiry    = 8
	colStatus    = 9
	colDuplicate = 10
	colRecommend = 11
)

// SummaryHeader is the CSV header for the dashboard export.
const SummaryHeader = "expiry_status,count"

// MarshalRecord converts a record to a CSV row.
func MarshalRecord(rec model.InventoryRecord) []string {
	row := make([]string, numFields)
	row[colRow] = strconv.Itoa(rec.RowNumber)
	row[colSerial] = rec.Serial
	row[colItem] = rec.ItemName
	row[colQuantity] = rec.Quantity
	row[colCost] = rec.Cost.String()
	row[colSell] = rec.SellPrice.String()
	row[colProfit] = rec.Profit.String()
	row[colCategory] = rec.Category
	row[colExpiry] = rec.ExpiryText
	row[colStatus] = rec.ExpiryStatus.String()
	row[colDuplicate] = yesNo(rec.IsDuplicate)
	row[colRecommend] = rec.Recommendation
	return row
}

// WriteCSV writes records with a header row.
func WriteCSV(w io.Writer, records []model.InventoryRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, rec := range records {
		if err := cw.Write(MarshalRecord(rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes the four dashboard counters followed by the
// invalid-date count.
func WriteSummaryCSV(w io.Writer, s model.DashboardSummary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(SummaryHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range s.Rows() {
		if err := cw.Write([]string{r.Status.String(), strconv.Itoa(r.Count)}); err != nil {
			return fmt.Errorf("writing %s: %w", r.Status, err)
		}
	}
	if err := cw.Write([]string{model.StatusInvalidDate.String(), strconv.Itoa(s.Invalid)}); err != nil {
		return fmt.Errorf("writing %s: %w", model.StatusInvalidDate, err)
	}
	cw.Flush()
	return cw.Error()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
