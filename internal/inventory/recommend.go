package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/stockcheck-dev/stockcheck/internal/model"
)

// DefaultLowProfit is the profit below which a price review is suggested.
var DefaultLowProfit = decimal.NewFromInt(5)

const reorderPrefix = "reorder: "

// Fixed recommendation texts for near-expiry, low-profit and healthy items.
const (
	RecDiscount  = "discount / move to front"
	RecLowProfit = "low profit — review price"
	RecStockOK   = "stock OK"
)

// Reorder returns the reorder recommendation for itemName.
func Reorder(itemName string) string {
	return reorderPrefix + itemName
}

// Recommend picks one stocking action. Rules are checked in order and the
// first match wins: expired items are reordered even when highly profitable.
func Recommend(status model.ExpiryStatus, profit decimal.Decimal, itemName string, lowProfit decimal.Decimal) string {
	switch {
	case status == model.StatusExpired:
		return Reorder(itemName)
	case status == model.StatusNearExpiry:
		return RecDiscount
	case profit.LessThan(lowProfit):
		return RecLowProfit
	default:
		return RecStockOK
	}
}
