package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stockcheck-dev/stockcheck/internal/model"
)

// ParseAmount reads a money cell. Numeric cells are taken as-is; text has every
// character except digits, '.' and '-' removed first. Anything that still does
// not parse yields ok=false and a zero amount.
func ParseAmount(c model.Cell) (amount decimal.Decimal, ok bool) {
	switch c.Kind {
	case model.CellNumber:
		return decimal.NewFromFloat(c.Number), true
	case model.CellText:
		s := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' || r == '.' || r == '-' {
				return r
			}
			return -1
		}, strings.TrimSpace(c.Text))
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}
