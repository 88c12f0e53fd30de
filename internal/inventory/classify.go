package inventory

import (
	"time"

	"github.com/stockcheck-dev/stockcheck/internal/dates"
	"github.com/stockcheck-dev/stockcheck/internal/model"
)

// DefaultNearExpiryDays is the last day (inclusive) still counted as near expiry.
const DefaultNearExpiryDays = 30

const day = 24 * time.Hour

// DaysUntil returns whole days from now to d, truncated toward zero.
func DaysUntil(d, now time.Time) int64 {
	return int64(d.Sub(now) / day)
}

// Classify maps a normalized expiry to a status. nearDays is inclusive.
func Classify(res dates.Result, now time.Time, nearDays int) model.ExpiryStatus {
	switch res.Kind {
	case dates.None:
		return model.StatusNoExpiry
	case dates.Failed:
		return model.StatusInvalidDate
	}

	days := DaysUntil(res.Date, now)
	switch {
	case days < 0:
		return model.StatusExpired
	case days <= int64(nearDays):
		return model.StatusNearExpiry
	default:
		return model.StatusValid
	}
}
