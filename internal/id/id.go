package id

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	reportMarker = "-processed-"
	stampLayout  = "20060102-150405"
	reportExt    = ".xlsx"
)

// NewRunID returns a random identifier for one processing run.
func NewRunID() string {
	return uuid.NewString()
}

// ValidRunID reports whether s is a run ID produced by NewRunID.
func ValidRunID(s string) bool {
	return uuid.Validate(s) == nil
}

// ReportName returns the workbook name for source processed at at.
// "import/shop.xlsx" at 2026-10-18 10:30:00 -> "shop-processed-20261018-103000.xlsx"
func ReportName(source string, at time.Time) string {
	return Stem(source) + reportMarker + at.Format(stampLayout) + reportExt
}

// Stem strips directory and extension from a path.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseReportName splits a report name into its source stem and timestamp.
// The timestamp is interpreted in loc.
func ParseReportName(name string, loc *time.Location) (stem string, at time.Time, err error) {
	base := strings.TrimSuffix(filepath.Base(name), reportExt)
	i := strings.LastIndex(base, reportMarker)
	if i <= 0 {
		return "", time.Time{}, fmt.Errorf("invalid report name: %q", name)
	}

	at, err = time.ParseInLocation(stampLayout, base[i+len(reportMarker):], loc)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid timestamp in report name %q: %w", name, err)
	}
	return base[:i], at, nil
}
