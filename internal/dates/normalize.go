// Package dates turns raw expiry cells into calendar dates.
//
// Text values are matched against a fixed, ordered list of layouts. The first
// layout that consumes the whole string wins. Day-first layouts come before
// month-first ones, so "03/04/2025" is always the 3rd of April.
package dates

import (
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/stockcheck-dev/stockcheck/internal/model"
)

// Kind is the outcome of normalizing one cell.
type Kind int

const (
	// None means no expiry applies (blank cell or a no-expiry word).
	None Kind = iota
	// Parsed means Result.Date holds the normalized date.
	Parsed
	// Failed means the value could not be read as a date.
	Failed
)

// OutputLayout is the textual form of every normalized date.
const OutputLayout = "2006-01-02"

// maxSerial is the first serial past 9999-12-31.
const maxSerial = 2958466

// Result is the normalized form of a raw expiry cell.
type Result struct {
	Kind Kind
	Date time.Time
}

// String returns the date as yyyy-mm-dd, or "" when nothing was parsed.
func (r Result) String() string {
	if r.Kind != Parsed {
		return ""
	}
	return r.Date.Format(OutputLayout)
}

// Layout is one parsing strategy. Pattern names it; Go holds the time
// layouts that implement it, tried in order.
type Layout struct {
	Pattern string
	Go      []string
}

func layout(pattern string, goLayouts ...string) Layout {
	return Layout{Pattern: pattern, Go: goLayouts}
}

// DefaultLayouts is the fixed parsing order. Do not reorder.
// Month-name patterns accept both the abbreviated and the full name, and
// day fields accept one or two digits.
var DefaultLayouts = []Layout{
	layout("D/M/YYYY", "2/1/2006"),
	layout("DD/MM/YYYY", "02/01/2006"),
	layout("DD-MM-YYYY", "02-01-2006"),
	layout("D-M-YYYY", "2-1-2006"),
	layout("D Mon YYYY", "2 Jan 2006", "2 January 2006"),
	layout("DD Mon YYYY", "02 Jan 2006", "02 January 2006"),
	layout("YYYY-MM-DD", "2006-01-02"),
	layout("YYYY/MM/DD", "2006/01/02"),
	layout("MM/DD/YYYY", "01/02/2006"),
	layout("Mon D, YYYY", "Jan 2, 2006", "January 2, 2006"),
	layout("Month D, YYYY", "January 2, 2006", "Jan 2, 2006"),
	layout("Mon D YYYY", "Jan 2 2006", "January 2 2006"),
	layout("Month D YYYY", "January 2 2006", "Jan 2 2006"),
	layout("D-Mon-YYYY", "2-Jan-2006", "2-January-2006"),
	layout("DD Month YYYY", "02 January 2006", "2 January 2006", "2 Jan 2006"),
}

// NoExpiryWords are matched case-insensitively against the trimmed text.
var NoExpiryWords = []string{"no expiry", "none", "n/a", "na"}

// Normalizer converts raw cells to dates in a fixed location.
type Normalizer struct {
	layouts []Layout
	loc     *time.Location
}

// NewNormalizer returns a Normalizer that tries layouts in order. A nil
// location means time.Local; nil layouts means DefaultLayouts.
func NewNormalizer(loc *time.Location, layouts []Layout) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	if layouts == nil {
		layouts = DefaultLayouts
	}
	return &Normalizer{layouts: layouts, loc: loc}
}

// Normalize classifies a raw cell. It is total and deterministic.
func (n *Normalizer) Normalize(c model.Cell) Result {
	switch c.Kind {
	case model.CellBlank:
		return Result{Kind: None}
	case model.CellNumber:
		d, ok := n.fromSerial(c)
		if !ok {
			return Result{Kind: Failed}
		}
		return Result{Kind: Parsed, Date: d}
	default:
		return n.NormalizeText(c.Text)
	}
}

// NormalizeText classifies a textual expiry value.
func (n *Normalizer) NormalizeText(raw string) Result {
	s := strings.TrimSpace(raw)
	if s == "" || IsNoExpiry(s) {
		return Result{Kind: None}
	}
	if d, ok := n.parse(s); ok {
		return Result{Kind: Parsed, Date: d}
	}
	if noComma := strings.ReplaceAll(s, ",", ""); noComma != s {
		if d, ok := n.parse(noComma); ok {
			return Result{Kind: Parsed, Date: d}
		}
	}
	return Result{Kind: Failed}
}

func (n *Normalizer) parse(s string) (time.Time, bool) {
	for _, l := range n.layouts {
		for _, g := range l.Go {
			if d, err := time.ParseInLocation(g, s, n.loc); err == nil {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

func (n *Normalizer) fromSerial(c model.Cell) (time.Time, bool) {
	if c.DateTyped && !c.Date.IsZero() {
		return n.midnight(c.Date), true
	}
	if c.Number < 0 || c.Number >= maxSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(c.Number, false)
	if err != nil {
		return time.Time{}, false
	}
	return n.midnight(t), true
}

func (n *Normalizer) midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, n.loc)
}

// IsNoExpiry reports whether s is one of the no-expiry words.
func IsNoExpiry(s string) bool {
	s = strings.TrimSpace(s)
	for _, w := range NoExpiryWords {
		if strings.EqualFold(s, w) {
			return true
		}
	}
	return false
}
