package inventory

import "strings"

// Detector remembers item names seen so far in one run.
type Detector struct {
	firstSeen  map[string]string // key -> name as first written
	duplicated map[string]bool
	duplicates []string
}

// NewDetector returns an empty Detector.
func NewDetector() *Detector {
	return &Detector{
		firstSeen:  make(map[string]string),
		duplicated: make(map[string]bool),
	}
}

// Key is the identity used for duplicate detection.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Check reports whether name was seen before this call, then records it.
func (d *Detector) Check(name string) bool {
	key := Key(name)
	first, seen := d.firstSeen[key]
	if !seen {
		d.firstSeen[key] = strings.TrimSpace(name)
		return false
	}
	if !d.duplicated[key] {
		d.duplicated[key] = true
		d.duplicates = append(d.duplicates, first)
	}
	return true
}

// Duplicates returns each duplicated name once, in first-collision order,
// spelled as it was first seen.
func (d *Detector) Duplicates() []string {
	out := make([]string, len(d.duplicates))
	copy(out, d.duplicates)
	return out
}
