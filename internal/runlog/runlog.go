// Package runlog keeps an append-only CSV history of processing runs.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/stockcheck-dev/stockcheck/internal/model"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp  time.Time
	RunID      string
	Source     string
	Processed  int
	Skipped    int
	Expired    int
	NearExpiry int
	Valid      int
	NoExpiry   int
	Invalid    int
	Duplicates int
	Report     string
	CommitHash string
}

// NewEntry fills counts from a finished run's summary.
func NewEntry(at time.Time, runID, source, report string, s model.DashboardSummary) Entry {
	return Entry{
		Timestamp:  at,
		RunID:      runID,
		Source:     source,
		Processed:  s.Processed,
		Skipped:    s.Skipped,
		Expired:    s.Counts[model.StatusExpired],
		NearExpiry: s.Counts[model.StatusNearExpiry],
		Valid:      s.Counts[model.StatusValid],
		NoExpiry:   s.Counts[model.StatusNoExpiry],
		Invalid:    s.Invalid,
		Duplicates: len(s.Duplicates),
		Report:     report,
	}
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run_id,source,processed,skipped,expired,near_expiry,valid,no_expiry,invalid,duplicates,report,commit_hash"

const (
	numFields     = 13
	logDir        = "logs"
	logFile       = "logs/run-log.csv"
	colTimestamp  = 0
	colRunID      = 1
	colSource     = 2
	colProcessed  = 3
	colSkipped    = 4
	colExpired    = 5
	colNear       = 6
	colValid      = 7
	colNoExpiry   = 8
	colInvalid    = 9
	colDuplicates = 10
	colReport     = 11
	colCommitHash = 12
)

// countCols are the integer columns, in order.
var countCols = []int{colProcessed, colSkipped, colExpired, colNear, colValid, colNoExpiry, colInvalid, colDuplicates}

func (e *Entry) counts() []*int {
	return []*int{&e.Processed, &e.Skipped, &e.Expired, &e.NearExpiry, &e.Valid, &e.NoExpiry, &e.Invalid, &e.Duplicates}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colSource] = e.Source
	for i, p := range e.counts() {
		row[countCols[i]] = strconv.Itoa(*p)
	}
	row[colReport] = e.Report
	row[colCommitHash] = e.CommitHash
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	e := Entry{
		Timestamp:  ts,
		RunID:      record[colRunID],
		Source:     record[colSource],
		Report:     record[colReport],
		CommitHash: record[colCommitHash],
	}
	for i, p := range e.counts() {
		v := record[countCols[i]]
		n, err := strconv.Atoi(v)
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", v, err)
		}
		*p = n
	}
	return e, nil
}

// Append writes entries to <repoRoot>/logs/run-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	if err := writeEntries(f, entries, needsHeader); err != nil {
		return err
	}
	return f.Close()
}

func writeEntries(w io.Writer, entries []Entry, header bool) error {
	cw := csv.NewWriter(w)

	if header {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing run log: %w", err)
	}
	return nil
}

// Read returns all entries from <repoRoot>/logs/run-log.csv.
// Returns an empty slice if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	path := filepath.Join(repoRoot, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
