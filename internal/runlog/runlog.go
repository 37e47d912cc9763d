// Package runlog keeps an append-only CSV audit trail of standardization
// runs over a project's import directory.
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

	"github.com/cleared-dev/stmtnorm/internal/model"
)

// Entry is one row in the run log: one input file of one run.
type Entry struct {
	Timestamp              time.Time
	RunID                  string
	InputFile              string
	Files                  int
	FailedFiles            int
	Transactions           int
	SuccessfulTransactions int
}

// Header is the CSV header for standardize-log.csv.
const Header = "timestamp,run_id,input_file,files,failed_files,transactions,successful_transactions"

const (
	numFields     = 7
	logDir        = "logs"
	logFile       = "logs/standardize-log.csv"
	colTimestamp  = 0
	colRunID      = 1
	colInputFile  = 2
	colFiles      = 3
	colFailed     = 4
	colTxns       = 5
	colSuccessful = 6
)

// NewEntry tallies the file results that came from one input file.
func NewEntry(ts time.Time, runID, inputFile string, results []model.FileResult) Entry {
	e := Entry{Timestamp: ts, RunID: runID, InputFile: inputFile, Files: len(results)}
	for _, r := range results {
		if r.OriginalError != "" {
			e.FailedFiles++
		}
		e.Transactions += r.Summary.TotalTransactions
		e.SuccessfulTransactions += r.Summary.SuccessfulCount
	}
	return e
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colInputFile] = e.InputFile
	row[colFiles] = strconv.Itoa(e.Files)
	row[colFailed] = strconv.Itoa(e.FailedFiles)
	row[colTxns] = strconv.Itoa(e.Transactions)
	row[colSuccessful] = strconv.Itoa(e.SuccessfulTransactions)
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

	counts := make([]int, 0, 4)
	for _, col := range []int{colFiles, colFailed, colTxns, colSuccessful} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
		counts = append(counts, n)
	}

	return Entry{
		Timestamp:              ts,
		RunID:                  record[colRunID],
		InputFile:              record[colInputFile],
		Files:                  counts[0],
		FailedFiles:            counts[1],
		Transactions:           counts[2],
		SuccessfulTransactions: counts[3],
	}, nil
}

// Append writes entries to <root>/logs/standardize-log.csv, creating the
// file and header if needed.
func Append(root string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Join(root, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
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
	return cw.Error()
}

// Read returns all entries from <root>/logs/standardize-log.csv, or nil
// if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
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
