package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/stmtnorm/internal/model"
)

var testTime = time.Date(2025, 6, 19, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp:              testTime,
		RunID:                  "9f1c2a4e-run",
		InputFile:              "batch1.json",
		Files:                  4,
		FailedFiles:            1,
		Transactions:           5,
		SuccessfulTransactions: 5,
	}
}

func TestNewEntry(t *testing.T) {
	e := NewEntry(testTime, "r1", "batch1.json", []model.FileResult{
		{Summary: model.FileSummary{TotalTransactions: 3, SuccessfulCount: 2, FailedCount: 1}},
		{OriginalError: "unreadable"},
		{Summary: model.FileSummary{Warning: "No transactions found in file"}},
	})
	assert.Equal(t, 3, e.Files)
	assert.Equal(t, 1, e.FailedFiles)
	assert.Equal(t, 3, e.Transactions)
	assert.Equal(t, 2, e.SuccessfulTransactions)
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, testEntry(), entries[0])
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.InputFile = "batch2.json"
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "batch1.json", entries[0].InputFile)
	assert.Equal(t, "batch2.json", entries[1].InputFile)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "standardize-log.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "standardize-log.csv"), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.ErrorContains(t, err, "expected 7 fields")

	row := MarshalEntry(testEntry())
	row[colFiles] = "many"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing count")
}

func TestTimestampFormat(t *testing.T) {
	e := testEntry()
	e.Timestamp = time.Date(2025, 6, 19, 15, 30, 0, 0, time.FixedZone("ALMT", 5*3600))
	assert.Equal(t, "2025-06-19T10:30:00Z", MarshalEntry(e)[colTimestamp])
}
