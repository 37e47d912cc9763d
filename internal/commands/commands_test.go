package commands_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/stmtnorm/internal/commands"
	"github.com/cleared-dev/stmtnorm/internal/config"
	"github.com/cleared-dev/stmtnorm/internal/report"
	"github.com/cleared-dev/stmtnorm/internal/runlog"
)

const fixture = "../../testdata/parser_output.json"

func runStmtnorm(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestStandardize_File(t *testing.T) {
	out, _, err := runStmtnorm(t, "", "standardize", fixture, "--log-level", "disabled")
	require.NoError(t, err)

	var resp report.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, report.StatusSuccess, resp.Status)
	assert.Equal(t, 4, resp.Summary.TotalFiles)
	assert.Equal(t, 1, resp.Summary.FailedFiles)
	assert.Len(t, resp.Transactions, 5)
	assert.Equal(t, "bank_statement.csv", resp.Transactions[0].SourceFile)
	assert.Equal(t, 15000.0, resp.Transactions[0].Amount)
}

func TestStandardize_Stdin(t *testing.T) {
	in := `[{"filename": "note.txt", "extracted_text": "19.06.2025 Оплата за хостинг 15 000 тг"}]`
	out, _, err := runStmtnorm(t, in, "standardize", "--log-level", "disabled")
	require.NoError(t, err)

	var resp report.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.FileResults, 1)
	assert.Equal(t, "text", string(resp.FileResults[0].SourceType))
	assert.Equal(t, 1, resp.FileResults[0].TransactionCount)
}

func TestStandardize_NotArray(t *testing.T) {
	_, errOut, err := runStmtnorm(t, `{"filename": "a.csv"}`, "standardize", "--log-level", "disabled")
	require.Error(t, err)

	var resp report.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(errOut[strings.Index(errOut, "{"):strings.LastIndex(errOut, "}")+1]), &resp))
	assert.Equal(t, report.StatusError, resp.Status)
	assert.Equal(t, "InvalidInputError", resp.ErrorType)
}

func TestStandardize_CSV(t *testing.T) {
	out, _, err := runStmtnorm(t, "", "standardize", fixture, "--format", "csv", "--log-level", "disabled")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, report.Header, strings.Join(records[0], ","))
	assert.Equal(t, "15000.00", records[1][5])
}

func TestStandardize_Stats(t *testing.T) {
	out, _, err := runStmtnorm(t, "", "standardize", fixture, "--stats", "--log-level", "disabled")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "success", decoded["status"])
	stats := decoded["statistics"].(map[string]any)
	assert.Equal(t, 1.25, stats["average_transactions_per_file"])
	assert.Equal(t, map[string]any{"DEBIT": 4.0, "CREDIT": 1.0}, stats["transaction_types_distribution"])
}

func TestStandardize_BadFormat(t *testing.T) {
	_, _, err := runStmtnorm(t, "", "standardize", fixture, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestStandardize_DirMoveProcessed(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runStmtnorm(t, "", "init", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(fixture)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "batch1.json"), data, 0o644))

	outPath := filepath.Join(dir, "out.json")
	_, _, err = runStmtnorm(t, "", "standardize",
		"--dir", dir, "--move-processed", "--output", outPath,
		"--config", filepath.Join(dir, config.FileName),
		"--log-level", "disabled")
	require.NoError(t, err)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var resp report.Response
	require.NoError(t, json.Unmarshal(written, &resp))
	assert.Equal(t, 5, resp.Summary.SuccessfulTransactions)

	_, err = os.Stat(filepath.Join(dir, "import", "batch1.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "batch1.json"))
	assert.NoError(t, err)

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "batch1.json", entries[0].InputFile)
	assert.Equal(t, 4, entries[0].Files)
	assert.Equal(t, 1, entries[0].FailedFiles)
	assert.Equal(t, 5, entries[0].SuccessfulTransactions)
	assert.NotEmpty(t, entries[0].RunID)
}

func TestStandardize_MoveProcessedNeedsDir(t *testing.T) {
	_, _, err := runStmtnorm(t, "", "standardize", fixture, "--move-processed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--move-processed requires --dir")
}

func TestStandardize_LogsToStderr(t *testing.T) {
	_, errOut, err := runStmtnorm(t, "", "standardize", fixture, "--log-level", "info")
	require.NoError(t, err)
	assert.Contains(t, errOut, "batch standardized")
}

func TestStandardize_MissingConfig(t *testing.T) {
	_, _, err := runStmtnorm(t, "", "standardize", fixture, "--config", filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestHealth(t *testing.T) {
	out, _, err := runStmtnorm(t, "", "health")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "healthy", decoded["status"])
	assert.Equal(t, "ready", decoded["processors"].(map[string]any)["text_extractor"])
}

func TestFormats(t *testing.T) {
	out, _, err := runStmtnorm(t, "", "formats")
	require.NoError(t, err)
	assert.Contains(t, out, `"DD.MM.YYYY"`)
	assert.Contains(t, out, `"тенге"`)
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, _, err := runStmtnorm(t, "", "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized stmtnorm project")

	for _, d := range []string{"import", filepath.Join("import", "processed")} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "KZT", cfg.Currency.Default)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runStmtnorm(t, "", "init", dir)
	require.NoError(t, err)

	_, _, err = runStmtnorm(t, "", "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = runStmtnorm(t, "", "init", dir, "--force")
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := runStmtnorm(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "stmtnorm version")
}
