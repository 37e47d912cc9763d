// Package report renders batch results for callers: a JSON response
// envelope and a flat CSV of standardized transactions.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/cleared-dev/stmtnorm/internal/importer"
	"github.com/cleared-dev/stmtnorm/internal/model"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope returned for one standardization run.
type Response struct {
	Status       string        `json:"status"`
	Summary      Summary       `json:"summary"`
	FileResults  []FileEntry   `json:"file_results"`
	Transactions []Transaction `json:"standardized_transactions"`
}

// Summary repeats the batch totals.
type Summary struct {
	TotalFiles             int                `json:"total_files"`
	SuccessfulFiles        int                `json:"successful_files"`
	FailedFiles            int                `json:"failed_files"`
	TotalTransactions      int                `json:"total_transactions"`
	SuccessfulTransactions int                `json:"successful_transactions"`
	ProcessingSummary      model.BatchSummary `json:"processing_summary"`
}

// FileEntry is a condensed FileResult without the transactions themselves.
type FileEntry struct {
	Filename          string            `json:"filename"`
	SourceType        model.SourceType  `json:"source_type"`
	TransactionCount  int               `json:"transaction_count"`
	FailedCount       int               `json:"failed_count"`
	OriginalError     *string           `json:"original_error"`
	ProcessingSummary model.FileSummary `json:"processing_summary"`
	Failures          []model.Failure   `json:"failed_transactions,omitempty"`
}

// Transaction is a standardized transaction tagged with its source file.
type Transaction struct {
	SourceFile       string                `json:"source_file"`
	TransactionID    string                `json:"transaction_id"`
	TransactionDate  string                `json:"transaction_date"`
	DescriptionRaw   string                `json:"description_raw"`
	DescriptionClean string                `json:"description_clean"`
	Amount           float64               `json:"amount"`
	Currency         string                `json:"currency"`
	TransactionType  model.TransactionType `json:"transaction_type"`
	SourceAccount    string                `json:"source_account"`
	QualityFlags     []model.QualityFlag   `json:"data_quality_flags"`
}

// ErrorResponse is returned when the input could not be read at all.
type ErrorResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	ErrorType    string `json:"error_type"`
}

// NewResponse flattens b into the response envelope.
func NewResponse(b model.BatchResult) Response {
	resp := Response{
		Status: StatusSuccess,
		Summary: Summary{
			TotalFiles:             b.TotalFiles,
			SuccessfulFiles:        b.SuccessfulFiles,
			FailedFiles:            b.FailedFiles,
			TotalTransactions:      b.TotalTransactions,
			SuccessfulTransactions: b.SuccessfulTransactions,
			ProcessingSummary:      b.Summary,
		},
		FileResults:  make([]FileEntry, 0, len(b.FileResults)),
		Transactions: []Transaction{},
	}

	for _, fr := range b.FileResults {
		entry := FileEntry{
			Filename:          fr.Filename,
			SourceType:        fr.SourceType,
			TransactionCount:  len(fr.Successes),
			FailedCount:       len(fr.Failures),
			ProcessingSummary: fr.Summary,
			Failures:          fr.Failures,
		}
		if fr.OriginalError != "" {
			msg := fr.OriginalError
			entry.OriginalError = &msg
		}
		resp.FileResults = append(resp.FileResults, entry)
	}

	for _, fr := range b.FileResults {
		for _, txn := range fr.Successes {
			resp.Transactions = append(resp.Transactions, newTransaction(fr.Filename, txn))
		}
	}
	return resp
}

func newTransaction(file string, t model.StandardizedTransaction) Transaction {
	flags := []model.QualityFlag(t.QualityFlags)
	if flags == nil {
		flags = []model.QualityFlag{}
	}
	return Transaction{
		SourceFile:       file,
		TransactionID:    t.ID,
		TransactionDate:  t.DateString(),
		DescriptionRaw:   t.DescriptionRaw,
		DescriptionClean: t.DescriptionClean,
		Amount:           t.Amount.InexactFloat64(),
		Currency:         t.Currency,
		TransactionType:  t.Type,
		SourceAccount:    t.SourceAccount,
		QualityFlags:     flags,
	}
}

// NewErrorResponse describes a run that failed before any file was read.
func NewErrorResponse(err error) ErrorResponse {
	typ := "DecodeError"
	if errors.Is(err, importer.ErrNotArray) {
		typ = "InvalidInputError"
	}
	return ErrorResponse{Status: StatusError, ErrorMessage: err.Error(), ErrorType: typ}
}

// WriteJSON writes v as indented JSON without HTML escaping, so symbols
// like '&' in descriptions survive as-is.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
