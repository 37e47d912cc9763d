// Package standardize turns parser output into standardized transactions.
package standardize

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/stmtnorm/internal/config"
	"github.com/cleared-dev/stmtnorm/internal/id"
	"github.com/cleared-dev/stmtnorm/internal/importer"
	"github.com/cleared-dev/stmtnorm/internal/logger"
	"github.com/cleared-dev/stmtnorm/internal/model"
	"github.com/cleared-dev/stmtnorm/internal/normalize"
	"github.com/cleared-dev/stmtnorm/internal/textextract"
)

// NoTransactionsWarning is attached to files that yielded no rows at all.
const NoTransactionsWarning = "No transactions found in file"

// Service runs the normalizers over rows, files and batches. All of its
// state is read-only after NewService, so one Service may serve many
// goroutines.
type Service struct {
	dates        *normalize.DateNormalizer
	amounts      *normalize.AmountNormalizer
	descriptions *normalize.DescriptionNormalizer
	currencies   *normalize.CurrencyTable
	extractor    *textextract.Extractor
	decoder      *importer.Decoder

	ids           id.Generator
	sourceAccount string
	workers       int
	keywords      config.ExtractionConfig
}

type options struct {
	ids      id.Generator
	now      func() time.Time
	tieBreak normalize.TieBreakPolicy
}

// Option configures a Service.
type Option func(*options)

// WithIDGenerator replaces the random transaction id source.
func WithIDGenerator(g id.Generator) Option {
	return func(o *options) { o.ids = g }
}

// WithClock sets the instant used for unparseable dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithTieBreak sets how equal debit and credit columns are classified.
func WithTieBreak(p normalize.TieBreakPolicy) Option {
	return func(o *options) { o.tieBreak = p }
}

// NewService builds a Service from cfg. cfg is read once; later changes
// to it have no effect.
func NewService(cfg *config.Config, opts ...Option) (*Service, error) {
	o := options{ids: id.UUIDGenerator{}, now: time.Now, tieBreak: normalize.TieBreakDebit}
	for _, opt := range opts {
		opt(&o)
	}

	decoder, err := importer.NewDecoder()
	if err != nil {
		return nil, err
	}

	currencies := normalize.DefaultCurrencyTable()
	return &Service{
		dates: normalize.NewDateNormalizer(o.now),
		amounts: normalize.NewAmountNormalizer(currencies,
			normalize.WithDefaultCurrency(cfg.Currency.Default),
			normalize.WithTieBreak(o.tieBreak),
		),
		descriptions:  normalize.NewDescriptionNormalizer(),
		currencies:    currencies,
		extractor:     textextract.New(cfg.Extraction, currencies),
		decoder:       decoder,
		ids:           o.ids,
		sourceAccount: cfg.Processing.SourceAccount,
		workers:       max(1, cfg.Processing.Workers),
		keywords:      cfg.Extraction,
	}, nil
}

// ProcessTransaction normalizes one raw row. The only error is a
// ShapeError; soft problems become quality flags.
func (s *Service) ProcessTransaction(r model.RawRecord) (model.StandardizedTransaction, error) {
	if err := validateShape(r); err != nil {
		return model.StandardizedTransaction{}, err
	}

	date, dateFlags := s.dates.NormalizeField(r.TransactionDate)
	descRaw, descClean, descFlags := s.descriptions.Clean(r.Description.Text)

	var (
		amount      decimal.Decimal
		txnType     model.TransactionType
		amountFlags []model.QualityFlag
	)
	if !r.Amount.IsAbsent() {
		amount, txnType, amountFlags = s.amounts.ResolveSingleAmount(r.Amount)
	} else {
		amount, txnType, amountFlags = s.amounts.ResolveDebitCredit(r.Debit, r.Credit)
	}

	currency, currencyFlags := s.amounts.StandardizeCurrency(r.Currency, currencyContext(r))

	return model.StandardizedTransaction{
		ID:               s.ids.NewID(),
		Date:             date,
		DescriptionRaw:   descRaw,
		DescriptionClean: descClean,
		Amount:           amount,
		Currency:         currency,
		Type:             txnType,
		SourceAccount:    s.sourceAccount,
		QualityFlags:     model.UnionFlags(dateFlags, descFlags, amountFlags, currencyFlags),
	}, nil
}

// currencyContext is the text scanned for a currency symbol: the currency
// column itself, else the first populated amount column.
func currencyContext(r model.RawRecord) string {
	if r.Currency.Truthy() {
		return r.Currency.Text
	}
	for _, f := range []model.Field{r.Debit, r.Credit, r.Amount} {
		if f.Truthy() {
			return f.String()
		}
	}
	return ""
}

// RowsResult is the outcome of normalizing a list of rows.
type RowsResult struct {
	Successes []model.StandardizedTransaction
	Failures  []model.Failure
	Summary   model.FileSummary
}

// ProcessRows normalizes every row, recording failures by index instead of
// stopping at the first one.
func (s *Service) ProcessRows(rows []model.RawRecord) RowsResult {
	res := RowsResult{
		Successes: make([]model.StandardizedTransaction, 0, len(rows)),
		Failures:  []model.Failure{},
	}
	for i, r := range rows {
		txn, err := s.ProcessTransaction(r)
		if err != nil {
			res.Failures = append(res.Failures, model.Failure{
				Index:        i,
				OriginalData: r,
				Error:        err.Error(),
				ErrorType:    errorType(err),
			})
			continue
		}
		res.Successes = append(res.Successes, txn)
	}
	res.Summary = model.FileSummary{
		TotalTransactions: len(rows),
		SuccessfulCount:   len(res.Successes),
		FailedCount:       len(res.Failures),
		SuccessRate:       percent(len(res.Successes), len(rows)),
	}
	return res
}

func errorType(err error) string {
	var se ShapeError
	if errors.As(err, &se) {
		return ErrorTypeShape
	}
	return "ProcessingError"
}

// ProcessFile standardizes one parsed file: its table rows followed by
// the rows mined from its text.
func (s *Service) ProcessFile(ctx context.Context, f model.FileRecord) model.FileResult {
	log := logger.FromContext(ctx).With().Str("filename", f.Filename).Logger()

	if f.HasError() {
		log.Debug().Str("error", *f.Error).Msg("skipping file with upstream error")
		return model.FileResult{
			Filename:      f.Filename,
			SourceType:    model.SourceError,
			Successes:     []model.StandardizedTransaction{},
			Failures:      []model.Failure{},
			OriginalError: *f.Error,
		}
	}

	var rows []model.RawRecord
	for _, table := range f.Tables {
		rows = append(rows, table...)
	}
	source := model.SourceUnknown
	if len(rows) > 0 {
		source = model.SourceTable
	}

	if mined := s.extractor.Extract(f.Text); len(mined) > 0 {
		rows = append(rows, mined...)
		if source == model.SourceTable {
			source = model.SourceMixed
		} else {
			source = model.SourceText
		}
		log.Debug().Int("rows", len(mined)).Msg("mined transactions from text")
	}

	if len(rows) == 0 {
		log.Debug().Msg("no transactions found")
		return model.FileResult{
			Filename:   f.Filename,
			SourceType: source,
			Successes:  []model.StandardizedTransaction{},
			Failures:   []model.Failure{},
			Summary:    model.FileSummary{Warning: NoTransactionsWarning},
		}
	}

	res := s.ProcessRows(rows)
	log.Debug().
		Str("source_type", string(source)).
		Int("successful", res.Summary.SuccessfulCount).
		Int("failed", res.Summary.FailedCount).
		Msg("file standardized")
	return model.FileResult{
		Filename:   f.Filename,
		SourceType: source,
		Successes:  res.Successes,
		Failures:   res.Failures,
		Summary:    res.Summary,
	}
}

// ProcessBatch standardizes files concurrently and aggregates the results.
// File results keep the input order.
func (s *Service) ProcessBatch(ctx context.Context, files []model.FileRecord) model.BatchResult {
	results := make([]model.FileResult, len(files))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, f := range files {
		i, f := i, f // per-iteration copy; go.mod targets go1.21 loop semantics
		g.Go(func() error {
			results[i] = s.ProcessFile(ctx, f)
			return nil
		})
	}
	_ = g.Wait() // ProcessFile does not fail

	batch := aggregate(results)
	log := logger.FromContext(ctx)
	log.Info().
		Int("files", batch.TotalFiles).
		Int("failed_files", batch.FailedFiles).
		Int("transactions", batch.TotalTransactions).
		Int("successful_transactions", batch.SuccessfulTransactions).
		Msg("batch standardized")
	return batch
}

// ProcessJSON decodes upstream parser output and standardizes it. Malformed
// file envelopes become error files; only a non-array input or unreadable
// JSON is an error.
func (s *Service) ProcessJSON(ctx context.Context, r io.Reader) (model.BatchResult, error) {
	files, err := s.Decode(ctx, r)
	if err != nil {
		return model.BatchResult{}, err
	}
	return s.ProcessBatch(ctx, files), nil
}

// Decode reads parser output into file records without standardizing
// them, so callers can merge several inputs into one batch.
func (s *Service) Decode(ctx context.Context, r io.Reader) ([]model.FileRecord, error) {
	return s.decoder.Decode(ctx, r)
}

func aggregate(results []model.FileResult) model.BatchResult {
	sum := model.BatchSummary{
		TotalFiles:             len(results),
		SourceTypeDistribution: make(map[model.SourceType]int),
	}
	for _, r := range results {
		sum.TotalTransactions += r.Summary.TotalTransactions
		sum.SuccessfulTransactions += r.Summary.SuccessfulCount
		if r.OriginalError != "" {
			sum.FailedFiles++
		} else {
			sum.SuccessfulFiles++
		}
		sum.SourceTypeDistribution[r.SourceType]++
	}
	sum.FileSuccessRate = percent(sum.SuccessfulFiles, sum.TotalFiles)
	sum.TransactionSuccessRate = percent(sum.SuccessfulTransactions, sum.TotalTransactions)

	return model.BatchResult{
		TotalFiles:             sum.TotalFiles,
		SuccessfulFiles:        sum.SuccessfulFiles,
		FailedFiles:            sum.FailedFiles,
		TotalTransactions:      sum.TotalTransactions,
		SuccessfulTransactions: sum.SuccessfulTransactions,
		Summary:                sum,
		FileResults:            results,
	}
}

// percent returns part/whole*100, or 0 when whole is 0.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
