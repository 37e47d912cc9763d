package standardize

import (
	"github.com/cleared-dev/stmtnorm/internal/buildinfo"
	"github.com/cleared-dev/stmtnorm/internal/normalize"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusReady     = "ready"
	StatusMissing   = "missing"
)

// Health is the static readiness report.
type Health struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Commit       string            `json:"commit"`
	Processors   map[string]string `json:"processors"`
	Capabilities map[string]bool   `json:"capabilities"`
}

// Health reports each pipeline stage as ready once constructed.
func (s *Service) Health() Health {
	processors := map[string]string{
		"date_normalizer":        readiness(s.dates != nil),
		"amount_normalizer":      readiness(s.amounts != nil),
		"description_normalizer": readiness(s.descriptions != nil),
		"text_extractor":         readiness(s.extractor != nil),
		"input_decoder":          readiness(s.decoder != nil),
	}
	status := StatusHealthy
	for _, p := range processors {
		if p != StatusReady {
			status = StatusUnhealthy
		}
	}
	return Health{
		Status:     status,
		Version:    buildinfo.Version,
		Commit:     buildinfo.Commit,
		Processors: processors,
		Capabilities: map[string]bool{
			"text_extraction":  true,
			"table_processing": true,
			"multi_file_batch": true,
			"quality_control":  true,
		},
	}
}

func readiness(ok bool) string {
	if ok {
		return StatusReady
	}
	return StatusMissing
}

// Formats describes accepted inputs and the produced output fields.
type Formats struct {
	Input  InputFormats      `json:"input_formats"`
	Output map[string]string `json:"output_format"`
}

// InputFormats lists recognized date templates, currency tokens and
// sample amounts.
type InputFormats struct {
	DateFormats     []string            `json:"date_formats"`
	CurrencySymbols map[string][]string `json:"currency_symbols"`
	CurrencyCodes   []string            `json:"currency_codes"`
	AmountFormats   []string            `json:"amount_formats"`
	Keywords        map[string][]string `json:"keywords"`
}

// SupportedFormats reports what the normalizers understand.
func (s *Service) SupportedFormats() Formats {
	dates := append([]string{}, normalize.DateTemplates...)
	dates = append(dates, "DD <month> YYYY")
	return Formats{
		Input: InputFormats{
			DateFormats:     dates,
			CurrencySymbols: s.currencies.Aliases(),
			CurrencyCodes:   s.currencies.Codes(),
			AmountFormats:   []string{"15 000 тг", "500000 ₸", "1,500.50", "1.500,50", "-25000"},
			Keywords: map[string][]string{
				"date":        s.keywords.DateKeywords,
				"amount":      s.keywords.AmountKeywords,
				"description": s.keywords.DescriptionKeywords,
				"debit":       s.keywords.DebitKeywords,
				"credit":      s.keywords.CreditKeywords,
			},
		},
		Output: map[string]string{
			"transaction_id":     "opaque unique string",
			"transaction_date":   "ISO 8601 UTC",
			"description_raw":    "original text, trimmed",
			"description_clean":  "normalized lowercase",
			"amount":             "non-negative number",
			"currency":           "ISO 4217 3-letter code",
			"transaction_type":   "DEBIT or CREDIT",
			"source_account":     "account label",
			"data_quality_flags": "list of quality flags",
		},
	}
}
