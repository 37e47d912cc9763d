// Package textextract mines free-text statement blocks for transactions.
package textextract

import (
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/cleared-dev/stmtnorm/internal/config"
	"github.com/cleared-dev/stmtnorm/internal/model"
	"github.com/cleared-dev/stmtnorm/internal/normalize"
)

// Extractor turns a text block into candidate raw records. It holds only
// read-only tables and is safe for concurrent use.
type Extractor struct {
	enabled     bool
	minDescLen  int
	radius      int
	debitWords  []string
	creditWords []string
	currencies  *normalize.CurrencyTable
	dates       []*regexp2.Regexp
	amounts     []*regexp2.Regexp
}

// New creates an Extractor from the extraction config.
func New(cfg config.ExtractionConfig, currencies *normalize.CurrencyTable) *Extractor {
	return &Extractor{
		enabled:     cfg.ExtractFromText,
		minDescLen:  cfg.MinDescriptionLength,
		radius:      cfg.ContextRadius,
		debitWords:  lowerAll(cfg.DebitKeywords),
		creditWords: lowerAll(cfg.CreditKeywords),
		currencies:  currencies,
		dates:       DatePatterns,
		amounts:     AmountPatterns,
	}
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// Extract returns the deduplicated candidates found in text, in line order.
func (e *Extractor) Extract(text string) []model.RawRecord {
	if text == "" || !e.enabled {
		return nil
	}

	lines := strings.Split(text, "\n")
	var found []candidate
	for i := range lines {
		if c, ok := e.scanLine(lines, i); ok {
			found = append(found, c)
		}
	}

	found = dedupe(found)
	out := make([]model.RawRecord, len(found))
	for i, c := range found {
		out[i] = c.record()
	}
	return out
}

// scanLine builds at most one candidate for lines[index]. A line with a date
// but no amount borrows the first amount of its context window.
func (e *Extractor) scanLine(lines []string, index int) (candidate, bool) {
	line := strings.TrimSpace(lines[index])
	if line == "" {
		return candidate{}, false
	}

	dates := findAll(e.dates, line)
	if len(dates) == 0 {
		return candidate{}, false
	}
	if amounts := e.findAmounts(line, dates); len(amounts) > 0 {
		return e.build(line, dates[0].text, amounts[0].text), true
	}

	window := strings.Join(contextWindow(lines, index, e.radius), " ")
	amounts := e.findAmounts(window, findAll(e.dates, window))
	if len(amounts) == 0 {
		return candidate{}, false
	}
	return e.build(window, dates[0].text, amounts[0].text), true
}

// findAmounts drops amount matches lying inside a date, such as the "19.06"
// of "19.06.2025".
func (e *Extractor) findAmounts(s string, dates []match) []match {
	var out []match
	for _, a := range findAll(e.amounts, s) {
		inDate := false
		for _, d := range dates {
			if a.overlaps(d) {
				inDate = true
				break
			}
		}
		if !inDate {
			out = append(out, a)
		}
	}
	return out
}

func (e *Extractor) build(text, date, amount string) candidate {
	c := candidate{
		date:        date,
		description: e.describe(text),
		amount:      amount,
		txnType:     e.classify(text),
	}
	if code, ok := e.currencies.Scan(amount); ok {
		c.currency = code
	}
	return c
}

// classify scores keyword hits. A '-' or "минус" counts double for debit;
// ties go to debit.
func (e *Extractor) classify(text string) model.TransactionType {
	lower := strings.ToLower(text)
	debit, credit := 0, 0
	for _, w := range e.debitWords {
		if strings.Contains(lower, w) {
			debit++
		}
	}
	for _, w := range e.creditWords {
		if strings.Contains(lower, w) {
			credit++
		}
	}
	if strings.Contains(text, "-") || strings.Contains(lower, "минус") {
		debit += 2
	}
	if debit >= credit {
		return model.TypeDebit
	}
	return model.TypeCredit
}

// describe strips dates and amounts from text. When too little is left the
// whole text is the description.
func (e *Extractor) describe(text string) string {
	desc := removeAll(e.amounts, removeAll(e.dates, text))
	desc = strings.Join(strings.Fields(desc), " ")
	if utf8.RuneCountInString(desc) < e.minDescLen {
		return text
	}
	return desc
}

// contextWindow returns lines[index-radius : index+radius+1], clamped.
func contextWindow(lines []string, index, radius int) []string {
	start := max(0, index-radius)
	end := min(len(lines), index+radius+1)
	return lines[start:end]
}
