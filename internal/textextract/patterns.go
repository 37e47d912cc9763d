package textextract

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/cleared-dev/stmtnorm/internal/normalize"
)

// DatePatterns match date-shaped substrings, tried in order.
var DatePatterns = mustCompile(
	`\b\d{1,2}[./\-]\d{1,2}[./\-]\d{2,4}\b`,
	`\b\d{4}[./\-]\d{1,2}[./\-]\d{1,2}\b`,
	`\b\d{1,2}\s+(?:`+strings.Join(normalize.GenitiveMonths, "|")+`)\s+\d{4}\b`,
)

// AmountPatterns match amount-shaped substrings, tried in order. Amounts
// carrying a currency come first so they win over bare numbers.
var AmountPatterns = mustCompile(
	`\b\d{1,3}(?:[\s,.]?\d{3})*(?:[.,]\d{1,2})?\s*(?:₸|тг|тенге|KZT|USD|EUR|RUB|\$|€|₽|руб)(?!\w)`,
	`\b\d{1,3}(?:[,\s]\d{3})*(?:[.,]\d{1,2})?\b`,
)

func mustCompile(patterns ...string) []*regexp2.Regexp {
	out := make([]*regexp2.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp2.MustCompile(p, regexp2.IgnoreCase)
	}
	return out
}

// match is one pattern hit. Start and end are rune offsets.
type match struct {
	text       string
	start, end int
}

func (m match) overlaps(o match) bool {
	return m.start < o.end && o.start < m.end
}

// findAll returns every match of every pattern, grouped by pattern order.
func findAll(patterns []*regexp2.Regexp, s string) []match {
	var out []match
	for _, re := range patterns {
		m, err := re.FindStringMatch(s)
		for m != nil && err == nil {
			out = append(out, match{text: m.String(), start: m.Index, end: m.Index + m.Length})
			m, err = re.FindNextMatch(m)
		}
	}
	return out
}

// removeAll deletes every match of every pattern, applying patterns in turn.
func removeAll(patterns []*regexp2.Regexp, s string) string {
	for _, re := range patterns {
		if out, err := re.Replace(s, "", -1, -1); err == nil {
			s = out
		}
	}
	return s
}
