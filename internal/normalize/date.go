package normalize

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/cleared-dev/stmtnorm/internal/model"
)

// DateLayouts are the strict layouts tried before the month-name form and
// the permissive parser,
// in order. Day-first variants precede the 2-digit-year ones so that
// "19.06.2025" never reads as year 20.
var DateLayouts = []string{
	"2.1.2006",
	"2/1/2006",
	"2-1-2006",
	"2006-1-2",
	"2.1.06",
	"2/1/06",
	"2-1-06",
}

// DateTemplates describes DateLayouts for humans.
var DateTemplates = []string{
	"DD.MM.YYYY", "DD/MM/YYYY", "DD-MM-YYYY", "YYYY-MM-DD",
	"DD.MM.YY", "DD/MM/YY", "DD-MM-YY",
}

// DateNormalizer canonicalizes raw dates to midnight UTC.
type DateNormalizer struct {
	layouts []string
	now     func() time.Time
}

// NewDateNormalizer creates a DateNormalizer. now supplies the fallback
// instant for unparseable input; nil means time.Now.
func NewDateNormalizer(now func() time.Time) *DateNormalizer {
	if now == nil {
		now = time.Now
	}
	return &DateNormalizer{layouts: DateLayouts, now: now}
}

// Normalize parses raw and never fails: unparseable input yields today's
// date flagged original_date_ambiguous.
func (n *DateNormalizer) Normalize(raw string) (time.Time, []model.QualityFlag) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return n.fallback()
	}

	for _, layout := range n.layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return n.settle(t)
		}
	}
	if t, ok := parseMonthName(raw); ok {
		return n.settle(t)
	}

	t, err := dateparse.ParseIn(raw, time.UTC, dateparse.PreferMonthFirst(false))
	if err != nil {
		return n.fallback()
	}
	return n.settle(t)
}

// settle truncates t to midnight UTC. A missing year takes the current
// one; any year below 100 is flagged as ambiguous.
func (n *DateNormalizer) settle(t time.Time) (time.Time, []model.QualityFlag) {
	switch {
	case t.Year() == 0:
		now := n.now().UTC()
		return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
			[]model.QualityFlag{model.FlagDateAmbiguous}
	case t.Year() < 100:
		return midnightUTC(t), []model.QualityFlag{model.FlagDateAmbiguous}
	}
	return midnightUTC(t), nil
}

// NormalizeField applies Normalize to text fields; any other variant takes
// the fallback path.
func (n *DateNormalizer) NormalizeField(f model.Field) (time.Time, []model.QualityFlag) {
	if f.Kind != model.FieldText {
		return n.fallback()
	}
	return n.Normalize(f.Text)
}

// Valid reports whether raw parses without ambiguity.
func (n *DateNormalizer) Valid(raw string) bool {
	_, flags := n.Normalize(raw)
	return len(flags) == 0
}

func (n *DateNormalizer) fallback() (time.Time, []model.QualityFlag) {
	return midnightUTC(n.now().UTC()), []model.QualityFlag{model.FlagDateAmbiguous}
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
