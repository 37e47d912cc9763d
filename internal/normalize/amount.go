package normalize

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtnorm/internal/model"
)

// TieBreakPolicy decides the transaction type when debit and credit
// columns carry equal magnitudes.
type TieBreakPolicy int

const (
	// TieBreakDebit classifies equal debit/credit rows as DEBIT.
	TieBreakDebit TieBreakPolicy = iota
	// TieBreakCredit classifies equal debit/credit rows as CREDIT.
	TieBreakCredit
)

// DefaultCurrency is used when neither the row nor its amount names one.
const DefaultCurrency = "KZT"

// AmountNormalizer turns raw amount columns into a magnitude, a
// transaction type and an ISO currency code.
type AmountNormalizer struct {
	currencies      *CurrencyTable
	defaultCurrency string
	tieBreak        TieBreakPolicy
}

// AmountOption configures an AmountNormalizer.
type AmountOption func(*AmountNormalizer)

// WithDefaultCurrency overrides the fallback currency.
func WithDefaultCurrency(code string) AmountOption {
	return func(n *AmountNormalizer) { n.defaultCurrency = strings.ToUpper(code) }
}

// WithTieBreak overrides the equal debit/credit policy.
func WithTieBreak(p TieBreakPolicy) AmountOption {
	return func(n *AmountNormalizer) { n.tieBreak = p }
}

// NewAmountNormalizer creates an AmountNormalizer over a currency table.
func NewAmountNormalizer(currencies *CurrencyTable, opts ...AmountOption) *AmountNormalizer {
	n := &AmountNormalizer{
		currencies:      currencies,
		defaultCurrency: DefaultCurrency,
		tieBreak:        TieBreakDebit,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// CleanAmount parses a raw amount into a non-negative magnitude.
//
// Separators are disambiguated by position: when both '.' and ',' occur,
// the later one is the decimal point. A lone ',' followed by at most two
// digits is a decimal comma, otherwise a thousands mark.
func (n *AmountNormalizer) CleanAmount(f model.Field) (decimal.Decimal, []model.QualityFlag) {
	switch f.Kind {
	case model.FieldNumber:
		return decimal.NewFromFloat(math.Abs(f.Number)), nil
	case model.FieldText:
		if f.Text == "" || f.Text == "null" || f.Text == "None" {
			return decimal.Zero, []model.QualityFlag{model.FlagMissingField}
		}
	default:
		return decimal.Zero, []model.QualityFlag{model.FlagMissingField}
	}

	cleaned := canonicalNumber(strings.TrimSpace(f.Text))
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, []model.QualityFlag{model.FlagAmountFormatUnclear}
	}
	return amount.Abs(), nil
}

// canonicalNumber strips everything but digits, separators and minus
// signs, then rewrites the separators into Go's "1234.56" form.
func canonicalNumber(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == ',' || r == '-' {
			return r
		}
		return -1
	}, s)

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		parts := strings.Split(cleaned, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	for strings.Contains(cleaned, "--") {
		cleaned = strings.ReplaceAll(cleaned, "--", "-")
	}
	return cleaned
}

// StandardizeCurrency resolves an ISO code from the row's currency column,
// falling back to symbols embedded in context (usually the raw amount).
// currency_assumed is raised only when the row named no currency at all.
func (n *AmountNormalizer) StandardizeCurrency(code model.Field, context string) (string, []model.QualityFlag) {
	explicit := code.Kind == model.FieldText && code.Text != ""
	if explicit {
		if c, ok := n.currencies.Lookup(code.Text); ok {
			return c, nil
		}
	}

	if context != "" {
		if c, ok := n.currencies.Scan(context); ok {
			if !explicit {
				return c, []model.QualityFlag{model.FlagCurrencyAssumed}
			}
			return c, nil
		}
	}

	return n.defaultCurrency, []model.QualityFlag{model.FlagCurrencyAssumed}
}

// ResolveDebitCredit picks the populated side of a split debit/credit row.
func (n *AmountNormalizer) ResolveDebitCredit(debit, credit model.Field) (decimal.Decimal, model.TransactionType, []model.QualityFlag) {
	hasDebit, hasCredit := debit.Truthy(), credit.Truthy()
	switch {
	case hasDebit && !hasCredit:
		amount, flags := n.CleanAmount(debit)
		return amount, model.TypeDebit, flags
	case hasCredit && !hasDebit:
		amount, flags := n.CleanAmount(credit)
		return amount, model.TypeCredit, flags
	case hasDebit && hasCredit:
		d, dFlags := n.CleanAmount(debit)
		c, cFlags := n.CleanAmount(credit)
		if n.debitWins(d, c) {
			return d, model.TypeDebit, dFlags
		}
		return c, model.TypeCredit, cFlags
	default:
		return decimal.Zero, model.TypeDebit, []model.QualityFlag{model.FlagMissingField}
	}
}

func (n *AmountNormalizer) debitWins(d, c decimal.Decimal) bool {
	if d.Equal(c) {
		return n.tieBreak == TieBreakDebit
	}
	return d.GreaterThan(c)
}

// ResolveSingleAmount classifies a signed amount column: a leading '-'
// means DEBIT, anything else CREDIT.
func (n *AmountNormalizer) ResolveSingleAmount(amount model.Field) (decimal.Decimal, model.TransactionType, []model.QualityFlag) {
	if !amount.Truthy() {
		return decimal.Zero, model.TypeDebit, []model.QualityFlag{model.FlagMissingField}
	}

	negative := false
	switch amount.Kind {
	case model.FieldNumber:
		negative = amount.Number < 0
	case model.FieldText:
		negative = strings.HasPrefix(strings.TrimSpace(amount.Text), "-")
	}

	magnitude, flags := n.CleanAmount(amount)
	if negative {
		return magnitude, model.TypeDebit, flags
	}
	return magnitude, model.TypeCredit, flags
}
