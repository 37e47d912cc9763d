package normalize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/stmtnorm/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newAmounts(opts ...AmountOption) *AmountNormalizer {
	return NewAmountNormalizer(DefaultCurrencyTable(), opts...)
}

func TestCleanAmount_Text(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"15 000 тг", "15000"},
		{"500000 ₸", "500000"},
		{"-25000", "25000"},
		{"1,500.50", "1500.50"},
		{"1.500,50", "1500.50"},
		{"1,5", "1.5"},
		{"1,500", "1500"},
		{"1,500,000", "1500000"},
		{"$ 12.99", "12.99"},
		{"--300", "300"},
		{"  42  ", "42"},
	}
	n := newAmounts()
	for _, tt := range tests {
		got, flags := n.CleanAmount(model.TextField(tt.in))
		assert.True(t, dec(tt.want).Equal(got), "CleanAmount(%q) = %s, want %s", tt.in, got, tt.want)
		assert.Empty(t, flags, "CleanAmount(%q)", tt.in)
	}
}

func TestCleanAmount_Numbers(t *testing.T) {
	n := newAmounts()
	for _, v := range []float64{0, 1, 15000, -25000, 1500.5, -0.01} {
		got, flags := n.CleanAmount(model.NumberField(v))
		assert.InDelta(t, abs(v), got.InexactFloat64(), 1e-9, "CleanAmount(%v)", v)
		assert.Empty(t, flags)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestCleanAmount_Missing(t *testing.T) {
	n := newAmounts()
	for _, f := range []model.Field{{}, model.TextField(""), model.TextField("null"), model.TextField("None"), {Kind: model.FieldInvalid}} {
		got, flags := n.CleanAmount(f)
		assert.True(t, got.IsZero())
		assert.Equal(t, []model.QualityFlag{model.FlagMissingField}, flags)
	}
}

func TestCleanAmount_Unclear(t *testing.T) {
	n := newAmounts()
	for _, in := range []string{"abc", "тг", "1.500.000", "5-3", "-", "   "} {
		got, flags := n.CleanAmount(model.TextField(in))
		assert.True(t, got.IsZero(), in)
		assert.Equal(t, []model.QualityFlag{model.FlagAmountFormatUnclear}, flags, in)
	}
}

func TestStandardizeCurrency_Explicit(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"₸", "KZT"},
		{"$", "USD"},
		{"KZT", "KZT"},
		{"kzt", "KZT"},
		{" Usd ", "USD"},
		{"тенге", "KZT"},
		{"Тг", "KZT"},
		{"евро", "EUR"},
		{"€", "EUR"},
		{"руб", "RUB"},
		{"рубль", "RUB"},
		{"₽", "RUB"},
		{"доллар", "USD"},
	}
	n := newAmounts()
	for _, tt := range tests {
		got, flags := n.StandardizeCurrency(model.TextField(tt.in), "")
		assert.Equal(t, tt.want, got, "StandardizeCurrency(%q)", tt.in)
		assert.Empty(t, flags, "StandardizeCurrency(%q)", tt.in)
	}
}

func TestStandardizeCurrency_FromContext(t *testing.T) {
	n := newAmounts()

	got, flags := n.StandardizeCurrency(model.Field{}, "100 $")
	assert.Equal(t, "USD", got)
	assert.Equal(t, []model.QualityFlag{model.FlagCurrencyAssumed}, flags)

	// An explicit but unknown code found in context is not an assumption.
	got, flags = n.StandardizeCurrency(model.TextField("XYZ руб"), "XYZ руб")
	assert.Equal(t, "RUB", got)
	assert.Empty(t, flags)
}

func TestStandardizeCurrency_Default(t *testing.T) {
	got, flags := newAmounts().StandardizeCurrency(model.Field{}, "15000")
	assert.Equal(t, "KZT", got)
	assert.Equal(t, []model.QualityFlag{model.FlagCurrencyAssumed}, flags)

	got, flags = newAmounts(WithDefaultCurrency("usd")).StandardizeCurrency(model.TextField("XYZ"), "")
	assert.Equal(t, "USD", got)
	assert.Equal(t, []model.QualityFlag{model.FlagCurrencyAssumed}, flags)
}

func TestResolveDebitCredit(t *testing.T) {
	n := newAmounts()

	amt, typ, flags := n.ResolveDebitCredit(model.TextField("15000"), model.Field{})
	assert.True(t, dec("15000").Equal(amt))
	assert.Equal(t, model.TypeDebit, typ)
	assert.Empty(t, flags)

	amt, typ, flags = n.ResolveDebitCredit(model.Field{}, model.TextField("25000"))
	assert.True(t, dec("25000").Equal(amt))
	assert.Equal(t, model.TypeCredit, typ)
	assert.Empty(t, flags)

	amt, typ, _ = n.ResolveDebitCredit(model.NumberField(0), model.NumberField(300))
	assert.True(t, dec("300").Equal(amt))
	assert.Equal(t, model.TypeCredit, typ)
}

func TestResolveDebitCredit_Both(t *testing.T) {
	n := newAmounts()

	amt, typ, _ := n.ResolveDebitCredit(model.TextField("100"), model.TextField("250"))
	assert.True(t, dec("250").Equal(amt))
	assert.Equal(t, model.TypeCredit, typ)

	amt, typ, _ = n.ResolveDebitCredit(model.TextField("900"), model.NumberField(250))
	assert.True(t, dec("900").Equal(amt))
	assert.Equal(t, model.TypeDebit, typ)
}

func TestResolveDebitCredit_TieBreak(t *testing.T) {
	amt, typ, _ := newAmounts().ResolveDebitCredit(model.TextField("500"), model.TextField("500,00"))
	assert.True(t, dec("500").Equal(amt))
	assert.Equal(t, model.TypeDebit, typ)

	_, typ, _ = newAmounts(WithTieBreak(TieBreakCredit)).ResolveDebitCredit(model.TextField("500"), model.TextField("500"))
	assert.Equal(t, model.TypeCredit, typ)
}

func TestResolveDebitCredit_Neither(t *testing.T) {
	amt, typ, flags := newAmounts().ResolveDebitCredit(model.Field{}, model.TextField(""))
	assert.True(t, amt.IsZero())
	assert.Equal(t, model.TypeDebit, typ)
	assert.Equal(t, []model.QualityFlag{model.FlagMissingField}, flags)
}

func TestResolveSingleAmount(t *testing.T) {
	tests := []struct {
		in       model.Field
		wantAmt  string
		wantType model.TransactionType
	}{
		{model.TextField("-75000"), "75000", model.TypeDebit},
		{model.TextField(" -1 200,50"), "1200.50", model.TypeDebit},
		{model.TextField("2500 тенге"), "2500", model.TypeCredit},
		{model.NumberField(-10), "10", model.TypeDebit},
		{model.NumberField(10), "10", model.TypeCredit},
	}
	n := newAmounts()
	for _, tt := range tests {
		amt, typ, flags := n.ResolveSingleAmount(tt.in)
		assert.True(t, dec(tt.wantAmt).Equal(amt), "amount for %v = %s", tt.in, amt)
		assert.Equal(t, tt.wantType, typ, "type for %v", tt.in)
		assert.Empty(t, flags)
	}
}

func TestResolveSingleAmount_Missing(t *testing.T) {
	for _, f := range []model.Field{{}, model.TextField(""), model.NumberField(0)} {
		amt, typ, flags := newAmounts().ResolveSingleAmount(f)
		assert.True(t, amt.IsZero())
		assert.Equal(t, model.TypeDebit, typ)
		assert.Equal(t, []model.QualityFlag{model.FlagMissingField}, flags)
	}
}

func TestCurrencyTable(t *testing.T) {
	table := DefaultCurrencyTable()
	assert.Equal(t, []string{"KZT", "USD", "EUR", "RUB"}, table.Codes())
	assert.Equal(t, []string{"₸", "тг", "тенге"}, table.Aliases()["KZT"])

	code, ok := table.Scan("Итого 4600 ТГ")
	assert.True(t, ok)
	assert.Equal(t, "KZT", code)

	_, ok = table.Lookup("GBP")
	assert.False(t, ok)
}
