package normalize

import "strings"

// CurrencyAlias maps one symbol or word to an ISO 4217 code.
type CurrencyAlias struct {
	Token string // lowercase
	Code  string
}

// CurrencyTable is an ordered, read-only symbol/word lookup. Order
// matters when scanning free text: the first alias found wins.
type CurrencyTable struct {
	aliases   []CurrencyAlias
	supported map[string]bool
}

// DefaultCurrencyTable covers KZT, USD, EUR and RUB.
func DefaultCurrencyTable() *CurrencyTable {
	return NewCurrencyTable([]CurrencyAlias{
		{"₸", "KZT"},
		{"тг", "KZT"},
		{"тенге", "KZT"},
		{"$", "USD"},
		{"доллар", "USD"},
		{"€", "EUR"},
		{"евро", "EUR"},
		{"₽", "RUB"},
		{"руб", "RUB"},
		{"рубль", "RUB"},
		{"kzt", "KZT"},
		{"usd", "USD"},
		{"eur", "EUR"},
		{"rub", "RUB"},
	})
}

// NewCurrencyTable builds a table; every alias code becomes a supported code.
func NewCurrencyTable(aliases []CurrencyAlias) *CurrencyTable {
	t := &CurrencyTable{supported: make(map[string]bool)}
	for _, a := range aliases {
		a.Token = strings.ToLower(a.Token)
		a.Code = strings.ToUpper(a.Code)
		t.aliases = append(t.aliases, a)
		t.supported[a.Code] = true
	}
	return t
}

// Lookup resolves an exact symbol, word or ISO code (case-insensitive).
func (t *CurrencyTable) Lookup(token string) (string, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return "", false
	}
	for _, a := range t.aliases {
		if a.Token == token {
			return a.Code, true
		}
	}
	if code := strings.ToUpper(token); t.supported[code] {
		return code, true
	}
	return "", false
}

// Scan returns the currency of the first alias contained in s.
func (t *CurrencyTable) Scan(s string) (string, bool) {
	lower := strings.ToLower(s)
	for _, a := range t.aliases {
		if strings.Contains(lower, a.Token) {
			return a.Code, true
		}
	}
	return "", false
}

// Aliases returns the tokens grouped by currency code, in table order.
func (t *CurrencyTable) Aliases() map[string][]string {
	out := make(map[string][]string)
	for _, a := range t.aliases {
		if strings.EqualFold(a.Token, a.Code) {
			continue
		}
		out[a.Code] = append(out[a.Code], a.Token)
	}
	return out
}

// Codes returns the supported ISO codes in table order.
func (t *CurrencyTable) Codes() []string {
	var codes []string
	seen := make(map[string]bool)
	for _, a := range t.aliases {
		if !seen[a.Code] {
			seen[a.Code] = true
			codes = append(codes, a.Code)
		}
	}
	return codes
}
