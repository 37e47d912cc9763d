package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType carries the sign of a transaction.
type TransactionType string

const (
	TypeDebit  TransactionType = "DEBIT"
	TypeCredit TransactionType = "CREDIT"
)

// UnknownSourceAccount is used until account attribution exists.
const UnknownSourceAccount = "Unknown"

// StandardizedTransaction is a fully normalized transaction.
type StandardizedTransaction struct {
	ID               string
	Date             time.Time       // midnight UTC
	DescriptionRaw   string          //nolint:revive // plain field name is clearest
	DescriptionClean string          //nolint:revive
	Amount           decimal.Decimal // always >= 0; sign lives in Type
	Currency         string          // ISO 4217
	Type             TransactionType
	SourceAccount    string
	QualityFlags     FlagSet
}

type transactionWire struct {
	ID               string          `json:"transaction_id"`
	Date             string          `json:"transaction_date"`
	DescriptionRaw   string          `json:"description_raw"`
	DescriptionClean string          `json:"description_clean"`
	Amount           float64         `json:"amount"`
	Currency         string          `json:"currency"`
	Type             TransactionType `json:"transaction_type"`
	SourceAccount    string          `json:"source_account"`
	QualityFlags     FlagSet         `json:"data_quality_flags"`
}

// DateString formats Date as an ISO-8601 UTC instant.
func (t StandardizedTransaction) DateString() string {
	return t.Date.UTC().Format(time.RFC3339)
}

// MarshalJSON writes the amount as a JSON number and the date as an
// RFC 3339 string.
func (t StandardizedTransaction) MarshalJSON() ([]byte, error) {
	flags := t.QualityFlags
	if flags == nil {
		flags = FlagSet{}
	}
	return json.Marshal(transactionWire{
		ID:               t.ID,
		Date:             t.DateString(),
		DescriptionRaw:   t.DescriptionRaw,
		DescriptionClean: t.DescriptionClean,
		Amount:           t.Amount.InexactFloat64(),
		Currency:         t.Currency,
		Type:             t.Type,
		SourceAccount:    t.SourceAccount,
		QualityFlags:     flags,
	})
}
