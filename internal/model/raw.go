package model

import (
	"bytes"
	"encoding/json"
)

// RawRecord is one candidate transaction as produced by the upstream
// parser or by text mining. Either Amount is set, or Debit/Credit are.
type RawRecord struct {
	TransactionDate Field
	Description     Field
	Debit           Field
	Credit          Field
	Amount          Field
	Currency        Field

	// Original holds the payload exactly as received, for failure reports.
	Original json.RawMessage
	// Malformed is set when the row was not a JSON object at all.
	Malformed bool
}

type rawRecordWire struct {
	TransactionDate Field `json:"transaction_date"`
	Description     Field `json:"description"`
	Debit           Field `json:"debit"`
	Credit          Field `json:"credit"`
	Amount          Field `json:"amount"`
	Currency        Field `json:"currency"`
}

// UnmarshalJSON keeps every row, even malformed ones; validation happens
// later so one bad row never fails a whole file.
func (r *RawRecord) UnmarshalJSON(data []byte) error {
	orig := make(json.RawMessage, len(data))
	copy(orig, data)

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*r = RawRecord{Original: orig, Malformed: true}
		return nil
	}

	var w rawRecordWire
	if err := json.Unmarshal(trimmed, &w); err != nil {
		*r = RawRecord{Original: orig, Malformed: true}
		return nil
	}
	*r = RawRecord{
		TransactionDate: w.TransactionDate,
		Description:     w.Description,
		Debit:           w.Debit,
		Credit:          w.Credit,
		Amount:          w.Amount,
		Currency:        w.Currency,
		Original:        orig,
	}
	return nil
}

// MarshalJSON returns the original payload when there is one, otherwise
// the record's fields (text-mined rows have no original).
func (r RawRecord) MarshalJSON() ([]byte, error) {
	if len(r.Original) > 0 {
		return r.Original, nil
	}
	return json.Marshal(rawRecordWire{
		TransactionDate: r.TransactionDate,
		Description:     r.Description,
		Debit:           r.Debit,
		Credit:          r.Credit,
		Amount:          r.Amount,
		Currency:        r.Currency,
	})
}
