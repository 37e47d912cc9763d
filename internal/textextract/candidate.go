package textextract

import "github.com/cleared-dev/stmtnorm/internal/model"

// candidate is a transaction mined from text before it becomes a RawRecord.
type candidate struct {
	date        string
	description string
	amount      string
	currency    string
	txnType     model.TransactionType
}

// record lays the candidate out the way table rows arrive: debits in the
// debit column, credits in both the amount and credit columns.
func (c candidate) record() model.RawRecord {
	r := model.RawRecord{
		TransactionDate: model.TextField(c.date),
		Description:     model.TextField(c.description),
	}
	if c.txnType == model.TypeCredit {
		r.Amount = model.TextField(c.amount)
		r.Credit = model.TextField(c.amount)
	} else {
		r.Debit = model.TextField(c.amount)
	}
	if c.currency != "" {
		r.Currency = model.TextField(c.currency)
	}
	return r
}

type dedupeKey struct {
	date, description, amount string
}

// dedupe keeps the first candidate for each (date, description, amount).
// Currency and type are not part of the key.
func dedupe(cs []candidate) []candidate {
	seen := make(map[dedupeKey]bool, len(cs))
	var out []candidate
	for _, c := range cs {
		k := dedupeKey{c.date, c.description, c.amount}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}
