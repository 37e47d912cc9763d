package standardize

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtnorm/internal/model"
)

// topKeywordLimit caps Statistics.TopKeywords.
const topKeywordLimit = 10

// Statistics summarizes the successful transactions of a batch.
type Statistics struct {
	QualityFlags     map[model.QualityFlag]int     `json:"quality_flags_distribution"`
	TransactionTypes map[model.TransactionType]int `json:"transaction_types_distribution"`
	Currencies       map[string]int                `json:"currency_distribution"`
	AmountTotals     map[string]AmountTotals       `json:"amount_totals"`
	AveragePerFile   float64                       `json:"average_transactions_per_file"`
	FilesWithText    int                           `json:"files_with_text_extraction"`
	FilesWithTables  int                           `json:"files_with_table_data"`
	TopKeywords      []KeywordCount                `json:"top_keywords"`
}

// AmountTotals sums magnitudes per side for one currency.
type AmountTotals struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// KeywordCount is one entry of the description keyword histogram.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Statistics computes histograms over b. It only reads b.
func (s *Service) Statistics(b model.BatchResult) Statistics {
	st := Statistics{
		QualityFlags:     make(map[model.QualityFlag]int, len(model.AllQualityFlags)),
		TransactionTypes: map[model.TransactionType]int{model.TypeDebit: 0, model.TypeCredit: 0},
		Currencies:       make(map[string]int),
		AmountTotals:     make(map[string]AmountTotals),
		TopKeywords:      []KeywordCount{},
	}
	for _, f := range model.AllQualityFlags {
		st.QualityFlags[f] = 0
	}
	keywords := make(map[string]int)

	for _, fr := range b.FileResults {
		switch fr.SourceType {
		case model.SourceText:
			st.FilesWithText++
		case model.SourceTable:
			st.FilesWithTables++
		case model.SourceMixed:
			st.FilesWithText++
			st.FilesWithTables++
		}

		for _, txn := range fr.Successes {
			for _, f := range txn.QualityFlags {
				st.QualityFlags[f]++
			}
			st.TransactionTypes[txn.Type]++
			st.Currencies[txn.Currency]++

			totals := st.AmountTotals[txn.Currency]
			if txn.Type == model.TypeCredit {
				totals.Credit = totals.Credit.Add(txn.Amount)
			} else {
				totals.Debit = totals.Debit.Add(txn.Amount)
			}
			st.AmountTotals[txn.Currency] = totals

			for _, w := range s.descriptions.Keywords(txn.DescriptionClean) {
				keywords[w]++
			}
		}
	}

	if b.TotalFiles > 0 {
		st.AveragePerFile = float64(b.TotalTransactions) / float64(b.TotalFiles)
	}
	st.TopKeywords = topKeywords(keywords, topKeywordLimit)
	return st
}

// topKeywords orders by count, then alphabetically.
func topKeywords(counts map[string]int, limit int) []KeywordCount {
	out := make([]KeywordCount, 0, len(counts))
	for w, n := range counts {
		out = append(out, KeywordCount{Keyword: w, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Keyword < out[j].Keyword
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
