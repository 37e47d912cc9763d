package model

import "sort"

// QualityFlag marks a best-effort normalization outcome.
type QualityFlag string

const (
	FlagDateAmbiguous       QualityFlag = "original_date_ambiguous"
	FlagAmountFormatUnclear QualityFlag = "amount_format_unclear"
	FlagCurrencyAssumed     QualityFlag = "currency_assumed"
	FlagSpecialChars        QualityFlag = "description_contains_special_chars"
	FlagMissingField        QualityFlag = "missing_required_field"
)

// AllQualityFlags is the closed flag vocabulary.
var AllQualityFlags = []QualityFlag{
	FlagDateAmbiguous,
	FlagAmountFormatUnclear,
	FlagCurrencyAssumed,
	FlagSpecialChars,
	FlagMissingField,
}

// FlagSet is a sorted, duplicate-free set of quality flags.
type FlagSet []QualityFlag

// UnionFlags merges flag lists from every normalization stage.
func UnionFlags(lists ...[]QualityFlag) FlagSet {
	seen := make(map[QualityFlag]bool)
	var out FlagSet
	for _, l := range lists {
		for _, f := range l {
			if seen[f] {
				continue
			}
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Has reports whether f is in the set.
func (s FlagSet) Has(f QualityFlag) bool {
	for _, x := range s {
		if x == f {
			return true
		}
	}
	return false
}
