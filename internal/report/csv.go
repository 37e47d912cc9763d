package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/stmtnorm/internal/model"
)

// Header is the CSV header for transactions.csv.
const Header = "source_file,transaction_id,transaction_date,description_raw,description_clean,amount,currency,transaction_type,source_account,data_quality_flags"

const (
	numFields     = 10
	colSourceFile = 0
	colID         = 1
	colDate       = 2
	colDescRaw    = 3
	colDescClean  = 4
	colAmount     = 5
	colCurrency   = 6
	colType       = 7
	colAccount    = 8
	colFlags      = 9
)

// WriteTransactions writes every successful transaction of b, with header.
func WriteTransactions(w io.Writer, b model.BatchResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := 2
	for _, fr := range b.FileResults {
		for _, txn := range fr.Successes {
			if err := cw.Write(MarshalTransaction(fr.Filename, txn)); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
			row++
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a transaction to a CSV row. Flags are
// joined with ';'.
func MarshalTransaction(sourceFile string, t model.StandardizedTransaction) []string {
	row := make([]string, numFields)
	row[colSourceFile] = sourceFile
	row[colID] = t.ID
	row[colDate] = t.DateString()
	row[colDescRaw] = t.DescriptionRaw
	row[colDescClean] = t.DescriptionClean
	row[colAmount] = t.Amount.StringFixed(2)
	row[colCurrency] = t.Currency
	row[colType] = string(t.Type)
	row[colAccount] = t.SourceAccount

	flags := make([]string, len(t.QualityFlags))
	for i, f := range t.QualityFlags {
		flags[i] = string(f)
	}
	row[colFlags] = strings.Join(flags, ";")

	return row
}
