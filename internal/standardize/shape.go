package standardize

import (
	"fmt"

	"github.com/cleared-dev/stmtnorm/internal/model"
)

// ErrorTypeShape labels failures caused by structurally wrong rows.
const ErrorTypeShape = "InputShapeError"

// ShapeError describes a raw row that does not have the minimal structure
// needed for normalization.
type ShapeError struct {
	Field  string
	Reason string
}

func (e ShapeError) Error() string {
	if e.Field == "" {
		return "invalid input shape: " + e.Reason
	}
	return fmt.Sprintf("invalid input shape: %s: %s", e.Field, e.Reason)
}

// validateShape requires text date and description, string-or-number
// amount columns and a text currency when one is given.
func validateShape(r model.RawRecord) error {
	if r.Malformed {
		return ShapeError{Reason: "row is not an object"}
	}

	required := []struct {
		name string
		f    model.Field
	}{
		{"transaction_date", r.TransactionDate},
		{"description", r.Description},
	}
	for _, c := range required {
		switch c.f.Kind {
		case model.FieldText:
		case model.FieldAbsent:
			return ShapeError{Field: c.name, Reason: "field required"}
		default:
			return ShapeError{Field: c.name, Reason: "must be a string"}
		}
	}

	amounts := []struct {
		name string
		f    model.Field
	}{
		{"debit", r.Debit},
		{"credit", r.Credit},
		{"amount", r.Amount},
	}
	for _, c := range amounts {
		if c.f.Kind == model.FieldInvalid {
			return ShapeError{Field: c.name, Reason: "must be a string or number"}
		}
	}

	if k := r.Currency.Kind; k != model.FieldAbsent && k != model.FieldText {
		return ShapeError{Field: "currency", Reason: "must be a string"}
	}
	return nil
}
