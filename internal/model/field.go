package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FieldKind tags which variant of a raw field arrived from the parser.
type FieldKind int

const (
	FieldAbsent FieldKind = iota
	FieldText
	FieldNumber
	FieldInvalid // bool, object or array
)

func (k FieldKind) String() string {
	switch k {
	case FieldAbsent:
		return "absent"
	case FieldText:
		return "text"
	case FieldNumber:
		return "number"
	default:
		return "invalid"
	}
}

// Field is one raw-row value: absent, text or number.
type Field struct {
	Kind   FieldKind
	Text   string
	Number float64
}

// TextField returns a text-valued Field.
func TextField(s string) Field { return Field{Kind: FieldText, Text: s} }

// NumberField returns a number-valued Field.
func NumberField(n float64) Field { return Field{Kind: FieldNumber, Number: n} }

// IsAbsent reports whether the field was missing or null.
func (f Field) IsAbsent() bool { return f.Kind == FieldAbsent }

// Truthy reports whether the field carries a usable value: present,
// non-empty text or a non-zero number.
func (f Field) Truthy() bool {
	switch f.Kind {
	case FieldText:
		return f.Text != ""
	case FieldNumber:
		return f.Number != 0
	default:
		return false
	}
}

// String renders the value the way it would read in a statement.
// Absent and invalid fields render as "".
func (f Field) String() string {
	switch f.Kind {
	case FieldText:
		return f.Text
	case FieldNumber:
		return strconv.FormatFloat(f.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// UnmarshalJSON never fails on well-formed JSON: values of the wrong
// type become FieldInvalid so shape validation can report them per row.
func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*f = Field{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = TextField(s)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		*f = NumberField(n)
	default:
		*f = Field{Kind: FieldInvalid}
	}
	return nil
}

// MarshalJSON writes absent and invalid fields as null.
func (f Field) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case FieldText:
		return json.Marshal(f.Text)
	case FieldNumber:
		return json.Marshal(f.Number)
	default:
		return []byte("null"), nil
	}
}
