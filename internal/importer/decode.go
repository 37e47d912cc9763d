package importer

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/cleared-dev/stmtnorm/internal/logger"
	"github.com/cleared-dev/stmtnorm/internal/model"
)

// ErrNotArray is returned when parser output is not a JSON array of files.
var ErrNotArray = errors.New("parser output is not a JSON array")

// UnknownFilename names files whose envelope carried no usable filename.
const UnknownFilename = "unknown"

//go:embed envelope.schema.json
var envelopeSchema []byte

// Decoder reads upstream parser output: a JSON array of file envelopes.
type Decoder struct {
	schema *jsonschema.Schema
}

// NewDecoder compiles the envelope schema.
func NewDecoder() (*Decoder, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("envelope.json", bytes.NewReader(envelopeSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("envelope.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Decoder{schema: schema}, nil
}

// Decode returns one FileRecord per array element. Elements that fail the
// envelope schema become error records instead of failing the call, so the
// only errors are unreadable input and a non-array top level.
func (d *Decoder) Decode(ctx context.Context, r io.Reader) ([]model.FileRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading parser output: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("decoding parser output: %w", err)
	}

	log := logger.FromContext(ctx)
	files := make([]model.FileRecord, 0, len(elems))
	for i, elem := range elems {
		f, err := d.decodeFile(elem)
		if err != nil {
			log.Warn().Int("index", i).Str("filename", f.Filename).Err(err).Msg("coercing malformed file envelope")
			msg := "Invalid input format: " + err.Error()
			f = model.FileRecord{Filename: f.Filename, Error: &msg}
		}
		files = append(files, f)
	}
	return files, nil
}

// decodeFile validates one envelope. On error the returned record still
// carries the best filename available.
func (d *Decoder) decodeFile(elem json.RawMessage) (model.FileRecord, error) {
	var v any
	if err := json.Unmarshal(elem, &v); err != nil {
		return model.FileRecord{Filename: UnknownFilename}, err
	}
	if err := d.schema.Validate(v); err != nil {
		return model.FileRecord{Filename: filenameOf(v)}, err
	}

	var f model.FileRecord
	if err := json.Unmarshal(elem, &f); err != nil {
		return model.FileRecord{Filename: filenameOf(v)}, err
	}
	return f, nil
}

func filenameOf(v any) string {
	if m, ok := v.(map[string]any); ok {
		if name, ok := m["filename"].(string); ok {
			return name
		}
	}
	return UnknownFilename
}
