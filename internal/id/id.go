package id

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Prefix starts every transaction ID.
const Prefix = "txn_"

// Generator issues unique transaction IDs. Implementations must be safe
// for concurrent use.
type Generator interface {
	NewID() string
}

// UUIDGenerator issues random IDs like "txn_3f2a...".
type UUIDGenerator struct{}

// NewID returns a fresh random transaction ID.
func (UUIDGenerator) NewID() string {
	return FormatTransactionID(uuid.New())
}

// FormatTransactionID renders u as "txn_" + 32 hex digits.
func FormatTransactionID(u uuid.UUID) string {
	return Prefix + strings.ReplaceAll(u.String(), "-", "")
}

// ParseTransactionID extracts the UUID from a transaction ID.
func ParseTransactionID(s string) (uuid.UUID, error) {
	hex, ok := strings.CutPrefix(s, Prefix)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid transaction ID %q: missing %q prefix", s, Prefix)
	}
	u, err := uuid.Parse(hex)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid transaction ID %q: %w", s, err)
	}
	return u, nil
}

// Sequence issues "txn_<prefix>-0001", "txn_<prefix>-0002", ... Useful
// where output must be reproducible.
type Sequence struct {
	prefix string
	n      atomic.Int64
}

// NewSequence creates a Sequence starting at 1.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// NewID returns the next ID in the sequence.
func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s%s-%04d", Prefix, s.prefix, s.n.Add(1))
}
