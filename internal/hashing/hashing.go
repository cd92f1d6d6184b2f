// Package hashing provides the one-way digest applied to identifiers before
// they may leave the process.
package hashing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Digester computes a deterministic, non-invertible digest of an identifier.
// Implementations must return lower-case hex of a fixed length. A failed
// digest aborts the enclosing operation; callers never substitute the raw
// value.
type Digester interface {
	Digest(ctx context.Context, input string) (string, error)
}

// SHA256 is the default Digester.
type SHA256 struct{}

func (SHA256) Digest(_ context.Context, input string) (string, error) {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:]), nil
}
