// Package cursor encodes keyset pagination tokens.
//
// A token records the sort key and id of the last row on a page plus a hash of
// the filter that produced it, so a token cannot be replayed against a
// different query.
package cursor

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Cursor marks the position after which the next page starts.
type Cursor struct {
	Key        int64  `json:"k"`
	ID         string `json:"id"`
	FilterHash string `json:"f,omitempty"`
}

// ErrInvalidToken indicates a token that cannot be decoded.
var ErrInvalidToken = errors.New("invalid page token")

// New builds a cursor bound to filter.
func New(key int64, id, filter string) Cursor {
	return Cursor{Key: key, ID: id, FilterHash: HashFilter(filter)}
}

// Encode returns the opaque token for c.
func Encode(c Cursor) (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode parses a token produced by Encode.
func Decode(token string) (Cursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Cursor{}, fmt.Errorf("%w: empty", ErrInvalidToken)
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.ID == "" {
		return Cursor{}, fmt.Errorf("%w: missing id", ErrInvalidToken)
	}
	return c, nil
}

// HashFilter returns a short stable hash of a filter expression.
func HashFilter(filter string) string {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(filter))
	return hex.EncodeToString(sum[:8])
}

// ValidateFilterHash checks that c was issued for filter.
func ValidateFilterHash(c Cursor, filter string) error {
	if c.FilterHash != HashFilter(filter) {
		return fmt.Errorf("%w: filter changed between pages", ErrInvalidToken)
	}
	return nil
}
