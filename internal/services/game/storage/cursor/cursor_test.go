package cursor

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := New(42, "game-1", `status = "won"`)

	token, err := Encode(original)
	if err != nil {
		t.Fatalf("encode cursor: %v", err)
	}
	decoded, err := Decode(token)
	if err != nil {
		t.Fatalf("decode cursor: %v", err)
	}
	if decoded != original {
		t.Fatalf("cursor mismatch: %+v != %+v", decoded, original)
	}
}

func TestDecodeRejectsBadTokens(t *testing.T) {
	for _, token := range []string{
		"",
		"not-base64@@",
		base64.RawURLEncoding.EncodeToString([]byte("{")),
		base64.RawURLEncoding.EncodeToString([]byte(`{"k":1}`)),
	} {
		if _, err := Decode(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Decode(%q) error = %v, want %v", token, err, ErrInvalidToken)
		}
	}
}

func TestHashFilter(t *testing.T) {
	if HashFilter("  ") != "" {
		t.Fatal("expected empty hash for empty filter")
	}
	hash := HashFilter("foo")
	if len(hash) != 16 {
		t.Fatalf("expected 16-char hash, got %d", len(hash))
	}
	if hash == HashFilter("bar") {
		t.Fatal("expected different hashes for different filters")
	}
}

func TestValidateFilterHash(t *testing.T) {
	c := New(10, "a", "prize > 0")
	if err := ValidateFilterHash(c, "prize > 0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateFilterHash(c, "prize > 1"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidToken)
	}
}
