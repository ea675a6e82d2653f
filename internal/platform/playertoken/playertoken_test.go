package playertoken

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	apperrors "github.com/louisbranch/millionaire/internal/platform/errors"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func testKeys(t *testing.T, fill byte) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	public, private, err := ed25519.GenerateKey(bytes.NewReader(bytes.Repeat([]byte{fill}, 64)))
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return public, private
}

func fixedNow(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

func signTestToken(t *testing.T, private ed25519.PrivateKey, admin bool) string {
	t.Helper()
	token, err := Sign(SignerConfig{
		Key:         private,
		Now:         fixedNow(testNow),
		IDGenerator: func() (string, error) { return "jti-1", nil },
	}, "player-1", "Ann", admin, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestSignAndVerify(t *testing.T) {
	public, private := testKeys(t, 1)
	token := signTestToken(t, private, true)

	claims, err := Verify(token, VerifierConfig{Key: public, Now: fixedNow(testNow.Add(time.Minute))})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "player-1" || claims.DisplayName != "Ann" || !claims.Admin {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.JWTID != "jti-1" {
		t.Fatalf("jti = %q, want jti-1", claims.JWTID)
	}
	if !claims.ExpiresAt.Equal(testNow.Add(time.Hour)) {
		t.Fatalf("expires = %v", claims.ExpiresAt)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	public, private := testKeys(t, 1)
	token := signTestToken(t, private, false)

	_, err := Verify(token, VerifierConfig{Key: public, Now: fixedNow(testNow.Add(2 * time.Hour))})
	if !apperrors.IsCode(err, apperrors.CodePlayerTokenExpired) {
		t.Fatalf("error = %v, want %s", err, apperrors.CodePlayerTokenExpired)
	}
}

func TestVerifyRejectsOtherKey(t *testing.T) {
	_, private := testKeys(t, 1)
	otherPublic, _ := testKeys(t, 2)
	token := signTestToken(t, private, false)

	_, err := Verify(token, VerifierConfig{Key: otherPublic, Now: fixedNow(testNow)})
	if !apperrors.IsCode(err, apperrors.CodePlayerTokenInvalid) {
		t.Fatalf("error = %v, want %s", err, apperrors.CodePlayerTokenInvalid)
	}
}

func TestVerifyRejectsAudienceMismatch(t *testing.T) {
	public, private := testKeys(t, 1)
	token := signTestToken(t, private, false)

	_, err := Verify(token, VerifierConfig{Key: public, Audience: "someone-else", Now: fixedNow(testNow)})
	if got := apperrors.ParamsOf(err)["Field"]; got != "audience" {
		t.Fatalf("field = %q, want audience (err %v)", got, err)
	}
}

func TestVerifyRequiresToken(t *testing.T) {
	public, _ := testKeys(t, 1)
	if _, err := Verify("  ", VerifierConfig{Key: public}); !apperrors.IsCode(err, apperrors.CodePlayerTokenInvalid) {
		t.Fatalf("error = %v", err)
	}
	if _, err := Verify("not-a-jwt", VerifierConfig{Key: public}); !apperrors.IsCode(err, apperrors.CodePlayerTokenInvalid) {
		t.Fatalf("error = %v", err)
	}
}

func TestSignRequiresUserAndKey(t *testing.T) {
	_, private := testKeys(t, 1)
	if _, err := Sign(SignerConfig{Key: private}, "", "", false, 0); err == nil {
		t.Fatal("expected error for empty user")
	}
	if _, err := Sign(SignerConfig{}, "player-1", "", false, 0); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestLoadVerifierConfigFromEnv(t *testing.T) {
	public, _ := testKeys(t, 1)

	t.Setenv("MILLIONAIRE_PLAYER_TOKEN_PUBLIC_KEY", "")
	if _, ok, err := LoadVerifierConfigFromEnv(nil); err != nil || ok {
		t.Fatalf("empty key: ok = %v, err = %v", ok, err)
	}

	t.Setenv("MILLIONAIRE_PLAYER_TOKEN_PUBLIC_KEY", base64.RawStdEncoding.EncodeToString(public))
	cfg, ok, err := LoadVerifierConfigFromEnv(nil)
	if err != nil || !ok {
		t.Fatalf("load: ok = %v, err = %v", ok, err)
	}
	if !bytes.Equal(cfg.Key, public) || cfg.Issuer != DefaultIssuer || cfg.Audience != DefaultAudience {
		t.Fatalf("cfg = %+v", cfg)
	}

	t.Setenv("MILLIONAIRE_PLAYER_TOKEN_PUBLIC_KEY", "c2hvcnQ")
	if _, _, err := LoadVerifierConfigFromEnv(nil); err == nil {
		t.Fatal("expected error for short key")
	}
}

func TestLoadSignerConfigFromEnvRequiresKey(t *testing.T) {
	t.Setenv("MILLIONAIRE_PLAYER_TOKEN_PRIVATE_KEY", "")
	if _, err := LoadSignerConfigFromEnv(nil); err == nil {
		t.Fatal("expected error for missing private key")
	}
}

func TestMapJWTErrorKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	if !errors.Is(mapJWTError(cause), cause) {
		t.Fatal("expected cause in chain")
	}
}
