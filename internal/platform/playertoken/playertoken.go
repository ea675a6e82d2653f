// Package playertoken signs and verifies the EdDSA tokens that carry a player
// identity to the game service.
package playertoken

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/millionaire/internal/platform/errors"
	"github.com/louisbranch/millionaire/internal/platform/id"
)

const (
	// DefaultIssuer is used when no issuer is configured.
	DefaultIssuer = "millionaire"
	// DefaultAudience is used when no audience is configured.
	DefaultAudience = "millionaire-game"
	// DefaultTTL bounds the lifetime of minted tokens.
	DefaultTTL = 24 * time.Hour
)

// verifierEnv holds raw env values before post-parse validation.
type verifierEnv struct {
	Issuer    string `env:"MILLIONAIRE_PLAYER_TOKEN_ISSUER" envDefault:"millionaire"`
	Audience  string `env:"MILLIONAIRE_PLAYER_TOKEN_AUDIENCE" envDefault:"millionaire-game"`
	PublicKey string `env:"MILLIONAIRE_PLAYER_TOKEN_PUBLIC_KEY"`
}

// signerEnv holds raw signer env values.
type signerEnv struct {
	Issuer     string `env:"MILLIONAIRE_PLAYER_TOKEN_ISSUER" envDefault:"millionaire"`
	Audience   string `env:"MILLIONAIRE_PLAYER_TOKEN_AUDIENCE" envDefault:"millionaire-game"`
	PrivateKey string `env:"MILLIONAIRE_PLAYER_TOKEN_PRIVATE_KEY"`
}

// VerifierConfig defines how player tokens are verified.
type VerifierConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// SignerConfig defines how player tokens are minted.
type SignerConfig struct {
	Issuer      string
	Audience    string
	Key         ed25519.PrivateKey
	Now         func() time.Time
	IDGenerator func() (string, error)
}

// Claims are the validated contents of a player token.
type Claims struct {
	UserID      string
	DisplayName string
	Admin       bool
	ExpiresAt   time.Time
	IssuedAt    time.Time
	JWTID       string
}

type tokenClaims struct {
	jwt.RegisteredClaims
	DisplayName string `json:"name,omitempty"`
	Admin       bool   `json:"admin,omitempty"`
}

// LoadVerifierConfigFromEnv reads verification settings. ok is false when no
// public key is configured.
func LoadVerifierConfigFromEnv(now func() time.Time) (cfg VerifierConfig, ok bool, err error) {
	var raw verifierEnv
	if err := env.Parse(&raw); err != nil {
		return VerifierConfig{}, false, fmt.Errorf("parse player token env: %w", err)
	}
	publicKey := strings.TrimSpace(raw.PublicKey)
	if publicKey == "" {
		return VerifierConfig{}, false, nil
	}
	key, err := ParsePublicKey(publicKey)
	if err != nil {
		return VerifierConfig{}, false, err
	}
	if now == nil {
		now = time.Now
	}
	return VerifierConfig{
		Issuer:   strings.TrimSpace(raw.Issuer),
		Audience: strings.TrimSpace(raw.Audience),
		Key:      key,
		Now:      now,
	}, true, nil
}

// LoadSignerConfigFromEnv reads signing settings.
func LoadSignerConfigFromEnv(now func() time.Time) (SignerConfig, error) {
	var raw signerEnv
	if err := env.Parse(&raw); err != nil {
		return SignerConfig{}, fmt.Errorf("parse player token env: %w", err)
	}
	privateKey := strings.TrimSpace(raw.PrivateKey)
	if privateKey == "" {
		return SignerConfig{}, fmt.Errorf("MILLIONAIRE_PLAYER_TOKEN_PRIVATE_KEY is required")
	}
	key, err := ParsePrivateKey(privateKey)
	if err != nil {
		return SignerConfig{}, err
	}
	return SignerConfig{
		Issuer:   strings.TrimSpace(raw.Issuer),
		Audience: strings.TrimSpace(raw.Audience),
		Key:      key,
		Now:      now,
	}, nil
}

// ParsePublicKey decodes a base64 ed25519 public key.
func ParsePublicKey(value string) (ed25519.PublicKey, error) {
	keyBytes, err := decodeBase64(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("decode player token public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("player token public key must be %d bytes", ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(keyBytes), nil
}

// ParsePrivateKey decodes a base64 ed25519 private key.
func ParsePrivateKey(value string) (ed25519.PrivateKey, error) {
	keyBytes, err := decodeBase64(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("decode player token private key: %w", err)
	}
	if len(keyBytes) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("player token private key must be %d bytes", ed25519.PrivateKeySize)
	}
	return ed25519.PrivateKey(keyBytes), nil
}

// Sign mints a token for userID valid for ttl.
func Sign(cfg SignerConfig, userID, displayName string, admin bool, ttl time.Duration) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("user id is required")
	}
	if len(cfg.Key) != ed25519.PrivateKeySize {
		return "", errors.New("player token signer is not configured")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = id.NewID
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.Audience == "" {
		cfg.Audience = DefaultAudience
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	jti, err := cfg.IDGenerator()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}

	now := cfg.Now().UTC()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
		DisplayName: strings.TrimSpace(displayName),
		Admin:       admin,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(cfg.Key)
	if err != nil {
		return "", fmt.Errorf("sign player token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and claims of a player token.
func Verify(token string, cfg VerifierConfig) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.New(apperrors.CodePlayerTokenInvalid, "player token is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if len(cfg.Key) != ed25519.PublicKeySize {
		return Claims{}, errors.New("player token verifier is not configured")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.Audience == "" {
		cfg.Audience = DefaultAudience
	}

	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if parsed.Issuer != cfg.Issuer {
		return Claims{}, apperrors.New(apperrors.CodePlayerTokenInvalid, "player token issuer mismatch").With("Field", "issuer")
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return Claims{}, apperrors.New(apperrors.CodePlayerTokenInvalid, "player token audience mismatch").With("Field", "audience")
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return Claims{}, apperrors.New(apperrors.CodePlayerTokenInvalid, "player token sub is required")
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, apperrors.New(apperrors.CodePlayerTokenInvalid, "player token exp is required")
	}
	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return Claims{}, apperrors.New(apperrors.CodePlayerTokenExpired, "player token is expired")
	}

	claims := Claims{
		UserID:      parsed.Subject,
		DisplayName: parsed.DisplayName,
		Admin:       parsed.Admin,
		ExpiresAt:   exp,
		JWTID:       parsed.ID,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.Wrap(apperrors.CodePlayerTokenInvalid, "player token signature is invalid", err)
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.Wrap(apperrors.CodePlayerTokenInvalid, "player token alg is invalid", err)
	}
	return apperrors.Wrap(apperrors.CodePlayerTokenInvalid, "player token is invalid", err)
}

func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
