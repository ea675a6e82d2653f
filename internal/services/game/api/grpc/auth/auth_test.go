package auth

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"testing"
	"time"

	apperrors "github.com/louisbranch/millionaire/internal/platform/errors"
	"github.com/louisbranch/millionaire/internal/platform/playertoken"
	"github.com/louisbranch/millionaire/internal/platform/requestctx"
	grpcmeta "github.com/louisbranch/millionaire/internal/services/game/api/grpc/metadata"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var testNow = time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC)

func tokenConfig(t *testing.T) (Config, playertoken.SignerConfig) {
	t.Helper()
	public, private, err := ed25519.GenerateKey(bytes.NewReader(bytes.Repeat([]byte{3}, 64)))
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	now := func() time.Time { return testNow }
	return Config{
			Enabled:  true,
			Verifier: playertoken.VerifierConfig{Key: public, Now: now},
		}, playertoken.SignerConfig{
			Key:         private,
			Now:         now,
			IDGenerator: func() (string, error) { return "jti", nil },
		}
}

func incoming(pairs ...string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(pairs...))
}

func TestResolveDevHeader(t *testing.T) {
	ctx, err := Resolve(incoming(grpcmeta.UserIDHeader, "p1", grpcmeta.DisplayNameHeader, "Ann"), Config{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := requestctx.UserIDFromContext(ctx); got != "p1" {
		t.Fatalf("user id = %q, want p1", got)
	}
	if got := requestctx.DisplayNameFromContext(ctx); got != "Ann" {
		t.Fatalf("display name = %q, want Ann", got)
	}
	if requestctx.IsAdmin(ctx) {
		t.Fatal("expected development callers not to be admins by default")
	}
}

func TestResolveDevAdmins(t *testing.T) {
	cfg := Config{DevAdmins: []string{"seed"}}
	ctx, err := Resolve(incoming(grpcmeta.UserIDHeader, "seed"), cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !requestctx.IsAdmin(ctx) {
		t.Fatal("expected listed development user to be admin")
	}
	ctx, err = Resolve(incoming(grpcmeta.UserIDHeader, "seed-2"), cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if requestctx.IsAdmin(ctx) {
		t.Fatal("expected unlisted development user not to be admin")
	}
}

func TestResolveIgnoresDevHeaderWhenTokensEnabled(t *testing.T) {
	cfg, _ := tokenConfig(t)
	ctx, err := Resolve(incoming(grpcmeta.UserIDHeader, "p1"), cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := requestctx.UserIDFromContext(ctx); got != "" {
		t.Fatalf("user id = %q, want anonymous", got)
	}
}

func TestResolveBearerToken(t *testing.T) {
	cfg, signer := tokenConfig(t)
	token, err := playertoken.Sign(signer, "p2", "Bob", false, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	ctx, err := Resolve(incoming(grpcmeta.AuthorizationHeader, "Bearer "+token), cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := requestctx.UserIDFromContext(ctx); got != "p2" {
		t.Fatalf("user id = %q, want p2", got)
	}
	if requestctx.IsAdmin(ctx) {
		t.Fatal("expected non-admin token")
	}
}

func TestInterceptorRejectsBadToken(t *testing.T) {
	cfg, _ := tokenConfig(t)
	interceptor := UnaryServerInterceptor(cfg)
	called := false
	_, err := interceptor(
		incoming(grpcmeta.AuthorizationHeader, "Bearer nope"),
		nil,
		&grpc.UnaryServerInfo{FullMethod: "/millionaire.game.v1.GameService/GetGame"},
		func(context.Context, any) (any, error) {
			called = true
			return nil, nil
		},
	)
	if called {
		t.Fatal("handler must not run with an invalid token")
	}
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("code = %v, want %v", status.Code(err), codes.Unauthenticated)
	}
	if apperrors.CodeOf(err) != apperrors.CodeUnknown {
		t.Fatal("expected a status error, not a domain error")
	}
}

func TestInterceptorSkipsPublicMethods(t *testing.T) {
	cfg, _ := tokenConfig(t)
	cfg.PublicMethods = []string{"/millionaire.game.v1.GameService/GetLeaderboard"}
	interceptor := UnaryServerInterceptor(cfg)

	for _, method := range []string{
		"/millionaire.game.v1.GameService/GetLeaderboard",
		"/grpc.health.v1.Health/Check",
	} {
		called := false
		_, err := interceptor(
			incoming(grpcmeta.AuthorizationHeader, "Bearer nope"),
			nil,
			&grpc.UnaryServerInfo{FullMethod: method},
			func(context.Context, any) (any, error) {
				called = true
				return nil, nil
			},
		)
		if err != nil || !called {
			t.Fatalf("%s: called = %v, err = %v", method, called, err)
		}
	}
}
