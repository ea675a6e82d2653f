// Package auth resolves the calling player for game gRPC requests.
//
// With a player-token verifier configured, callers must send
// "authorization: Bearer <token>". Without one the server runs in development
// mode and trusts the x-millionaire-user-id header; only the user ids listed
// in Config.DevAdmins are admins there.
package auth

import (
	"context"
	"slices"
	"strings"

	apperrors "github.com/louisbranch/millionaire/internal/platform/errors"
	"github.com/louisbranch/millionaire/internal/platform/playertoken"
	"github.com/louisbranch/millionaire/internal/platform/requestctx"
	grpcmeta "github.com/louisbranch/millionaire/internal/services/game/api/grpc/metadata"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// Config controls how identities are resolved.
type Config struct {
	// Verifier is used when Enabled is true.
	Verifier playertoken.VerifierConfig
	Enabled  bool
	// DevAdmins are the development user ids allowed admin calls when
	// tokens are disabled.
	DevAdmins []string
	// PublicMethods skip identity resolution entirely.
	PublicMethods []string
}

// UnaryServerInterceptor stores the caller identity in the request context.
//
// Calls without any identity proceed anonymously; handlers that need a player
// reject them. An invalid or expired token fails the call.
func UnaryServerInterceptor(cfg Config) grpc.UnaryServerInterceptor {
	public := make(map[string]struct{}, len(cfg.PublicMethods))
	for _, method := range cfg.PublicMethods {
		public[method] = struct{}{}
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := public[info.FullMethod]; ok || strings.HasPrefix(info.FullMethod, "/grpc.health.v1.Health/") {
			return handler(ctx, req)
		}
		resolved, err := Resolve(ctx, cfg)
		if err != nil {
			return nil, apperrors.HandleError(err, grpcmeta.LocaleFromContext(ctx))
		}
		return handler(resolved, req)
	}
}

// Resolve attaches the caller identity found in ctx metadata.
func Resolve(ctx context.Context, cfg Config) (context.Context, error) {
	if !cfg.Enabled {
		userID := grpcmeta.UserIDFromContext(ctx)
		if userID == "" {
			return ctx, nil
		}
		ctx = requestctx.WithCaller(ctx, requestctx.Caller{
			UserID:      userID,
			DisplayName: grpcmeta.DisplayNameFromContext(ctx),
			Admin:       slices.Contains(cfg.DevAdmins, userID),
		})
		tagSpan(ctx, userID)
		return ctx, nil
	}

	token := grpcmeta.BearerTokenFromContext(ctx)
	if token == "" {
		return ctx, nil
	}
	claims, err := playertoken.Verify(token, cfg.Verifier)
	if err != nil {
		return nil, err
	}
	ctx = requestctx.WithCaller(ctx, requestctx.Caller{
		UserID:      claims.UserID,
		DisplayName: claims.DisplayName,
		Admin:       claims.Admin,
	})
	tagSpan(ctx, claims.UserID)
	return ctx, nil
}

func tagSpan(ctx context.Context, userID string) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("user.id", userID))
}
