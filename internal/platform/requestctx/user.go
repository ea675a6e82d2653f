// Package requestctx carries the authenticated caller through a request.
package requestctx

import "context"

// Caller is the player a request acts for.
type Caller struct {
	UserID      string
	DisplayName string
	// Admin allows managing the question bank.
	Admin bool
}

type callerContextKey struct{}

// WithCaller stores caller in ctx.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, callerContextKey{}, caller)
}

// CallerFromContext returns the caller stored in ctx, if any.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	if ctx == nil {
		return Caller{}, false
	}
	caller, ok := ctx.Value(callerContextKey{}).(Caller)
	return caller, ok
}

// WithUserID replaces the user id of the caller in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	caller, _ := CallerFromContext(ctx)
	caller.UserID = userID
	return WithCaller(ctx, caller)
}

// WithAdmin replaces the admin flag of the caller in ctx.
func WithAdmin(ctx context.Context, admin bool) context.Context {
	caller, _ := CallerFromContext(ctx)
	caller.Admin = admin
	return WithCaller(ctx, caller)
}

// UserIDFromContext returns the caller's user id.
func UserIDFromContext(ctx context.Context) string {
	caller, _ := CallerFromContext(ctx)
	return caller.UserID
}

// DisplayNameFromContext returns the caller's display name.
func DisplayNameFromContext(ctx context.Context) string {
	caller, _ := CallerFromContext(ctx)
	return caller.DisplayName
}

// IsAdmin reports whether the caller may manage the question bank.
func IsAdmin(ctx context.Context) bool {
	caller, _ := CallerFromContext(ctx)
	return caller.Admin
}
