package metadata

import (
	"context"
	"strings"

	"github.com/louisbranch/millionaire/internal/platform/id"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	RequestIDHeader      = "x-millionaire-request-id"
	InvocationIDHeader   = "x-millionaire-invocation-id"
	UserIDHeader         = "x-millionaire-user-id"
	DisplayNameHeader    = "x-millionaire-display-name"
	AuthorizationHeader  = "authorization"
	AcceptLanguageHeader = "accept-language"
)

// Request identifies one call for logs and traces. InvocationID is set only
// when the call comes from an MCP tool.
type Request struct {
	ID           string
	InvocationID string
}

type requestKey struct{}

// WithRequest stores r in ctx.
func WithRequest(ctx context.Context, r Request) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestKey{}, r)
}

// RequestFromContext returns the request stored by the interceptor.
func RequestFromContext(ctx context.Context) Request {
	if ctx == nil {
		return Request{}
	}
	r, _ := ctx.Value(requestKey{}).(Request)
	return r
}

// UserIDFromContext returns the development user id header.
func UserIDFromContext(ctx context.Context) string {
	return Incoming(ctx, UserIDHeader)
}

// DisplayNameFromContext returns the development display name header.
func DisplayNameFromContext(ctx context.Context) string {
	return Incoming(ctx, DisplayNameHeader)
}

// LocaleFromContext returns the raw accept-language header.
func LocaleFromContext(ctx context.Context) string {
	return Incoming(ctx, AcceptLanguageHeader)
}

// BearerTokenFromContext returns the token of a "Bearer" authorization header.
func BearerTokenFromContext(ctx context.Context) string {
	scheme, token, ok := strings.Cut(Incoming(ctx, AuthorizationHeader), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Incoming returns the first printable value of key in the incoming
// metadata, trimmed.
func Incoming(ctx context.Context, key string) string {
	if ctx == nil {
		return ""
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	return First(md, key)
}

// First returns the first printable value of key in md, trimmed. Keys
// compare case-insensitively.
func First(md metadata.MD, key string) string {
	for mdKey, values := range md {
		if !strings.EqualFold(mdKey, key) {
			continue
		}
		for _, value := range values {
			if Printable(value) {
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}

// Printable reports whether value is a non-empty printable ASCII string, the
// only kind of value gRPC accepts in a text header.
func Printable(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x20 || value[i] > 0x7e {
			return false
		}
	}
	return true
}

// UnaryServerInterceptor assigns a request id to every call, generating one
// with newID when the caller sent none. The ids are echoed in response
// headers and set on the active span.
func UnaryServerInterceptor(newID func() (string, error)) grpc.UnaryServerInterceptor {
	if newID == nil {
		newID = id.NewID
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		r, err := requestFromIncoming(ctx, newID)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "assign request id: %v", err)
		}
		if err := grpc.SetHeader(ctx, r.headers()); err != nil {
			return nil, status.Errorf(codes.Internal, "set response metadata: %v", err)
		}
		attrs := []attribute.KeyValue{attribute.String("millionaire.request_id", r.ID)}
		if r.InvocationID != "" {
			attrs = append(attrs, attribute.String("millionaire.invocation_id", r.InvocationID))
		}
		trace.SpanFromContext(ctx).SetAttributes(attrs...)
		return handler(WithRequest(ctx, r), req)
	}
}

func requestFromIncoming(ctx context.Context, newID func() (string, error)) (Request, error) {
	r := Request{
		ID:           Incoming(ctx, RequestIDHeader),
		InvocationID: Incoming(ctx, InvocationIDHeader),
	}
	if r.ID == "" {
		generated, err := newID()
		if err != nil {
			return Request{}, err
		}
		r.ID = generated
	}
	return r, nil
}

func (r Request) headers() metadata.MD {
	md := metadata.Pairs(RequestIDHeader, r.ID)
	if r.InvocationID != "" {
		md.Append(InvocationIDHeader, r.InvocationID)
	}
	return md
}
