package domain

import (
	"context"
	"strings"

	"github.com/louisbranch/millionaire/internal/platform/id"
	"github.com/louisbranch/millionaire/internal/platform/timeouts"
	grpcmeta "github.com/louisbranch/millionaire/internal/services/game/api/grpc/metadata"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc/metadata"
)

// Identity is the player the MCP server acts for.
type Identity struct {
	UserID      string
	DisplayName string
	// Token is a signed player token. When set it replaces the user header.
	Token  string
	Locale string
}

// ToolCallMetadata carries correlation identifiers for MCP tool calls.
type ToolCallMetadata struct {
	RequestID    string
	InvocationID string
}

// NewInvocationID generates an invocation identifier for a tool call.
func NewInvocationID() (string, error) {
	return id.NewID()
}

// NewRequestID generates a request identifier for a gRPC call.
func NewRequestID() (string, error) {
	return id.NewID()
}

// NewOutgoingContext attaches request and identity metadata to a context.
func NewOutgoingContext(ctx context.Context, invocationID string, identity Identity) (context.Context, ToolCallMetadata, error) {
	requestID, err := NewRequestID()
	if err != nil {
		return nil, ToolCallMetadata{}, err
	}

	pairs := []string{grpcmeta.RequestIDHeader, requestID}
	if invocationID != "" {
		pairs = append(pairs, grpcmeta.InvocationIDHeader, invocationID)
	}
	if token := strings.TrimSpace(identity.Token); token != "" {
		pairs = append(pairs, grpcmeta.AuthorizationHeader, "Bearer "+token)
	} else if userID := strings.TrimSpace(identity.UserID); userID != "" {
		pairs = append(pairs, grpcmeta.UserIDHeader, userID)
		// Metadata values must be printable ASCII; other names are set at creation.
		if name := strings.TrimSpace(identity.DisplayName); name != "" && grpcmeta.Printable(name) {
			pairs = append(pairs, grpcmeta.DisplayNameHeader, name)
		}
	}
	if locale := strings.TrimSpace(identity.Locale); locale != "" {
		pairs = append(pairs, grpcmeta.AcceptLanguageHeader, locale)
	}

	callCtx := metadata.AppendToOutgoingContext(ctx, pairs...)
	return callCtx, ToolCallMetadata{RequestID: requestID, InvocationID: invocationID}, nil
}

// MergeResponseMetadata overlays response headers on top of sent metadata.
func MergeResponseMetadata(sent ToolCallMetadata, header metadata.MD) ToolCallMetadata {
	requestID := grpcmeta.First(header, grpcmeta.RequestIDHeader)
	if requestID == "" {
		requestID = sent.RequestID
	}

	invocationID := grpcmeta.First(header, grpcmeta.InvocationIDHeader)
	if invocationID == "" {
		invocationID = sent.InvocationID
	}

	return ToolCallMetadata{RequestID: requestID, InvocationID: invocationID}
}

// CallToolResultWithMetadata builds a tool result with correlation metadata
// and an optional text summary.
func CallToolResultWithMetadata(meta ToolCallMetadata, summary string) *mcp.CallToolResult {
	result := &mcp.CallToolResult{
		Meta: map[string]any{
			grpcmeta.RequestIDHeader: meta.RequestID,
		},
	}
	if meta.InvocationID != "" {
		result.Meta[grpcmeta.InvocationIDHeader] = meta.InvocationID
	}
	if summary != "" {
		result.Content = []mcp.Content{&mcp.TextContent{Text: summary}}
	}
	return result
}

type toolInvocation struct {
	RunCtx       context.Context
	Cancel       context.CancelFunc
	InvocationID string
}

func newToolInvocation(ctx context.Context) (toolInvocation, error) {
	invocationID, err := NewInvocationID()
	if err != nil {
		return toolInvocation{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
	return toolInvocation{RunCtx: runCtx, Cancel: cancel, InvocationID: invocationID}, nil
}
