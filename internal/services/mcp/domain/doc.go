// Package domain translates MCP tool calls into game service requests.
//
// Each handler opens one invocation, forwards the player identity as gRPC
// metadata, and renders the returned game as structured tool output with a
// short localized summary.
package domain
