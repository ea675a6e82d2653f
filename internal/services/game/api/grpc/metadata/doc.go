// Package metadata defines the gRPC headers the game service reads and writes.
//
//   - RequestIDHeader and InvocationIDHeader correlate logs and spans across
//     MCP, scenario and direct callers.
//   - UserIDHeader and DisplayNameHeader carry a development identity when
//     player tokens are not configured.
//   - AuthorizationHeader carries a player token as "Bearer <token>".
//   - AcceptLanguageHeader selects the locale of error messages.
package metadata
