// Package service runs the trivia MCP server over stdio and binds its tools
// to a game server connection.
package service
