// Package timeouts holds the durations shared by the game server, the MCP
// bridge and the seed tool.
package timeouts

import "time"

const (
	// GameDial bounds connecting to the game server and waiting for it to
	// report SERVING.
	GameDial = 2 * time.Second
	// ToolCall bounds one game service call made on behalf of an MCP tool.
	ToolCall = 5 * time.Second
	// MetricsReadHeader bounds header reads on the metrics listener.
	MetricsReadHeader = 5 * time.Second
	// Drain bounds graceful shutdown of the gRPC and metrics listeners.
	Drain = 5 * time.Second
)
