// Package server wires storage, gameplay and the gRPC surface into a runnable
// game server, with an optional Prometheus listener.
package server
