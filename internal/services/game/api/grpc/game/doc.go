// Package game exposes gameplay over gRPC as millionaire.game.v1.GameService.
//
// Requests and responses are google.protobuf.Struct values with snake_case
// fields, so any gRPC client can call the service without generated stubs.
// Client wraps the descriptor with typed helpers.
package game
