// Package storage defines persistence interfaces for the game service.
//
// It covers the question bank, player accounts and games. Implementations
// (e.g., SQLite) live in subpackages.
//
// Common error types:
//   - ErrNotFound: requested record is missing
//   - ErrActiveGameExists: conflict starting a second game for a user
package storage
