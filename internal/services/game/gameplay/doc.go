// Package gameplay implements the player-facing use cases of the trivia ladder.
//
// Each operation loads a game through the storage contracts, applies one
// domain transition with the service clock and random source, and returns a
// GameView. Every game transition runs inside storage.GameStore.UpdateGame,
// which serializes writers and credits winnings in the same transaction.
package gameplay
