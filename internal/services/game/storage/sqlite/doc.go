// Package sqlite implements the game storage contracts on SQLite.
//
// Writers are serialized with BEGIN IMMEDIATE transactions, so a game update
// and the balance credit it triggers commit together or not at all. Times are
// stored as UTC unix milliseconds.
package sqlite
