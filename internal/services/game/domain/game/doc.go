// Package game models the trivia ladder aggregate.
//
// A Game owns fifteen GameQuestions, one per level, and is the only place
// where answers, banking, and lifelines change state. Status is never stored:
// it is derived from the current level, the failure flag, and the start and
// finish timestamps against TimeLimit.
//
// The package holds:
//   - the prize ladder and the question value type,
//   - the per-level GameQuestion with its answer permutation and help reveals,
//   - and the Game state machine plus CreateGameForUser.
//
// Nothing here reads the wall clock or a global random source. Callers pass
// the current time and a *rand.Rand so transitions stay deterministic in tests.
package game
