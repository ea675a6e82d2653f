package game

import "fmt"

// Levels is the number of questions on the ladder.
const Levels = 15

// LastLevel is the index of the final question.
const LastLevel = Levels - 1

// PrizeLadder maps a completed level to its prize amount.
type PrizeLadder [Levels]int64

// DefaultLadder is the prize table used by every game.
var DefaultLadder = PrizeLadder{
	100, 200, 300, 500, 1000,
	2000, 4000, 8000, 16000, 32000,
	64000, 125000, 250000, 500000, 1000000,
}

// PrizeFor returns the prize earned for completing level.
//
// Levels below zero earn nothing, which is what banking before the first
// answer yields. Levels past the top are capped at the maximum prize.
func (l PrizeLadder) PrizeFor(level int) int64 {
	if level < 0 {
		return 0
	}
	if level > LastLevel {
		level = LastLevel
	}
	return l[level]
}

// Max returns the prize for completing the last level.
func (l PrizeLadder) Max() int64 {
	return l[LastLevel]
}

// Validate reports whether the ladder is strictly increasing and positive.
func (l PrizeLadder) Validate() error {
	for i, amount := range l {
		if amount <= 0 {
			return fmt.Errorf("ladder level %d: prize must be positive", i)
		}
		if i > 0 && amount <= l[i-1] {
			return fmt.Errorf("ladder level %d: prize %d must exceed %d", i, amount, l[i-1])
		}
	}
	return nil
}

// PrizeFor returns the DefaultLadder prize for level.
func PrizeFor(level int) int64 {
	return DefaultLadder.PrizeFor(level)
}
