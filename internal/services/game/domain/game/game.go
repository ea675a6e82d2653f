package game

import (
	"fmt"
	"math/rand"
	"time"
)

// TimeLimit is how long a player has to finish a game.
const TimeLimit = time.Hour

// Status is the derived outcome of a game.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusMoney      Status = "money"
	StatusFail       Status = "fail"
	StatusTimeout    Status = "timeout"
)

// Game is one play session of the ladder.
type Game struct {
	ID           string
	UserID       string
	CurrentLevel int
	CreatedAt    time.Time
	FinishedAt   *time.Time
	IsFailed     bool
	Prize        int64

	FiftyFiftyUsed   bool
	AudienceHelpUsed bool
	FriendCallUsed   bool

	// Questions holds one GameQuestion per level; the index is the level.
	Questions []GameQuestion
}

// Validate checks the structural invariants of a loaded game.
func (g Game) Validate() error {
	if len(g.Questions) != Levels {
		return fmt.Errorf("game %s: has %d questions, want %d", g.ID, len(g.Questions), Levels)
	}
	for i, gq := range g.Questions {
		if gq.Level() != i {
			return fmt.Errorf("game %s: question at index %d has level %d", g.ID, i, gq.Level())
		}
	}
	if g.CurrentLevel < 0 || g.CurrentLevel > Levels {
		return fmt.Errorf("game %s: current level %d outside 0..%d", g.ID, g.CurrentLevel, Levels)
	}
	if g.Prize < 0 {
		return fmt.Errorf("game %s: prize must be non-negative", g.ID)
	}
	return nil
}

// Finished reports whether the game has ended.
func (g Game) Finished() bool {
	return g.FinishedAt != nil
}

// TimedOut reports whether the time limit elapsed before the game finished,
// or before now when it is still open.
func (g Game) TimedOut(now time.Time) bool {
	end := now
	if g.FinishedAt != nil {
		end = *g.FinishedAt
	}
	return g.CreatedAt.Add(TimeLimit).Before(end)
}

// Status derives the game outcome.
func (g Game) Status(now time.Time) Status {
	switch {
	case !g.Finished():
		return StatusInProgress
	case g.IsFailed && g.TimedOut(now):
		return StatusTimeout
	case g.IsFailed:
		return StatusFail
	case g.CurrentLevel >= Levels:
		return StatusWon
	default:
		return StatusMoney
	}
}

// CurrentGameQuestion returns the question at the current level.
func (g *Game) CurrentGameQuestion() (*GameQuestion, error) {
	return g.questionAt(g.CurrentLevel)
}

// PreviousLevel returns the last level the player completed, or -1.
func (g Game) PreviousLevel() int {
	return g.CurrentLevel - 1
}

// PreviousGameQuestion returns the last answered question, if any.
func (g *Game) PreviousGameQuestion() (*GameQuestion, bool) {
	gq, err := g.questionAt(g.PreviousLevel())
	if err != nil {
		return nil, false
	}
	return gq, true
}

// BankablePrize is what TakeMoney would award right now.
func (g Game) BankablePrize() int64 {
	return PrizeFor(g.PreviousLevel())
}

// AnswerCurrentQuestion judges value against the current question.
//
// It returns true when the answer was correct, including the final answer
// that wins the game. It returns false when the answer was wrong, when the
// time limit had already run out (closing the game as a timeout), or when the
// game had already finished. Only a malformed key is reported as an error,
// and it never changes state.
func (g *Game) AnswerCurrentQuestion(value string, now time.Time) (bool, error) {
	key, err := ParseKey(value)
	if err != nil {
		return false, err
	}
	if g.closeIfTimedOut(now) || g.Finished() {
		return false, nil
	}

	gq, err := g.CurrentGameQuestion()
	if err != nil {
		return false, err
	}
	if key != gq.CorrectAnswerKey() {
		g.finish(0, true, now)
		return false, nil
	}
	if g.CurrentLevel == LastLevel {
		g.CurrentLevel = Levels
		g.finish(PrizeFor(LastLevel), false, now)
		return true, nil
	}
	g.CurrentLevel++
	return true, nil
}

// TakeMoney banks the prize for the last completed level and ends the game.
//
// It returns false without banking when the game already finished, or when
// the time limit ran out, in which case the game closes with nothing.
func (g *Game) TakeMoney(now time.Time) bool {
	if g.closeIfTimedOut(now) || g.Finished() {
		return false
	}
	g.finish(PrizeFor(g.PreviousLevel()), false, now)
	return true
}

// RequestHelp consumes a lifeline and reveals it on the current question.
//
// A game whose time ran out is closed as a timeout before the request is
// rejected with ErrGameFinished.
func (g *Game) RequestHelp(kind HelpKind, rng *rand.Rand, now time.Time) (Help, error) {
	if g.closeIfTimedOut(now) || g.Finished() {
		return nil, ErrGameFinished
	}
	used, err := g.helpUsed(kind)
	if err != nil {
		return nil, err
	}
	if *used {
		return nil, fmt.Errorf("%w: %s", ErrHelpAlreadyUsed, kind)
	}

	gq, err := g.CurrentGameQuestion()
	if err != nil {
		return nil, err
	}
	var help Help
	switch kind {
	case HelpFiftyFifty:
		help, err = gq.AddFiftyFifty(rng)
	case HelpAudience:
		help, err = gq.AddAudienceHelp(rng)
	case HelpFriendCall:
		help, err = gq.AddFriendCall(rng)
	}
	if err != nil {
		return nil, err
	}
	*used = true
	return help, nil
}

// HelpUsed reports whether kind was consumed in this game.
func (g Game) HelpUsed(kind HelpKind) bool {
	used, err := g.helpUsed(kind)
	return err == nil && *used
}

func (g *Game) helpUsed(kind HelpKind) (*bool, error) {
	switch kind {
	case HelpFiftyFifty:
		return &g.FiftyFiftyUsed, nil
	case HelpAudience:
		return &g.AudienceHelpUsed, nil
	case HelpFriendCall:
		return &g.FriendCallUsed, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidHelpKind, kind)
	}
}

func (g *Game) questionAt(level int) (*GameQuestion, error) {
	if level < 0 || level >= len(g.Questions) {
		return nil, fmt.Errorf("%w: level %d", ErrOutOfRange, level)
	}
	return &g.Questions[level], nil
}

func (g *Game) closeIfTimedOut(now time.Time) bool {
	if g.Finished() || !g.TimedOut(now) {
		return false
	}
	g.finish(0, true, now)
	return true
}

func (g *Game) finish(prize int64, failed bool, now time.Time) {
	finishedAt := now.UTC()
	g.FinishedAt = &finishedAt
	g.IsFailed = failed
	g.Prize = prize
}
