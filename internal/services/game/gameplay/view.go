package gameplay

import (
	"time"

	"github.com/louisbranch/millionaire/internal/services/game/domain/game"
)

// QuestionView is a question as the player may see it.
type QuestionView struct {
	Level    int
	Text     string
	Prize    int64
	Variants map[game.Key]string
	Help     game.HelpState
	// CorrectKey is only set once the question can no longer be answered.
	CorrectKey game.Key
}

// GameView is the player-facing projection of a game.
type GameView struct {
	ID            string
	UserID        string
	Status        game.Status
	CurrentLevel  int
	Prize         int64
	BankablePrize int64
	IsFailed      bool
	CreatedAt     time.Time
	FinishedAt    *time.Time
	DeadlineAt    time.Time

	FiftyFiftyUsed   bool
	AudienceHelpUsed bool
	FriendCallUsed   bool

	Current  *QuestionView
	Previous *QuestionView

	// Accepted reports the outcome of the transition that produced the view.
	Accepted bool
	// Help is the lifeline revealed by RequestHelp.
	Help game.Help
}

// GamePage is one page of game views.
type GamePage struct {
	Games         []GameView
	NextPageToken string
}

// NewGameView projects g at now.
func NewGameView(g game.Game, now time.Time, accepted bool) GameView {
	view := GameView{
		ID:               g.ID,
		UserID:           g.UserID,
		Status:           g.Status(now),
		CurrentLevel:     g.CurrentLevel,
		Prize:            g.Prize,
		IsFailed:         g.IsFailed,
		CreatedAt:        g.CreatedAt,
		FinishedAt:       g.FinishedAt,
		DeadlineAt:       g.CreatedAt.Add(game.TimeLimit),
		FiftyFiftyUsed:   g.FiftyFiftyUsed,
		AudienceHelpUsed: g.AudienceHelpUsed,
		FriendCallUsed:   g.FriendCallUsed,
		Accepted:         accepted,
	}
	if !g.Finished() {
		view.BankablePrize = g.BankablePrize()
	}

	if gq, err := g.CurrentGameQuestion(); err == nil {
		view.Current = newQuestionView(*gq, g.Finished())
	}
	if gq, ok := g.PreviousGameQuestion(); ok {
		view.Previous = newQuestionView(*gq, true)
	}
	return view
}

func newQuestionView(gq game.GameQuestion, reveal bool) *QuestionView {
	view := &QuestionView{
		Level:    gq.Level(),
		Text:     gq.Text(),
		Prize:    game.PrizeFor(gq.Level()),
		Variants: gq.Variants(),
		Help:     gq.HelpState(),
	}
	if reveal {
		view.CorrectKey = gq.CorrectAnswerKey()
	}
	return view
}
