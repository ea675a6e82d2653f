package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/millionaire/internal/platform/errors"
	"github.com/louisbranch/millionaire/internal/services/game/domain/game"
)

// ErrNotFound indicates a requested persistence record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrActiveGameExists indicates the user already has an unfinished game.
var ErrActiveGameExists = apperrors.New(apperrors.CodeActiveGameExists, "active game already exists for user")

// Account is a player and their accumulated winnings.
type Account struct {
	ID        string
	Name      string
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccountPage is one page of leaderboard accounts.
type AccountPage struct {
	Accounts      []Account
	NextPageToken string
}

// GamePage is one page of games.
type GamePage struct {
	Games         []game.Game
	NextPageToken string
}

// GameQuery selects games for ListGames.
type GameQuery struct {
	// UserID restricts results to one player; empty lists every player.
	UserID    string
	PageSize  int
	PageToken string
	// Filter is an AIP-160 expression over status, prize, current_level,
	// is_failed, finished and created_at.
	Filter string
}

// GameMutation changes a loaded game inside the update transaction.
//
// Returning an error aborts the update without writing anything.
type GameMutation func(g *game.Game) error

// QuestionStore owns the question bank.
type QuestionStore interface {
	// PutQuestions inserts or replaces questions by id.
	PutQuestions(ctx context.Context, questions []game.Question) error
	// QuestionsAtLevel returns every question at level.
	QuestionsAtLevel(ctx context.Context, level int) ([]game.Question, error)
	// CountQuestionsByLevel returns the number of questions per level.
	CountQuestionsByLevel(ctx context.Context) (map[int]int, error)
}

// AccountStore owns player accounts and balances.
type AccountStore interface {
	// EnsureAccount creates the account if missing and returns it.
	EnsureAccount(ctx context.Context, id, name string) (Account, error)
	GetAccount(ctx context.Context, id string) (Account, error)
	// ListLeaderboard orders accounts by balance, highest first.
	ListLeaderboard(ctx context.Context, pageSize int, pageToken string) (AccountPage, error)
}

// GameStore owns games and their per-level questions.
type GameStore interface {
	// CreateGame persists a new game and returns ErrActiveGameExists when the
	// user already has an unfinished one.
	CreateGame(ctx context.Context, g game.Game) error
	GetGame(ctx context.Context, id string) (game.Game, error)
	// GetActiveGame returns the user's unfinished game, or ErrNotFound.
	GetActiveGame(ctx context.Context, userID string) (game.Game, error)
	ListGames(ctx context.Context, query GameQuery) (GamePage, error)
	// UpdateGame loads, mutates and saves a game in one serialized
	// transaction. A transition into a banked or won state credits the
	// owner's balance with the prize in the same transaction.
	UpdateGame(ctx context.Context, id string, mutate GameMutation) (game.Game, error)
}

// Store is the full persistence surface of the game service.
type Store interface {
	QuestionStore
	AccountStore
	GameStore
	Close() error
}
