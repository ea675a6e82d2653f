package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/louisbranch/millionaire/internal/platform/id"
)

// QuestionBank supplies candidate questions for each level.
type QuestionBank interface {
	QuestionsAtLevel(ctx context.Context, level int) ([]Question, error)
}

// CreateGameForUser draws one random question per level and starts a game.
//
// The caller is responsible for making sure userID has no other unfinished
// game. Creation either returns a complete game or an error.
func CreateGameForUser(
	ctx context.Context,
	userID string,
	bank QuestionBank,
	rng *rand.Rand,
	now func() time.Time,
	idGenerator func() (string, error),
) (Game, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Game{}, errors.New("user id is required")
	}
	if bank == nil {
		return Game{}, errors.New("question bank is required")
	}
	if rng == nil {
		return Game{}, errors.New("random source is required")
	}
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	questions := make([]GameQuestion, 0, Levels)
	for level := 0; level < Levels; level++ {
		candidates, err := bank.QuestionsAtLevel(ctx, level)
		if err != nil {
			return Game{}, fmt.Errorf("load questions for level %d: %w", level, err)
		}
		if len(candidates) == 0 {
			return Game{}, fmt.Errorf("%w %d", ErrQuestionBankExhausted, level)
		}
		picked := candidates[rng.Intn(len(candidates))]
		if picked.Level != level {
			return Game{}, fmt.Errorf("question %s has level %d, want %d", picked.ID, picked.Level, level)
		}
		questions = append(questions, NewGameQuestion(picked, rng))
	}

	gameID, err := idGenerator()
	if err != nil {
		return Game{}, fmt.Errorf("generate game id: %w", err)
	}

	return Game{
		ID:        gameID,
		UserID:    userID,
		CreatedAt: now().UTC(),
		Questions: questions,
	}, nil
}
