package game

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeBank struct {
	byLevel map[int][]Question
	err     error
}

func (b fakeBank) QuestionsAtLevel(_ context.Context, level int) ([]Question, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.byLevel[level], nil
}

func fullBank(t *testing.T, perLevel int) fakeBank {
	t.Helper()
	bank := fakeBank{byLevel: map[int][]Question{}}
	for level := 0; level < Levels; level++ {
		for i := 0; i < perLevel; i++ {
			q, err := NewQuestion(
				fmt.Sprintf("q-%d-%d", level, i),
				level,
				fmt.Sprintf("Question %d/%d?", level, i),
				[4]string{"right", "wrong one", "wrong two", "wrong three"},
			)
			if err != nil {
				t.Fatalf("new question: %v", err)
			}
			bank.byLevel[level] = append(bank.byLevel[level], q)
		}
	}
	return bank
}

func newTestGame(t *testing.T, seed int64) Game {
	t.Helper()
	g, err := CreateGameForUser(
		context.Background(),
		"user-1",
		fullBank(t, 3),
		rand.New(rand.NewSource(seed)),
		func() time.Time { return testNow },
		func() (string, error) { return "game-1", nil },
	)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	return g
}

func correctKey(t *testing.T, g *Game) string {
	t.Helper()
	gq, err := g.CurrentGameQuestion()
	if err != nil {
		t.Fatalf("current question: %v", err)
	}
	return gq.CorrectAnswerKey().String()
}

func wrongKey(t *testing.T, g *Game) string {
	t.Helper()
	gq, err := g.CurrentGameQuestion()
	if err != nil {
		t.Fatalf("current question: %v", err)
	}
	return gq.incorrectKeys()[0].String()
}

func answerCorrectly(t *testing.T, g *Game, times int, now time.Time) {
	t.Helper()
	for i := 0; i < times; i++ {
		ok, err := g.AnswerCurrentQuestion(correctKey(t, g), now)
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("answer %d: expected correct", i)
		}
	}
}
