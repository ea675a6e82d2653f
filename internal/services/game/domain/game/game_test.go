package game

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"
)

func TestCorrectAnswerAdvancesLevel(t *testing.T) {
	for level := 0; level < LastLevel; level++ {
		g := newTestGame(t, int64(level))
		answerCorrectly(t, &g, level, testNow)

		ok, err := g.AnswerCurrentQuestion(correctKey(t, &g), testNow.Add(time.Minute))
		if err != nil {
			t.Fatalf("level %d: answer: %v", level, err)
		}
		if !ok {
			t.Fatalf("level %d: expected correct answer", level)
		}
		if g.CurrentLevel != level+1 {
			t.Fatalf("level %d: current level = %d, want %d", level, g.CurrentLevel, level+1)
		}
		if got := g.Status(testNow); got != StatusInProgress {
			t.Fatalf("level %d: status = %s, want %s", level, got, StatusInProgress)
		}
		if g.Prize != 0 {
			t.Fatalf("level %d: prize = %d, want 0", level, g.Prize)
		}
	}
}

func TestFinalCorrectAnswerWins(t *testing.T) {
	g := newTestGame(t, 7)
	answerCorrectly(t, &g, LastLevel, testNow)

	ok, err := g.AnswerCurrentQuestion(correctKey(t, &g), testNow)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !ok {
		t.Fatal("expected final answer to be correct")
	}
	if g.CurrentLevel != Levels {
		t.Fatalf("current level = %d, want %d", g.CurrentLevel, Levels)
	}
	if got := g.Status(testNow); got != StatusWon {
		t.Fatalf("status = %s, want %s", got, StatusWon)
	}
	if g.Prize != DefaultLadder.Max() {
		t.Fatalf("prize = %d, want %d", g.Prize, DefaultLadder.Max())
	}
	if g.IsFailed {
		t.Fatal("expected game not failed")
	}
	if _, err := g.CurrentGameQuestion(); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("current question error = %v, want %v", err, ErrOutOfRange)
	}
	prev, ok := g.PreviousGameQuestion()
	if !ok || prev.Level() != LastLevel {
		t.Fatalf("previous question = %+v, %v", prev, ok)
	}
}

func TestIncorrectAnswerFailsIdempotently(t *testing.T) {
	g := newTestGame(t, 3)
	answerCorrectly(t, &g, 5, testNow)

	ok, err := g.AnswerCurrentQuestion(wrongKey(t, &g), testNow.Add(time.Minute))
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if ok {
		t.Fatal("expected incorrect answer")
	}
	if got := g.Status(testNow); got != StatusFail {
		t.Fatalf("status = %s, want %s", got, StatusFail)
	}
	if g.Prize != 0 || !g.IsFailed {
		t.Fatalf("prize = %d failed = %v, want 0 true", g.Prize, g.IsFailed)
	}
	finishedAt := *g.FinishedAt

	ok, err = g.AnswerCurrentQuestion(correctKey(t, &g), testNow.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("second answer: %v", err)
	}
	if ok {
		t.Fatal("expected second answer to be rejected")
	}
	if !g.FinishedAt.Equal(finishedAt) || g.CurrentLevel != 5 || g.Prize != 0 {
		t.Fatalf("finished game changed: %+v", g)
	}
}

func TestTakeMoneyBanksPreviousLevel(t *testing.T) {
	g := newTestGame(t, 11)
	answerCorrectly(t, &g, 4, testNow)

	if !g.TakeMoney(testNow.Add(10 * time.Minute)) {
		t.Fatal("expected take money to succeed")
	}
	if g.Prize != 500 {
		t.Fatalf("prize = %d, want 500", g.Prize)
	}
	if g.Prize != PrizeFor(3) {
		t.Fatalf("prize = %d, want %d", g.Prize, PrizeFor(3))
	}
	if got := g.Status(testNow); got != StatusMoney {
		t.Fatalf("status = %s, want %s", got, StatusMoney)
	}
	if g.IsFailed {
		t.Fatal("expected game not failed")
	}
}

func TestTakeMoneyBeforeFirstAnswerBanksNothing(t *testing.T) {
	g := newTestGame(t, 12)
	if !g.TakeMoney(testNow) {
		t.Fatal("expected take money to succeed")
	}
	if g.Prize != 0 || g.Status(testNow) != StatusMoney {
		t.Fatalf("prize = %d status = %s", g.Prize, g.Status(testNow))
	}
}

func TestTimedOutGameClosesOnAction(t *testing.T) {
	late := testNow.Add(TimeLimit + time.Second)
	tests := []struct {
		name string
		act  func(t *testing.T, g *Game)
	}{
		{
			name: "take money",
			act: func(t *testing.T, g *Game) {
				if g.TakeMoney(late) {
					t.Fatal("expected take money to be rejected")
				}
			},
		},
		{
			name: "correct answer",
			act: func(t *testing.T, g *Game) {
				ok, err := g.AnswerCurrentQuestion(correctKey(t, g), late)
				if err != nil || ok {
					t.Fatalf("answer = %v, %v; want false, nil", ok, err)
				}
			},
		},
		{
			name: "help",
			act: func(t *testing.T, g *Game) {
				_, err := g.RequestHelp(HelpAudience, rand.New(rand.NewSource(1)), late)
				if !errors.Is(err, ErrGameFinished) {
					t.Fatalf("help error = %v, want %v", err, ErrGameFinished)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 21)
			answerCorrectly(t, &g, 6, testNow)
			tt.act(t, &g)

			if got := g.Status(late); got != StatusTimeout {
				t.Fatalf("status = %s, want %s", got, StatusTimeout)
			}
			if g.Prize != 0 || !g.IsFailed {
				t.Fatalf("prize = %d failed = %v, want 0 true", g.Prize, g.IsFailed)
			}
			// Status stays timeout no matter when it is observed.
			if got := g.Status(testNow); got != StatusTimeout {
				t.Fatalf("status at creation = %s, want %s", got, StatusTimeout)
			}
		})
	}
}

func TestTimeLimitBoundaryIsStrict(t *testing.T) {
	g := newTestGame(t, 22)
	if g.TimedOut(testNow.Add(TimeLimit)) {
		t.Fatal("expected exactly one hour not to be timed out")
	}
	ok, err := g.AnswerCurrentQuestion(correctKey(t, &g), testNow.Add(TimeLimit))
	if err != nil || !ok {
		t.Fatalf("answer = %v, %v; want true, nil", ok, err)
	}
}

func TestFinishedGameIgnoresFurtherActions(t *testing.T) {
	g := newTestGame(t, 31)
	answerCorrectly(t, &g, 2, testNow)
	if !g.TakeMoney(testNow.Add(time.Minute)) {
		t.Fatal("expected take money to succeed")
	}
	snapshot := *g.FinishedAt
	prize := g.Prize

	later := testNow.Add(3 * TimeLimit)
	if g.TakeMoney(later) {
		t.Fatal("expected second take money to be rejected")
	}
	ok, err := g.AnswerCurrentQuestion("a", later)
	if err != nil || ok {
		t.Fatalf("answer = %v, %v; want false, nil", ok, err)
	}
	if _, err := g.RequestHelp(HelpFriendCall, rand.New(rand.NewSource(1)), later); !errors.Is(err, ErrGameFinished) {
		t.Fatalf("help error = %v, want %v", err, ErrGameFinished)
	}
	if !g.FinishedAt.Equal(snapshot) || g.Prize != prize || g.IsFailed {
		t.Fatalf("finished game changed: prize=%d failed=%v finished=%v", g.Prize, g.IsFailed, g.FinishedAt)
	}
	if got := g.Status(later); got != StatusMoney {
		t.Fatalf("status = %s, want %s", got, StatusMoney)
	}
}

func TestInvalidAnswerKeyDoesNotMutate(t *testing.T) {
	g := newTestGame(t, 41)
	for _, value := range []string{"", "e", "ab", "1"} {
		ok, err := g.AnswerCurrentQuestion(value, testNow.Add(2*TimeLimit))
		if !errors.Is(err, ErrInvalidAnswerKey) {
			t.Fatalf("answer %q error = %v, want %v", value, err, ErrInvalidAnswerKey)
		}
		if ok {
			t.Fatalf("answer %q returned true", value)
		}
	}
	if g.Finished() || g.CurrentLevel != 0 {
		t.Fatalf("game mutated: level=%d finished=%v", g.CurrentLevel, g.Finished())
	}
}

func TestAnswerKeyIsCaseInsensitive(t *testing.T) {
	g := newTestGame(t, 42)
	key := correctKey(t, &g)
	ok, err := g.AnswerCurrentQuestion(" "+strings.ToUpper(key)+" ", testNow)
	if err != nil || !ok {
		t.Fatalf("answer = %v, %v; want true, nil", ok, err)
	}
}

func TestRequestHelpOncePerGame(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, kind := range HelpKinds {
		t.Run(string(kind), func(t *testing.T) {
			g := newTestGame(t, 51)
			help, err := g.RequestHelp(kind, rng, testNow)
			if err != nil {
				t.Fatalf("help: %v", err)
			}
			if help.Kind() != kind {
				t.Fatalf("help kind = %s, want %s", help.Kind(), kind)
			}
			if !g.HelpUsed(kind) {
				t.Fatalf("expected %s marked used", kind)
			}
			gq, _ := g.CurrentGameQuestion()
			if !gq.HelpState().Has(kind) {
				t.Fatalf("expected %s revealed on current question", kind)
			}

			answerCorrectly(t, &g, 1, testNow)
			if _, err := g.RequestHelp(kind, rng, testNow); !errors.Is(err, ErrHelpAlreadyUsed) {
				t.Fatalf("second help error = %v, want %v", err, ErrHelpAlreadyUsed)
			}
			gq, _ = g.CurrentGameQuestion()
			if !gq.HelpState().Empty() {
				t.Fatal("rejected help must not reveal anything")
			}
		})
	}
}

func TestRequestHelpRejectsUnknownKind(t *testing.T) {
	g := newTestGame(t, 52)
	if _, err := g.RequestHelp("phone", rand.New(rand.NewSource(1)), testNow); !errors.Is(err, ErrInvalidHelpKind) {
		t.Fatalf("help error = %v, want %v", err, ErrInvalidHelpKind)
	}
}

func TestPrizeNeverExceedsLadderMax(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		g := newTestGame(t, seed)
		rng := rand.New(rand.NewSource(seed))
		steps := rng.Intn(Levels)
		answerCorrectly(t, &g, steps, testNow)
		if rng.Intn(2) == 0 {
			g.TakeMoney(testNow)
		} else if _, err := g.AnswerCurrentQuestion(correctKey(t, &g), testNow); err != nil {
			t.Fatalf("answer: %v", err)
		}
		if g.Prize < 0 || g.Prize > DefaultLadder.Max() {
			t.Fatalf("seed %d: prize %d outside ladder", seed, g.Prize)
		}
	}
}

func TestValidateRejectsBrokenGames(t *testing.T) {
	g := newTestGame(t, 61)
	if err := g.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	short := g
	short.Questions = g.Questions[:3]
	if err := short.Validate(); err == nil {
		t.Fatal("expected error for missing questions")
	}

	swapped := g
	swapped.Questions = append([]GameQuestion(nil), g.Questions...)
	swapped.Questions[0], swapped.Questions[1] = swapped.Questions[1], swapped.Questions[0]
	if err := swapped.Validate(); err == nil {
		t.Fatal("expected error for misordered questions")
	}
}
