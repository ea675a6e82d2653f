package game

import (
	"errors"
	"testing"
)

func TestDefaultLadder(t *testing.T) {
	if err := DefaultLadder.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	tests := []struct {
		level int
		want  int64
	}{
		{-1, 0},
		{0, 100},
		{3, 500},
		{LastLevel, 1000000},
		{Levels, 1000000},
	}
	for _, tt := range tests {
		if got := PrizeFor(tt.level); got != tt.want {
			t.Fatalf("PrizeFor(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestLadderValidateRejectsNonIncreasing(t *testing.T) {
	ladder := DefaultLadder
	ladder[5] = ladder[4]
	if err := ladder.Validate(); err == nil {
		t.Fatal("expected error for flat ladder")
	}
	ladder = DefaultLadder
	ladder[0] = 0
	if err := ladder.Validate(); err == nil {
		t.Fatal("expected error for zero prize")
	}
}

func TestParseKey(t *testing.T) {
	for _, value := range []string{"a", "B", " c ", "D"} {
		if _, err := ParseKey(value); err != nil {
			t.Fatalf("ParseKey(%q): %v", value, err)
		}
	}
	if _, err := ParseKey("e"); !errors.Is(err, ErrInvalidAnswerKey) {
		t.Fatalf("ParseKey(e) error = %v", err)
	}
}

func TestParseHelpKind(t *testing.T) {
	tests := map[string]HelpKind{
		"fifty_fifty":   HelpFiftyFifty,
		"fiftyFifty":    HelpFiftyFifty,
		"50/50":         HelpFiftyFifty,
		"audience_help": HelpAudience,
		"audienceHelp":  HelpAudience,
		"friend_call":   HelpFriendCall,
		"FriendCall":    HelpFriendCall,
	}
	for value, want := range tests {
		got, err := ParseHelpKind(value)
		if err != nil {
			t.Fatalf("ParseHelpKind(%q): %v", value, err)
		}
		if got != want {
			t.Fatalf("ParseHelpKind(%q) = %s, want %s", value, got, want)
		}
	}
	if _, err := ParseHelpKind("phone"); !errors.Is(err, ErrInvalidHelpKind) {
		t.Fatalf("ParseHelpKind(phone) error = %v", err)
	}
}

func TestNewQuestionValidates(t *testing.T) {
	if _, err := NewQuestion("q", 15, "text", [4]string{"a", "b", "c", "d"}); !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("level error = %v", err)
	}
	if _, err := NewQuestion("q", 0, "  ", [4]string{"a", "b", "c", "d"}); !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("text error = %v", err)
	}
	if _, err := NewQuestion("q", 0, "text", [4]string{"a", "", "c", "d"}); !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("answer error = %v", err)
	}
	q, err := NewQuestion(" q ", 0, " text ", [4]string{" a", "b ", "c", "d"})
	if err != nil {
		t.Fatalf("new question: %v", err)
	}
	if q.ID != "q" || q.Text != "text" || q.CorrectAnswer() != "a" {
		t.Fatalf("question not trimmed: %+v", q)
	}
}
