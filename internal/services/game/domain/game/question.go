package game

import (
	"fmt"
	"strings"
)

// Question is an immutable trivia item supplied by the question bank.
//
// Answers[0] is always the correct text; the other three are distractors.
type Question struct {
	ID      string
	Level   int
	Text    string
	Answers [4]string
}

// NewQuestion trims and validates question fields.
func NewQuestion(id string, level int, text string, answers [4]string) (Question, error) {
	q := Question{
		ID:    strings.TrimSpace(id),
		Level: level,
		Text:  strings.TrimSpace(text),
	}
	for i, answer := range answers {
		q.Answers[i] = strings.TrimSpace(answer)
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// Validate checks the level range and that text and all answers are present.
func (q Question) Validate() error {
	if q.Level < 0 || q.Level > LastLevel {
		return fmt.Errorf("%w: level %d outside 0..%d", ErrInvalidQuestion, q.Level, LastLevel)
	}
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrInvalidQuestion)
	}
	for i, answer := range q.Answers {
		if strings.TrimSpace(answer) == "" {
			return fmt.Errorf("%w: answer %d is required", ErrInvalidQuestion, i+1)
		}
	}
	return nil
}

// CorrectAnswer returns the canonical correct text.
func (q Question) CorrectAnswer() string {
	return q.Answers[0]
}
