package game

import "errors"

var (
	// ErrInvalidAnswerKey indicates a submitted letter outside a..d.
	ErrInvalidAnswerKey = errors.New("answer key must be one of a, b, c, d")
	// ErrGameFinished indicates an operation on a game that already ended.
	ErrGameFinished = errors.New("game is already finished")
	// ErrHelpAlreadyUsed indicates a lifeline kind was consumed earlier in the game.
	ErrHelpAlreadyUsed = errors.New("help already used in this game")
	// ErrInvalidHelpKind indicates an unknown lifeline kind.
	ErrInvalidHelpKind = errors.New("help kind must be one of fifty_fifty, audience_help, friend_call")
	// ErrQuestionBankExhausted indicates a level has no questions to draw from.
	ErrQuestionBankExhausted = errors.New("question bank has no questions for level")
	// ErrOutOfRange indicates there is no question at the requested level.
	ErrOutOfRange = errors.New("level is out of range")
	// ErrInvalidQuestion indicates a question failed validation.
	ErrInvalidQuestion = errors.New("invalid question")
)
