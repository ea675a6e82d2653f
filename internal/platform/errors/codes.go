// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Input errors
	CodeInvalidAnswerKey Code = "INVALID_ANSWER_KEY"
	CodeInvalidHelpKind  Code = "INVALID_HELP_KIND"
	CodeInvalidQuestion  Code = "INVALID_QUESTION"
	CodeInvalidFilter    Code = "INVALID_FILTER"
	CodeInvalidPageToken Code = "INVALID_PAGE_TOKEN"
	CodeUserIDRequired   Code = "USER_ID_REQUIRED"

	// Game state errors
	CodeGameFinished          Code = "GAME_FINISHED"
	CodeHelpAlreadyUsed       Code = "HELP_ALREADY_USED"
	CodeQuestionBankExhausted Code = "QUESTION_BANK_EXHAUSTED"
	CodeActiveGameExists      Code = "ACTIVE_GAME_EXISTS"
	CodeAdminRequired         Code = "ADMIN_REQUIRED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Auth errors
	CodePlayerTokenInvalid Code = "PLAYER_TOKEN_INVALID"
	CodePlayerTokenExpired Code = "PLAYER_TOKEN_EXPIRED"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInvalidAnswerKey,
		CodeInvalidHelpKind,
		CodeInvalidQuestion,
		CodeInvalidFilter,
		CodeInvalidPageToken,
		CodeUserIDRequired:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeGameFinished,
		CodeHelpAlreadyUsed,
		CodeQuestionBankExhausted:
		return codes.FailedPrecondition

	case CodeActiveGameExists:
		return codes.AlreadyExists

	case CodeNotFound:
		return codes.NotFound

	case CodeAdminRequired:
		return codes.PermissionDenied

	case CodePlayerTokenInvalid,
		CodePlayerTokenExpired:
		return codes.Unauthenticated

	default:
		return codes.Internal
	}
}
