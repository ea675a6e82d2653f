package game

import (
	"context"
	"errors"
	"log"
	"maps"
	"strings"

	apperrors "github.com/louisbranch/millionaire/internal/platform/errors"
	grpcmeta "github.com/louisbranch/millionaire/internal/services/game/api/grpc/metadata"
	"github.com/louisbranch/millionaire/internal/services/game/domain/game"
	"google.golang.org/grpc/status"
)

// handleError maps err onto a localized gRPC status. params fill the message
// template of the matched code. Unclassified errors are logged with the
// request id.
func handleError(ctx context.Context, err error, params map[string]string) error {
	classified := classify(err, params)
	if classified != nil && apperrors.CodeOf(classified) == apperrors.CodeUnknown {
		if _, isStatus := status.FromError(classified); !isStatus {
			log.Printf("request %s: %v", grpcmeta.RequestFromContext(ctx).ID, classified)
		}
	}
	return apperrors.HandleError(classified, grpcmeta.LocaleFromContext(ctx))
}

func classify(err error, params map[string]string) error {
	if err == nil || apperrors.CodeOf(err) != apperrors.CodeUnknown {
		return err
	}
	code := apperrors.CodeUnknown
	switch {
	case errors.Is(err, game.ErrInvalidAnswerKey):
		code = apperrors.CodeInvalidAnswerKey
	case errors.Is(err, game.ErrInvalidHelpKind):
		code = apperrors.CodeInvalidHelpKind
	case errors.Is(err, game.ErrInvalidQuestion):
		code = apperrors.CodeInvalidQuestion
		params = withDetail(params, "Reason", err, game.ErrInvalidQuestion.Error()+": ")
	case errors.Is(err, game.ErrGameFinished):
		code = apperrors.CodeGameFinished
	case errors.Is(err, game.ErrHelpAlreadyUsed):
		code = apperrors.CodeHelpAlreadyUsed
	case errors.Is(err, game.ErrQuestionBankExhausted):
		code = apperrors.CodeQuestionBankExhausted
		params = withDetail(params, "Level", err, game.ErrQuestionBankExhausted.Error()+" ")
	case errors.Is(err, game.ErrOutOfRange):
		code = apperrors.CodeGameFinished
	default:
		return err
	}
	return apperrors.Wrap(code, err.Error(), err).WithParams(params)
}

// withDetail returns params plus key set to the text err adds after prefix.
func withDetail(params map[string]string, key string, err error, prefix string) map[string]string {
	out := maps.Clone(params)
	if out == nil {
		out = make(map[string]string, 1)
	}
	out[key] = strings.TrimPrefix(err.Error(), prefix)
	return out
}
