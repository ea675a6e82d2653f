package game

import (
	"context"

	apperrors "github.com/louisbranch/millionaire/internal/platform/errors"
	"github.com/louisbranch/millionaire/internal/platform/grpc/pagination"
	"github.com/louisbranch/millionaire/internal/platform/requestctx"
	grpcmeta "github.com/louisbranch/millionaire/internal/services/game/api/grpc/metadata"
	"github.com/louisbranch/millionaire/internal/services/game/gameplay"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

var pageLimits = pagination.Limits{Default: 20, Max: 100}

// ErrAdminRequired rejects question imports from regular players.
var ErrAdminRequired = apperrors.New(apperrors.CodeAdminRequired, "admin rights required")

// Service implements GameServiceServer on top of gameplay.
type Service struct {
	gameplay *gameplay.Service
}

var _ GameServiceServer = (*Service)(nil)

// NewService creates a gRPC service backed by the gameplay use cases.
func NewService(svc *gameplay.Service) *Service {
	return &Service{gameplay: svc}
}

// CreateGame starts a game for the caller.
func (s *Service) CreateGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CreateGameRequest
	if err := s.decode(in, &req); err != nil {
		return nil, err
	}
	displayName := req.DisplayName
	if displayName == "" {
		displayName = requestctx.DisplayNameFromContext(ctx)
	}
	view, err := s.gameplay.CreateGame(ctx, requestctx.UserIDFromContext(ctx), displayName)
	if err != nil {
		return nil, handleError(ctx, err, nil)
	}
	return encode(ctx, gameMessage(view))
}

// GetGame returns one of the caller's games.
func (s *Service) GetGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req GameRequest
	if err := s.decode(in, &req); err != nil {
		return nil, err
	}
	if req.GameID == "" {
		return nil, status.Error(codes.InvalidArgument, "game id is required")
	}
	view, err := s.gameplay.GetGame(ctx, requestctx.UserIDFromContext(ctx), req.GameID)
	if err != nil {
		return nil, handleError(ctx, err, nil)
	}
	return encode(ctx, gameMessage(view))
}

// GetActiveGame returns the caller's unfinished game.
func (s *Service) GetActiveGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.decode(in, &struct{}{}); err != nil {
		return nil, err
	}
	view, err := s.gameplay.GetActiveGame(ctx, requestctx.UserIDFromContext(ctx))
	if err != nil {
		return nil, handleError(ctx, err, nil)
	}
	return encode(ctx, gameMessage(view))
}

// AnswerQuestion submits a letter for the current question.
func (s *Service) AnswerQuestion(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req AnswerRequest
	if err := s.decode(in, &req); err != nil {
		return nil, err
	}
	if req.GameID == "" {
		return nil, status.Error(codes.InvalidArgument, "game id is required")
	}
	view, err := s.gameplay.AnswerQuestion(ctx, requestctx.UserIDFromContext(ctx), req.GameID, req.Letter)
	if err != nil {
		return nil, handleError(ctx, err, nil)
	}
	return encode(ctx, gameMessage(view))
}

// TakeMoney banks the current prize.
func (s *Service) TakeMoney(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req GameRequest
	if err := s.decode(in, &req); err != nil {
		return nil, err
	}
	if req.GameID == "" {
		return nil, status.Error(codes.InvalidArgument, "game id is required")
	}
	view, err := s.gameplay.TakeMoney(ctx, requestctx.UserIDFromContext(ctx), req.GameID)
	if err != nil {
		return nil, handleError(ctx, err, nil)
	}
	return encode(ctx, gameMessage(view))
}

// RequestHelp consumes a lifeline.
func (s *Service) RequestHelp(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req HelpRequest
	if err := s.decode(in, &req); err != nil {
		return nil, err
	}
	if req.GameID == "" {
		return nil, status.Error(codes.InvalidArgument, "game id is required")
	}
	view, err := s.gameplay.RequestHelp(ctx, requestctx.UserIDFromContext(ctx), req.GameID, req.Kind)
	if err != nil {
		return nil, handleError(ctx, err, map[string]string{"Kind": req.Kind})
	}
	return encode(ctx, gameMessage(view))
}

// ListGames pages the caller's games, newest first.
func (s *Service) ListGames(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ListGamesRequest
	if err := s.decode(in, &req); err != nil {
		return nil, err
	}
	pageSize := pageLimits.Clamp(req.PageSize)
	page, err := s.gameplay.ListGames(ctx, requestctx.UserIDFromContext(ctx), req.Filter, pageSize, req.PageToken)
	if err != nil {
		return nil, handleError(ctx, err, nil)
	}
	return encode(ctx, gamePageMessage(page))
}

// GetLeaderboard pages accounts by balance. It needs no identity.
func (s *Service) GetLeaderboard(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req LeaderboardRequest
	if err := s.decode(in, &req); err != nil {
		return nil, err
	}
	pageSize := pageLimits.Clamp(req.PageSize)
	page, err := s.gameplay.GetLeaderboard(ctx, pageSize, req.PageToken)
	if err != nil {
		return nil, handleError(ctx, err, nil)
	}
	return encode(ctx, accountPageMessage(page))
}

// GetAccount returns the caller's account.
func (s *Service) GetAccount(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.decode(in, &struct{}{}); err != nil {
		return nil, err
	}
	account, err := s.gameplay.GetAccount(ctx, requestctx.UserIDFromContext(ctx))
	if err != nil {
		return nil, handleError(ctx, err, nil)
	}
	return encode(ctx, accountMessage(account))
}

// ImportQuestions stores questions in the bank. Only admins may call it.
func (s *Service) ImportQuestions(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if !requestctx.IsAdmin(ctx) {
		return nil, handleError(ctx, ErrAdminRequired, nil)
	}
	var req ImportQuestionsRequest
	if err := s.decode(in, &req); err != nil {
		return nil, err
	}
	questions, err := importQuestions(req.Questions)
	if err != nil {
		return nil, handleError(ctx, err, nil)
	}
	result, err := s.gameplay.ImportQuestions(ctx, questions)
	if err != nil {
		return nil, handleError(ctx, err, nil)
	}
	return encode(ctx, importResultMessage(result))
}

func (s *Service) decode(in *structpb.Struct, v any) error {
	if s == nil || s.gameplay == nil {
		return status.Error(codes.Internal, "gameplay service is not configured")
	}
	if in == nil {
		return status.Error(codes.InvalidArgument, "request is required")
	}
	if err := FromStruct(in, v); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func encode(ctx context.Context, v any) (*structpb.Struct, error) {
	out, err := ToStruct(v)
	if err != nil {
		return nil, apperrors.HandleError(err, grpcmeta.LocaleFromContext(ctx))
	}
	return out, nil
}
