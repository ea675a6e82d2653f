package seed

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/louisbranch/millionaire/internal/services/game/api/grpc/game"
	grpcmeta "github.com/louisbranch/millionaire/internal/services/game/api/grpc/metadata"
	domain "github.com/louisbranch/millionaire/internal/services/game/domain/game"
	"github.com/louisbranch/millionaire/internal/services/game/gameplay"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Result reports an import: stored questions and bank size per level.
type Result struct {
	Imported int
	ByLevel  map[int]int
}

// Importer stores validated question records.
type Importer interface {
	Import(ctx context.Context, records []QuestionRecord) (Result, error)
}

// ServiceImporter imports through an in-process gameplay service.
type ServiceImporter struct {
	Service *gameplay.Service
}

// Import implements Importer.
func (i ServiceImporter) Import(ctx context.Context, records []QuestionRecord) (Result, error) {
	if i.Service == nil {
		return Result{}, fmt.Errorf("gameplay service is required")
	}
	questions := make([]domain.Question, 0, len(records))
	for n, record := range records {
		question, err := record.Question()
		if err != nil {
			return Result{}, fmt.Errorf("question %d: %w", n+1, err)
		}
		questions = append(questions, question)
	}
	result, err := i.Service.ImportQuestions(ctx, questions)
	if err != nil {
		return Result{}, err
	}
	return Result{Imported: result.Imported, ByLevel: result.ByLevel}, nil
}

// GRPCImporter imports through a running game server. The caller must be an
// admin: a dev-mode user id or a token minted with -admin.
type GRPCImporter struct {
	Conn   grpc.ClientConnInterface
	UserID string
	Token  string
}

// Import implements Importer.
func (i GRPCImporter) Import(ctx context.Context, records []QuestionRecord) (Result, error) {
	if i.Conn == nil {
		return Result{}, fmt.Errorf("gRPC connection is required")
	}
	inputs := make([]game.QuestionInput, 0, len(records))
	for _, record := range records {
		inputs = append(inputs, game.QuestionInput{
			ID:      record.ID,
			Level:   record.Level,
			Text:    record.Text,
			Answers: record.Answers,
		})
	}
	if token := strings.TrimSpace(i.Token); token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, grpcmeta.AuthorizationHeader, "Bearer "+token)
	} else if userID := strings.TrimSpace(i.UserID); userID != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, grpcmeta.UserIDHeader, userID)
	}
	reply, err := game.NewClient(i.Conn).ImportQuestions(ctx, inputs)
	if err != nil {
		return Result{}, fmt.Errorf("import questions: %w", err)
	}
	byLevel := make(map[int]int, len(reply.ByLevel))
	for key, count := range reply.ByLevel {
		level, err := strconv.Atoi(key)
		if err != nil {
			return Result{}, fmt.Errorf("import questions: bad level %q in reply", key)
		}
		byLevel[level] = count
	}
	return Result{Imported: reply.Imported, ByLevel: byLevel}, nil
}

// Levels returns the result levels in ascending order.
func (r Result) Levels() []int {
	levels := make([]int, 0, len(r.ByLevel))
	for level := range r.ByLevel {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}
