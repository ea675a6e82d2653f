package gameplay

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	apperrors "github.com/louisbranch/millionaire/internal/platform/errors"
	"github.com/louisbranch/millionaire/internal/platform/id"
	"github.com/louisbranch/millionaire/internal/platform/telemetry/metrics"
	"github.com/louisbranch/millionaire/internal/random"
	"github.com/louisbranch/millionaire/internal/services/game/domain/game"
	"github.com/louisbranch/millionaire/internal/services/game/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "millionaire/gameplay"

// ErrUserIDRequired indicates a call without a player identity.
var ErrUserIDRequired = apperrors.New(apperrors.CodeUserIDRequired, "user id is required")

// Stores groups the storage contracts the service depends on.
type Stores struct {
	Questions storage.QuestionStore
	Accounts  storage.AccountStore
	Games     storage.GameStore
}

// Service runs gameplay use cases.
type Service struct {
	stores      Stores
	clock       func() time.Time
	idGenerator func() (string, error)
	metrics     *metrics.Metrics
	tracer      trace.Tracer

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source used for every transition.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSeed makes question draws and lifelines reproducible.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.rng = random.New(seed)
	}
}

// WithIDGenerator sets the game id generator.
func WithIDGenerator(idGenerator func() (string, error)) Option {
	return func(s *Service) {
		if idGenerator != nil {
			s.idGenerator = idGenerator
		}
	}
}

// WithMetrics records gameplay counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a Service with default dependencies.
func NewService(stores Stores, opts ...Option) *Service {
	s := &Service{
		stores:      stores,
		clock:       time.Now,
		idGenerator: id.NewID,
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.rng == nil {
		s.rng = random.New(0)
	}
	return s
}

// CreateGame starts a new game for userID.
func (s *Service) CreateGame(ctx context.Context, userID, displayName string) (GameView, error) {
	ctx, span := s.startSpan(ctx, "CreateGame", attribute.String("user.id", userID))
	defer span.End()

	userID, err := requireUser(userID)
	if err != nil {
		return GameView{}, endSpan(span, err)
	}
	if _, err := s.stores.Accounts.EnsureAccount(ctx, userID, displayName); err != nil {
		return GameView{}, endSpan(span, err)
	}

	if _, err := s.stores.Games.GetActiveGame(ctx, userID); err == nil {
		return GameView{}, endSpan(span, storage.ErrActiveGameExists)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return GameView{}, endSpan(span, err)
	}

	g, err := game.CreateGameForUser(ctx, userID, s.stores.Questions, s.newRand(), s.clock, s.idGenerator)
	if err != nil {
		return GameView{}, endSpan(span, err)
	}
	if err := s.stores.Games.CreateGame(ctx, g); err != nil {
		return GameView{}, endSpan(span, err)
	}
	span.SetAttributes(attribute.String("game.id", g.ID))
	if s.metrics != nil {
		s.metrics.GamesStarted.Inc()
	}
	return NewGameView(g, s.clock(), true), nil
}

// GetGame returns a game owned by userID.
func (s *Service) GetGame(ctx context.Context, userID, gameID string) (GameView, error) {
	ctx, span := s.startSpan(ctx, "GetGame", attribute.String("game.id", gameID))
	defer span.End()

	g, err := s.ownedGame(ctx, userID, gameID)
	if err != nil {
		return GameView{}, endSpan(span, err)
	}
	return NewGameView(g, s.clock(), true), nil
}

// GetActiveGame returns the unfinished game of userID.
func (s *Service) GetActiveGame(ctx context.Context, userID string) (GameView, error) {
	ctx, span := s.startSpan(ctx, "GetActiveGame", attribute.String("user.id", userID))
	defer span.End()

	userID, err := requireUser(userID)
	if err != nil {
		return GameView{}, endSpan(span, err)
	}
	g, err := s.stores.Games.GetActiveGame(ctx, userID)
	if err != nil {
		return GameView{}, endSpan(span, err)
	}
	return NewGameView(g, s.clock(), true), nil
}

// AnswerQuestion submits a letter for the current question.
//
// Accepted on the returned view is true when the answer was correct.
func (s *Service) AnswerQuestion(ctx context.Context, userID, gameID, letter string) (GameView, error) {
	ctx, span := s.startSpan(ctx, "AnswerQuestion", attribute.String("game.id", gameID))
	defer span.End()

	var accepted bool
	g, err := s.transition(ctx, userID, gameID, func(g *game.Game, now time.Time) error {
		var err error
		accepted, err = g.AnswerCurrentQuestion(letter, now)
		return err
	})
	if err != nil {
		return GameView{}, endSpan(span, err)
	}
	span.SetAttributes(attribute.Bool("game.answer_correct", accepted))
	return NewGameView(g, s.clock(), accepted), nil
}

// TakeMoney banks the prize of the last completed level.
func (s *Service) TakeMoney(ctx context.Context, userID, gameID string) (GameView, error) {
	ctx, span := s.startSpan(ctx, "TakeMoney", attribute.String("game.id", gameID))
	defer span.End()

	var accepted bool
	g, err := s.transition(ctx, userID, gameID, func(g *game.Game, now time.Time) error {
		accepted = g.TakeMoney(now)
		return nil
	})
	if err != nil {
		return GameView{}, endSpan(span, err)
	}
	return NewGameView(g, s.clock(), accepted), nil
}

// RequestHelp consumes a lifeline on the current question.
//
// When the game ran out of time the timeout is persisted and ErrGameFinished
// is returned.
func (s *Service) RequestHelp(ctx context.Context, userID, gameID, kind string) (GameView, error) {
	ctx, span := s.startSpan(ctx, "RequestHelp",
		attribute.String("game.id", gameID),
		attribute.String("game.help_kind", kind),
	)
	defer span.End()

	helpKind, err := game.ParseHelpKind(kind)
	if err != nil {
		return GameView{}, endSpan(span, err)
	}

	rng := s.newRand()
	var (
		revealed game.Help
		helpErr  error
	)
	g, err := s.transition(ctx, userID, gameID, func(g *game.Game, now time.Time) error {
		revealed, helpErr = g.RequestHelp(helpKind, rng, now)
		if errors.Is(helpErr, game.ErrGameFinished) {
			return nil
		}
		return helpErr
	})
	if err != nil {
		return GameView{}, endSpan(span, err)
	}
	if helpErr != nil {
		return GameView{}, endSpan(span, helpErr)
	}
	if s.metrics != nil {
		s.metrics.HelpsUsed.WithLabelValues(string(helpKind)).Inc()
	}
	view := NewGameView(g, s.clock(), true)
	view.Help = revealed
	return view, nil
}

// ListGames pages the games of userID, newest first.
func (s *Service) ListGames(ctx context.Context, userID, filter string, pageSize int, pageToken string) (GamePage, error) {
	ctx, span := s.startSpan(ctx, "ListGames", attribute.String("user.id", userID))
	defer span.End()

	userID, err := requireUser(userID)
	if err != nil {
		return GamePage{}, endSpan(span, err)
	}
	page, err := s.stores.Games.ListGames(ctx, storage.GameQuery{
		UserID:    userID,
		PageSize:  pageSize,
		PageToken: pageToken,
		Filter:    filter,
	})
	if err != nil {
		return GamePage{}, endSpan(span, err)
	}

	now := s.clock()
	out := GamePage{NextPageToken: page.NextPageToken}
	for _, g := range page.Games {
		out.Games = append(out.Games, NewGameView(g, now, true))
	}
	return out, nil
}

// GetLeaderboard pages accounts by balance.
func (s *Service) GetLeaderboard(ctx context.Context, pageSize int, pageToken string) (storage.AccountPage, error) {
	ctx, span := s.startSpan(ctx, "GetLeaderboard")
	defer span.End()

	page, err := s.stores.Accounts.ListLeaderboard(ctx, pageSize, pageToken)
	if err != nil {
		return storage.AccountPage{}, endSpan(span, err)
	}
	return page, nil
}

// GetAccount returns the account of userID.
func (s *Service) GetAccount(ctx context.Context, userID string) (storage.Account, error) {
	ctx, span := s.startSpan(ctx, "GetAccount", attribute.String("user.id", userID))
	defer span.End()

	userID, err := requireUser(userID)
	if err != nil {
		return storage.Account{}, endSpan(span, err)
	}
	account, err := s.stores.Accounts.GetAccount(ctx, userID)
	if err != nil {
		return storage.Account{}, endSpan(span, err)
	}
	return account, nil
}

// ImportResult summarizes a question import.
type ImportResult struct {
	Imported int
	ByLevel  map[int]int
}

// ImportQuestions validates and stores questions. Questions without an id get
// a generated one. Nothing is stored when any question is invalid.
func (s *Service) ImportQuestions(ctx context.Context, questions []game.Question) (ImportResult, error) {
	ctx, span := s.startSpan(ctx, "ImportQuestions", attribute.Int("questions.count", len(questions)))
	defer span.End()

	cleaned := make([]game.Question, 0, len(questions))
	for _, q := range questions {
		questionID := strings.TrimSpace(q.ID)
		if questionID == "" {
			generated, err := s.idGenerator()
			if err != nil {
				return ImportResult{}, endSpan(span, err)
			}
			questionID = generated
		}
		valid, err := game.NewQuestion(questionID, q.Level, q.Text, q.Answers)
		if err != nil {
			return ImportResult{}, endSpan(span, err)
		}
		cleaned = append(cleaned, valid)
	}
	if err := s.stores.Questions.PutQuestions(ctx, cleaned); err != nil {
		return ImportResult{}, endSpan(span, err)
	}

	counts, err := s.stores.Questions.CountQuestionsByLevel(ctx)
	if err != nil {
		return ImportResult{}, endSpan(span, err)
	}
	return ImportResult{Imported: len(cleaned), ByLevel: counts}, nil
}

// transition applies fn to an owned game inside one storage update.
func (s *Service) transition(ctx context.Context, userID, gameID string, fn func(g *game.Game, now time.Time) error) (game.Game, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return game.Game{}, err
	}

	var wasFinished bool
	now := s.clock()
	g, err := s.stores.Games.UpdateGame(ctx, strings.TrimSpace(gameID), func(g *game.Game) error {
		if g.UserID != userID {
			return storage.ErrNotFound
		}
		wasFinished = g.Finished()
		return fn(g, now)
	})
	if err != nil {
		return game.Game{}, err
	}

	if !wasFinished && g.Finished() {
		s.recordFinish(g, now)
	}
	return g, nil
}

func (s *Service) recordFinish(g game.Game, now time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.GamesFinished.WithLabelValues(string(g.Status(now))).Inc()
	if !g.IsFailed && g.Prize > 0 {
		s.metrics.PrizePaid.Add(float64(g.Prize))
	}
}

func (s *Service) ownedGame(ctx context.Context, userID, gameID string) (game.Game, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return game.Game{}, err
	}
	g, err := s.stores.Games.GetGame(ctx, strings.TrimSpace(gameID))
	if err != nil {
		return game.Game{}, err
	}
	if g.UserID != userID {
		return game.Game{}, storage.ErrNotFound
	}
	return g, nil
}

// newRand derives an independent generator so transitions never share one.
func (s *Service) newRand() *rand.Rand {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return random.Split(s.rng)
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "gameplay."+name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func requireUser(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrUserIDRequired
	}
	return userID, nil
}
