package scenario

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "github.com/louisbranch/millionaire/internal/platform/errors"
	gamegrpc "github.com/louisbranch/millionaire/internal/services/game/api/grpc/game"
	grpcmeta "github.com/louisbranch/millionaire/internal/services/game/api/grpc/metadata"
	"github.com/louisbranch/millionaire/internal/services/game/domain/game"
	"google.golang.org/grpc/metadata"
)

// correctAnswer is the text of the right variant of every seeded question.
const correctAnswer = "right"

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	ctx = metadata.AppendToOutgoingContext(ctx, grpcmeta.UserIDHeader, state.userID)

	var err error
	switch step.Kind {
	case "seed_questions":
		err = r.runSeedQuestions(ctx, state, step)
	case "start":
		err = r.runStart(ctx, state, step)
	case "answer":
		err = r.runAnswer(ctx, state, readString(step.Args, "letter"))
	case "answer_correct":
		err = r.runAnswerCorrect(ctx, state, step)
	case "answer_wrong":
		err = r.runAnswerWrong(ctx, state)
	case "take_money":
		err = r.runTakeMoney(ctx, state)
	case "help":
		err = r.runHelp(ctx, state, readString(step.Args, "kind"))
	case "advance":
		err = r.runAdvance(step)
	case "expect_status":
		err = r.runExpectStatus(ctx, state, step)
	case "expect_prize":
		err = r.runExpectPrize(ctx, state, step)
	case "expect_level":
		err = r.runExpectLevel(ctx, state, step)
	case "expect_balance":
		err = r.runExpectBalance(ctx, step)
	case "expect_help":
		err = r.runExpectHelp(ctx, state, step)
	case "expect_accepted":
		err = r.runExpectAccepted(state, step)
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
	return checkExpectedError(step, err)
}

// checkExpectedError matches err against an expect_error code on step.
func checkExpectedError(step Step, err error) error {
	want := readString(step.Args, expectErrorArg)
	if want == "" {
		return err
	}
	if err == nil {
		return fmt.Errorf("expected error %s, got success", want)
	}
	if got := apperrors.CodeFromStatus(err); string(got) != want {
		return fmt.Errorf("error code = %s, want %s: %w", got, want, err)
	}
	return nil
}

func (r *Runner) runSeedQuestions(ctx context.Context, state *scenarioState, step Step) error {
	perLevel := readInt(step.Args, "per_level")
	if perLevel < 1 {
		perLevel = 1
	}
	questions := make([]gamegrpc.QuestionInput, 0, perLevel*game.Levels)
	for level := 0; level < game.Levels; level++ {
		for i := 0; i < perLevel; i++ {
			state.seeded++
			questions = append(questions, gamegrpc.QuestionInput{
				ID:      fmt.Sprintf("scenario-q%d", state.seeded),
				Level:   level,
				Text:    fmt.Sprintf("Scenario question %d for level %d?", i+1, level),
				Answers: []string{correctAnswer, "wrong 1", "wrong 2", "wrong 3"},
			})
		}
	}
	result, err := r.client.ImportQuestions(ctx, questions)
	if err != nil {
		return fmt.Errorf("import questions: %w", err)
	}
	r.logf("seeded %d questions", result.Imported)
	return nil
}

func (r *Runner) runStart(ctx context.Context, state *scenarioState, step Step) error {
	name := readString(step.Args, "name")
	if name == "" {
		name = "Scenario Player"
	}
	g, err := r.client.CreateGame(ctx, gamegrpc.CreateGameRequest{DisplayName: name})
	if err != nil {
		return err
	}
	state.remember(g)
	r.logf("game %s started at level %d", g.ID, g.CurrentLevel)
	return nil
}

func (r *Runner) runAnswer(ctx context.Context, state *scenarioState, letter string) error {
	if err := state.requireGame(); err != nil {
		return err
	}
	g, err := r.client.AnswerQuestion(ctx, state.gameID, letter)
	if err != nil {
		return err
	}
	state.remember(g)
	return nil
}

func (r *Runner) runAnswerCorrect(ctx context.Context, state *scenarioState, step Step) error {
	count := readInt(step.Args, "count")
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		letter, err := state.letter(true)
		if err != nil {
			return err
		}
		if err := r.runAnswer(ctx, state, letter); err != nil {
			return err
		}
		if !state.game.Accepted {
			return fmt.Errorf("answer %d of %d was not accepted (status %s)", i+1, count, state.game.Status)
		}
	}
	return nil
}

func (r *Runner) runAnswerWrong(ctx context.Context, state *scenarioState) error {
	letter, err := state.letter(false)
	if err != nil {
		return err
	}
	return r.runAnswer(ctx, state, letter)
}

func (r *Runner) runTakeMoney(ctx context.Context, state *scenarioState) error {
	if err := state.requireGame(); err != nil {
		return err
	}
	g, err := r.client.TakeMoney(ctx, state.gameID)
	if err != nil {
		return err
	}
	state.remember(g)
	return nil
}

func (r *Runner) runHelp(ctx context.Context, state *scenarioState, kind string) error {
	if err := state.requireGame(); err != nil {
		return err
	}
	g, err := r.client.RequestHelp(ctx, state.gameID, kind)
	if err != nil {
		return err
	}
	state.remember(g)
	return nil
}

func (r *Runner) runAdvance(step Step) error {
	d, ok := step.Args["duration"].(time.Duration)
	if !ok {
		return errors.New("advance needs a duration")
	}
	r.clock.Advance(d)
	r.logf("clock advanced by %s to %s", d, r.clock.Now().Format(time.RFC3339))
	return nil
}

func (r *Runner) runExpectStatus(ctx context.Context, state *scenarioState, step Step) error {
	g, err := r.refresh(ctx, state)
	if err != nil {
		return err
	}
	if want := readString(step.Args, "status"); g.Status != want {
		return fmt.Errorf("status = %s, want %s", g.Status, want)
	}
	return nil
}

func (r *Runner) runExpectPrize(ctx context.Context, state *scenarioState, step Step) error {
	g, err := r.refresh(ctx, state)
	if err != nil {
		return err
	}
	if want := readInt64(step.Args, "prize"); g.Prize != want {
		return fmt.Errorf("prize = %d, want %d", g.Prize, want)
	}
	return nil
}

func (r *Runner) runExpectLevel(ctx context.Context, state *scenarioState, step Step) error {
	g, err := r.refresh(ctx, state)
	if err != nil {
		return err
	}
	if want := readInt(step.Args, "level"); g.CurrentLevel != want {
		return fmt.Errorf("level = %d, want %d", g.CurrentLevel, want)
	}
	return nil
}

func (r *Runner) runExpectBalance(ctx context.Context, step Step) error {
	account, err := r.client.GetAccount(ctx)
	if err != nil {
		return err
	}
	if want := readInt64(step.Args, "balance"); account.Balance != want {
		return fmt.Errorf("balance = %d, want %d", account.Balance, want)
	}
	return nil
}

func (r *Runner) runExpectHelp(ctx context.Context, state *scenarioState, step Step) error {
	g, err := r.refresh(ctx, state)
	if err != nil {
		return err
	}
	kind := readString(step.Args, "kind")
	var used bool
	switch game.HelpKind(kind) {
	case game.HelpFiftyFifty:
		used = g.FiftyFiftyUsed
	case game.HelpAudience:
		used = g.AudienceHelpUsed
	case game.HelpFriendCall:
		used = g.FriendCallUsed
	default:
		return fmt.Errorf("unknown help kind %q", kind)
	}
	if !used {
		return fmt.Errorf("help %s not used", kind)
	}
	return nil
}

func (r *Runner) runExpectAccepted(state *scenarioState, step Step) error {
	if err := state.requireGame(); err != nil {
		return err
	}
	want, _ := step.Args["accepted"].(bool)
	if state.game.Accepted != want {
		return fmt.Errorf("accepted = %t, want %t", state.game.Accepted, want)
	}
	return nil
}

// refresh reloads the scenario game so assertions see the current clock.
func (r *Runner) refresh(ctx context.Context, state *scenarioState) (gamegrpc.Game, error) {
	if err := state.requireGame(); err != nil {
		return gamegrpc.Game{}, err
	}
	g, err := r.client.GetGame(ctx, state.gameID)
	if err != nil {
		return gamegrpc.Game{}, err
	}
	accepted := state.game.Accepted
	state.remember(g)
	state.game.Accepted = accepted
	return g, nil
}

func (s *scenarioState) remember(g gamegrpc.Game) {
	s.gameID = g.ID
	s.game = g
	s.hasGame = true
}

func (s *scenarioState) requireGame() error {
	if !s.hasGame || s.gameID == "" {
		return errors.New("no game started")
	}
	return nil
}

// letter picks the key of a correct or wrong variant of the current question.
func (s *scenarioState) letter(correct bool) (string, error) {
	if err := s.requireGame(); err != nil {
		return "", err
	}
	question := s.game.CurrentQuestion
	if question == nil {
		return "", fmt.Errorf("game %s has no current question", s.gameID)
	}
	keys := make([]string, 0, len(question.Variants))
	for key := range question.Variants {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if (question.Variants[key] == correctAnswer) == correct {
			return key, nil
		}
	}
	return "", fmt.Errorf("no matching variant at level %d", question.Level)
}

func readString(args map[string]any, key string) string {
	value, _ := args[key].(string)
	return strings.TrimSpace(value)
}

func readInt(args map[string]any, key string) int {
	switch value := args[key].(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(value)
	default:
		return 0
	}
}

func readInt64(args map[string]any, key string) int64 {
	switch value := args[key].(type) {
	case int:
		return int64(value)
	case int64:
		return value
	case float64:
		return int64(value)
	default:
		return 0
	}
}
