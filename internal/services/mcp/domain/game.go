package domain

import (
	"context"
	"sort"
	"time"

	gamegrpc "github.com/louisbranch/millionaire/internal/services/game/api/grpc/game"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
)

// GameClient is the subset of the game API the tools call.
type GameClient interface {
	CreateGame(ctx context.Context, req gamegrpc.CreateGameRequest, opts ...grpc.CallOption) (gamegrpc.Game, error)
	GetGame(ctx context.Context, gameID string, opts ...grpc.CallOption) (gamegrpc.Game, error)
	GetActiveGame(ctx context.Context, opts ...grpc.CallOption) (gamegrpc.Game, error)
	AnswerQuestion(ctx context.Context, gameID, letter string, opts ...grpc.CallOption) (gamegrpc.Game, error)
	TakeMoney(ctx context.Context, gameID string, opts ...grpc.CallOption) (gamegrpc.Game, error)
	RequestHelp(ctx context.Context, gameID, kind string, opts ...grpc.CallOption) (gamegrpc.Game, error)
	GetLeaderboard(ctx context.Context, req gamegrpc.LeaderboardRequest, opts ...grpc.CallOption) (gamegrpc.AccountPage, error)
}

// CreateGameInput represents the MCP tool input for starting a game.
type CreateGameInput struct {
	DisplayName string `json:"display_name,omitempty" jsonschema:"optional player name shown on the leaderboard"`
}

// GameInput addresses one game.
type GameInput struct {
	GameID string `json:"game_id,omitempty" jsonschema:"game identifier (defaults to the active game)"`
}

// AnswerInput represents the MCP tool input for answering the current question.
type AnswerInput struct {
	GameID string `json:"game_id,omitempty" jsonschema:"game identifier (defaults to the active game)"`
	Letter string `json:"letter" jsonschema:"answer letter (a, b, c or d)"`
}

// HelpInput represents the MCP tool input for a lifeline.
type HelpInput struct {
	GameID string `json:"game_id,omitempty" jsonschema:"game identifier (defaults to the active game)"`
	Kind   string `json:"kind" jsonschema:"lifeline (fifty_fifty, audience_help, friend_call)"`
}

// LeaderboardInput represents the MCP tool input for the leaderboard.
type LeaderboardInput struct {
	PageSize  int    `json:"page_size,omitempty" jsonschema:"maximum entries to return (default 20)"`
	PageToken string `json:"page_token,omitempty" jsonschema:"token from a previous page"`
}

// GameResult represents a game as MCP clients see it.
type GameResult struct {
	ID               string          `json:"id" jsonschema:"game identifier"`
	Status           string          `json:"status" jsonschema:"game status (in_progress, won, money, fail, timeout)"`
	CurrentLevel     int             `json:"current_level" jsonschema:"zero-based ladder level"`
	Prize            int64           `json:"prize" jsonschema:"prize won or bankable"`
	PrizeText        string          `json:"prize_text" jsonschema:"prize formatted for the player locale"`
	Accepted         bool            `json:"accepted" jsonschema:"whether the last action was applied (answer correct, money taken)"`
	DeadlineAt       string          `json:"deadline_at" jsonschema:"RFC3339 time after which the game times out"`
	FinishedAt       string          `json:"finished_at,omitempty" jsonschema:"RFC3339 time the game finished"`
	HelpsUsed        []string        `json:"helps_used,omitempty" jsonschema:"lifelines already used"`
	Question         *QuestionResult `json:"question,omitempty" jsonschema:"question to answer"`
	PreviousQuestion *QuestionResult `json:"previous_question,omitempty" jsonschema:"last answered question"`
	Help             *HelpResult     `json:"help,omitempty" jsonschema:"lifeline just revealed"`
}

// QuestionResult is a question with its answer variants.
type QuestionResult struct {
	Level      int          `json:"level" jsonschema:"zero-based ladder level"`
	Text       string       `json:"text" jsonschema:"question text"`
	PrizeText  string       `json:"prize_text" jsonschema:"prize for answering this question"`
	Variants   []Variant    `json:"variants" jsonschema:"answer variants ordered by letter"`
	Help       []HelpResult `json:"help,omitempty" jsonschema:"lifelines revealed for this question"`
	CorrectKey string       `json:"correct_key,omitempty" jsonschema:"correct letter once revealed"`
}

// Variant is one lettered answer.
type Variant struct {
	Key  string `json:"key" jsonschema:"answer letter"`
	Text string `json:"text" jsonschema:"answer text"`
}

// HelpResult is a revealed lifeline.
type HelpResult struct {
	Kind  string         `json:"kind" jsonschema:"lifeline kind"`
	Keys  []string       `json:"keys,omitempty" jsonschema:"letters left by fifty_fifty"`
	Votes map[string]int `json:"votes,omitempty" jsonschema:"audience votes by letter"`
	Text  string         `json:"text,omitempty" jsonschema:"what the friend said"`
	Key   string         `json:"key,omitempty" jsonschema:"letter the friend suggested"`
}

// LeaderboardResult represents one leaderboard page.
type LeaderboardResult struct {
	Entries       []LeaderboardEntry `json:"entries" jsonschema:"players ordered by balance"`
	NextPageToken string             `json:"next_page_token,omitempty" jsonschema:"token for the next page"`
}

// LeaderboardEntry is one ranked player.
type LeaderboardEntry struct {
	Rank        int    `json:"rank" jsonschema:"position on this page, starting at 1"`
	UserID      string `json:"user_id" jsonschema:"player identifier"`
	Name        string `json:"name" jsonschema:"player name"`
	Balance     int64  `json:"balance" jsonschema:"total winnings"`
	BalanceText string `json:"balance_text" jsonschema:"balance formatted for the player locale"`
}

// CreateGameTool defines the MCP tool schema for starting a game.
func CreateGameTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "trivia_create_game",
		Description: "Starts a new 15 question trivia ladder for the player. Fails if the player already has a game in progress.",
	}
}

// GetGameTool defines the MCP tool schema for reading a game.
func GetGameTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "trivia_get_game",
		Description: "Returns a game with its current question. Without game_id returns the game in progress.",
	}
}

// AnswerTool defines the MCP tool schema for answering.
func AnswerTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "trivia_answer",
		Description: "Answers the current question with a letter. A wrong answer ends the game without a prize.",
	}
}

// TakeMoneyTool defines the MCP tool schema for banking the prize.
func TakeMoneyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "trivia_take_money",
		Description: "Ends the game and credits the prize of the last correctly answered question.",
	}
}

// HelpTool defines the MCP tool schema for lifelines.
func HelpTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "trivia_help",
		Description: "Uses a lifeline on the current question: fifty_fifty, audience_help or friend_call. Each is available once per game.",
	}
}

// LeaderboardTool defines the MCP tool schema for the leaderboard.
func LeaderboardTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "trivia_leaderboard",
		Description: "Lists players ordered by total winnings.",
	}
}

func gameResultFromMessage(game gamegrpc.Game, amount func(int64) string) GameResult {
	result := GameResult{
		ID:               game.ID,
		Status:           game.Status,
		CurrentLevel:     game.CurrentLevel,
		Prize:            game.Prize,
		PrizeText:        amount(game.Prize),
		Accepted:         game.Accepted,
		DeadlineAt:       formatTime(game.DeadlineAt),
		Question:         questionResultFromMessage(game.CurrentQuestion, amount),
		PreviousQuestion: questionResultFromMessage(game.PreviousQuestion, amount),
	}
	if game.FinishedAt != nil {
		result.FinishedAt = formatTime(*game.FinishedAt)
	}
	if game.FiftyFiftyUsed {
		result.HelpsUsed = append(result.HelpsUsed, "fifty_fifty")
	}
	if game.AudienceHelpUsed {
		result.HelpsUsed = append(result.HelpsUsed, "audience_help")
	}
	if game.FriendCallUsed {
		result.HelpsUsed = append(result.HelpsUsed, "friend_call")
	}
	if game.Help != nil {
		help := helpResultFromMessage(*game.Help)
		result.Help = &help
	}
	return result
}

func questionResultFromMessage(question *gamegrpc.Question, amount func(int64) string) *QuestionResult {
	if question == nil {
		return nil
	}
	result := &QuestionResult{
		Level:      question.Level,
		Text:       question.Text,
		PrizeText:  amount(question.Prize),
		CorrectKey: question.CorrectKey,
	}
	keys := make([]string, 0, len(question.Variants))
	for key := range question.Variants {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		result.Variants = append(result.Variants, Variant{Key: key, Text: question.Variants[key]})
	}
	for _, help := range question.Help {
		result.Help = append(result.Help, helpResultFromMessage(help))
	}
	return result
}

func helpResultFromMessage(help gamegrpc.Help) HelpResult {
	return HelpResult{
		Kind:  help.Kind,
		Keys:  help.Keys,
		Votes: help.Votes,
		Text:  help.Text,
		Key:   help.Key,
	}
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
