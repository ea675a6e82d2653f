package game

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/louisbranch/millionaire/internal/services/game/domain/game"
	"github.com/louisbranch/millionaire/internal/services/game/gameplay"
	"github.com/louisbranch/millionaire/internal/services/game/storage"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Game is the wire shape of a game view.
type Game struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Status           string     `json:"status"`
	CurrentLevel     int        `json:"current_level"`
	Prize            int64      `json:"prize"`
	BankablePrize    int64      `json:"bankable_prize"`
	IsFailed         bool       `json:"is_failed"`
	CreatedAt        time.Time  `json:"created_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
	DeadlineAt       time.Time  `json:"deadline_at"`
	FiftyFiftyUsed   bool       `json:"fifty_fifty_used"`
	AudienceHelpUsed bool       `json:"audience_help_used"`
	FriendCallUsed   bool       `json:"friend_call_used"`
	CurrentQuestion  *Question  `json:"current_question,omitempty"`
	PreviousQuestion *Question  `json:"previous_question,omitempty"`
	Accepted         bool       `json:"accepted"`
	Help             *Help      `json:"help,omitempty"`
}

// Question is the wire shape of a question as the player sees it.
type Question struct {
	Level      int               `json:"level"`
	Text       string            `json:"text"`
	Prize      int64             `json:"prize"`
	Variants   map[string]string `json:"variants"`
	Help       []Help            `json:"help,omitempty"`
	CorrectKey string            `json:"correct_key,omitempty"`
}

// Help is one revealed lifeline. Only the fields of Kind are set.
type Help struct {
	Kind  string         `json:"kind"`
	Keys  []string       `json:"keys,omitempty"`
	Votes map[string]int `json:"votes,omitempty"`
	Text  string         `json:"text,omitempty"`
	Key   string         `json:"key,omitempty"`
}

// GamePage is one page of games.
type GamePage struct {
	Games         []Game `json:"games"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

// Account is a player account.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountPage is one leaderboard page.
type AccountPage struct {
	Accounts      []Account `json:"accounts"`
	NextPageToken string    `json:"next_page_token,omitempty"`
}

// QuestionInput is one question of an import. Answers[0] is the correct one.
type QuestionInput struct {
	ID      string   `json:"id,omitempty"`
	Level   int      `json:"level"`
	Text    string   `json:"text"`
	Answers []string `json:"answers"`
}

// ImportResult reports stored questions and per-level bank sizes.
type ImportResult struct {
	Imported int            `json:"imported"`
	ByLevel  map[string]int `json:"by_level"`
}

// CreateGameRequest starts a game for the caller.
type CreateGameRequest struct {
	DisplayName string `json:"display_name,omitempty"`
}

// GameRequest addresses one game of the caller.
type GameRequest struct {
	GameID string `json:"game_id"`
}

// AnswerRequest submits a letter for the current question.
type AnswerRequest struct {
	GameID string `json:"game_id"`
	Letter string `json:"letter"`
}

// HelpRequest asks for a lifeline.
type HelpRequest struct {
	GameID string `json:"game_id"`
	Kind   string `json:"kind"`
}

// ListGamesRequest pages the caller's games.
type ListGamesRequest struct {
	Filter    string `json:"filter,omitempty"`
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

// LeaderboardRequest pages accounts by balance.
type LeaderboardRequest struct {
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

// ImportQuestionsRequest uploads questions to the bank.
type ImportQuestionsRequest struct {
	Questions []QuestionInput `json:"questions"`
}

// ToStruct encodes a message as a google.protobuf.Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return out, nil
}

// FromStruct decodes a google.protobuf.Struct into v.
func FromStruct(in *structpb.Struct, v any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	raw, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}

func gameMessage(view gameplay.GameView) Game {
	msg := Game{
		ID:               view.ID,
		UserID:           view.UserID,
		Status:           string(view.Status),
		CurrentLevel:     view.CurrentLevel,
		Prize:            view.Prize,
		BankablePrize:    view.BankablePrize,
		IsFailed:         view.IsFailed,
		CreatedAt:        view.CreatedAt,
		FinishedAt:       view.FinishedAt,
		DeadlineAt:       view.DeadlineAt,
		FiftyFiftyUsed:   view.FiftyFiftyUsed,
		AudienceHelpUsed: view.AudienceHelpUsed,
		FriendCallUsed:   view.FriendCallUsed,
		CurrentQuestion:  questionMessage(view.Current),
		PreviousQuestion: questionMessage(view.Previous),
		Accepted:         view.Accepted,
	}
	if view.Help != nil {
		help := helpMessage(view.Help)
		msg.Help = &help
	}
	return msg
}

func questionMessage(view *gameplay.QuestionView) *Question {
	if view == nil {
		return nil
	}
	msg := &Question{
		Level:      view.Level,
		Text:       view.Text,
		Prize:      view.Prize,
		Variants:   make(map[string]string, len(view.Variants)),
		CorrectKey: view.CorrectKey.String(),
	}
	for key, text := range view.Variants {
		msg.Variants[key.String()] = text
	}
	for _, help := range view.Help.Revealed() {
		msg.Help = append(msg.Help, helpMessage(help))
	}
	return msg
}

func helpMessage(help game.Help) Help {
	msg := Help{Kind: string(help.Kind())}
	switch h := help.(type) {
	case game.FiftyFifty:
		for _, key := range h.Keys {
			msg.Keys = append(msg.Keys, key.String())
		}
	case game.AudienceHelp:
		msg.Votes = make(map[string]int, len(h.Votes))
		for key, votes := range h.Votes {
			msg.Votes[key.String()] = votes
		}
	case game.FriendCall:
		msg.Text = h.Text
		msg.Key = h.Key.String()
	}
	return msg
}

func gamePageMessage(page gameplay.GamePage) GamePage {
	msg := GamePage{
		Games:         make([]Game, 0, len(page.Games)),
		NextPageToken: page.NextPageToken,
	}
	for _, view := range page.Games {
		msg.Games = append(msg.Games, gameMessage(view))
	}
	return msg
}

func accountMessage(account storage.Account) Account {
	return Account{
		ID:        account.ID,
		Name:      account.Name,
		Balance:   account.Balance,
		CreatedAt: account.CreatedAt,
	}
}

func accountPageMessage(page storage.AccountPage) AccountPage {
	msg := AccountPage{
		Accounts:      make([]Account, 0, len(page.Accounts)),
		NextPageToken: page.NextPageToken,
	}
	for _, account := range page.Accounts {
		msg.Accounts = append(msg.Accounts, accountMessage(account))
	}
	return msg
}

func importQuestions(inputs []QuestionInput) ([]game.Question, error) {
	questions := make([]game.Question, 0, len(inputs))
	for i, input := range inputs {
		if len(input.Answers) != len(game.Keys) {
			return nil, fmt.Errorf("%w: question %d needs %d answers, got %d", game.ErrInvalidQuestion, i+1, len(game.Keys), len(input.Answers))
		}
		q := game.Question{ID: input.ID, Level: input.Level, Text: input.Text}
		copy(q.Answers[:], input.Answers)
		questions = append(questions, q)
	}
	return questions, nil
}

func importResultMessage(result gameplay.ImportResult) ImportResult {
	msg := ImportResult{
		Imported: result.Imported,
		ByLevel:  make(map[string]int, len(result.ByLevel)),
	}
	for level, count := range result.ByLevel {
		msg.ByLevel[fmt.Sprint(level)] = count
	}
	return msg
}
