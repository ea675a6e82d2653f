package game

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls GameService over a gRPC connection.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps conn.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// CreateGame starts a game for the caller.
func (c *Client) CreateGame(ctx context.Context, req CreateGameRequest, opts ...grpc.CallOption) (Game, error) {
	var out Game
	err := c.call(ctx, MethodCreateGame, req, &out, opts...)
	return out, err
}

// GetGame returns one of the caller's games.
func (c *Client) GetGame(ctx context.Context, gameID string, opts ...grpc.CallOption) (Game, error) {
	var out Game
	err := c.call(ctx, MethodGetGame, GameRequest{GameID: gameID}, &out, opts...)
	return out, err
}

// GetActiveGame returns the caller's unfinished game.
func (c *Client) GetActiveGame(ctx context.Context, opts ...grpc.CallOption) (Game, error) {
	var out Game
	err := c.call(ctx, MethodGetActiveGame, struct{}{}, &out, opts...)
	return out, err
}

// AnswerQuestion submits a letter.
func (c *Client) AnswerQuestion(ctx context.Context, gameID, letter string, opts ...grpc.CallOption) (Game, error) {
	var out Game
	err := c.call(ctx, MethodAnswerQuestion, AnswerRequest{GameID: gameID, Letter: letter}, &out, opts...)
	return out, err
}

// TakeMoney banks the current prize.
func (c *Client) TakeMoney(ctx context.Context, gameID string, opts ...grpc.CallOption) (Game, error) {
	var out Game
	err := c.call(ctx, MethodTakeMoney, GameRequest{GameID: gameID}, &out, opts...)
	return out, err
}

// RequestHelp consumes a lifeline.
func (c *Client) RequestHelp(ctx context.Context, gameID, kind string, opts ...grpc.CallOption) (Game, error) {
	var out Game
	err := c.call(ctx, MethodRequestHelp, HelpRequest{GameID: gameID, Kind: kind}, &out, opts...)
	return out, err
}

// ListGames pages the caller's games.
func (c *Client) ListGames(ctx context.Context, req ListGamesRequest, opts ...grpc.CallOption) (GamePage, error) {
	var out GamePage
	err := c.call(ctx, MethodListGames, req, &out, opts...)
	return out, err
}

// GetLeaderboard pages accounts by balance.
func (c *Client) GetLeaderboard(ctx context.Context, req LeaderboardRequest, opts ...grpc.CallOption) (AccountPage, error) {
	var out AccountPage
	err := c.call(ctx, MethodGetLeaderboard, req, &out, opts...)
	return out, err
}

// GetAccount returns the caller's account.
func (c *Client) GetAccount(ctx context.Context, opts ...grpc.CallOption) (Account, error) {
	var out Account
	err := c.call(ctx, MethodGetAccount, struct{}{}, &out, opts...)
	return out, err
}

// ImportQuestions uploads questions to the bank.
func (c *Client) ImportQuestions(ctx context.Context, questions []QuestionInput, opts ...grpc.CallOption) (ImportResult, error) {
	var out ImportResult
	err := c.call(ctx, MethodImportQuestions, ImportQuestionsRequest{Questions: questions}, &out, opts...)
	return out, err
}

func (c *Client) call(ctx context.Context, method string, req any, out any, opts ...grpc.CallOption) error {
	in, err := ToStruct(req)
	if err != nil {
		return err
	}
	reply := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, FullMethod(method), in, reply, opts...); err != nil {
		return err
	}
	return FromStruct(reply, out)
}
