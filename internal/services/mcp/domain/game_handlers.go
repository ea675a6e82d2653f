package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/millionaire/internal/platform/errors/i18n"
	gamegrpc "github.com/louisbranch/millionaire/internal/services/game/api/grpc/game"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type gameCall func(ctx context.Context, gameID string, opts ...grpc.CallOption) (gamegrpc.Game, error)

// CreateGameHandler starts a game for the configured player.
func CreateGameHandler(client GameClient, identity Identity) mcp.ToolHandlerFor[CreateGameInput, GameResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreateGameInput) (*mcp.CallToolResult, GameResult, error) {
		name := strings.TrimSpace(input.DisplayName)
		if name == "" {
			name = identity.DisplayName
		}
		return runGameCall(ctx, identity, "create game", func(ctx context.Context, _ string, opts ...grpc.CallOption) (gamegrpc.Game, error) {
			return client.CreateGame(ctx, gamegrpc.CreateGameRequest{DisplayName: name}, opts...)
		}, nil)
	}
}

// GetGameHandler reads a game, defaulting to the active one.
func GetGameHandler(client GameClient, identity Identity) mcp.ToolHandlerFor[GameInput, GameResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GameInput) (*mcp.CallToolResult, GameResult, error) {
		gameID := strings.TrimSpace(input.GameID)
		if gameID == "" {
			return runGameCall(ctx, identity, "get active game", func(ctx context.Context, _ string, opts ...grpc.CallOption) (gamegrpc.Game, error) {
				return client.GetActiveGame(ctx, opts...)
			}, nil)
		}
		return runGameCall(ctx, identity, "get game", client.GetGame, staticGameID(gameID))
	}
}

// AnswerHandler answers the current question.
func AnswerHandler(client GameClient, identity Identity) mcp.ToolHandlerFor[AnswerInput, GameResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AnswerInput) (*mcp.CallToolResult, GameResult, error) {
		letter := strings.ToLower(strings.TrimSpace(input.Letter))
		if letter == "" {
			return nil, GameResult{}, fmt.Errorf("letter is required")
		}
		return runGameCall(ctx, identity, "answer", func(ctx context.Context, gameID string, opts ...grpc.CallOption) (gamegrpc.Game, error) {
			return client.AnswerQuestion(ctx, gameID, letter, opts...)
		}, gameIDResolver(client, input.GameID))
	}
}

// TakeMoneyHandler banks the prize and ends the game.
func TakeMoneyHandler(client GameClient, identity Identity) mcp.ToolHandlerFor[GameInput, GameResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GameInput) (*mcp.CallToolResult, GameResult, error) {
		return runGameCall(ctx, identity, "take money", client.TakeMoney, gameIDResolver(client, input.GameID))
	}
}

// HelpHandler uses a lifeline on the current question.
func HelpHandler(client GameClient, identity Identity) mcp.ToolHandlerFor[HelpInput, GameResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input HelpInput) (*mcp.CallToolResult, GameResult, error) {
		kind := strings.TrimSpace(input.Kind)
		if kind == "" {
			return nil, GameResult{}, fmt.Errorf("kind is required")
		}
		return runGameCall(ctx, identity, "request help", func(ctx context.Context, gameID string, opts ...grpc.CallOption) (gamegrpc.Game, error) {
			return client.RequestHelp(ctx, gameID, kind, opts...)
		}, gameIDResolver(client, input.GameID))
	}
}

// LeaderboardHandler lists players by balance.
func LeaderboardHandler(client GameClient, identity Identity) mcp.ToolHandlerFor[LeaderboardInput, LeaderboardResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LeaderboardInput) (*mcp.CallToolResult, LeaderboardResult, error) {
		if input.PageSize < 0 {
			return nil, LeaderboardResult{}, fmt.Errorf("page_size must be non-negative")
		}
		invocation, err := newToolInvocation(ctx)
		if err != nil {
			return nil, LeaderboardResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		defer invocation.Cancel()

		callCtx, callMeta, err := NewOutgoingContext(invocation.RunCtx, invocation.InvocationID, identity)
		if err != nil {
			return nil, LeaderboardResult{}, fmt.Errorf("create request metadata: %w", err)
		}

		var header metadata.MD
		page, err := client.GetLeaderboard(callCtx, gamegrpc.LeaderboardRequest{
			PageSize:  int32(input.PageSize),
			PageToken: input.PageToken,
		}, grpc.Header(&header))
		if err != nil {
			return nil, LeaderboardResult{}, fmt.Errorf("leaderboard failed: %w", err)
		}

		catalog := i18n.GetCatalog(identity.Locale)
		result := LeaderboardResult{
			Entries:       make([]LeaderboardEntry, 0, len(page.Accounts)),
			NextPageToken: page.NextPageToken,
		}
		var summary strings.Builder
		for i, account := range page.Accounts {
			entry := LeaderboardEntry{
				Rank:        i + 1,
				UserID:      account.ID,
				Name:        account.Name,
				Balance:     account.Balance,
				BalanceText: catalog.Amount(account.Balance),
			}
			result.Entries = append(result.Entries, entry)
			fmt.Fprintf(&summary, "%d. %s %s\n", entry.Rank, displayName(entry), entry.BalanceText)
		}
		if len(result.Entries) == 0 {
			summary.WriteString("No players yet.")
		}
		return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header), strings.TrimSpace(summary.String())), result, nil
	}
}

// gameIDSource resolves the target game with the call context.
type gameIDSource func(ctx context.Context) (string, error)

func staticGameID(gameID string) gameIDSource {
	return func(context.Context) (string, error) { return gameID, nil }
}

// gameIDResolver uses gameID when present and the active game otherwise.
func gameIDResolver(client GameClient, gameID string) gameIDSource {
	gameID = strings.TrimSpace(gameID)
	if gameID != "" {
		return staticGameID(gameID)
	}
	return func(ctx context.Context) (string, error) {
		active, err := client.GetActiveGame(ctx)
		if err != nil {
			return "", fmt.Errorf("find active game: %w", err)
		}
		return active.ID, nil
	}
}

func runGameCall(ctx context.Context, identity Identity, action string, call gameCall, resolve gameIDSource) (*mcp.CallToolResult, GameResult, error) {
	invocation, err := newToolInvocation(ctx)
	if err != nil {
		return nil, GameResult{}, fmt.Errorf("generate invocation id: %w", err)
	}
	defer invocation.Cancel()

	callCtx, callMeta, err := NewOutgoingContext(invocation.RunCtx, invocation.InvocationID, identity)
	if err != nil {
		return nil, GameResult{}, fmt.Errorf("create request metadata: %w", err)
	}

	var gameID string
	if resolve != nil {
		gameID, err = resolve(callCtx)
		if err != nil {
			return nil, GameResult{}, err
		}
	}

	var header metadata.MD
	game, err := call(callCtx, gameID, grpc.Header(&header))
	if err != nil {
		return nil, GameResult{}, fmt.Errorf("%s failed: %w", action, err)
	}

	catalog := i18n.GetCatalog(identity.Locale)
	result := gameResultFromMessage(game, catalog.Amount)
	return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header), summarizeGame(result)), result, nil
}

func summarizeGame(game GameResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Game %s is %s at level %d, prize %s.", game.ID, game.Status, game.CurrentLevel+1, game.PrizeText)
	if game.Help != nil {
		b.WriteString("\n" + summarizeHelp(*game.Help))
	}
	if game.Status != "in_progress" || game.Question == nil {
		return b.String()
	}
	fmt.Fprintf(&b, "\nQuestion %d for %s: %s", game.Question.Level+1, game.Question.PrizeText, game.Question.Text)
	for _, variant := range game.Question.Variants {
		fmt.Fprintf(&b, "\n%s) %s", variant.Key, variant.Text)
	}
	return b.String()
}

func summarizeHelp(help HelpResult) string {
	switch help.Kind {
	case "fifty_fifty":
		return "Fifty-fifty leaves " + strings.Join(help.Keys, " and ") + "."
	case "audience_help":
		parts := make([]string, 0, len(help.Votes))
		for _, key := range []string{"a", "b", "c", "d"} {
			if votes, ok := help.Votes[key]; ok {
				parts = append(parts, fmt.Sprintf("%s %d%%", key, votes))
			}
		}
		return "The audience votes " + strings.Join(parts, ", ") + "."
	case "friend_call":
		return "Your friend says: " + help.Text
	default:
		return ""
	}
}

func displayName(entry LeaderboardEntry) string {
	if entry.Name != "" {
		return entry.Name
	}
	return entry.UserID
}
