package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/millionaire/internal/services/game/api/grpc/auth"
	gamegrpc "github.com/louisbranch/millionaire/internal/services/game/api/grpc/game"
	grpcmeta "github.com/louisbranch/millionaire/internal/services/game/api/grpc/metadata"
	server "github.com/louisbranch/millionaire/internal/services/game/app"
	"github.com/louisbranch/millionaire/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

func startGameServer(t *testing.T) string {
	t.Helper()

	srv, err := server.New(server.Config{
		Addr:   "127.0.0.1:0",
		DBPath: filepath.Join(t.TempDir(), "game.db"),
		Seed:   7,
		Auth:   &auth.Config{DevAdmins: []string{"admin"}},
	})
	if err != nil {
		t.Fatalf("new game server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	})

	conn, err := grpc.NewClient(srv.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial game server: %v", err)
	}
	defer conn.Close()

	questions := make([]gamegrpc.QuestionInput, 0, 15)
	for level := 0; level < 15; level++ {
		questions = append(questions, gamegrpc.QuestionInput{
			Level:   level,
			Text:    "Question?",
			Answers: []string{"right", "wrong 1", "wrong 2", "wrong 3"},
		})
	}
	callCtx := metadata.AppendToOutgoingContext(context.Background(), grpcmeta.UserIDHeader, "admin")
	if _, err := gamegrpc.NewClient(conn).ImportQuestions(callCtx, questions); err != nil {
		t.Fatalf("import questions: %v", err)
	}
	return srv.Addr()
}

func connectClient(t *testing.T, ctx context.Context, transport mcp.Transport) *mcp.ClientSession {
	t.Helper()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	connectCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	session, err := client.Connect(connectCtx, transport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	return session
}

func callGameTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) domain.GameResult {
	t.Helper()

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("call %s: %v", name, err)
	}
	if result.IsError {
		t.Fatalf("call %s returned tool error: %+v", name, result.Content)
	}
	raw, err := json.Marshal(result.StructuredContent)
	if err != nil {
		t.Fatalf("marshal %s output: %v", name, err)
	}
	var out domain.GameResult
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode %s output: %v", name, err)
	}
	return out
}

func correctLetter(t *testing.T, game domain.GameResult) string {
	t.Helper()
	if game.Question == nil {
		t.Fatal("expected current question")
	}
	for _, variant := range game.Question.Variants {
		if variant.Text == "right" {
			return variant.Key
		}
	}
	t.Fatal("correct variant not found")
	return ""
}

func TestRunWithTransportPlaysGame(t *testing.T) {
	addr := startGameServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- runWithTransport(ctx, Config{
			GRPCAddr: addr,
			Identity: domain.Identity{UserID: "player-1", DisplayName: "Ann"},
		}, serverTransport)
	}()

	session := connectClient(t, ctx, clientTransport)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	if len(tools.Tools) != 6 {
		t.Fatalf("tools = %d, want 6", len(tools.Tools))
	}

	created := callGameTool(t, session, "trivia_create_game", map[string]any{})
	if created.Status != "in_progress" || created.CurrentLevel != 0 {
		t.Fatalf("created = %+v, want level 0 in progress", created)
	}

	answered := callGameTool(t, session, "trivia_answer", map[string]any{"letter": correctLetter(t, created)})
	if !answered.Accepted || answered.CurrentLevel != 1 {
		t.Fatalf("answered = %+v, want accepted at level 1", answered)
	}

	helped := callGameTool(t, session, "trivia_help", map[string]any{"kind": "audience_help"})
	if helped.Help == nil || helped.Help.Kind != "audience_help" {
		t.Fatalf("help = %+v, want audience help", helped.Help)
	}

	banked := callGameTool(t, session, "trivia_take_money", map[string]any{"game_id": created.ID})
	if banked.Status != "money" || banked.Prize != 100 {
		t.Fatalf("banked = %+v, want money with prize 100", banked)
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "trivia_leaderboard", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("call leaderboard: %v", err)
	}
	raw, _ := json.Marshal(result.StructuredContent)
	var board domain.LeaderboardResult
	if err := json.Unmarshal(raw, &board); err != nil {
		t.Fatalf("decode leaderboard: %v", err)
	}
	if len(board.Entries) == 0 || board.Entries[0].UserID != "player-1" || board.Entries[0].Balance != 100 {
		t.Fatalf("leaderboard = %+v, want player-1 with 100", board.Entries)
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}

func TestToolErrorsAreReported(t *testing.T) {
	addr := startGameServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	go func() {
		_ = runWithTransport(ctx, Config{GRPCAddr: addr, Identity: domain.Identity{UserID: "player-2"}}, serverTransport)
	}()
	session := connectClient(t, ctx, clientTransport)
	defer session.Close()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "trivia_take_money", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("call take money: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error without an active game")
	}
}

func TestNewRequiresConnAndIdentity(t *testing.T) {
	if _, err := New(nil, domain.Identity{UserID: "u"}); err == nil {
		t.Fatal("expected error for nil connection")
	}
	conn, err := grpc.NewClient("127.0.0.1:1", grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer conn.Close()
	if _, err := New(conn, domain.Identity{}); err == nil {
		t.Fatal("expected error for missing identity")
	}
}

func TestRunWithTransportRequiresAddr(t *testing.T) {
	serverTransport, _ := mcp.NewInMemoryTransports()
	err := runWithTransport(context.Background(), Config{Identity: domain.Identity{UserID: "u"}}, serverTransport)
	if err == nil || !strings.Contains(err.Error(), "address is required") {
		t.Fatalf("error = %v, want missing address", err)
	}
}

func TestCloseNilServer(t *testing.T) {
	var s *Server
	if err := s.Close(); err != nil {
		t.Fatalf("close nil server: %v", err)
	}
}
