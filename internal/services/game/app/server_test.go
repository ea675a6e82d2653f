package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/millionaire/internal/services/game/api/grpc/auth"
	gamegrpc "github.com/louisbranch/millionaire/internal/services/game/api/grpc/game"
	grpcmeta "github.com/louisbranch/millionaire/internal/services/game/api/grpc/metadata"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func startServer(t *testing.T) (*Server, *grpc.ClientConn) {
	t.Helper()
	server, err := New(Config{
		Addr:   "127.0.0.1:0",
		DBPath: filepath.Join(t.TempDir(), "nested", "game.db"),
		Seed:   3,
		Auth:   &auth.Config{},
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("serve: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})

	conn, err := grpc.NewClient(server.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return server, conn
}

func TestServerServesHealthAndGameService(t *testing.T) {
	server, conn := startServer(t)

	health := grpc_health_v1.NewHealthClient(conn)
	resp, err := health.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: gamegrpc.ServiceName})
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Fatalf("status = %v", resp.GetStatus())
	}

	ctx := metadata.AppendToOutgoingContext(context.Background(), grpcmeta.UserIDHeader, "p1")
	client := gamegrpc.NewClient(conn)
	_, err = client.CreateGame(ctx, gamegrpc.CreateGameRequest{})
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("create on empty bank code = %v, want %v", status.Code(err), codes.FailedPrecondition)
	}

	rec := httptest.NewRecorder()
	server.Metrics().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "_game_requests_total") {
		t.Fatalf("metrics missing request counter:\n%s", body)
	}
}

func TestNewFailsOnBadAddress(t *testing.T) {
	if _, err := New(Config{Addr: "not-an-address", DBPath: filepath.Join(t.TempDir(), "game.db"), Auth: &auth.Config{}}); err == nil {
		t.Fatal("expected listen error")
	}
}

func TestServeNilServer(t *testing.T) {
	var server *Server
	if err := server.Serve(context.Background()); err == nil {
		t.Fatal("expected error for nil server")
	}
	if server.Addr() != "" {
		t.Fatal("expected empty addr for nil server")
	}
}

func TestAuthConfigDevelopmentAdmins(t *testing.T) {
	t.Setenv("MILLIONAIRE_PLAYER_TOKEN_PUBLIC_KEY", "")
	cfg, err := authConfig(Config{DevAdmins: []string{"ops"}})
	if err != nil {
		t.Fatalf("auth config: %v", err)
	}
	if cfg.Enabled {
		t.Fatal("expected tokens disabled without a public key")
	}
	if len(cfg.DevAdmins) != 1 || cfg.DevAdmins[0] != "ops" {
		t.Fatalf("dev admins = %v, want [ops]", cfg.DevAdmins)
	}
	leaderboard := gamegrpc.FullMethod(gamegrpc.MethodGetLeaderboard)
	if len(cfg.PublicMethods) != 1 || cfg.PublicMethods[0] != leaderboard {
		t.Fatalf("public methods = %v, want [%s]", cfg.PublicMethods, leaderboard)
	}

	override, err := authConfig(Config{DevAdmins: []string{"ignored"}, Auth: &auth.Config{}})
	if err != nil {
		t.Fatalf("auth config override: %v", err)
	}
	if len(override.DevAdmins) != 0 {
		t.Fatalf("override dev admins = %v, want none", override.DevAdmins)
	}
}
