package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	platformgrpc "github.com/louisbranch/millionaire/internal/platform/grpc"
	"github.com/louisbranch/millionaire/internal/platform/timeouts"
	gamegrpc "github.com/louisbranch/millionaire/internal/services/game/api/grpc/game"
	"github.com/louisbranch/millionaire/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Millionaire Trivia MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Config configures the MCP server.
type Config struct {
	GRPCAddr string
	Identity domain.Identity
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	conn      *grpc.ClientConn
}

// New creates an MCP server whose tools call the game server over conn.
// The server owns conn and closes it when serving ends.
func New(conn *grpc.ClientConn, identity domain.Identity) (*Server, error) {
	if conn == nil {
		return nil, errors.New("gRPC connection is required")
	}
	if strings.TrimSpace(identity.UserID) == "" && strings.TrimSpace(identity.Token) == "" {
		return nil, errors.New("player user id or token is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	registerGameTools(mcpServer, gamegrpc.NewClient(conn), identity)
	return &Server{mcpServer: mcpServer, conn: conn}, nil
}

// Run dials the game server and serves MCP on stdio until the context ends.
func Run(ctx context.Context, cfg Config) error {
	return runWithTransport(ctx, cfg, &mcp.StdioTransport{})
}

func runWithTransport(ctx context.Context, cfg Config, transport mcp.Transport) error {
	if strings.TrimSpace(cfg.GRPCAddr) == "" {
		return errors.New("game server address is required")
	}
	conn, err := dialGameGRPC(ctx, cfg.GRPCAddr)
	if err != nil {
		return err
	}
	server, err := New(conn, cfg.Identity)
	if err != nil {
		_ = conn.Close()
		return err
	}
	return server.serveWithTransport(ctx, transport)
}

// Close releases the gRPC connection held by the server.
func (s *Server) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return err
	}
	s.conn = nil
	return nil
}

// serveWithTransport runs the MCP server and closes the connection on exit.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close gRPC connection: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close gRPC connection: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func dialGameGRPC(ctx context.Context, addr string) (*grpc.ClientConn, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logf := func(format string, args ...any) {
		log.Printf("game %s", fmt.Sprintf(format, args...))
	}
	conn, err := platformgrpc.DialWithHealth(ctx, addr, platformgrpc.DialConfig{
		Timeout: timeouts.GameDial,
		Service: gamegrpc.ServiceName,
		Logf:    logf,
	})
	if err != nil {
		var dialErr *platformgrpc.DialError
		if errors.As(err, &dialErr) && dialErr.Stage == platformgrpc.DialStageHealth {
			return nil, fmt.Errorf("game server at %s is not serving: %w", addr, dialErr.Err)
		}
		return nil, fmt.Errorf("connect to game server at %s: %w", addr, err)
	}
	return conn, nil
}
