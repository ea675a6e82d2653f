// Package mcp parses MCP command flags and starts the stdio bridge.
package mcp

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/millionaire/internal/platform/cmd"
	"github.com/louisbranch/millionaire/internal/services/mcp/domain"
	mcpservice "github.com/louisbranch/millionaire/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	Addr        string `env:"MILLIONAIRE_GAME_ADDR"        envDefault:"localhost:8080"`
	UserID      string `env:"MILLIONAIRE_MCP_USER_ID"`
	DisplayName string `env:"MILLIONAIRE_MCP_DISPLAY_NAME"`
	Token       string `env:"MILLIONAIRE_MCP_PLAYER_TOKEN"`
	Locale      string `env:"MILLIONAIRE_MCP_LOCALE"       envDefault:"en-US"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "game server address")
	fs.StringVar(&cfg.UserID, "user", cfg.UserID, "player id sent when no token is configured")
	fs.StringVar(&cfg.DisplayName, "name", cfg.DisplayName, "player display name")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for messages and amounts")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		return mcpservice.Run(ctx, mcpservice.Config{
			GRPCAddr: cfg.Addr,
			Identity: domain.Identity{
				UserID:      cfg.UserID,
				DisplayName: cfg.DisplayName,
				Token:       cfg.Token,
				Locale:      cfg.Locale,
			},
		})
	})
}
