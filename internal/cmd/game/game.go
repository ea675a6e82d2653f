// Package game parses game command flags and starts the trivia game server.
package game

import (
	"context"
	"flag"
	"fmt"
	"strings"

	entrypoint "github.com/louisbranch/millionaire/internal/platform/cmd"
	server "github.com/louisbranch/millionaire/internal/services/game/app"
)

// Config holds game command configuration.
type Config struct {
	Port        int    `env:"MILLIONAIRE_GAME_PORT" envDefault:"8080"`
	Addr        string `env:"MILLIONAIRE_GAME_ADDR"`
	DBPath      string `env:"MILLIONAIRE_GAME_DB_PATH" envDefault:"data/game.db"`
	MetricsAddr string `env:"MILLIONAIRE_GAME_METRICS_ADDR"`
	Seed        int64  `env:"MILLIONAIRE_GAME_SEED"`

	// DevAdmins only apply while player tokens are disabled.
	DevAdmins []string `env:"MILLIONAIRE_GAME_DEV_ADMINS" envDefault:"seed"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The game server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The game server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Path to the game SQLite database")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Prometheus metrics listen address (disabled when empty)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for question draws (0 for time based)")
	fs.Func("dev-admins", "Comma separated user ids allowed admin calls without player tokens (default \"seed\")", func(value string) error {
		cfg.DevAdmins = splitList(value)
		return nil
	})
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ListenAddr returns the configured address, falling back to the port.
func (c Config) ListenAddr() string {
	if c.Addr != "" {
		return c.Addr
	}
	return fmt.Sprintf(":%d", c.Port)
}

// Run starts the game API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGame, func(context.Context) error {
		return server.Run(ctx, server.Config{
			Addr:        cfg.ListenAddr(),
			DBPath:      cfg.DBPath,
			MetricsAddr: cfg.MetricsAddr,
			Seed:        cfg.Seed,
			DevAdmins:   cfg.DevAdmins,
		})
	})
}
