// Package seed parses seed command flags and imports a question file.
package seed

import (
	"context"
	"flag"
	"io"

	entrypoint "github.com/louisbranch/millionaire/internal/platform/cmd"
	"github.com/louisbranch/millionaire/internal/tools/seed"
)

// Config holds seed command configuration.
type Config struct {
	File     string
	Level    int
	DryRun   bool
	DBPath   string `env:"MILLIONAIRE_GAME_DB_PATH" envDefault:"data/game.db"`
	GRPCAddr string `env:"MILLIONAIRE_SEED_GAME_ADDR"`
	UserID   string `env:"MILLIONAIRE_SEED_USER_ID" envDefault:"seed"`
	Token    string `env:"MILLIONAIRE_SEED_PLAYER_TOKEN"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Level: -1}
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.File, "file", cfg.File, "question file (.json or .txt)")
	fs.IntVar(&cfg.Level, "level", cfg.Level, "level for .txt files (default: number in the file name)")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "validate without importing")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "game database to import into")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "import through a running game server instead of the database")
	fs.StringVar(&cfg.UserID, "user", cfg.UserID, "admin user id sent to a dev-mode game server")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run imports the configured question file.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		return seed.Run(ctx, seed.Config{
			File:     cfg.File,
			Level:    cfg.Level,
			DBPath:   cfg.DBPath,
			GRPCAddr: cfg.GRPCAddr,
			UserID:   cfg.UserID,
			Token:    cfg.Token,
			DryRun:   cfg.DryRun,
		}, out)
	})
}
