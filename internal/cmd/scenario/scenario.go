// Package scenario parses scenario command flags and runs a Lua script.
package scenario

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"time"

	entrypoint "github.com/louisbranch/millionaire/internal/platform/cmd"
	"github.com/louisbranch/millionaire/internal/tools/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	Scenario string        `env:"MILLIONAIRE_SCENARIO_FILE"`
	Verbose  bool          `env:"MILLIONAIRE_SCENARIO_VERBOSE"`
	Timeout  time.Duration `env:"MILLIONAIRE_SCENARIO_TIMEOUT" envDefault:"10s"`
	Seed     int64         `env:"MILLIONAIRE_SCENARIO_SEED"    envDefault:"1"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "enable verbose logging")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per step")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for question draws and lifelines")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceScenario, func(ctx context.Context) error {
		if err := scenario.RunFile(ctx, scenario.Config{
			Timeout: cfg.Timeout,
			Verbose: cfg.Verbose,
			Logger:  log.New(errOut, "", 0),
			Seed:    cfg.Seed,
		}, cfg.Scenario); err != nil {
			return err
		}
		_, err := io.WriteString(out, "scenario passed: "+cfg.Scenario+"\n")
		return err
	})
}
