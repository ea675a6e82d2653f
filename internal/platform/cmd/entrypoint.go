// Package cmd holds the startup sequence shared by the millionaire commands:
// environment first, flags second, then the run loop wrapped in tracing.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/millionaire/internal/platform/config"
	"github.com/louisbranch/millionaire/internal/platform/otel"
)

// Service identifiers reported as the OpenTelemetry service name.
const (
	ServiceGame     = "millionaire-game"
	ServiceMCP      = "millionaire-mcp"
	ServiceScenario = "millionaire-scenario"
	ServiceSeed     = "millionaire-seed"
)

// TelemetryShutdownTimeout bounds flushing spans after a run returns.
var TelemetryShutdownTimeout = 5 * time.Second

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags over the environment defaults.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry installs the tracer provider for service, runs fn and
// flushes spans once fn returns.
func RunWithTelemetry(ctx context.Context, service string, fn func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if fn == nil {
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), TelemetryShutdownTimeout)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Printf("%s telemetry shutdown: %v", service, err)
		}
	}()
	return fn(ctx)
}
