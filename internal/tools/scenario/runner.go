package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/louisbranch/millionaire/internal/services/game/api/grpc/auth"
	gamegrpc "github.com/louisbranch/millionaire/internal/services/game/api/grpc/game"
	server "github.com/louisbranch/millionaire/internal/services/game/app"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DefaultUserID is the player every scenario plays as.
const DefaultUserID = "scenario-player"

// Config controls scenario execution.
type Config struct {
	Timeout time.Duration
	Verbose bool
	Logger  *log.Logger
	// Seed makes question draws and lifelines reproducible.
	Seed int64
	// Start is the initial time of the scenario clock.
	Start time.Time
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Timeout: 10 * time.Second,
		Seed:    1,
	}
}

// Runner executes scenarios against an in-process game server.
type Runner struct {
	server  *server.Server
	conn    *grpc.ClientConn
	client  *gamegrpc.Client
	clock   *scenarioClock
	dir     string
	stop    context.CancelFunc
	done    chan error
	logger  *log.Logger
	verbose bool
	timeout time.Duration
}

// NewRunner starts a game server on a temporary database and connects to it.
func NewRunner(ctx context.Context, cfg Config) (*Runner, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	start := cfg.Start
	if start.IsZero() {
		start = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}

	dir, err := os.MkdirTemp("", "millionaire-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("create scenario dir: %w", err)
	}
	clock := newScenarioClock(start)
	srv, err := server.New(server.Config{
		Addr:   "127.0.0.1:0",
		DBPath: filepath.Join(dir, "game.db"),
		Seed:   seed,
		Clock:  clock.Now,
		Auth:   &auth.Config{DevAdmins: []string{DefaultUserID}},
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("start game server: %w", err)
	}

	serveCtx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(serveCtx)
	}()

	conn, err := grpc.NewClient(
		srv.Addr(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.WaitForReady(true)),
	)
	if err != nil {
		stop()
		<-done
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("dial gRPC: %w", err)
	}

	return &Runner{
		server:  srv,
		conn:    conn,
		client:  gamegrpc.NewClient(conn),
		clock:   clock,
		dir:     dir,
		stop:    stop,
		done:    done,
		logger:  logger,
		verbose: cfg.Verbose,
		timeout: timeout,
	}, nil
}

// Close stops the server and removes its database.
func (r *Runner) Close() error {
	if r == nil {
		return nil
	}
	var err error
	if r.conn != nil {
		err = r.conn.Close()
	}
	if r.stop != nil {
		r.stop()
		if serveErr := <-r.done; serveErr != nil && err == nil {
			err = serveErr
		}
	}
	if r.dir != "" {
		if rmErr := os.RemoveAll(r.dir); rmErr != nil && err == nil {
			err = rmErr
		}
	}
	return err
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	runner, err := NewRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()
	return runner.RunScenario(ctx, scenario)
}

// RunScenario executes the scenario steps against gRPC.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))
	state := &scenarioState{userID: DefaultUserID}

	for index, step := range scenario.Steps {
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), step.Kind)
		stepStart := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, state, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", stepNumber, step.Kind, err)
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
