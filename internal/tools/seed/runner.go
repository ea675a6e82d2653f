package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	platformgrpc "github.com/louisbranch/millionaire/internal/platform/grpc"
	"github.com/louisbranch/millionaire/internal/platform/timeouts"
	gamegrpc "github.com/louisbranch/millionaire/internal/services/game/api/grpc/game"
	"github.com/louisbranch/millionaire/internal/services/game/gameplay"
	gamesqlite "github.com/louisbranch/millionaire/internal/services/game/storage/sqlite"
)

// Config selects a question file and where to import it.
type Config struct {
	File string
	// Level applies to text files. Negative means take it from the file name.
	Level int
	// DBPath imports straight into a game database when GRPCAddr is empty.
	DBPath   string
	GRPCAddr string
	UserID   string
	Token    string
	// DryRun validates the file without importing.
	DryRun bool
}

// Run loads, validates and imports one question file.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	records, err := Load(cfg.File, cfg.Level)
	if err != nil {
		return err
	}
	if cfg.DryRun {
		fmt.Fprintf(out, "validated %d questions from %s\n", len(records), cfg.File)
		return nil
	}

	importer, closeImporter, err := newImporter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeImporter()

	result, err := importer.Import(ctx, records)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "imported %d questions from %s\n", result.Imported, cfg.File)
	for _, level := range result.Levels() {
		fmt.Fprintf(out, "  level %2d: %d questions\n", level, result.ByLevel[level])
	}
	return nil
}

// Load reads a question file, detecting its format from the extension.
func Load(path string, level int) ([]QuestionRecord, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("question file is required")
	}
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == FormatText && level < 0 {
		fromName, ok := LevelFromFilename(path)
		if !ok {
			return nil, fmt.Errorf("level is required for %s", path)
		}
		level = fromName
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question file: %w", err)
	}
	defer file.Close()
	records, err := LoadQuestions(file, format, level)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func newImporter(ctx context.Context, cfg Config) (Importer, func(), error) {
	if addr := strings.TrimSpace(cfg.GRPCAddr); addr != "" {
		logf := func(format string, args ...any) {
			log.Printf("game %s", fmt.Sprintf(format, args...))
		}
		conn, err := platformgrpc.DialWithHealth(ctx, addr, platformgrpc.DialConfig{
			Timeout: timeouts.GameDial,
			Service: gamegrpc.ServiceName,
			Logf:    logf,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect to game server at %s: %w", addr, err)
		}
		closeConn := func() {
			if err := conn.Close(); err != nil {
				log.Printf("close game connection: %v", err)
			}
		}
		return GRPCImporter{Conn: conn, UserID: cfg.UserID, Token: cfg.Token}, closeConn, nil
	}

	path := strings.TrimSpace(cfg.DBPath)
	if path == "" {
		return nil, nil, errors.New("database path or game server address is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := gamesqlite.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open game sqlite store: %w", err)
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			log.Printf("close game store: %v", err)
		}
	}
	service := gameplay.NewService(gameplay.Stores{
		Questions: store,
		Accounts:  store,
		Games:     store,
	})
	return ServiceImporter{Service: service}, closeStore, nil
}
