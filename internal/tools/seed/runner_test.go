package seed

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/millionaire/internal/services/game/api/grpc/auth"
	server "github.com/louisbranch/millionaire/internal/services/game/app"
	gamesqlite "github.com/louisbranch/millionaire/internal/services/game/storage/sqlite"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const sampleJSON = `[
	{"level": 0, "text": "One?", "answers": ["a", "b", "c", "d"]},
	{"level": 0, "text": "Two?", "answers": ["a", "b", "c", "d"]},
	{"level": 1, "text": "Three?", "answers": ["a", "b", "c", "d"]}
]`

func TestRunImportsIntoDatabase(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "bank.json", sampleJSON)
	dbPath := filepath.Join(dir, "data", "game.db")

	var out bytes.Buffer
	if err := Run(context.Background(), Config{File: file, Level: -1, DBPath: dbPath}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "imported 3 questions") {
		t.Fatalf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "level  1: 1 questions") {
		t.Fatalf("output = %q, want per level counts", out.String())
	}

	store, err := gamesqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	counts, err := store.CountQuestionsByLevel(context.Background())
	if err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if counts[0] != 2 || counts[1] != 1 {
		t.Fatalf("counts = %v, want 2 at level 0 and 1 at level 1", counts)
	}
}

func TestRunTextLevelFromFilename(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "questions_4.txt", "Q?\nright\nw1\nw2\nw3\n")
	dbPath := filepath.Join(dir, "game.db")

	if err := Run(context.Background(), Config{File: file, Level: -1, DBPath: dbPath}, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	store, err := gamesqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	questions, err := store.QuestionsAtLevel(context.Background(), 4)
	if err != nil {
		t.Fatalf("questions at level: %v", err)
	}
	if len(questions) != 1 || questions[0].Answers[0] != "right" {
		t.Fatalf("questions = %+v", questions)
	}
}

func TestRunTextRequiresLevel(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "questions.txt", "Q?\nright\nw1\nw2\nw3\n")
	err := Run(context.Background(), Config{File: file, Level: -1, DBPath: filepath.Join(dir, "game.db")}, nil)
	if err == nil || !strings.Contains(err.Error(), "level is required") {
		t.Fatalf("error = %v, want level required", err)
	}
}

func TestRunDryRun(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "bank.json", sampleJSON)
	var out bytes.Buffer
	if err := Run(context.Background(), Config{File: file, DryRun: true}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "validated 3 questions") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRunRequiresTarget(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "bank.json", sampleJSON)
	if err := Run(context.Background(), Config{File: file}, nil); err == nil {
		t.Fatal("expected error without database or server")
	}
}

func TestRunMissingFile(t *testing.T) {
	if err := Run(context.Background(), Config{File: filepath.Join(t.TempDir(), "missing.json"), DBPath: "x.db"}, nil); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRunImportsThroughGameServer(t *testing.T) {
	srv, err := server.New(server.Config{
		Addr:   "127.0.0.1:0",
		DBPath: filepath.Join(t.TempDir(), "game.db"),
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
	defer func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	}()

	file := writeFile(t, t.TempDir(), "bank.json", sampleJSON)
	var out bytes.Buffer
	err = Run(context.Background(), Config{File: file, GRPCAddr: srv.Addr(), UserID: "admin"}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "imported 3 questions") {
		t.Fatalf("output = %q", out.String())
	}
}
