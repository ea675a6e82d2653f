package game

import (
	"flag"
	"reflect"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Addr != "" {
		t.Fatalf("expected empty addr, got %q", cfg.Addr)
	}
	if cfg.DBPath != "data/game.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if got := cfg.ListenAddr(); got != ":8080" {
		t.Fatalf("ListenAddr() = %q, want %q", got, ":8080")
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-port", "9001", "-addr", "127.0.0.1:9999", "-seed", "7", "-metrics-addr", ":9100"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("expected port 9001, got %d", cfg.Port)
	}
	if cfg.Addr != "127.0.0.1:9999" {
		t.Fatalf("expected addr override, got %q", cfg.Addr)
	}
	if cfg.Seed != 7 {
		t.Fatalf("expected seed 7, got %d", cfg.Seed)
	}
	if cfg.MetricsAddr != ":9100" {
		t.Fatalf("expected metrics addr override, got %q", cfg.MetricsAddr)
	}
	if got := cfg.ListenAddr(); got != "127.0.0.1:9999" {
		t.Fatalf("ListenAddr() = %q, want addr override", got)
	}
}

func TestParseConfigDevAdmins(t *testing.T) {
	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !reflect.DeepEqual(cfg.DevAdmins, []string{"seed"}) {
		t.Fatalf("dev admins = %v, want [seed]", cfg.DevAdmins)
	}

	t.Setenv("MILLIONAIRE_GAME_DEV_ADMINS", "ops,seed")
	fs = flag.NewFlagSet("game", flag.ContinueOnError)
	cfg, err = ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !reflect.DeepEqual(cfg.DevAdmins, []string{"ops", "seed"}) {
		t.Fatalf("dev admins = %v, want [ops seed]", cfg.DevAdmins)
	}

	fs = flag.NewFlagSet("game", flag.ContinueOnError)
	cfg, err = ParseConfig(fs, []string{"-dev-admins", " alice , ,bob"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !reflect.DeepEqual(cfg.DevAdmins, []string{"alice", "bob"}) {
		t.Fatalf("dev admins = %v, want [alice bob]", cfg.DevAdmins)
	}
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("MILLIONAIRE_GAME_DB_PATH", "/tmp/other.db")
	t.Setenv("MILLIONAIRE_GAME_PORT", "9090")
	fs := flag.NewFlagSet("game", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Fatalf("expected env db path, got %q", cfg.DBPath)
	}
	if cfg.Port != 9090 {
		t.Fatalf("expected env port 9090, got %d", cfg.Port)
	}
}
