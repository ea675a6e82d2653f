package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadScenarioCollectsSteps(t *testing.T) {
	scenario, err := LoadScenario("inline", `
local s = Scenario.new("bank")
s:seed_questions(2)
s:start("Ada")
s:answer_correct(4)
s:help("fifty_fifty")
s:take_money()
s:expect_status("money")
s:expect_prize(500)
return s
`)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "bank" {
		t.Fatalf("name = %q, want %q", scenario.Name, "bank")
	}
	kinds := make([]string, 0, len(scenario.Steps))
	for _, step := range scenario.Steps {
		kinds = append(kinds, step.Kind)
	}
	want := "seed_questions,start,answer_correct,help,take_money,expect_status,expect_prize"
	if got := strings.Join(kinds, ","); got != want {
		t.Fatalf("steps = %s, want %s", got, want)
	}
	if got := scenario.Steps[0].Args["per_level"]; got != 2 {
		t.Fatalf("per_level = %v, want 2", got)
	}
	if got := scenario.Steps[1].Args["name"]; got != "Ada" {
		t.Fatalf("name = %v, want Ada", got)
	}
	if got := scenario.Steps[2].Args["count"]; got != 4 {
		t.Fatalf("count = %v, want 4", got)
	}
	if got := scenario.Steps[6].Args["prize"]; got != int64(500) {
		t.Fatalf("prize = %v, want 500", got)
	}
}

func TestLoadScenarioChainsCalls(t *testing.T) {
	scenario, err := LoadScenario("chain", `
return Scenario.new():seed_questions():start():answer_wrong():expect_status("fail")
`)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "chain" {
		t.Fatalf("name = %q, want %q", scenario.Name, "chain")
	}
	if len(scenario.Steps) != 4 {
		t.Fatalf("steps = %d, want 4", len(scenario.Steps))
	}
	if got := scenario.Steps[0].Args["per_level"]; got != 1 {
		t.Fatalf("per_level = %v, want 1", got)
	}
}

func TestExpectErrorAttachesToPreviousStep(t *testing.T) {
	scenario, err := LoadScenario("errors", `
local s = Scenario.new("errors")
s:start()
s:start()
s:expect_error("active_game_exists")
return s
`)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if len(scenario.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(scenario.Steps))
	}
	if _, ok := scenario.Steps[0].Args[expectErrorArg]; ok {
		t.Fatal("first step must not expect an error")
	}
	if got := scenario.Steps[1].Args[expectErrorArg]; got != "ACTIVE_GAME_EXISTS" {
		t.Fatalf("expect_error = %v, want ACTIVE_GAME_EXISTS", got)
	}
}

func TestExpectErrorWithoutStepFails(t *testing.T) {
	if _, err := LoadScenario("bad", `return Scenario.new():expect_error("NOT_FOUND")`); err == nil {
		t.Fatal("expected error")
	}
}

func TestAdvanceParsesDuration(t *testing.T) {
	scenario, err := LoadScenario("clock", `return Scenario.new():advance("61m")`)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if got := scenario.Steps[0].Args["duration"]; got != 61*time.Minute {
		t.Fatalf("duration = %v, want %v", got, 61*time.Minute)
	}
	if _, err := LoadScenario("clock", `return Scenario.new():advance("soon")`); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoadScenarioRequiresScenarioReturn(t *testing.T) {
	if _, err := LoadScenario("none", `local s = Scenario.new("x")`); err == nil {
		t.Fatal("expected error when script returns nothing")
	}
	if _, err := LoadScenario("syntax", `return Scenario.new(`); err == nil {
		t.Fatal("expected error for invalid lua")
	}
}

func TestLoadScenarioFromFileDefaultsName(t *testing.T) {
	path := writeScenarioFixture(t, `return Scenario.new():seed_questions(1)`)
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "fixture" {
		t.Fatalf("name = %q, want %q", scenario.Name, "fixture")
	}
}

func writeScenarioFixture(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.lua")
	if err := os.WriteFile(path, []byte(source), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
