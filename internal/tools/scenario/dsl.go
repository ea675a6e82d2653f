package scenario

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// expectErrorArg marks a step that must fail with the given error code.
const expectErrorArg = "expect_error"

// Scenario is an ordered list of steps collected from a Lua script.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scripted action or assertion.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadScenarioFromFile runs a Lua script and returns the Scenario it builds.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := newLuaState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := runChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

// LoadScenario runs Lua source and returns the Scenario it builds.
func LoadScenario(name, source string) (*Scenario, error) {
	state := newLuaState()
	if err := lua.LoadString(state, source); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := runChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = name
	}
	return scenario, nil
}

func newLuaState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerScenarioType(state)
	registerScenarioConstructor(state)
	return state
}

func runChunk(state *lua.State) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	return scenario, nil
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "seed_questions", Function: scenarioSeedQuestions},
	{Name: "start", Function: scenarioStart},
	{Name: "answer", Function: scenarioAnswer},
	{Name: "answer_correct", Function: scenarioAnswerCorrect},
	{Name: "answer_wrong", Function: scenarioAnswerWrong},
	{Name: "take_money", Function: scenarioTakeMoney},
	{Name: "help", Function: scenarioHelp},
	{Name: "advance", Function: scenarioAdvance},
	{Name: "expect_status", Function: scenarioExpectStatus},
	{Name: "expect_prize", Function: scenarioExpectPrize},
	{Name: "expect_level", Function: scenarioExpectLevel},
	{Name: "expect_balance", Function: scenarioExpectBalance},
	{Name: "expect_help", Function: scenarioExpectHelp},
	{Name: "expect_accepted", Function: scenarioExpectAccepted},
	{Name: "expect_error", Function: scenarioExpectError},
}

func scenarioSeedQuestions(state *lua.State) int {
	scenario := checkScenario(state)
	perLevel := lua.OptInteger(state, 2, 1)
	if perLevel < 1 {
		lua.ArgumentError(state, 2, "at least one question per level expected")
	}
	appendStep(scenario, "seed_questions", map[string]any{"per_level": perLevel})
	return pushScenario(state)
}

func scenarioStart(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "start", map[string]any{"name": lua.OptString(state, 2, "")})
	return pushScenario(state)
}

func scenarioAnswer(state *lua.State) int {
	scenario := checkScenario(state)
	letter := lua.CheckString(state, 2)
	appendStep(scenario, "answer", map[string]any{"letter": letter})
	return pushScenario(state)
}

func scenarioAnswerCorrect(state *lua.State) int {
	scenario := checkScenario(state)
	count := lua.OptInteger(state, 2, 1)
	if count < 1 {
		lua.ArgumentError(state, 2, "positive count expected")
	}
	appendStep(scenario, "answer_correct", map[string]any{"count": count})
	return pushScenario(state)
}

func scenarioAnswerWrong(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "answer_wrong", nil)
	return pushScenario(state)
}

func scenarioTakeMoney(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "take_money", nil)
	return pushScenario(state)
}

func scenarioHelp(state *lua.State) int {
	scenario := checkScenario(state)
	kind := lua.CheckString(state, 2)
	appendStep(scenario, "help", map[string]any{"kind": kind})
	return pushScenario(state)
}

func scenarioAdvance(state *lua.State) int {
	scenario := checkScenario(state)
	value := lua.CheckString(state, 2)
	duration, err := time.ParseDuration(value)
	if err != nil || duration < 0 {
		lua.ArgumentError(state, 2, "non-negative duration expected")
	}
	appendStep(scenario, "advance", map[string]any{"duration": duration})
	return pushScenario(state)
}

func scenarioExpectStatus(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "expect_status", map[string]any{"status": lua.CheckString(state, 2)})
	return pushScenario(state)
}

func scenarioExpectPrize(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "expect_prize", map[string]any{"prize": int64(lua.CheckInteger(state, 2))})
	return pushScenario(state)
}

func scenarioExpectLevel(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "expect_level", map[string]any{"level": lua.CheckInteger(state, 2)})
	return pushScenario(state)
}

func scenarioExpectBalance(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "expect_balance", map[string]any{"balance": int64(lua.CheckInteger(state, 2))})
	return pushScenario(state)
}

func scenarioExpectHelp(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "expect_help", map[string]any{"kind": lua.CheckString(state, 2)})
	return pushScenario(state)
}

func scenarioExpectAccepted(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeBoolean)
	appendStep(scenario, "expect_accepted", map[string]any{"accepted": state.ToBoolean(2)})
	return pushScenario(state)
}

// scenarioExpectError attaches an expected error code to the previous step.
func scenarioExpectError(state *lua.State) int {
	scenario := checkScenario(state)
	code := lua.CheckString(state, 2)
	if len(scenario.Steps) == 0 {
		lua.Errorf(state, "expect_error needs a preceding step")
		return 0
	}
	scenario.Steps[len(scenario.Steps)-1].Args[expectErrorArg] = strings.ToUpper(strings.TrimSpace(code))
	return pushScenario(state)
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

// pushScenario returns the receiver so calls can be chained.
func pushScenario(state *lua.State) int {
	state.PushValue(1)
	return 1
}

func appendStep(scenario *Scenario, kind string, data map[string]any) int {
	if scenario == nil {
		return -1
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
	return len(scenario.Steps) - 1
}
