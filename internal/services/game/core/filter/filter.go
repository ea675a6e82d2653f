// Package filter parses AIP-160 game filters into SQL conditions.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/millionaire/internal/services/game/domain/game"
	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// GameDeclarations returns the identifiers a game filter may reference.
func GameDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("true", filtering.TypeBool),
		filtering.DeclareIdent("false", filtering.TypeBool),
		filtering.DeclareIdent("status", filtering.TypeString),
		filtering.DeclareIdent("prize", filtering.TypeInt),
		filtering.DeclareIdent("current_level", filtering.TypeInt),
		filtering.DeclareIdent("is_failed", filtering.TypeBool),
		filtering.DeclareIdent("finished", filtering.TypeBool),
		filtering.DeclareIdent("created_at", filtering.TypeTimestamp),
	)
}

// SQLCondition is a WHERE clause fragment with positional parameters.
type SQLCondition struct {
	Clause string
	Params []any
}

// Empty reports whether the condition matches everything.
func (c SQLCondition) Empty() bool {
	return strings.TrimSpace(c.Clause) == ""
}

type column struct {
	name string
	kind columnKind
}

type columnKind int

const (
	kindInt columnKind = iota
	kindBool
	kindMillis
	kindPresence
	kindStatus
)

var columns = map[string]column{
	"prize":         {name: "prize", kind: kindInt},
	"current_level": {name: "current_level", kind: kindInt},
	"is_failed":     {name: "is_failed", kind: kindBool},
	"finished":      {name: "finished_at", kind: kindPresence},
	"created_at":    {name: "created_at", kind: kindMillis},
	"status":        {kind: kindStatus},
}

var timeLimitMillis = game.TimeLimit.Milliseconds()

// statusClauses derive each status from stored columns the same way Game.Status does.
var statusClauses = map[game.Status]SQLCondition{
	game.StatusInProgress: {Clause: "finished_at IS NULL"},
	game.StatusWon: {
		Clause: "(finished_at IS NOT NULL AND is_failed = 0 AND current_level >= ?)",
		Params: []any{game.Levels},
	},
	game.StatusMoney: {
		Clause: "(finished_at IS NOT NULL AND is_failed = 0 AND current_level < ?)",
		Params: []any{game.Levels},
	},
	game.StatusFail: {
		Clause: "(finished_at IS NOT NULL AND is_failed = 1 AND finished_at - created_at <= ?)",
		Params: []any{timeLimitMillis},
	},
	game.StatusTimeout: {
		Clause: "(finished_at IS NOT NULL AND is_failed = 1 AND finished_at - created_at > ?)",
		Params: []any{timeLimitMillis},
	},
}

// ParseGameFilter parses an AIP-160 expression over game fields.
// An empty filter yields an empty condition.
func ParseGameFilter(filterStr string) (SQLCondition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return SQLCondition{}, nil
	}

	decls, err := GameDeclarations()
	if err != nil {
		return SQLCondition{}, fmt.Errorf("create declarations: %w", err)
	}

	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return SQLCondition{}, fmt.Errorf("parse filter: %w", err)
	}

	return translateExpr(parsed.CheckedExpr.GetExpr())
}

func translateExpr(e *expr.Expr) (SQLCondition, error) {
	if e == nil {
		return SQLCondition{}, nil
	}

	call, ok := e.ExprKind.(*expr.Expr_CallExpr)
	if !ok {
		return SQLCondition{}, fmt.Errorf("unsupported expression type: %T", e.ExprKind)
	}

	switch fn := call.CallExpr.Function; fn {
	case filtering.FunctionAnd, filtering.FunctionFuzzyAnd:
		return join(call.CallExpr.Args, "AND")
	case filtering.FunctionOr:
		return join(call.CallExpr.Args, "OR")
	case filtering.FunctionNot:
		if len(call.CallExpr.Args) != 1 {
			return SQLCondition{}, fmt.Errorf("NOT requires 1 argument")
		}
		inner, err := translateExpr(call.CallExpr.Args[0])
		if err != nil {
			return SQLCondition{}, err
		}
		return SQLCondition{Clause: "NOT " + inner.Clause, Params: inner.Params}, nil
	default:
		op, ok := comparisonOps[fn]
		if !ok {
			return SQLCondition{}, fmt.Errorf("unsupported function: %s", fn)
		}
		return translateComparison(call.CallExpr.Args, op)
	}
}

var comparisonOps = map[string]string{
	filtering.FunctionEquals:        "=",
	filtering.FunctionNotEquals:     "!=",
	filtering.FunctionLessThan:      "<",
	filtering.FunctionLessEquals:    "<=",
	filtering.FunctionGreaterThan:   ">",
	filtering.FunctionGreaterEquals: ">=",
}

func join(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) < 2 {
		return SQLCondition{}, fmt.Errorf("%s requires at least 2 arguments", op)
	}

	clauses := make([]string, 0, len(args))
	var params []any
	for _, arg := range args {
		cond, err := translateExpr(arg)
		if err != nil {
			return SQLCondition{}, err
		}
		clauses = append(clauses, cond.Clause)
		params = append(params, cond.Params...)
	}
	return SQLCondition{
		Clause: "(" + strings.Join(clauses, " "+op+" ") + ")",
		Params: params,
	}, nil
}

func translateComparison(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("comparison requires 2 arguments")
	}

	field, err := extractFieldName(args[0])
	if err != nil {
		return SQLCondition{}, err
	}
	col, ok := columns[field]
	if !ok {
		return SQLCondition{}, fmt.Errorf("unknown field: %s", field)
	}

	value, err := extractValue(args[1])
	if err != nil {
		return SQLCondition{}, err
	}

	switch col.kind {
	case kindStatus:
		return statusCondition(value, op)
	case kindPresence:
		return presenceCondition(col.name, value, op)
	case kindBool:
		b, ok := value.(bool)
		if !ok || (op != "=" && op != "!=") {
			return SQLCondition{}, fmt.Errorf("%s supports only = and != with a bool", field)
		}
		return SQLCondition{Clause: fmt.Sprintf("%s %s ?", col.name, op), Params: []any{boolToInt(b)}}, nil
	case kindMillis:
		ts, ok := value.(time.Time)
		if !ok {
			return SQLCondition{}, fmt.Errorf("%s must be compared with timestamp(...)", field)
		}
		return SQLCondition{Clause: fmt.Sprintf("%s %s ?", col.name, op), Params: []any{ts.UnixMilli()}}, nil
	default:
		n, ok := value.(int64)
		if !ok {
			return SQLCondition{}, fmt.Errorf("%s must be compared with an integer", field)
		}
		return SQLCondition{Clause: fmt.Sprintf("%s %s ?", col.name, op), Params: []any{n}}, nil
	}
}

func statusCondition(value any, op string) (SQLCondition, error) {
	raw, ok := value.(string)
	if !ok {
		return SQLCondition{}, fmt.Errorf("status must be compared with a string")
	}
	cond, ok := statusClauses[game.Status(strings.ToLower(strings.TrimSpace(raw)))]
	if !ok {
		return SQLCondition{}, fmt.Errorf("unknown status: %s", raw)
	}
	switch op {
	case "=":
		return cond, nil
	case "!=":
		return SQLCondition{Clause: "NOT " + cond.Clause, Params: cond.Params}, nil
	default:
		return SQLCondition{}, fmt.Errorf("status supports only = and !=")
	}
}

func presenceCondition(columnName string, value any, op string) (SQLCondition, error) {
	want, ok := value.(bool)
	if !ok || (op != "=" && op != "!=") {
		return SQLCondition{}, fmt.Errorf("finished supports only = and != with a bool")
	}
	if op == "!=" {
		want = !want
	}
	if want {
		return SQLCondition{Clause: columnName + " IS NOT NULL"}, nil
	}
	return SQLCondition{Clause: columnName + " IS NULL"}, nil
}

func extractFieldName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}
	ident, ok := e.ExprKind.(*expr.Expr_IdentExpr)
	if !ok {
		return "", fmt.Errorf("expected identifier, got %T", e.ExprKind)
	}
	return ident.IdentExpr.Name, nil
}

func extractValue(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_ConstExpr:
		return extractConstValue(kind.ConstExpr)
	case *expr.Expr_IdentExpr:
		switch kind.IdentExpr.Name {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("unexpected identifier in value position: %s", kind.IdentExpr.Name)
	case *expr.Expr_CallExpr:
		if kind.CallExpr.Function == filtering.FunctionTimestamp && len(kind.CallExpr.Args) == 1 {
			return extractTimestampValue(kind.CallExpr.Args[0])
		}
		return nil, fmt.Errorf("unsupported function in value position: %s", kind.CallExpr.Function)
	default:
		return nil, fmt.Errorf("expected constant or timestamp, got %T", kind)
	}
}

func extractConstValue(c *expr.Constant) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("nil constant")
	}

	switch kind := c.ConstantKind.(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

func extractTimestampValue(e *expr.Expr) (time.Time, error) {
	c, ok := e.ExprKind.(*expr.Expr_ConstExpr)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp argument must be a constant string")
	}
	s, ok := c.ConstExpr.ConstantKind.(*expr.Constant_StringValue)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp argument must be a string")
	}
	t, err := time.Parse(time.RFC3339Nano, s.StringValue)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp format: %s", s.StringValue)
	}
	return t.UTC(), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
