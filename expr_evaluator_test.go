package tiermap

import (
	"testing"
	"time"
)

func TestExprEvaluatorCompileReusesProgram(t *testing.T) {
	cache := newMemoryCache()
	evaluator := NewExprEvaluator(ExprWithProgramCache(cache))

	rule, err := evaluator.Compile("family.quota > args.min")
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if len(cache.entries) != 1 {
		t.Fatalf("compile should populate the cache, got %d entries", len(cache.entries))
	}

	ctx := RuleContext{
		Family: map[string]any{"quota": 10},
		Args:   map[string]any{"min": 5},
	}
	got, err := rule.Evaluate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != true {
		t.Fatalf("expected true, got %v", got)
	}
}

func TestExprEvaluatorCompileEmptyExpression(t *testing.T) {
	evaluator := NewExprEvaluator()
	if _, err := evaluator.Compile(""); err == nil {
		t.Fatalf("expected error for empty expression")
	}
}

func TestExprEvaluatorNowBinding(t *testing.T) {
	evaluator := NewExprEvaluator()
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	got, err := evaluator.Evaluate(RuleContext{Now: &fixed}, "now.Year()")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2024 {
		t.Fatalf("expected the pinned timestamp, got %v", got)
	}
}

func TestExprEvaluatorRegistryCallBinding(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("upper", func(args ...any) (any, error) {
		s, _ := args[0].(string)
		out := []rune(s)
		for i, r := range out {
			if r >= 'a' && r <= 'z' {
				out[i] = r - 32
			}
		}
		return string(out), nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	evaluator := NewExprEvaluator(ExprWithFunctionRegistry(registry))

	got, err := evaluator.Evaluate(RuleContext{}, `call("upper", "abc")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ABC" {
		t.Fatalf("expected registry dispatch via call(), got %v", got)
	}
}
