package tiermap

import (
	"errors"
	"testing"
)

func TestCELEvaluatorAgainstFamilyView(t *testing.T) {
	root := New[string, any](WithEvaluator(NewCELEvaluator()))
	root.data["region"] = "us"
	child := root.Child()
	child.data["quota"] = 5

	got, err := child.Evaluate(`quota == 5 && region == "us"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Value != true {
		t.Fatalf("expected true, got %v", got.Value)
	}
}

func TestCELEvaluatorNodeBinding(t *testing.T) {
	root := New[string, any](WithEvaluator(NewCELEvaluator()))
	child := root.Child()

	got, err := child.Evaluate("node.generation == 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Value != true {
		t.Fatalf("expected the node binding, got %v", got.Value)
	}
}

func TestCELEvaluatorRejectsBadExpression(t *testing.T) {
	root := New[string, any](WithEvaluator(NewCELEvaluator()))
	_, err := root.Evaluate("quota ==")
	if err == nil {
		t.Fatalf("expected a parse failure")
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "cel" {
		t.Fatalf("expected cel engine metadata, got %q", evalErr.Engine)
	}
}

func TestCELEvaluatorCustomFunctionCall(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("double", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, errors.New("double expects one argument")
		}
		value, _ := args[0].(int64) // CEL hands native ints through as int64
		return value * 2, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	root := New[string, any](WithEvaluator(NewCELEvaluator(CELWithFunctionRegistry(registry))))
	root.data["quota"] = 5

	got, err := root.Evaluate(`call("double", quota) == 10`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Value != true {
		t.Fatalf("expected registry dispatch via call(), got %v", got.Value)
	}

	if _, err := root.Evaluate(`call("missing") == 1`); err == nil {
		t.Fatalf("calling an unregistered function should fail evaluation")
	}
}

func TestCELEvaluatorCompiledRule(t *testing.T) {
	evaluator := NewCELEvaluator(CELWithProgramCache(newMemoryCache()))
	rule, err := evaluator.Compile("args.flag == true")
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}

	got, err := rule.Evaluate(RuleContext{Args: map[string]any{"flag": true}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != true {
		t.Fatalf("expected true, got %v", got)
	}
}
