package tiermap

import (
	"errors"
	"fmt"
	"time"
)

var ErrNoEvaluator = errors.New("tiermap: evaluator not configured")

// Response stores a typed result produced by an evaluator.
type Response[T any] struct {
	Value T
}

// Evaluate executes expr against m using the family's configured evaluator,
// defaulting to the expr-lang engine. The expression sees the node's merged
// family view spread into the environment, plus the bindings "local",
// "family", "node", "now", "args" and "metadata".
func (m *Map[K, V]) Evaluate(expr string) (Response[any], error) {
	return m.EvaluateWith(RuleContext{}, expr)
}

// EvaluateWith executes expr using ctx, filling the node bindings (Local,
// Family, NodeID, Generation) from m when ctx leaves them empty.
func (m *Map[K, V]) EvaluateWith(ctx RuleContext, expr string) (Response[any], error) {
	if expr == "" {
		return Response[any]{}, fmt.Errorf("expression must not be empty")
	}
	evaluator, err := m.cfg.resolveEvaluator()
	if err != nil {
		return Response[any]{}, err
	}
	if ctx.Local == nil {
		ctx.Local = bindingOf(m.data)
	}
	if ctx.Family == nil {
		ctx.Family = bindingOf(m.FamilyView())
	}
	if ctx.NodeID == "" {
		ctx.NodeID = m.id
		ctx.Generation = m.Generation()
	}
	ctx = ctx.withDefaults()
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	evalErr = wrapEvaluationError(engine, expr, ctx.nodeLabel(), evalErr)
	m.cfg.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
		Engine:     engine,
		Expr:       expr,
		NodeID:     ctx.nodeLabel(),
		Generation: ctx.Generation,
		Duration:   duration,
		Err:        evalErr,
	})
	if evalErr != nil {
		return Response[any]{}, evalErr
	}
	return Response[any]{Value: value}, nil
}

func (cfg *familyConfig) resolveEvaluator() (Evaluator, error) {
	if cfg.evaluator != nil {
		return cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cfg.programCache))
	}
	if cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*tiermap.exprEvaluator":
		return "expr"
	case "*tiermap.celEvaluator":
		return "cel"
	case "*tiermap.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
