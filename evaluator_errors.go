package tiermap

import (
	"errors"
	"fmt"
	"strings"
)

// EvaluationError captures evaluator metadata alongside the originating
// error.
type EvaluationError struct {
	Engine string
	Expr   string
	Node   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("tiermap: %s evaluator %s node=%s: %v", e.Engine, describeExpression(e.Expr), e.Node, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "tiermap:") {
		return err
	}
	return fmt.Errorf("tiermap: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, node string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Node == "" {
			evalErr.Node = node
		}
		return err
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Node:   node,
		Err:    err,
	}
}
