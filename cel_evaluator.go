package tiermap

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL evaluator.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator constructs an Evaluator backed by cel-go.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	ctx = ctx.withDefaults()
	program, err := e.loadOrCompile(expression, ctx.Family)
	if err != nil {
		return nil, err
	}
	out, _, err := program.program.Eval(e.activation(ctx))
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}

func (e *celEvaluator) Compile(expression string, _ ...CompileOption) (CompiledRule, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	return &celCompiledRule{
		evaluator:  e,
		expression: expression,
	}, nil
}

func (e *celEvaluator) loadOrCompile(expression string, family map[string]any) (*celProgram, error) {
	if family == nil {
		family = map[string]any{}
	}
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*celProgram); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv(family)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	prg, err := env.Program(checked)
	if err != nil {
		return nil, err
	}

	bundle := &celProgram{
		env:     env,
		program: prg,
	}
	if e.cache != nil {
		e.cache.Set(expression, bundle)
	}
	return bundle, nil
}

func (e *celEvaluator) buildEnv(family map[string]any) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("metadata", celgo.DynType),
		celgo.Variable("local", celgo.DynType),
		celgo.Variable("family", celgo.DynType),
		celgo.Variable("node", celgo.DynType),
	}
	if e.registry != nil {
		// CEL overloads are fixed-arity; declare call() for up to three
		// forwarded arguments, all dispatching through the same binding
		callArgs := []*celgo.Type{celgo.StringType}
		callOverloads := make([]celgo.FunctionOpt, 0, 4)
		for i := 0; i <= 3; i++ {
			args := make([]*celgo.Type, len(callArgs))
			copy(args, callArgs)
			callOverloads = append(callOverloads, celgo.Overload(
				fmt.Sprintf("call_dyn_%d", i),
				args,
				celgo.DynType,
				celgo.FunctionBinding(e.callBinding()),
			))
			callArgs = append(callArgs, celgo.DynType)
		}
		opts = append(opts, celgo.Function("call", callOverloads...))
	}
	for key := range family {
		opts = append(opts, celgo.Variable(key, celgo.DynType))
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) activation(ctx RuleContext) map[string]any {
	activation := map[string]any{
		"now":      ctx.timestamp(),
		"args":     ctx.Args,
		"metadata": ctx.Metadata,
		"local":    ctx.Local,
		"family":   ctx.Family,
	}
	if binding := ctx.nodeBinding(); binding != nil {
		activation["node"] = binding
	} else {
		activation["node"] = map[string]any{}
	}
	for key, value := range ctx.Family {
		activation[key] = value
	}
	return activation
}

type celCompiledRule struct {
	evaluator  *celEvaluator
	expression string
}

func (r *celCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	if r.evaluator == nil {
		return nil, fmt.Errorf("cel compiled rule missing evaluator")
	}
	ctx = ctx.withDefaults()
	program, err := r.evaluator.loadOrCompile(r.expression, ctx.Family)
	if err != nil {
		return nil, err
	}
	out, _, err := program.program.Eval(r.evaluator.activation(ctx))
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}

func (e *celEvaluator) callBinding() func(...ref.Val) ref.Val {
	return func(values ...ref.Val) ref.Val {
		if e.registry == nil {
			return types.NewErr("tiermap: function registry not configured")
		}
		if len(values) == 0 {
			return types.NewErr("tiermap: call requires function name")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("tiermap: call name must be string")
		}
		args := make([]any, 0, len(values)-1)
		for _, val := range values[1:] {
			args = append(args, val.Value())
		}
		result, err := e.registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
