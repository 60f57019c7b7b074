package tiermap

import (
	"fmt"
	"time"
)

// RuleContext carries the inputs an evaluator sees when running an
// expression against a node: the node's local entries, the merged family
// view, and caller-supplied arguments.
type RuleContext struct {
	// Local holds the node's own entries, keys rendered as strings.
	Local map[string]any
	// Family holds the merged family view (root overlaid by every tier down
	// to the node), keys rendered as strings.
	Family map[string]any

	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any

	NodeID     string
	Generation int
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Local == nil {
		ctx.Local = map[string]any{}
	}
	if ctx.Family == nil {
		ctx.Family = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx RuleContext) nodeLabel() string {
	if ctx.NodeID != "" {
		return ctx.NodeID
	}
	return "unknown"
}

func (ctx RuleContext) nodeBinding() map[string]any {
	if ctx.NodeID == "" {
		return nil
	}
	return map[string]any{
		"id":         ctx.NodeID,
		"generation": ctx.Generation,
	}
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// Option configures the family a root map is created with. The configuration
// is shared by every node of the family; children created via Child and
// Sibling see the root's settings.
type Option func(*familyConfig)

type familyConfig struct {
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	logger       EvaluatorLogger
	hooks        Hooks
}

func applyOptions(opts []Option) familyConfig {
	cfg := familyConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithEvaluator configures the evaluator used by Evaluate and EvaluateWith.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *familyConfig) {
		cfg.evaluator = e
	}
}

func (cfg *familyConfig) evaluatorLogger() EvaluatorLogger {
	if cfg != nil && cfg.logger != nil {
		return cfg.logger
	}
	return noopEvaluatorLogger{}
}

func (cfg *familyConfig) functionRegistry() *FunctionRegistry {
	if cfg == nil {
		return nil
	}
	return cfg.functions
}

// bindingOf renders a typed entry set into the string-keyed form evaluators
// consume. Non-string keys are rendered with fmt.
func bindingOf[K comparable, V any](entries map[K]V) map[string]any {
	out := make(map[string]any, len(entries))
	for key, value := range entries {
		out[fmt.Sprint(key)] = value
	}
	return out
}
