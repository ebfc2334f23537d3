package modifier

import (
	"fmt"

	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-formrules/internal/jsvalue"
	"github.com/goliatone/go-formrules/pkg/condition"
	"github.com/goliatone/go-formrules/pkg/schema"
)

// Firing describes one rule that matched during a change cycle.
type Firing struct {
	Source string
	Rule   int
	Target string
	Op     schema.OperationTag
	Before any
	After  string
}

// Tracer observes fired rules. It is called synchronously, in rule order.
type Tracer func(Firing)

// Option configures an Engine.
type Option func(*Engine)

// WithEvaluator overrides the condition evaluator used to gate rules.
func WithEvaluator(evaluator *condition.Evaluator) Option {
	return func(e *Engine) {
		if evaluator != nil {
			e.evaluator = evaluator
		}
	}
}

// WithTracer registers a hook invoked for every fired rule.
func WithTracer(tracer Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// Engine runs the modifier rules of a field list. It holds no form state and
// is safe for concurrent use.
type Engine struct {
	evaluator *condition.Evaluator
	tracer    Tracer
}

// NewEngine constructs an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{evaluator: condition.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

var defaultEngine = NewEngine()

// ApplyForField runs the modifiers of changedName with the package level
// engine.
func ApplyForField(fields []schema.Field, data schema.FormData, changedName string, changedValue any) (schema.FormData, error) {
	return defaultEngine.ApplyForField(fields, data, changedName, changedValue)
}

// ApplyAllOnce runs every field's modifiers once with the package level
// engine.
func ApplyAllOnce(fields []schema.Field, data schema.FormData) (schema.FormData, error) {
	return defaultEngine.ApplyAllOnce(fields, data)
}

// ApplyForField returns a copy of data with the modifiers of the top-level
// field changedName applied, gated on changedValue. Rules run in declaration
// order against the working copy, so later rules observe earlier writes.
// Writes are single hop: a derived value never triggers the target's own
// rules. The input mapping is not modified.
func (e *Engine) ApplyForField(fields []schema.Field, data schema.FormData, changedName string, changedValue any) (schema.FormData, error) {
	next := data.Clone()

	field, ok := schema.Lookup(fields, changedName)
	if !ok || len(field.Modifiers) == 0 {
		return next, nil
	}

	for idx, rule := range field.Modifiers {
		if rule.Target == "" {
			continue
		}

		fire, err := e.evaluator.Evaluate(changedValue, rule.When, rule.Value)
		if err != nil {
			return nil, fmt.Errorf("modifier: field %q rule %d: %w", changedName, idx, err)
		}
		if !fire {
			continue
		}

		before := next[rule.Target]
		var targetValue, modifierValue any
		if rule.StrictString {
			targetValue = jsvalue.String(jsvalue.Or(before, ""))
			modifierValue = jsvalue.String(rule.Value)
		} else {
			targetValue = jsvalue.Number(jsvalue.Or(before, 0))
			modifierValue = jsvalue.Number(rule.Value)
		}

		after := Apply(rule.Type, rule.EffectiveKind(), targetValue, modifierValue, rule.StrictString)
		next[rule.Target] = after

		e.trace(Firing{
			Source: changedName,
			Rule:   idx,
			Target: rule.Target,
			Op:     rule.Type,
			Before: before,
			After:  after,
		})
	}

	return next, nil
}

// ApplyAllOnce folds ApplyForField over every top-level field in declaration
// order, using each field's value in the running result as its trigger. It is
// meant for initialisation only.
func (e *Engine) ApplyAllOnce(fields []schema.Field, data schema.FormData) (schema.FormData, error) {
	next := data.Clone()
	for _, field := range fields {
		var err error
		next, err = e.ApplyForField(fields, next, field.Name, next[field.Name])
		if err != nil {
			return nil, err
		}
	}
	return next, nil
}

func (e *Engine) trace(f Firing) {
	if logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("modifier: %s rule %d %s -> %s: %v => %q", f.Source, f.Rule, f.Op, f.Target, f.Before, f.After))
	}
	if e.tracer != nil {
		e.tracer(f)
	}
}
