package visibility

import (
	"fmt"

	"github.com/goliatone/go-formrules/pkg/condition"
	"github.com/goliatone/go-formrules/pkg/schema"
)

// State is the per-pass visibility of a field.
type State struct {
	Hidden   bool
	Disabled bool
}

// Evaluator determines the visibility state of a field for the current form
// data. Implementations are consulted on every render pass; results are never
// cached between passes.
type Evaluator interface {
	Eval(field schema.Field, data schema.FormData) (State, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(field schema.Field, data schema.FormData) (State, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(field schema.Field, data schema.FormData) (State, error) {
	return fn(field, data)
}

// Conditions evaluates the hiddenWhen and disabledWhen conditions declared on
// fields. A nil Conditions uses the package level condition evaluator.
type Conditions struct {
	Evaluator *condition.Evaluator
}

// Eval implements Evaluator.
func (c *Conditions) Eval(field schema.Field, data schema.FormData) (State, error) {
	var state State
	if field.Conditions == nil {
		return state, nil
	}
	evaluator := condition.Default()
	if c != nil && c.Evaluator != nil {
		evaluator = c.Evaluator
	}

	hidden, err := evaluator.Holds(field.Conditions.HiddenWhen, data)
	if err != nil {
		return State{}, fmt.Errorf("visibility: field %q hiddenWhen: %w", field.Name, err)
	}
	disabled, err := evaluator.Holds(field.Conditions.DisabledWhen, data)
	if err != nil {
		return State{}, fmt.Errorf("visibility: field %q disabledWhen: %w", field.Name, err)
	}
	state.Hidden = hidden
	state.Disabled = disabled
	return state, nil
}

var defaultEvaluator Evaluator = &Conditions{}

// IsHidden reports whether the field's hiddenWhen condition holds for data.
func IsHidden(field schema.Field, data schema.FormData) (bool, error) {
	state, err := defaultEvaluator.Eval(field, data)
	return state.Hidden, err
}

// IsDisabled reports whether the field's disabledWhen condition holds for data.
func IsDisabled(field schema.Field, data schema.FormData) (bool, error) {
	state, err := defaultEvaluator.Eval(field, data)
	return state.Disabled, err
}

// Filter returns the fields that are not hidden for data, preserving order.
// A nil evaluator falls back to field conditions.
func Filter(eval Evaluator, fields []schema.Field, data schema.FormData) ([]schema.Field, error) {
	if eval == nil {
		eval = defaultEvaluator
	}
	out := make([]schema.Field, 0, len(fields))
	for _, field := range fields {
		state, err := eval.Eval(field, data)
		if err != nil {
			return nil, err
		}
		if state.Hidden {
			continue
		}
		out = append(out, field)
	}
	return out, nil
}
