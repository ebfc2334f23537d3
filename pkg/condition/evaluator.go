// Package condition evaluates the declarative predicates attached to fields
// and modifier rules. Evaluation is total: unknown tags and values that cannot
// be coerced make a condition false instead of failing. The only error comes
// from a `matches` operand that is not a valid pattern.
package condition

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/goliatone/go-formrules/internal/jsvalue"
	"github.com/goliatone/go-formrules/pkg/schema"
)

const defaultCacheSize = 256

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithCacheSize bounds the number of compiled patterns kept by the evaluator.
// Non-positive sizes keep the default.
func WithCacheSize(size int) Option {
	return func(e *Evaluator) {
		if size > 0 {
			e.cacheSize = size
		}
	}
}

// Evaluator applies condition tags to trigger values. The zero value is not
// usable; construct one with NewEvaluator. An Evaluator is safe for
// concurrent use.
type Evaluator struct {
	cacheSize int
	patterns  *patternCache
}

// NewEvaluator constructs an Evaluator.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{cacheSize: defaultCacheSize}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.patterns = newPatternCache(e.cacheSize)
	return e
}

var defaultEvaluator = NewEvaluator()

// Default returns the package level evaluator used by Evaluate and Holds.
func Default() *Evaluator {
	return defaultEvaluator
}

// Evaluate reports whether when holds for trigger and operand using the
// package level evaluator.
func Evaluate(trigger any, when schema.ConditionTag, operand any) (bool, error) {
	return defaultEvaluator.Evaluate(trigger, when, operand)
}

// Holds evaluates c against the value stored under c.Field in data. A nil
// condition never holds.
func Holds(c *schema.Condition, data schema.FormData) (bool, error) {
	return defaultEvaluator.Holds(c, data)
}

// Holds evaluates c against the value stored under c.Field in data.
func (e *Evaluator) Holds(c *schema.Condition, data schema.FormData) (bool, error) {
	if c == nil {
		return false, nil
	}
	value, _ := Lookup(data, c.Field)
	return e.Evaluate(value, c.When, c.Value)
}

// Lookup resolves path in data. An exact key wins; otherwise a dotted path
// descends into nested mappings such as subForm values.
func Lookup(data schema.FormData, path string) (any, bool) {
	if len(data) == 0 || path == "" {
		return nil, false
	}
	if v, ok := data[path]; ok {
		return v, true
	}
	if !strings.Contains(path, ".") {
		return nil, false
	}

	var current any = map[string]any(data)
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return nil, false
		}
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case schema.FormData:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

// Evaluate reports whether when holds for trigger and operand.
func (e *Evaluator) Evaluate(trigger any, when schema.ConditionTag, operand any) (bool, error) {
	switch when {
	case schema.WhenTrue:
		return jsvalue.Truthy(trigger), nil
	case schema.WhenFalse:
		return !jsvalue.Truthy(trigger), nil
	case schema.WhenEmpty:
		return jsvalue.Empty(trigger), nil
	case schema.WhenNotEmpty:
		return !jsvalue.Empty(trigger), nil
	case schema.WhenNull:
		return isNull(trigger), nil
	case schema.WhenNotNull:
		return !isNull(trigger), nil
	case schema.WhenLessThan:
		return jsvalue.Number(trigger) < jsvalue.Number(operand), nil
	case schema.WhenGreaterThan:
		return jsvalue.Number(trigger) > jsvalue.Number(operand), nil
	case schema.WhenEqual:
		return jsvalue.Number(trigger) == jsvalue.Number(operand), nil
	case schema.WhenNotEqual:
		return jsvalue.Number(trigger) != jsvalue.Number(operand), nil
	case schema.WhenBetween:
		return between(trigger, operand), nil
	case schema.WhenMatches:
		return e.matches(trigger, operand)
	default:
		return false, nil
	}
}

func between(trigger, operand any) bool {
	bounds, ok := listItems(operand)
	if !ok || len(bounds) < 2 {
		return false
	}
	n := jsvalue.Number(trigger)
	lo, hi := jsvalue.Number(bounds[0]), jsvalue.Number(bounds[1])
	if math.IsNaN(n) {
		return false
	}
	return n >= lo && n <= hi
}

// matches tests the string form of trigger. A missing trigger is tested as
// "undefined", so "^$" does not match an absent field.
func (e *Evaluator) matches(trigger, operand any) (bool, error) {
	subject := jsvalue.String(trigger)
	if trigger == nil {
		subject = "undefined"
	}
	switch re := operand.(type) {
	case *regexp.Regexp:
		if re == nil {
			return false, fmt.Errorf("condition: nil pattern")
		}
		return re.MatchString(subject), nil
	case *regexp2.Regexp:
		if re == nil {
			return false, fmt.Errorf("condition: nil pattern")
		}
		ok, err := re.MatchString(subject)
		if err != nil {
			return false, fmt.Errorf("condition: match %q: %w", re.String(), err)
		}
		return ok, nil
	}

	pattern := jsvalue.String(operand)
	re, err := e.patterns.compile(pattern)
	if err != nil {
		return false, err
	}
	ok, err := re.MatchString(subject)
	if err != nil {
		return false, fmt.Errorf("condition: match %q: %w", pattern, err)
	}
	return ok, nil
}

func isNull(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func listItems(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
