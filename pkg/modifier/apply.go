package modifier

import (
	"math"

	"github.com/goliatone/go-formrules/internal/jsvalue"
	"github.com/goliatone/go-formrules/pkg/schema"
)

// Apply combines target and modifierValue according to op and kind and
// returns the string form of the result. It never fails: values that do not
// coerce to numbers degrade to 0, and division by zero yields "Infinity" or
// "NaN".
//
// The numeric path is taken when modifierValue is a Go number and strict is
// false. There the target is coerced to a number (NaN counts as 0) and a
// percent kind replaces the result with target*modifier/100 whatever op is.
// Otherwise concat and add join the string forms, replace yields the
// modifier's string form and any other op keeps the target.
func Apply(op schema.OperationTag, kind schema.ModifierKind, target, modifierValue any, strict bool) string {
	result := target

	if jsvalue.IsNumeric(modifierValue) && !strict {
		t := jsvalue.Number(target)
		if math.IsNaN(t) {
			t = 0
		}
		m := jsvalue.Number(modifierValue)

		switch op {
		case schema.OpAdd:
			result = t + m
		case schema.OpSubtract:
			result = t - m
		case schema.OpMultiply:
			result = t * m
		case schema.OpDivide:
			result = t / m
		case schema.OpReplace:
			result = m
		}

		if kind == schema.KindPercent {
			result = (t * m) / 100
		}
		return jsvalue.String(result)
	}

	switch op {
	case schema.OpConcat, schema.OpAdd:
		result = jsvalue.String(target) + jsvalue.String(modifierValue)
	case schema.OpReplace:
		result = jsvalue.String(modifierValue)
	}
	return jsvalue.String(result)
}
