package schema

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// Warning is a non-fatal problem reported by Lint.
type Warning struct {
	Path    string
	Message string
}

func (w Warning) String() string {
	return w.Path + ": " + w.Message
}

// Lint reports referential and semantic problems the engine tolerates at
// runtime: unknown type, condition or operation tags, references to fields
// that do not exist among the siblings, duplicate names, malformed operands.
// References are resolved against the list the field is declared in, the same
// scope the form data of that list uses.
func Lint(fields []Field) []Warning {
	var out []Warning
	lintList(fields, "", &out)
	return out
}

func lintList(fields []Field, prefix string, out *[]Warning) {
	names := make(map[string]int, len(fields))
	for _, field := range fields {
		names[field.Name]++
	}

	warn := func(path, format string, args ...any) {
		*out = append(*out, Warning{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	for idx, field := range fields {
		path := prefix + field.Name
		if field.Name == "" {
			path = fmt.Sprintf("%s[%d]", prefix, idx)
			warn(path, "field has no name")
		} else if names[field.Name] > 1 {
			warn(path, "duplicate field name %q", field.Name)
			names[field.Name] = 0
		}

		switch {
		case field.Type == "":
			warn(path, "field has no type")
		case !field.Type.Known():
			warn(path, "unknown field type %q", field.Type)
		}

		switch field.Width {
		case 0, 25, 50, 75, 100:
		default:
			warn(path, "width %d is not one of 25, 50, 75, 100", field.Width)
		}

		for ruleIdx, rule := range field.Modifiers {
			rulePath := fmt.Sprintf("%s.modifiers[%d]", path, ruleIdx)
			switch {
			case rule.Target == "":
				warn(rulePath, "rule has no target and never fires")
			case names[rule.Target] == 0 && !hasName(fields, rule.Target):
				warn(rulePath, "target %q is not a sibling field", rule.Target)
			}
			if !rule.Type.Known() {
				warn(rulePath, "unknown operation %q", rule.Type)
			}
			if rule.Kind != "" && rule.Kind != KindNumber && rule.Kind != KindPercent {
				warn(rulePath, "unknown kind %q", rule.Kind)
			}
			lintTag(rulePath, rule.When, rule.Value, warn)
		}

		if field.Conditions != nil {
			lintCondition(path+".conditions.hiddenWhen", field.Conditions.HiddenWhen, fields, warn)
			lintCondition(path+".conditions.disabledWhen", field.Conditions.DisabledWhen, fields, warn)
		}

		if len(field.Fields) > 0 {
			switch field.Kind() {
			case FieldTypeSubForm, FieldTypeArray:
				lintList(field.Fields, path+".", out)
			default:
				warn(path, "nested fields are ignored for type %q", field.Type)
			}
		}
	}
}

func lintCondition(path string, cond *Condition, siblings []Field, warn func(string, string, ...any)) {
	if cond == nil {
		return
	}
	if cond.Field == "" {
		warn(path, "condition names no field")
	} else if !hasName(siblings, cond.Field) {
		warn(path, "condition field %q is not a sibling field", cond.Field)
	}
	lintTag(path, cond.When, cond.Value, warn)
}

func lintTag(path string, when ConditionTag, operand any, warn func(string, string, ...any)) {
	if !when.Known() {
		warn(path, "unknown condition %q always evaluates to false", when)
		return
	}
	switch when {
	case WhenBetween:
		if list, ok := operand.([]any); !ok || len(list) < 2 {
			warn(path, "between expects a two element list")
		}
	case WhenMatches:
		pattern, ok := operand.(string)
		if !ok {
			return
		}
		if _, err := regexp2.Compile(pattern, regexp2.ECMAScript); err != nil {
			warn(path, "invalid pattern %q: %v", pattern, err)
		}
	}
}

func hasName(fields []Field, name string) bool {
	_, ok := Lookup(fields, name)
	return ok
}
