package visibility_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/visibility"
)

func extraFields() []schema.Field {
	return []schema.Field{
		{Name: "showExtra", Type: schema.FieldTypeBoolean},
		{
			Name: "extra",
			Type: schema.FieldTypeString,
			Conditions: &schema.Conditions{
				HiddenWhen: &schema.Condition{Field: "showExtra", When: schema.WhenFalse},
			},
		},
		{
			Name: "locked",
			Type: schema.FieldTypeString,
			Conditions: &schema.Conditions{
				DisabledWhen: &schema.Condition{Field: "showExtra", When: schema.WhenTrue},
			},
		},
	}
}

func TestFilter_HiddenWhen(t *testing.T) {
	t.Parallel()

	fields := extraFields()

	visible, err := visibility.Filter(nil, fields, schema.FormData{"showExtra": false})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if got := schema.Names(visible); len(got) != 2 || got[0] != "showExtra" || got[1] != "locked" {
		t.Fatalf("extra should be hidden, got %v", got)
	}

	visible, err = visibility.Filter(nil, fields, schema.FormData{"showExtra": true})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if got := schema.Names(visible); len(got) != 3 {
		t.Fatalf("all fields should be visible, got %v", got)
	}
}

func TestHiddenWhenTrue(t *testing.T) {
	t.Parallel()

	field := schema.Field{
		Name:       "extra",
		Conditions: &schema.Conditions{HiddenWhen: &schema.Condition{Field: "showExtra", When: schema.WhenTrue}},
	}
	for _, falsy := range []any{nil, false, "", 0} {
		hidden, err := visibility.IsHidden(field, schema.FormData{"showExtra": falsy})
		if err != nil || hidden {
			t.Fatalf("falsy %#v should keep the field visible: %v %v", falsy, hidden, err)
		}
	}
	hidden, err := visibility.IsHidden(field, schema.FormData{"showExtra": "yes"})
	if err != nil || !hidden {
		t.Fatalf("truthy value should hide the field: %v %v", hidden, err)
	}
}

func TestIsDisabled(t *testing.T) {
	t.Parallel()

	fields := extraFields()
	disabled, err := visibility.IsDisabled(fields[2], schema.FormData{"showExtra": true})
	if err != nil || !disabled {
		t.Fatalf("locked should be disabled: %v %v", disabled, err)
	}
	disabled, err = visibility.IsDisabled(fields[0], schema.FormData{"showExtra": true})
	if err != nil || disabled {
		t.Fatalf("fields without conditions are enabled: %v %v", disabled, err)
	}
}

func TestFilter_PropagatesPatternErrors(t *testing.T) {
	t.Parallel()

	fields := []schema.Field{{
		Name:       "code",
		Conditions: &schema.Conditions{HiddenWhen: &schema.Condition{Field: "code", When: schema.WhenMatches, Value: "("}},
	}}
	if _, err := visibility.Filter(nil, fields, schema.FormData{"code": "x"}); err == nil {
		t.Fatalf("expected pattern error")
	}
}

func TestFilter_CustomEvaluator(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	hideAll := visibility.EvaluatorFunc(func(schema.Field, schema.FormData) (visibility.State, error) {
		return visibility.State{Hidden: true}, nil
	})
	visible, err := visibility.Filter(hideAll, extraFields(), nil)
	if err != nil || len(visible) != 0 {
		t.Fatalf("custom evaluator should hide everything: %v %v", visible, err)
	}

	failing := visibility.EvaluatorFunc(func(schema.Field, schema.FormData) (visibility.State, error) {
		return visibility.State{}, boom
	})
	if _, err := visibility.Filter(failing, extraFields(), nil); !errors.Is(err, boom) {
		t.Fatalf("expected evaluator error, got %v", err)
	}
}
