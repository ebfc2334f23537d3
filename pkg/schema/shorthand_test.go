package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formrules/pkg/schema"
)

func TestParseCondition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  schema.Condition
	}{
		{input: "showExtra true", want: schema.Condition{Field: "showExtra", When: schema.WhenTrue}},
		{input: "notes not   empty", want: schema.Condition{Field: "notes", When: schema.WhenNotEmpty}},
		{input: "owner not null", want: schema.Condition{Field: "owner", When: schema.WhenNotNull}},
		{input: "qty greater than 3", want: schema.Condition{Field: "qty", When: schema.WhenGreaterThan, Value: float64(3)}},
		{input: "qty less than -2.5", want: schema.Condition{Field: "qty", When: schema.WhenLessThan, Value: -2.5}},
		{input: "age between [18, 65]", want: schema.Condition{Field: "age", When: schema.WhenBetween, Value: []any{float64(18), float64(65)}}},
		{input: "code matches '^A'", want: schema.Condition{Field: "code", When: schema.WhenMatches, Value: "^A"}},
		{input: `code matches /^a\/b$/`, want: schema.Condition{Field: "code", When: schema.WhenMatches, Value: "^a/b$"}},
		{input: `status equal "done"`, want: schema.Condition{Field: "status", When: schema.WhenEqual, Value: "done"}},
		{input: "status not equal draft", want: schema.Condition{Field: "status", When: schema.WhenNotEqual, Value: "draft"}},
		{input: "flag equal true", want: schema.Condition{Field: "flag", When: schema.WhenEqual, Value: true}},
		{input: "address.zip empty", want: schema.Condition{Field: "address.zip", When: schema.WhenEmpty}},
		{input: "nullable null", want: schema.Condition{Field: "nullable", When: schema.WhenNull}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, err := schema.ParseCondition(tc.input)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.input, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("condition mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseCondition_Invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "qty", "qty sometimes", "qty greater than [1", "3 true"} {
		if _, err := schema.ParseCondition(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestConditionDecoding(t *testing.T) {
	t.Parallel()

	want := schema.Conditions{
		HiddenWhen:   &schema.Condition{Field: "a", When: schema.WhenTrue},
		DisabledWhen: &schema.Condition{Field: "b", When: schema.WhenEqual, Value: "x"},
	}

	var fromJSON schema.Conditions
	if err := json.Unmarshal([]byte(`{"hiddenWhen": "a true", "disabledWhen": {"field": "b", "when": "equal", "value": "x"}}`), &fromJSON); err != nil {
		t.Fatalf("json: %v", err)
	}
	if diff := cmp.Diff(want, fromJSON); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}

	var fromYAML schema.Conditions
	if err := yaml.Unmarshal([]byte("hiddenWhen: a true\ndisabledWhen:\n  field: b\n  when: equal\n  value: x\n"), &fromYAML); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if diff := cmp.Diff(want, fromYAML); diff != "" {
		t.Fatalf("yaml mismatch (-want +got):\n%s", diff)
	}
}
