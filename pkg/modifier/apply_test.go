package modifier_test

import (
	"testing"

	"github.com/goliatone/go-formrules/pkg/modifier"
	"github.com/goliatone/go-formrules/pkg/schema"
)

func TestApply(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		op     schema.OperationTag
		kind   schema.ModifierKind
		target any
		value  any
		strict bool
		want   string
	}{
		{name: "add", op: schema.OpAdd, kind: schema.KindNumber, target: 2, value: 3, want: "5"},
		{name: "subtract", op: schema.OpSubtract, kind: schema.KindNumber, target: 2, value: 3, want: "-1"},
		{name: "multiply", op: schema.OpMultiply, kind: schema.KindNumber, target: 2.5, value: 4, want: "10"},
		{name: "divide", op: schema.OpDivide, kind: schema.KindNumber, target: 1, value: 4, want: "0.25"},
		{name: "divide by zero", op: schema.OpDivide, kind: schema.KindNumber, target: 10, value: 0, want: "Infinity"},
		{name: "zero by zero", op: schema.OpDivide, kind: schema.KindNumber, target: 0, value: 0, want: "NaN"},
		{name: "negative by zero", op: schema.OpDivide, kind: schema.KindNumber, target: -3, value: 0, want: "-Infinity"},
		{name: "replace numeric", op: schema.OpReplace, kind: schema.KindNumber, target: "anything", value: 7, want: "7"},
		{name: "replace strict", op: schema.OpReplace, kind: schema.KindNumber, target: 99, value: "x", strict: true, want: "x"},
		{name: "numeric string target", op: schema.OpAdd, kind: schema.KindNumber, target: "4", value: 1, want: "5"},
		{name: "non numeric target counts as zero", op: schema.OpAdd, kind: schema.KindNumber, target: "abc", value: 1, want: "1"},
		{name: "unknown op keeps target", op: "power", kind: schema.KindNumber, target: 3, value: 2, want: "3"},
		{name: "float result", op: schema.OpAdd, kind: schema.KindNumber, target: 0.1, value: 0.2, want: "0.30000000000000004"},
		{name: "concat", op: schema.OpConcat, kind: schema.KindNumber, target: "foo", value: "bar", want: "foobar"},
		{name: "add strings", op: schema.OpAdd, kind: schema.KindNumber, target: "1", value: "2", want: "12"},
		{name: "strict numbers concatenate", op: schema.OpAdd, kind: schema.KindNumber, target: 1, value: 2, strict: true, want: "12"},
		{name: "string multiply keeps target", op: schema.OpMultiply, kind: schema.KindNumber, target: "abc", value: "2", want: "abc"},
		{name: "string path nil target", op: schema.OpConcat, kind: schema.KindNumber, target: nil, value: "x", want: "x"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := modifier.Apply(tc.op, tc.kind, tc.target, tc.value, tc.strict)
			if got != tc.want {
				t.Fatalf("Apply(%q, %q, %#v, %#v, %v) = %q, want %q", tc.op, tc.kind, tc.target, tc.value, tc.strict, got, tc.want)
			}
		})
	}
}

func TestApply_PercentOverridesOperation(t *testing.T) {
	t.Parallel()

	ops := []schema.OperationTag{schema.OpAdd, schema.OpSubtract, schema.OpMultiply, schema.OpDivide, schema.OpReplace, schema.OpConcat, "unknown"}
	for _, op := range ops {
		if got := modifier.Apply(op, schema.KindPercent, 200, 50, false); got != "100" {
			t.Fatalf("percent with %q = %q, want 100", op, got)
		}
	}
}

func TestApply_ReplaceIgnoresTarget(t *testing.T) {
	t.Parallel()

	for _, target := range []any{nil, 0, -4, "abc", 1e30, []any{1, 2}} {
		if got := modifier.Apply(schema.OpReplace, schema.KindNumber, target, 7, false); got != "7" {
			t.Fatalf("replace over %#v = %q, want 7", target, got)
		}
		if got := modifier.Apply(schema.OpReplace, schema.KindNumber, target, "x", true); got != "x" {
			t.Fatalf("strict replace over %#v = %q, want x", target, got)
		}
	}
}
