package schema_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-formrules/pkg/schema"
)

func TestLint(t *testing.T) {
	t.Parallel()

	fields := []schema.Field{
		{
			Name: "price",
			Type: schema.FieldTypeNumber,
			Modifiers: []schema.ModifierRule{
				{Target: "total", Type: schema.OpMultiply, When: schema.WhenTrue},
				{Target: "missing", Type: "power", When: "sometimes"},
				{Type: schema.OpAdd, When: schema.WhenTrue},
			},
		},
		{Name: "total", Type: schema.FieldTypeString, Width: 33},
		{Name: "total", Type: "slider"},
		{
			Name: "code",
			Type: schema.FieldTypeString,
			Conditions: &schema.Conditions{
				HiddenWhen:   &schema.Condition{Field: "ghost", When: schema.WhenTrue},
				DisabledWhen: &schema.Condition{Field: "price", When: schema.WhenMatches, Value: "(unclosed"},
			},
		},
		{
			Name: "range",
			Type: schema.FieldTypeNumber,
			Conditions: &schema.Conditions{
				HiddenWhen: &schema.Condition{Field: "price", When: schema.WhenBetween, Value: 3},
			},
		},
		{
			Name:   "address",
			Type:   schema.FieldTypeSubForm,
			Fields: []schema.Field{{Name: "street"}},
		},
	}

	warnings := schema.Lint(fields)
	var rendered []string
	for _, w := range warnings {
		rendered = append(rendered, w.String())
	}
	joined := strings.Join(rendered, "\n")

	expected := []string{
		`price.modifiers[1]: target "missing" is not a sibling field`,
		`price.modifiers[1]: unknown operation "power"`,
		`price.modifiers[1]: unknown condition "sometimes" always evaluates to false`,
		`price.modifiers[2]: rule has no target and never fires`,
		`total: width 33 is not one of 25, 50, 75, 100`,
		`total: duplicate field name "total"`,
		`total: unknown field type "slider"`,
		`code.conditions.hiddenWhen: condition field "ghost" is not a sibling field`,
		`code.conditions.disabledWhen: invalid pattern "(unclosed"`,
		`range.conditions.hiddenWhen: between expects a two element list`,
		`address.street: field has no type`,
	}
	for _, want := range expected {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing warning %q in:\n%s", want, joined)
		}
	}
	if strings.Contains(joined, `price.modifiers[0]`) {
		t.Fatalf("valid rule should not be reported:\n%s", joined)
	}
}

func TestLint_Clean(t *testing.T) {
	t.Parallel()

	fields := []schema.Field{
		{Name: "a", Type: schema.FieldTypeBoolean},
		{Name: "b", Type: schema.FieldTypeString, Width: 50, Conditions: &schema.Conditions{HiddenWhen: &schema.Condition{Field: "a", When: schema.WhenFalse}}},
	}
	if warnings := schema.Lint(fields); len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}

func TestFieldTypes(t *testing.T) {
	t.Parallel()

	for _, ft := range schema.FieldTypes() {
		if !ft.Known() || schema.ParseFieldType(string(ft)) != ft {
			t.Fatalf("%q should be a known type", ft)
		}
	}
	if schema.ParseFieldType("String") != schema.FieldTypeUnknown {
		t.Fatalf("type tags are case sensitive")
	}

	field := schema.Field{Name: "x", Type: "slider"}
	if field.Kind() != schema.FieldTypeUnknown || field.RawType() != "slider" {
		t.Fatalf("raw tag should survive: kind=%q raw=%q", field.Kind(), field.RawType())
	}
}

func TestFieldHelpers(t *testing.T) {
	t.Parallel()

	if got := (schema.Field{Name: "n", Title: "T", Label: "L"}).DisplayTitle(); got != "L" {
		t.Fatalf("label should win, got %q", got)
	}
	if got := (schema.Field{Name: "n", Title: "T"}).DisplayTitle(); got != "T" {
		t.Fatalf("title should win over name, got %q", got)
	}
	if got := (schema.Field{Name: "n"}).DisplayTitle(); got != "n" {
		t.Fatalf("name fallback, got %q", got)
	}
	if got := (schema.Field{}).EffectiveWidth(); got != 100 {
		t.Fatalf("width 0 should be full width, got %d", got)
	}

	var nilData schema.FormData
	clone := nilData.Clone()
	if clone == nil || len(clone) != 0 {
		t.Fatalf("clone of nil data should be empty: %#v", clone)
	}
	data := schema.FormData{"a": 1}
	copied := data.Clone()
	copied["a"] = 2
	if data["a"] != 1 {
		t.Fatalf("clone must not alias the source")
	}
}
