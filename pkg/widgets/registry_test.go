package widgets

import (
	"testing"

	"github.com/goliatone/go-formrules/pkg/schema"
)

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	reg := NewRegistry()
	field := schema.Field{
		Type:   schema.FieldTypeBoolean,
		Widget: "custom-toggle",
	}

	if got, ok := reg.Resolve(field); !ok || got != "custom-toggle" {
		t.Fatalf("expected explicit widget to win, got %q (ok=%v)", got, ok)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := map[schema.FieldType]string{
		schema.FieldTypeString:       WidgetInput,
		schema.FieldTypeText:         WidgetTextarea,
		schema.FieldTypeColor:        WidgetColor,
		schema.FieldTypeFile:         WidgetFileUpload,
		schema.FieldTypeFileV2:       WidgetMediaSelector,
		schema.FieldTypeNumber:       WidgetNumber,
		schema.FieldTypeBoolean:      WidgetCheckbox,
		schema.FieldTypeToggle:       WidgetToggle,
		schema.FieldTypeDate:         WidgetDate,
		schema.FieldTypeDatetime:     WidgetDatetime,
		schema.FieldTypeTime:         WidgetTime,
		schema.FieldTypeSelect:       WidgetSelect,
		schema.FieldTypeMultiselect:  WidgetMultiselect,
		schema.FieldTypeUploadToBase: WidgetImageBase64,
		schema.FieldTypeArray:        WidgetDynamicSubform,
		schema.FieldTypeSubForm:      WidgetSubform,
		schema.FieldTypeEmail:        WidgetEmail,
		schema.FieldTypeTel:          WidgetPhone,
		schema.FieldTypeRadio:        WidgetRadio,
		schema.FieldTypeURL:          WidgetURL,
		schema.FieldTypeCaptcha:      WidgetCaptcha,
		schema.FieldTypeSignature:    WidgetSignature,
		schema.FieldTypeRating:       WidgetRating,
		schema.FieldTypeScale:        WidgetScale,
		schema.FieldTypeHeader:       WidgetHeader,
		schema.FieldTypeImage:        WidgetImage,
		schema.FieldTypeParagraph:    WidgetParagraph,
	}
	if len(cases) != len(schema.FieldTypes()) {
		t.Fatalf("every known type needs a widget: %d cases for %d types", len(cases), len(schema.FieldTypes()))
	}

	for fieldType, expect := range cases {
		fieldType, expect := fieldType, expect
		t.Run(string(fieldType), func(t *testing.T) {
			t.Parallel()
			got, ok := reg.Resolve(schema.Field{Type: fieldType})
			if !ok {
				t.Fatalf("expected resolution for %s", fieldType)
			}
			if got != expect {
				t.Fatalf("resolve %s: want %q, got %q", fieldType, expect, got)
			}
		})
	}
}

func TestVariant_UnknownFallback(t *testing.T) {
	reg := NewRegistry()

	for _, raw := range []schema.FieldType{"", "slider", "String"} {
		if got := reg.Variant(schema.Field{Type: raw}); got != WidgetUnknown {
			t.Fatalf("type %q should resolve to %q, got %q", raw, WidgetUnknown, got)
		}
	}
	if got := NewEmptyRegistry().Variant(schema.Field{Type: schema.FieldTypeString}); got != WidgetUnknown {
		t.Fatalf("empty registry should never resolve, got %q", got)
	}
}

func TestResolve_PriorityOverride(t *testing.T) {
	reg := NewRegistry()
	reg.Register("custom", 999, func(field schema.Field) bool {
		return field.Kind() == schema.FieldTypeBoolean
	})

	got, ok := reg.Resolve(schema.Field{Type: schema.FieldTypeBoolean})
	if !ok || got != "custom" {
		t.Fatalf("priority matcher should win, got %q (ok=%v)", got, ok)
	}
	if got := reg.Variant(schema.Field{Type: schema.FieldTypeToggle}); got != WidgetToggle {
		t.Fatalf("other types keep their built-in, got %q", got)
	}
}

func TestDecorate_RecursesIntoNestedFields(t *testing.T) {
	reg := NewRegistry()

	fields := []schema.Field{
		{Name: "enabled", Type: schema.FieldTypeBoolean},
		{Name: "custom", Type: schema.FieldTypeString, Widget: "slug"},
		{
			Name: "address",
			Type: schema.FieldTypeSubForm,
			Fields: []schema.Field{
				{Name: "street", Type: schema.FieldTypeString},
				{Name: "mystery", Type: "hologram"},
			},
		},
	}

	decorated := reg.Decorate(fields)
	if fields[0].Widget != "" {
		t.Fatalf("decorate must not modify its input")
	}

	want := map[string]string{
		"enabled": WidgetCheckbox,
		"custom":  "slug",
		"address": WidgetSubform,
	}
	for _, f := range decorated {
		if f.Widget != want[f.Name] {
			t.Fatalf("%s widget = %q, want %q", f.Name, f.Widget, want[f.Name])
		}
	}
	nested := decorated[2].Fields
	if nested[0].Widget != WidgetInput || nested[1].Widget != WidgetUnknown {
		t.Fatalf("nested widgets not applied: %#v", nested)
	}
	if !Composite(decorated[2].Widget) || Composite(WidgetInput) {
		t.Fatalf("composite classification mismatch")
	}
}
