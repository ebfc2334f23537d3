package render_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/render"
	"github.com/goliatone/go-formrules/pkg/schema"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func localeFields() []schema.Field {
	return []schema.Field{
		{Name: "name", Label: "Name", Placeholder: "Enter name", Type: schema.FieldTypeString},
		{Name: "size", Title: "Size", Type: schema.FieldTypeSelect, Options: []schema.Option{
			{Label: "Small", Value: "s"}, {Label: "Large", Value: "l"},
		}},
		{Name: "address", Label: "Address", Type: schema.FieldTypeSubForm, Fields: []schema.Field{
			{Name: "street", Label: "Street", Type: schema.FieldTypeString},
		}},
	}
}

func buildForm(t *testing.T, fields []schema.Field) render.Form {
	t.Helper()
	f, err := render.FromController("Order", form.New(fields), nil)
	if err != nil {
		t.Fatalf("from controller: %v", err)
	}
	return f
}

func TestLocalizeForm_UsesKeysAndFallbacks(t *testing.T) {
	t.Parallel()

	fields := localeFields()
	f := buildForm(t, fields)

	render.LocalizeForm(&f, render.RenderOptions{
		Locale: "es",
		Translator: stubTranslator{
			"form.title":                  "Pedido",
			"fields.name.label":           "Nombre",
			"fields.size.options.l":       "Grande",
			"fields.address.street.label": "Calle",
		},
	})

	if f.Title != "Pedido" {
		t.Fatalf("expected translated title, got %q", f.Title)
	}
	if f.Views[0].Title != "Nombre" || f.Views[0].Field.Label != "Nombre" {
		t.Fatalf("expected translated label, got %q / %q", f.Views[0].Title, f.Views[0].Field.Label)
	}
	if f.Views[0].Field.Placeholder != "Enter name" {
		t.Fatalf("expected placeholder to fall back, got %q", f.Views[0].Field.Placeholder)
	}
	if f.Views[1].Title != "Size" || f.Views[1].Field.Label != "" {
		t.Fatalf("expected untranslated title without a label, got %q / %q", f.Views[1].Title, f.Views[1].Field.Label)
	}
	if got := f.Views[1].Field.Options[1].Label; got != "Grande" {
		t.Fatalf("expected translated option, got %q", got)
	}
	if got := f.Views[2].Children[0].Title; got != "Calle" {
		t.Fatalf("expected nested label to be translated, got %q", got)
	}
	if fields[1].Options[1].Label != "Large" {
		t.Fatalf("localisation must not touch the schema, got %q", fields[1].Options[1].Label)
	}
}

func TestLocalizeForm_MissingHandlerAndNoTranslator(t *testing.T) {
	t.Parallel()

	f := buildForm(t, localeFields()[:1])
	render.LocalizeForm(&f, render.RenderOptions{})
	if f.Title != "Order" || f.Views[0].Title != "Name" {
		t.Fatalf("expected no-op without translator, got %q / %q", f.Title, f.Views[0].Title)
	}

	var missing []string
	render.LocalizeForm(&f, render.RenderOptions{
		Translator: stubTranslator{},
		OnMissing: func(_ string, key string, _ []any, _ error) string {
			missing = append(missing, key)
			return "?" + key
		},
	})
	if f.Views[0].Title != "?fields.name.label" {
		t.Fatalf("expected handler output, got %q", f.Views[0].Title)
	}
	want := []string{"form.title", "fields.name.label", "fields.name.placeholder"}
	if len(missing) != len(want) {
		t.Fatalf("expected %v, got %v", want, missing)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, missing)
		}
	}
}

func TestTemplateI18nFuncs(t *testing.T) {
	t.Parallel()

	funcs := render.TemplateI18nFuncs(stubTranslator{"greeting": "Hola"}, render.TemplateI18nConfig{})
	translateFn, ok := funcs["translate"].(func(any, string, ...any) string)
	if !ok {
		t.Fatalf("expected translate helper, got %T", funcs["translate"])
	}
	if got := translateFn("es", "greeting"); got != "Hola" {
		t.Fatalf("expected Hola, got %q", got)
	}
	if got := translateFn(map[string]any{"locale": "es"}, "missing"); got != "missing" {
		t.Fatalf("expected key fallback, got %q", got)
	}

	localeFn := funcs["current_locale"].(func(any) string)
	if got := localeFn(nil); got != "" {
		t.Fatalf("expected empty locale, got %q", got)
	}
	if got := localeFn(map[string]string{"locale": "fr"}); got != "fr" {
		t.Fatalf("expected fr, got %q", got)
	}
	if got := localeFn(render.RenderOptions{Locale: "de"}); got != "de" {
		t.Fatalf("expected de, got %q", got)
	}

	fieldText := funcs["field_text"].(func(any, string, string, string) string)
	if got := fieldText("es", "customer.name", "label", "Name"); got != "Name" {
		t.Fatalf("expected fallback label, got %q", got)
	}
}
