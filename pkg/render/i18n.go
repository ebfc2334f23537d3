package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/schema"
)

const (
	formTitleKey    = "form.title"
	fieldKeyPrefix  = "fields."
	optionKeySuffix = ".options."
)

// ErrMissingTranslator is passed to the missing handler when a key is looked
// up without a translator.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate implements Translator.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides the text used when key has no
// translation. args carries a {"default": fallback} map when one is known.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		if m, ok := arg.(map[string]any); ok {
			if fallback, ok := m["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// LocalizeForm translates the form title and the user facing text of every
// view in place. Keys follow "form.title" and "fields.<path>.<attr>" where
// path is the dotted field path without array indexes and attr is one of
// label, description, placeholder, content or alt. Option labels use
// "fields.<path>.options.<value>".
//
// Without a translator the form is left untouched. Attributes that are empty
// are not looked up. Views share their schema slices with the controller, so
// option lists are copied before being rewritten.
func LocalizeForm(f *Form, opts RenderOptions) {
	if f == nil || opts.Translator == nil {
		return
	}
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	l := localizer{locale: opts.Locale, t: opts.Translator, onMissing: onMissing}
	if f.Title != "" {
		f.Title = l.translate(formTitleKey, f.Title)
	}
	l.views(f.Views, "")
}

type localizer struct {
	locale    string
	t         Translator
	onMissing MissingTranslationHandler
}

func (l localizer) views(views []form.FieldView, prefix string) {
	for i := range views {
		l.view(&views[i], joinFieldPath(prefix, views[i].Name))
	}
}

func (l localizer) view(view *form.FieldView, path string) {
	base := fieldKeyPrefix + path + "."
	field := &view.Field

	view.Title = l.translate(base+"label", view.Title)
	if field.Label != "" {
		field.Label = view.Title
	}
	if field.Description != "" {
		field.Description = l.translate(base+"description", field.Description)
	}
	if field.Placeholder != "" {
		field.Placeholder = l.translate(base+"placeholder", field.Placeholder)
	}
	if field.Content != "" {
		field.Content = l.translate(base+"content", field.Content)
	}
	if field.Image != nil && field.Image.Alt != "" {
		img := *field.Image
		img.Alt = l.translate(base+"alt", img.Alt)
		field.Image = &img
	}
	if len(field.Options) > 0 {
		options := make([]schema.Option, len(field.Options))
		for i, option := range field.Options {
			option.Label = l.translate(fieldKeyPrefix+path+optionKeySuffix+anyToString(option.Value), option.Label)
			options[i] = option
		}
		field.Options = options
	}

	l.views(view.Children, path)
	for _, item := range view.Items {
		l.views(item, path)
	}
}

func (l localizer) translate(key, fallback string) string {
	return translate(l.locale, key, fallback, l.t, l.onMissing)
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
		}
		if strings.TrimSpace(fallback) != "" {
			return fallback
		}
		return key
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}

	if onMissing != nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}

func joinFieldPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
