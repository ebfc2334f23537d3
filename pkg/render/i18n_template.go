package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formrules/pkg/schema"
)

// TemplateI18nConfig configures the template translation helpers.
type TemplateI18nConfig struct {
	// LocaleKey is read from mappings passed in place of a locale string.
	// Defaults to "locale".
	LocaleKey string
	// FuncName renames the translate helper.
	FuncName string
	// OnMissing picks the text of keys without a translation.
	OnMissing MissingTranslationHandler
}

// TemplateI18nFuncs returns template globals for custom templates, for
// example through html.WithTemplateFuncs:
//
//	translate(locale, key, ...args)
//	field_text(locale, path, attr, fallback)
//	current_locale(locale)
//
// locale is a locale string, RenderOptions or a mapping holding the locale
// under cfg.LocaleKey. field_text builds the same "fields.<path>.<attr>" keys
// LocalizeForm uses.
func TemplateI18nFuncs(t Translator, cfg TemplateI18nConfig) map[string]any {
	localeKey := strings.TrimSpace(cfg.LocaleKey)
	if localeKey == "" {
		localeKey = "locale"
	}
	funcName := strings.TrimSpace(cfg.FuncName)
	if funcName == "" {
		funcName = "translate"
	}
	onMissing := cfg.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	lookup := func(locale, key string, args []any) string {
		if t == nil {
			return onMissing(locale, key, args, ErrMissingTranslator)
		}
		msg, err := t.Translate(locale, key, args...)
		if err != nil || strings.TrimSpace(msg) == "" {
			return onMissing(locale, key, args, err)
		}
		return msg
	}

	return map[string]any{
		funcName: func(src any, key string, args ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			return lookup(localeOf(src, localeKey), key, args)
		},
		"field_text": func(src any, path, attr, fallback string) string {
			key := fieldKeyPrefix + strings.Trim(path, ".") + "." + attr
			return lookup(localeOf(src, localeKey), key, []any{map[string]any{"default": fallback}})
		},
		"current_locale": func(src any) string {
			return localeOf(src, localeKey)
		},
	}
}

func localeOf(src any, key string) string {
	switch v := src.(type) {
	case nil:
		return ""
	case string:
		return v
	case RenderOptions:
		return v.Locale
	case *RenderOptions:
		if v == nil {
			return ""
		}
		return v.Locale
	case map[string]string:
		return v[key]
	case map[string]any:
		return stringEntry(v[key])
	case schema.FormData:
		return stringEntry(v[key])
	default:
		return ""
	}
}

func stringEntry(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}
