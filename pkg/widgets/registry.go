package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formrules/pkg/schema"
)

// Built-in widget variants exposed by the registry.
const (
	WidgetUnknown        = "unknown"
	WidgetInput          = "input"
	WidgetTextarea       = "textarea"
	WidgetColor          = "color"
	WidgetFileUpload     = "file-upload"
	WidgetMediaSelector  = "media-selector"
	WidgetNumber         = "number"
	WidgetCheckbox       = "checkbox"
	WidgetToggle         = "toggle"
	WidgetDate           = "date"
	WidgetDatetime       = "datetime"
	WidgetTime           = "time"
	WidgetSelect         = "select"
	WidgetMultiselect    = "multiselect"
	WidgetImageBase64    = "image-base64"
	WidgetDynamicSubform = "dynamic-subform"
	WidgetSubform        = "subform"
	WidgetEmail          = "email"
	WidgetPhone          = "phone"
	WidgetRadio          = "radio"
	WidgetURL            = "url"
	WidgetCaptcha        = "captcha"
	WidgetSignature      = "signature"
	WidgetRating         = "rating"
	WidgetScale          = "scale"
	WidgetHeader         = "header"
	WidgetImage          = "image"
	WidgetParagraph      = "paragraph"
)

const builtinPriority = 50

var builtinVariants = []struct {
	fieldType schema.FieldType
	widget    string
}{
	{schema.FieldTypeString, WidgetInput},
	{schema.FieldTypeText, WidgetTextarea},
	{schema.FieldTypeColor, WidgetColor},
	{schema.FieldTypeFile, WidgetFileUpload},
	{schema.FieldTypeFileV2, WidgetMediaSelector},
	{schema.FieldTypeNumber, WidgetNumber},
	{schema.FieldTypeBoolean, WidgetCheckbox},
	{schema.FieldTypeToggle, WidgetToggle},
	{schema.FieldTypeDate, WidgetDate},
	{schema.FieldTypeDatetime, WidgetDatetime},
	{schema.FieldTypeTime, WidgetTime},
	{schema.FieldTypeSelect, WidgetSelect},
	{schema.FieldTypeMultiselect, WidgetMultiselect},
	{schema.FieldTypeUploadToBase, WidgetImageBase64},
	{schema.FieldTypeArray, WidgetDynamicSubform},
	{schema.FieldTypeSubForm, WidgetSubform},
	{schema.FieldTypeEmail, WidgetEmail},
	{schema.FieldTypeTel, WidgetPhone},
	{schema.FieldTypeRadio, WidgetRadio},
	{schema.FieldTypeURL, WidgetURL},
	{schema.FieldTypeCaptcha, WidgetCaptcha},
	{schema.FieldTypeSignature, WidgetSignature},
	{schema.FieldTypeRating, WidgetRating},
	{schema.FieldTypeScale, WidgetScale},
	{schema.FieldTypeHeader, WidgetHeader},
	{schema.FieldTypeImage, WidgetImage},
	{schema.FieldTypeParagraph, WidgetParagraph},
}

// Composite reports whether a widget variant renders a nested field list.
func Composite(widget string) bool {
	return widget == WidgetSubform || widget == WidgetDynamicSubform
}

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field schema.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widget variants for fields based on an explicit `widget`
// attribute or registered matchers. Higher priority wins; ties fall back to
// registration order. Fields nothing matches resolve to WidgetUnknown.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with a matcher registered for every known
// field type.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// NewEmptyRegistry constructs a registry without built-in matchers.
func NewEmptyRegistry() *Registry {
	return &Registry{}
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence. Callers should avoid duplicate names; the
// latest registration wins during resolution.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. An explicit widget attribute
// is honoured before matcher evaluation.
func (r *Registry) Resolve(field schema.Field) (string, bool) {
	if explicit := strings.TrimSpace(field.Widget); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Variant resolves the widget of field, falling back to WidgetUnknown.
func (r *Registry) Variant(field schema.Field) string {
	if widget, ok := r.Resolve(field); ok && widget != "" {
		return widget
	}
	return WidgetUnknown
}

// Decorate returns a copy of fields with Widget set to the resolved variant,
// recursing into nested fields. Explicit widgets are preserved.
func (r *Registry) Decorate(fields []schema.Field) []schema.Field {
	if len(fields) == 0 {
		return fields
	}
	decorated := make([]schema.Field, len(fields))
	for idx, field := range fields {
		field.Widget = r.Variant(field)
		if len(field.Fields) > 0 {
			field.Fields = r.Decorate(field.Fields)
		}
		decorated[idx] = field
	}
	return decorated
}

func (r *Registry) registerBuiltins() {
	for _, entry := range builtinVariants {
		fieldType := entry.fieldType
		r.Register(entry.widget, builtinPriority, func(field schema.Field) bool {
			return field.Kind() == fieldType
		})
	}
}
