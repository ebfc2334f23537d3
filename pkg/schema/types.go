package schema

import (
	"golang.org/x/exp/maps"
)

// Field is a single declarative field definition. Fields are immutable for
// the lifetime of a form session; the engine never writes to them.
type Field struct {
	Name       string         `json:"name" yaml:"name"`
	Title      string         `json:"title,omitempty" yaml:"title,omitempty"`
	Label      string         `json:"label,omitempty" yaml:"label,omitempty"`
	Type       FieldType      `json:"type,omitempty" yaml:"type,omitempty"`
	Width      int            `json:"width,omitempty" yaml:"width,omitempty"`
	Default    any            `json:"default,omitempty" yaml:"default,omitempty"`
	Fields     []Field        `json:"fields,omitempty" yaml:"fields,omitempty"`
	Modifiers  []ModifierRule `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Conditions *Conditions    `json:"conditions,omitempty" yaml:"conditions,omitempty"`

	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Placeholder  string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required     bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Options      []Option `json:"options,omitempty" yaml:"options,omitempty"`
	Min          *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max          *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step         *float64 `json:"step,omitempty" yaml:"step,omitempty"`
	Content      string   `json:"content,omitempty" yaml:"content,omitempty"`
	Image        *Image   `json:"image,omitempty" yaml:"image,omitempty"`
	Size         string   `json:"size,omitempty" yaml:"size,omitempty"`
	DividerAbove bool     `json:"dividerAbove,omitempty" yaml:"dividerAbove,omitempty"`
	DividerBelow bool     `json:"dividerBelow,omitempty" yaml:"dividerBelow,omitempty"`
	Folder       string   `json:"folder,omitempty" yaml:"folder,omitempty"`
	Widget       string   `json:"widget,omitempty" yaml:"widget,omitempty"`
}

// Kind classifies the declared type tag, returning FieldTypeUnknown for tags
// outside the closed set.
func (f Field) Kind() FieldType {
	return ParseFieldType(string(f.Type))
}

// RawType returns the declared tag exactly as written in the document.
func (f Field) RawType() string {
	return string(f.Type)
}

// DisplayTitle returns label, then title, then name: the first non-empty one.
func (f Field) DisplayTitle() string {
	switch {
	case f.Label != "":
		return f.Label
	case f.Title != "":
		return f.Title
	default:
		return f.Name
	}
}

// EffectiveWidth returns the declared width, treating 0 as full width.
func (f Field) EffectiveWidth() int {
	if f.Width == 0 {
		return 100
	}
	return f.Width
}

// Conditions groups the optional visibility predicates of a field.
type Conditions struct {
	HiddenWhen   *Condition `json:"hiddenWhen,omitempty" yaml:"hiddenWhen,omitempty"`
	DisabledWhen *Condition `json:"disabledWhen,omitempty" yaml:"disabledWhen,omitempty"`
}

// Condition is a predicate over the current value of another field. Value is
// a scalar, a two element list (between) or a pattern (matches).
type Condition struct {
	Field string       `json:"field,omitempty" yaml:"field,omitempty"`
	When  ConditionTag `json:"when" yaml:"when"`
	Value any          `json:"value,omitempty" yaml:"value,omitempty"`
}

// ModifierRule derives the value of Target from the field that owns the rule.
// When the owner changes and When holds for its new value, Type is applied to
// the target's current value and Value.
type ModifierRule struct {
	Target       string       `json:"target,omitempty" yaml:"target,omitempty"`
	Type         OperationTag `json:"type" yaml:"type"`
	Kind         ModifierKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	When         ConditionTag `json:"when" yaml:"when"`
	Value        any          `json:"value,omitempty" yaml:"value,omitempty"`
	StrictString bool         `json:"strictString,omitempty" yaml:"strictString,omitempty"`
}

// EffectiveKind returns the rule kind, defaulting to KindNumber.
func (r ModifierRule) EffectiveKind() ModifierKind {
	if r.Kind == "" {
		return KindNumber
	}
	return r.Kind
}

// Option is one choice of a select, multiselect or radio field.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

// Image describes the static picture of an image field.
type Image struct {
	Src string `json:"src" yaml:"src"`
	Alt string `json:"alt,omitempty" yaml:"alt,omitempty"`
}

// FormData maps field names to their current values.
type FormData map[string]any

// Clone returns a shallow copy. The copy of a nil mapping is empty, not nil.
func (d FormData) Clone() FormData {
	if d == nil {
		return FormData{}
	}
	return maps.Clone(d)
}

// Lookup returns the top-level field named name.
func Lookup(fields []Field, name string) (Field, bool) {
	for _, field := range fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Names lists the top-level field names in declaration order.
func Names(fields []Field) []string {
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.Name)
	}
	return out
}
