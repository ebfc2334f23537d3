// Package validation checks submitted form data against the constraints
// declared on fields: required, numeric bounds, option membership and the
// formats implied by the field type. Only fields visible and enabled for the
// data are checked.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/goliatone/go-formrules/internal/jsvalue"
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/visibility"
)

const (
	emailPattern = `^[^@\s]+@[^@\s]+\.[^@\s]+$`
	urlPattern   = `^https?://\S+$`
	colorPattern = `^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`
	datePattern  = `^\d{4}-\d{2}-\d{2}$`
	timePattern  = `^\d{2}:\d{2}(?::\d{2})?$`
)

// Issue is one problem with one field value. Path is the dotted field path,
// with array indexes, the way render errors are keyed.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Result captures the outcome of a validation pass.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Errors groups the issues by path, ready for render.RenderOptions.Errors.
func (r Result) Errors() map[string][]string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.Issues))
	for _, issue := range r.Issues {
		out[issue.Path] = append(out[issue.Path], issue.Message)
	}
	return out
}

// Option configures a Validator.
type Option func(*Validator)

// WithVisibility replaces the evaluator deciding which fields are skipped.
func WithVisibility(eval visibility.Evaluator) Option {
	return func(v *Validator) {
		if eval != nil {
			v.visibility = eval
		}
	}
}

// Validator checks form data. Compiled field schemas are cached, so a
// Validator should be reused across submissions of the same document.
type Validator struct {
	visibility visibility.Evaluator

	mu      sync.RWMutex
	schemas map[string]*jsonschema.Resolved
}

// New constructs a Validator.
func New(options ...Option) *Validator {
	v := &Validator{
		visibility: &visibility.Conditions{},
		schemas:    make(map[string]*jsonschema.Resolved),
	}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

var defaultValidator = New()

// Validate checks data against fields with the default Validator.
func Validate(fields []schema.Field, data schema.FormData) (Result, error) {
	return defaultValidator.Validate(fields, data)
}

// Validate checks data against fields. The error is reserved for condition
// failures, such as an invalid matches pattern, and for field schemas that
// cannot be compiled.
func (v *Validator) Validate(fields []schema.Field, data schema.FormData) (Result, error) {
	var issues []Issue
	if err := v.validateList(fields, data, "", &issues); err != nil {
		return Result{}, err
	}
	return Result{Valid: len(issues) == 0, Issues: issues}, nil
}

func (v *Validator) validateList(fields []schema.Field, data schema.FormData, prefix string, issues *[]Issue) error {
	for _, field := range fields {
		if field.Name == "" || field.Kind().DisplayOnly() {
			continue
		}
		state, err := v.visibility.Eval(field, data)
		if err != nil {
			return fmt.Errorf("validation: %w", err)
		}
		if state.Hidden || state.Disabled {
			continue
		}

		path := joinPath(prefix, field.Name)
		value := data[field.Name]
		if missing(field, value) {
			if field.Required {
				*issues = append(*issues, Issue{Path: path, Message: "is required"})
			}
			continue
		}

		switch field.Kind() {
		case schema.FieldTypeSubForm:
			if err := v.validateList(field.Fields, asFormData(value), path, issues); err != nil {
				return err
			}
			continue
		case schema.FieldTypeArray:
			items, _ := value.([]any)
			for idx, item := range items {
				if err := v.validateList(field.Fields, asFormData(item), joinPath(path, strconv.Itoa(idx)), issues); err != nil {
					return err
				}
			}
			continue
		}

		if msg := checkOptions(field, value); msg != "" {
			*issues = append(*issues, Issue{Path: path, Message: msg})
			continue
		}
		msg, err := v.checkSchema(field, path, value)
		if err != nil {
			return err
		}
		if msg != "" {
			*issues = append(*issues, Issue{Path: path, Message: msg})
		}
	}
	return nil
}

// checkSchema validates scalar values against the JSON Schema derived from
// the field.
func (v *Validator) checkSchema(field schema.Field, path string, value any) (string, error) {
	s := FieldSchema(field)
	if s == nil {
		return "", nil
	}

	instance := value
	if s.Type == "number" {
		n := jsvalue.Number(value)
		if math.IsNaN(n) {
			return "must be a number", nil
		}
		instance = n
	} else if s.Type == "string" {
		instance = jsvalue.String(value)
	}

	resolved, err := v.resolve(path, field, s)
	if err != nil {
		return "", err
	}
	if err := resolved.Validate(instance); err != nil {
		return issueMessage(err), nil
	}
	return "", nil
}

func (v *Validator) resolve(path string, field schema.Field, s *jsonschema.Schema) (*jsonschema.Resolved, error) {
	key := string(field.Kind()) + "\x00" + bounds(field)
	v.mu.RLock()
	resolved, ok := v.schemas[key]
	v.mu.RUnlock()
	if ok {
		return resolved, nil
	}

	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("validation: field %q: %w", path, err)
	}
	v.mu.Lock()
	v.schemas[key] = resolved
	v.mu.Unlock()
	return resolved, nil
}

// FieldSchema derives the JSON Schema of a single non-empty value of field.
// It returns nil for fields whose values are not constrained.
func FieldSchema(field schema.Field) *jsonschema.Schema {
	switch field.Kind() {
	case schema.FieldTypeNumber, schema.FieldTypeRating, schema.FieldTypeScale:
		s := &jsonschema.Schema{Type: "number", Minimum: field.Min, Maximum: field.Max}
		switch field.Kind() {
		case schema.FieldTypeRating:
			if s.Minimum == nil {
				s.Minimum = ptr(1)
			}
			if s.Maximum == nil {
				s.Maximum = ptr(5)
			}
		case schema.FieldTypeScale:
			if s.Minimum == nil {
				s.Minimum = ptr(1)
			}
			if s.Maximum == nil {
				s.Maximum = ptr(10)
			}
		}
		return s
	case schema.FieldTypeEmail:
		return &jsonschema.Schema{Type: "string", Pattern: emailPattern}
	case schema.FieldTypeURL:
		return &jsonschema.Schema{Type: "string", Pattern: urlPattern}
	case schema.FieldTypeColor:
		return &jsonschema.Schema{Type: "string", Pattern: colorPattern}
	case schema.FieldTypeDate:
		return &jsonschema.Schema{Type: "string", Pattern: datePattern}
	case schema.FieldTypeTime:
		return &jsonschema.Schema{Type: "string", Pattern: timePattern}
	default:
		return nil
	}
}

// checkOptions reports values that are not among the declared options.
// Values are compared by their string form so submitted strings match
// numeric option values.
func checkOptions(field schema.Field, value any) string {
	if len(field.Options) == 0 {
		return ""
	}
	allowed := make(map[string]struct{}, len(field.Options))
	for _, option := range field.Options {
		allowed[jsvalue.String(option.Value)] = struct{}{}
	}

	switch field.Kind() {
	case schema.FieldTypeSelect, schema.FieldTypeRadio:
		if _, ok := allowed[jsvalue.String(value)]; !ok {
			return fmt.Sprintf("%q is not one of the options", jsvalue.String(value))
		}
	case schema.FieldTypeMultiselect:
		items, _ := value.([]any)
		for _, item := range items {
			if _, ok := allowed[jsvalue.String(item)]; !ok {
				return fmt.Sprintf("%q is not one of the options", jsvalue.String(item))
			}
		}
	}
	return ""
}

// missing reports whether value counts as not filled in. Numbers are filled
// in even when zero, except for ratings and scales where zero means no
// choice. Booleans are filled in only when true.
func missing(field schema.Field, value any) bool {
	switch field.Kind() {
	case schema.FieldTypeBoolean, schema.FieldTypeToggle:
		return !jsvalue.Truthy(value)
	case schema.FieldTypeRating, schema.FieldTypeScale:
		return jsvalue.Empty(value) || jsvalue.Number(value) == 0
	}
	if value == nil {
		return true
	}
	if jsvalue.IsNumeric(value) {
		return false
	}
	if _, ok := value.(bool); ok {
		return false
	}
	return jsvalue.Empty(value)
}

// issueMessage strips the "validating <pointer>: " prefix jsonschema-go puts
// in front of every message.
func issueMessage(err error) string {
	msg := strings.TrimSpace(err.Error())
	if rest, ok := strings.CutPrefix(msg, "validating "); ok {
		if _, after, ok := strings.Cut(rest, ": "); ok {
			msg = after
		}
	}
	return msg
}

func bounds(field schema.Field) string {
	format := func(v *float64) string {
		if v == nil {
			return "-"
		}
		return jsvalue.FormatNumber(*v)
	}
	return format(field.Min) + ":" + format(field.Max)
}

func asFormData(value any) schema.FormData {
	switch v := value.(type) {
	case schema.FormData:
		return v
	case map[string]any:
		return schema.FormData(v)
	default:
		return schema.FormData{}
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func ptr(f float64) *float64 { return &f }
