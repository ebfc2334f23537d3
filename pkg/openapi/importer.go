package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/exp/maps"

	"github.com/goliatone/go-formrules/pkg/schema"
)

// Extension keys read from property schemas.
const (
	ExtensionField     = "x-formrules"
	ExtensionOrder     = "x-formrules-order"
	ExtensionEnumNames = "x-enum-names"
)

// ErrOperationNotFound is returned when no operation matches the requested id.
var ErrOperationNotFound = errors.New("openapi: operation not found")

// preferred request body media types, most preferred first.
var mediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// Operation summarises an operation that carries a request body.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
}

// Result is the outcome of an import.
type Result struct {
	Document schema.Document
	// Skipped lists dotted property paths that could not be mapped to a field.
	Skipped []string
}

// ImportOption configures Import.
type ImportOption func(*importer)

// WithMaxDepth bounds how deep nested objects are followed. The default is 8.
func WithMaxDepth(depth int) ImportOption {
	return func(im *importer) {
		if depth > 0 {
			im.maxDepth = depth
		}
	}
}

// WithMediaType forces the request body media type to import from.
func WithMediaType(mediaType string) ImportOption {
	return func(im *importer) {
		im.mediaType = strings.TrimSpace(mediaType)
	}
}

// Operations lists operations with a request body, sorted by id. Operations
// without an operationId are keyed as "<method>:<path>".
func Operations(doc *openapi3.T) []Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	var out []Operation
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
				continue
			}
			out = append(out, Operation{
				ID:      operationID(method, path, op),
				Method:  method,
				Path:    path,
				Summary: op.Summary,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Import builds a field document from the request body of the operation
// named id.
func Import(doc *openapi3.T, id string, options ...ImportOption) (Result, error) {
	im := &importer{maxDepth: 8}
	for _, opt := range options {
		if opt != nil {
			opt(im)
		}
	}

	op, method, path, err := findOperation(doc, id)
	if err != nil {
		return Result{}, err
	}
	body, err := im.requestSchema(op)
	if err != nil {
		return Result{}, fmt.Errorf("openapi: %s: %w", id, err)
	}

	fields := im.fields(body, "", 0, map[*openapi3.Schema]bool{})
	if len(fields) == 0 {
		return Result{}, fmt.Errorf("openapi: %s: request body has no importable properties", id)
	}

	title := op.Summary
	if title == "" {
		title = method + " " + path
	}
	return Result{
		Document: schema.Document{Title: title, Fields: fields},
		Skipped:  im.skipped,
	}, nil
}

type importer struct {
	maxDepth  int
	mediaType string
	skipped   []string
}

func findOperation(doc *openapi3.T, id string) (*openapi3.Operation, string, string, error) {
	if doc == nil || doc.Paths == nil {
		return nil, "", "", fmt.Errorf("%w: %q", ErrOperationNotFound, id)
	}
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op != nil && operationID(method, path, op) == id {
				return op, method, path, nil
			}
		}
	}
	return nil, "", "", fmt.Errorf("%w: %q", ErrOperationNotFound, id)
}

func operationID(method, path string, op *openapi3.Operation) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	return strings.ToLower(method) + ":" + path
}

func (im *importer) requestSchema(op *openapi3.Operation) (*openapi3.Schema, error) {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, errors.New("operation has no request body")
	}
	content := op.RequestBody.Value.Content
	if len(content) == 0 {
		return nil, errors.New("request body has no content")
	}

	candidates := mediaTypes
	if im.mediaType != "" {
		candidates = []string{im.mediaType}
	}
	for _, name := range candidates {
		if media := content[name]; media != nil && media.Schema != nil && media.Schema.Value != nil {
			return media.Schema.Value, nil
		}
	}
	if im.mediaType != "" {
		return nil, fmt.Errorf("request body has no %s content", im.mediaType)
	}

	names := maps.Keys(content)
	sort.Strings(names)
	for _, name := range names {
		if media := content[name]; media != nil && media.Schema != nil && media.Schema.Value != nil {
			return media.Schema.Value, nil
		}
	}
	return nil, errors.New("request body has no schema")
}

// fields maps the properties of an object schema. allOf members contribute
// their properties and required lists.
func (im *importer) fields(s *openapi3.Schema, prefix string, depth int, seen map[*openapi3.Schema]bool) []schema.Field {
	props, required := collectProperties(s)

	names := maps.Keys(props)
	sort.SliceStable(names, func(i, j int) bool {
		oi, iok := orderOf(props[names[i]])
		oj, jok := orderOf(props[names[j]])
		switch {
		case iok && jok && oi != oj:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return names[i] < names[j]
		}
	})

	var out []schema.Field
	for _, name := range names {
		prop := props[name]
		path := joinPath(prefix, name)
		if prop.ReadOnly {
			continue
		}
		field, ok := im.field(name, prop, path, depth, seen)
		if !ok {
			im.skipped = append(im.skipped, path)
			continue
		}
		field.Required = field.Required || required[name]
		out = append(out, field)
	}
	return out
}

func (im *importer) field(name string, s *openapi3.Schema, path string, depth int, seen map[*openapi3.Schema]bool) (schema.Field, bool) {
	field := schema.Field{
		Name:        name,
		Title:       s.Title,
		Description: s.Description,
		Default:     s.Default,
		Min:         s.Min,
		Max:         s.Max,
		Step:        s.MultipleOf,
	}

	switch {
	case len(s.Enum) > 0:
		field.Type = schema.FieldTypeSelect
		field.Options = enumOptions(s)
	case is(s, openapi3.TypeString):
		field.Type = stringType(s)
	case is(s, openapi3.TypeInteger):
		field.Type = schema.FieldTypeNumber
		if field.Step == nil {
			one := 1.0
			field.Step = &one
		}
	case is(s, openapi3.TypeNumber):
		field.Type = schema.FieldTypeNumber
	case is(s, openapi3.TypeBoolean):
		field.Type = schema.FieldTypeBoolean
	case is(s, openapi3.TypeObject) || len(s.Properties) > 0 || len(s.AllOf) > 0:
		nested, ok := im.nested(s, path, depth, seen)
		if !ok {
			return schema.Field{}, false
		}
		field.Type = schema.FieldTypeSubForm
		field.Fields = nested
	case is(s, openapi3.TypeArray):
		if s.Items == nil || s.Items.Value == nil {
			return schema.Field{}, false
		}
		items := s.Items.Value
		switch {
		case len(items.Enum) > 0:
			field.Type = schema.FieldTypeMultiselect
			field.Options = enumOptions(items)
		case is(items, openapi3.TypeObject) || len(items.Properties) > 0:
			nested, ok := im.nested(items, path, depth, seen)
			if !ok {
				return schema.Field{}, false
			}
			field.Type = schema.FieldTypeArray
			field.Fields = nested
		default:
			return schema.Field{}, false
		}
	default:
		return schema.Field{}, false
	}

	if err := applyOverlay(&field, s.Extensions); err != nil {
		return schema.Field{}, false
	}
	return field, true
}

func (im *importer) nested(s *openapi3.Schema, path string, depth int, seen map[*openapi3.Schema]bool) ([]schema.Field, bool) {
	if depth+1 >= im.maxDepth || seen[s] {
		return nil, false
	}
	seen[s] = true
	defer delete(seen, s)

	fields := im.fields(s, path, depth+1, seen)
	return fields, len(fields) > 0
}

func collectProperties(s *openapi3.Schema) (map[string]*openapi3.Schema, map[string]bool) {
	props := make(map[string]*openapi3.Schema)
	required := make(map[string]bool)
	var walk func(*openapi3.Schema)
	walk = func(s *openapi3.Schema) {
		if s == nil {
			return
		}
		for _, member := range s.AllOf {
			if member != nil {
				walk(member.Value)
			}
		}
		for name, ref := range s.Properties {
			if ref != nil && ref.Value != nil {
				props[name] = ref.Value
			}
		}
		for _, name := range s.Required {
			required[name] = true
		}
	}
	walk(s)
	return props, required
}

func stringType(s *openapi3.Schema) schema.FieldType {
	switch strings.ToLower(s.Format) {
	case "email":
		return schema.FieldTypeEmail
	case "uri", "url":
		return schema.FieldTypeURL
	case "date":
		return schema.FieldTypeDate
	case "date-time":
		return schema.FieldTypeDatetime
	case "time":
		return schema.FieldTypeTime
	case "binary":
		return schema.FieldTypeFile
	case "byte":
		return schema.FieldTypeUploadToBase
	case "color":
		return schema.FieldTypeColor
	case "tel", "phone":
		return schema.FieldTypeTel
	}
	if s.MaxLength != nil && *s.MaxLength > 255 {
		return schema.FieldTypeText
	}
	return schema.FieldTypeString
}

func enumOptions(s *openapi3.Schema) []schema.Option {
	var labels []string
	if raw, ok := extension(s.Extensions, ExtensionEnumNames); ok {
		_ = json.Unmarshal(raw, &labels)
	}
	out := make([]schema.Option, 0, len(s.Enum))
	for i, value := range s.Enum {
		label := fmt.Sprint(value)
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}
		out = append(out, schema.Option{Label: label, Value: value})
	}
	return out
}

func orderOf(s *openapi3.Schema) (float64, bool) {
	raw, ok := extension(s.Extensions, ExtensionOrder)
	if !ok {
		return 0, false
	}
	var order float64
	if err := json.Unmarshal(raw, &order); err != nil {
		return 0, false
	}
	return order, true
}

// applyOverlay merges the x-formrules extension into field. Non-zero overlay
// attributes win over the values derived from the schema.
func applyOverlay(field *schema.Field, extensions map[string]any) error {
	raw, ok := extension(extensions, ExtensionField)
	if !ok {
		return nil
	}
	var overlay schema.Field
	if err := json.Unmarshal(raw, &overlay); err != nil {
		return fmt.Errorf("openapi: %s on %q: %w", ExtensionField, field.Name, err)
	}

	if overlay.Type != "" {
		field.Type = overlay.Type
	}
	if overlay.Label != "" {
		field.Label = overlay.Label
	}
	if overlay.Title != "" {
		field.Title = overlay.Title
	}
	if overlay.Width != 0 {
		field.Width = overlay.Width
	}
	if overlay.Widget != "" {
		field.Widget = overlay.Widget
	}
	if overlay.Placeholder != "" {
		field.Placeholder = overlay.Placeholder
	}
	if overlay.Default != nil {
		field.Default = overlay.Default
	}
	if len(overlay.Options) > 0 {
		field.Options = overlay.Options
	}
	if len(overlay.Modifiers) > 0 {
		field.Modifiers = overlay.Modifiers
	}
	if overlay.Conditions != nil {
		field.Conditions = overlay.Conditions
	}
	if overlay.Folder != "" {
		field.Folder = overlay.Folder
	}
	if overlay.Step != nil {
		field.Step = overlay.Step
	}
	field.Required = field.Required || overlay.Required
	return nil
}

// extension returns the JSON encoding of an extension value. kin-openapi
// keeps decoded values, older documents may still carry raw messages.
func extension(extensions map[string]any, key string) (json.RawMessage, bool) {
	value, ok := extensions[key]
	if !ok || value == nil {
		return nil, false
	}
	if raw, ok := value.(json.RawMessage); ok {
		return raw, true
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, false
	}
	return raw, true
}

func is(s *openapi3.Schema, typ string) bool {
	return s.Type != nil && s.Type.Is(typ)
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
