package form

import (
	"github.com/goliatone/go-formrules/pkg/schema"
)

// Initialize builds the initial form data for fields. A declared default wins;
// otherwise each field gets the empty value of its type. Display-only fields
// (header, image, paragraph) and unnamed fields produce no key.
func Initialize(fields []schema.Field) schema.FormData {
	data := make(schema.FormData, len(fields))
	for _, field := range fields {
		if field.Name == "" || field.Kind().DisplayOnly() {
			continue
		}
		if field.Default != nil {
			data[field.Name] = field.Default
			continue
		}
		data[field.Name] = EmptyValue(field)
	}
	return data
}

// EmptyValue returns the value a field holds before any input.
func EmptyValue(field schema.Field) any {
	switch field.Kind() {
	case schema.FieldTypeBoolean, schema.FieldTypeToggle:
		return false
	case schema.FieldTypeNumber, schema.FieldTypeRating, schema.FieldTypeScale:
		return 0
	case schema.FieldTypeMultiselect, schema.FieldTypeArray:
		return []any{}
	case schema.FieldTypeSubForm:
		return map[string]any(Initialize(field.Fields))
	case schema.FieldTypeHeader, schema.FieldTypeImage, schema.FieldTypeParagraph:
		return nil
	default:
		return ""
	}
}

// NestedChange returns a copy of parentValue, a nested mapping such as a
// subForm value or an array row, with subName set to subValue. Non-mapping
// parents start from an empty mapping.
func NestedChange(parentValue any, subName string, subValue any) map[string]any {
	base := mapping(parentValue)
	out := make(map[string]any, len(base)+1)
	for k, v := range base {
		out[k] = v
	}
	out[subName] = subValue
	return out
}

func mapping(value any) map[string]any {
	switch typed := value.(type) {
	case map[string]any:
		return typed
	case schema.FormData:
		return typed
	default:
		return nil
	}
}
