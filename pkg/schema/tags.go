package schema

// FieldType is the declared type tag of a field. The set of tags the engine
// understands is closed; any other tag is preserved verbatim and classified as
// FieldTypeUnknown by Kind.
type FieldType string

const (
	FieldTypeUnknown      FieldType = ""
	FieldTypeString       FieldType = "string"
	FieldTypeText         FieldType = "text"
	FieldTypeColor        FieldType = "color"
	FieldTypeFile         FieldType = "file"
	FieldTypeFileV2       FieldType = "fileV2"
	FieldTypeNumber       FieldType = "number"
	FieldTypeBoolean      FieldType = "boolean"
	FieldTypeToggle       FieldType = "toggle"
	FieldTypeDate         FieldType = "date"
	FieldTypeDatetime     FieldType = "datetime"
	FieldTypeTime         FieldType = "time"
	FieldTypeSelect       FieldType = "select"
	FieldTypeMultiselect  FieldType = "multiselect"
	FieldTypeArray        FieldType = "array"
	FieldTypeSubForm      FieldType = "subForm"
	FieldTypeEmail        FieldType = "email"
	FieldTypeTel          FieldType = "tel"
	FieldTypeRadio        FieldType = "radio"
	FieldTypeURL          FieldType = "url"
	FieldTypeCaptcha      FieldType = "captcha"
	FieldTypeSignature    FieldType = "signature"
	FieldTypeRating       FieldType = "rating"
	FieldTypeScale        FieldType = "scale"
	FieldTypeHeader       FieldType = "header"
	FieldTypeImage        FieldType = "image"
	FieldTypeParagraph    FieldType = "paragraph"
	FieldTypeUploadToBase FieldType = "uploadToBase"
)

var knownFieldTypes = map[FieldType]struct{}{
	FieldTypeString:       {},
	FieldTypeText:         {},
	FieldTypeColor:        {},
	FieldTypeFile:         {},
	FieldTypeFileV2:       {},
	FieldTypeNumber:       {},
	FieldTypeBoolean:      {},
	FieldTypeToggle:       {},
	FieldTypeDate:         {},
	FieldTypeDatetime:     {},
	FieldTypeTime:         {},
	FieldTypeSelect:       {},
	FieldTypeMultiselect:  {},
	FieldTypeArray:        {},
	FieldTypeSubForm:      {},
	FieldTypeEmail:        {},
	FieldTypeTel:          {},
	FieldTypeRadio:        {},
	FieldTypeURL:          {},
	FieldTypeCaptcha:      {},
	FieldTypeSignature:    {},
	FieldTypeRating:       {},
	FieldTypeScale:        {},
	FieldTypeHeader:       {},
	FieldTypeImage:        {},
	FieldTypeParagraph:    {},
	FieldTypeUploadToBase: {},
}

// Known reports whether t is one of the declared type tags.
func (t FieldType) Known() bool {
	_, ok := knownFieldTypes[t]
	return ok
}

// ParseFieldType maps a raw tag onto the closed set, returning
// FieldTypeUnknown for anything unrecognised. Tags are case sensitive.
func ParseFieldType(raw string) FieldType {
	t := FieldType(raw)
	if t.Known() {
		return t
	}
	return FieldTypeUnknown
}

// FieldTypes lists every known tag in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeString, FieldTypeText, FieldTypeColor, FieldTypeFile, FieldTypeFileV2,
		FieldTypeNumber, FieldTypeBoolean, FieldTypeToggle, FieldTypeDate, FieldTypeDatetime,
		FieldTypeTime, FieldTypeSelect, FieldTypeMultiselect, FieldTypeArray, FieldTypeSubForm,
		FieldTypeEmail, FieldTypeTel, FieldTypeRadio, FieldTypeURL, FieldTypeCaptcha,
		FieldTypeSignature, FieldTypeRating, FieldTypeScale, FieldTypeHeader, FieldTypeImage,
		FieldTypeParagraph, FieldTypeUploadToBase,
	}
}

// DisplayOnly reports whether the type renders static content and never holds
// a value.
func (t FieldType) DisplayOnly() bool {
	switch t {
	case FieldTypeHeader, FieldTypeImage, FieldTypeParagraph:
		return true
	default:
		return false
	}
}

// ConditionTag names the predicate a Condition applies to its trigger value.
type ConditionTag string

const (
	WhenTrue        ConditionTag = "true"
	WhenFalse       ConditionTag = "false"
	WhenEmpty       ConditionTag = "empty"
	WhenNotEmpty    ConditionTag = "not empty"
	WhenNull        ConditionTag = "null"
	WhenNotNull     ConditionTag = "not null"
	WhenLessThan    ConditionTag = "less than"
	WhenGreaterThan ConditionTag = "greater than"
	WhenEqual       ConditionTag = "equal"
	WhenNotEqual    ConditionTag = "not equal"
	WhenBetween     ConditionTag = "between"
	WhenMatches     ConditionTag = "matches"
)

// Known reports whether the tag is one the evaluator understands. Unknown
// tags are legal in documents and always evaluate to false.
func (c ConditionTag) Known() bool {
	switch c {
	case WhenTrue, WhenFalse, WhenEmpty, WhenNotEmpty, WhenNull, WhenNotNull,
		WhenLessThan, WhenGreaterThan, WhenEqual, WhenNotEqual, WhenBetween, WhenMatches:
		return true
	default:
		return false
	}
}

// OperationTag names the arithmetic or string transform of a modifier rule.
type OperationTag string

const (
	OpAdd      OperationTag = "add"
	OpSubtract OperationTag = "subtract"
	OpMultiply OperationTag = "multiply"
	OpDivide   OperationTag = "divide"
	OpReplace  OperationTag = "replace"
	OpConcat   OperationTag = "concat"
)

// Known reports whether op is one of the supported operations.
func (op OperationTag) Known() bool {
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpReplace, OpConcat:
		return true
	default:
		return false
	}
}

// ModifierKind selects between plain arithmetic and percentage application.
type ModifierKind string

const (
	KindNumber  ModifierKind = "number"
	KindPercent ModifierKind = "percent"
)
