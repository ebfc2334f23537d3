package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formrules/pkg/schema"
)

// ErrorMapping splits a server error payload into messages keyed by dotted
// field path and messages that belong to the form as a whole.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping blanks and duplicates. Order is preserved.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return uniqueMessages(combined)
}

// MapErrorPayload resolves raw error paths ("/body/address/street",
// "$.lines[1].sku", "address.zip") against the field tree. Each path maps to
// the deepest declared field it reaches; paths that reach no field, and the
// conventional form-level keys, end up in Form so no message is lost.
func MapErrorPayload(fields []schema.Field, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		return mapping
	}

	known := make(map[string]struct{})
	collectFieldPaths(fields, "", known)

	for raw, messages := range payload {
		messages = uniqueMessages(messages)
		if len(messages) == 0 {
			continue
		}
		path := resolveErrorPath(raw, known)
		if path == "" {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[path] = append(mapping.Fields[path], messages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = uniqueMessages(mapping.Form)
	return mapping
}

func uniqueMessages(messages []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// resolveErrorPath returns the longest known field path reachable from raw, or
// "" when raw is form-level.
func resolveErrorPath(raw string, known map[string]struct{}) string {
	if isFormLevelKey(raw) {
		return ""
	}
	segments := splitErrorPath(raw)
	if len(segments) == 0 {
		return ""
	}

	unwrapped := dropWrapperSegments(segments)
	candidates := [][]string{
		segments,
		unwrapped,
		withoutIndexes(segments),
		withoutIndexes(unwrapped),
	}

	best, bestDepth := "", 0
	for _, candidate := range candidates {
		for end := len(candidate); end > bestDepth; end-- {
			path := strings.Join(candidate[:end], ".")
			if _, ok := known[path]; ok {
				best, bestDepth = path, end
				break
			}
		}
	}
	return best
}

func splitErrorPath(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)

	parts := strings.FieldsFunc(clean, func(r rune) bool { return r == '.' || r == '/' })
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		// JSON pointer escapes.
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		out = append(out, part)
	}
	return out
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
}

func dropWrapperSegments(segments []string) []string {
	for len(segments) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(segments[0])]; !ok {
			break
		}
		segments = segments[1:]
	}
	return segments
}

func withoutIndexes(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

// collectFieldPaths records every named field. subForm and array children are
// addressed through their parent's name; array row indexes are dropped.
func collectFieldPaths(fields []schema.Field, prefix string, dest map[string]struct{}) {
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		dest[path] = struct{}{}
		if len(field.Fields) > 0 {
			collectFieldPaths(field.Fields, path, dest)
		}
	}
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
