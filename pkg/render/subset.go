package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/schema"
)

// FieldSubset selects part of a form for a render pass. A top-level view is
// kept when it matches any non-empty criterion. Sections name header fields:
// a section covers its header and every field up to the next header.
type FieldSubset struct {
	Names    []string
	Types    []string
	Sections []string
}

// Empty reports whether the subset has no criteria.
func (s FieldSubset) Empty() bool {
	return newSubsetMatcher(s).empty()
}

// ParseFieldSubset reads a comma separated or JSON list of tokens. Tokens of
// the form "type:<tag>" and "section:<name>" select by type and section, the
// rest select by field name.
func ParseFieldSubset(raw string) FieldSubset {
	var subset FieldSubset
	for _, token := range parseTokenList(raw) {
		switch {
		case strings.HasPrefix(token, "type:"):
			subset.Types = append(subset.Types, strings.TrimPrefix(token, "type:"))
		case strings.HasPrefix(token, "section:"):
			subset.Sections = append(subset.Sections, strings.TrimPrefix(token, "section:"))
		default:
			subset.Names = append(subset.Names, token)
		}
	}
	return subset
}

// ApplySubset drops the top-level views that do not match subset. An empty
// subset leaves the form unchanged. Nested views are never filtered.
func ApplySubset(f *Form, subset FieldSubset) {
	if f == nil {
		return
	}

	matcher := newSubsetMatcher(subset)
	if matcher.empty() {
		return
	}

	filtered := make([]form.FieldView, 0, len(f.Views))
	section := ""
	for _, view := range f.Views {
		if view.Field.Kind() == schema.FieldTypeHeader {
			section = normaliseToken(view.Name)
		}
		if matcher.matches(view, section) {
			filtered = append(filtered, view)
		}
	}
	f.Views = filtered
	if len(f.Views) == 0 {
		f.Views = nil
	}
}

type subsetMatcher struct {
	names    map[string]struct{}
	types    map[string]struct{}
	sections map[string]struct{}
}

func newSubsetMatcher(subset FieldSubset) subsetMatcher {
	return subsetMatcher{
		names:    normaliseTokens(subset.Names),
		types:    normaliseTokens(subset.Types),
		sections: normaliseTokens(subset.Sections),
	}
}

func (m subsetMatcher) empty() bool {
	return len(m.names) == 0 && len(m.types) == 0 && len(m.sections) == 0
}

func (m subsetMatcher) matches(view form.FieldView, section string) bool {
	if len(m.names) > 0 {
		if _, ok := m.names[normaliseToken(view.Name)]; ok {
			return true
		}
	}

	if len(m.types) > 0 {
		if _, ok := m.types[normaliseToken(view.Field.RawType())]; ok {
			return true
		}
	}

	if len(m.sections) > 0 && section != "" {
		if _, ok := m.sections[section]; ok {
			return true
		}
	}

	return false
}

func normaliseTokens(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	result := make(map[string]struct{}, len(values))
	for _, value := range values {
		token := normaliseToken(value)
		if token == "" {
			continue
		}
		result[token] = struct{}{}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func normaliseToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func parseTokenList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var parsed []any
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			tokens := make([]string, 0, len(parsed))
			for _, entry := range parsed {
				token := normaliseToken(anyToString(entry))
				if token != "" {
					tokens = append(tokens, token)
				}
			}
			return dedupe(tokens)
		}
	}

	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' })
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if token := normaliseToken(part); token != "" {
			tokens = append(tokens, token)
		}
	}
	return dedupe(tokens)
}

func anyToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
