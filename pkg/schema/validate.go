package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

//go:embed fields.schema.json
var documentSchemaJSON []byte

var (
	documentSchemaOnce sync.Once
	documentSchema     *jsonschema.Resolved
	documentSchemaErr  error
)

// Issue is a single structural problem found while validating a document.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError reports every structural issue of a document.
type ValidationError struct {
	Source string
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "schema: invalid document"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("schema: %s is invalid: %s", e.Source, strings.Join(parts, "; "))
}

// DocumentSchema returns the JSON Schema that field documents are validated
// against.
func DocumentSchema() []byte {
	return append([]byte(nil), documentSchemaJSON...)
}

func resolvedDocumentSchema() (*jsonschema.Resolved, error) {
	documentSchemaOnce.Do(func() {
		var s jsonschema.Schema
		if err := json.Unmarshal(documentSchemaJSON, &s); err != nil {
			documentSchemaErr = fmt.Errorf("schema: decode document schema: %w", err)
			return
		}
		documentSchema, documentSchemaErr = s.Resolve(nil)
		if documentSchemaErr != nil {
			documentSchemaErr = fmt.Errorf("schema: resolve document schema: %w", documentSchemaErr)
		}
	})
	return documentSchema, documentSchemaErr
}

// Validate checks a decoded JSON value (maps, slices, float64, strings) against
// the document schema. A nil result means the instance is structurally valid.
func Validate(instance any) ([]Issue, error) {
	resolved, err := resolvedDocumentSchema()
	if err != nil {
		return nil, err
	}
	if err := resolved.Validate(instance); err != nil {
		return issuesFromError(err), nil
	}
	return nil, nil
}

func issuesFromError(err error) []Issue {
	var issues []Issue
	for _, line := range strings.Split(err.Error(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		issues = append(issues, Issue{Path: issuePath(line), Message: line})
	}
	return issues
}

// issuePath extracts the JSON pointer of "validating /a/b: ..." messages.
func issuePath(message string) string {
	rest, ok := strings.CutPrefix(message, "validating ")
	if !ok {
		return ""
	}
	pointer, _, ok := strings.Cut(rest, ":")
	if !ok || !strings.HasPrefix(pointer, "/") {
		return ""
	}
	return pointer
}
