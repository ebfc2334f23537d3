package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a parsed field document.
type Document struct {
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`

	source Source
}

// Source returns the origin of the document. Documents built in memory report
// an inline source.
func (d Document) Source() Source {
	if d.source == nil {
		return SourceInline("")
	}
	return d.source
}

// Parse decodes a JSON or YAML payload, validates it against the document
// schema and returns the typed document. A bare list of fields is accepted as
// shorthand for {fields: [...]}.
func Parse(src Source, data []byte) (Document, error) {
	if src == nil {
		src = SourceInline("")
	}
	location := src.Location()
	if len(strings.TrimSpace(string(data))) == 0 {
		return Document{}, fmt.Errorf("schema: file %s is empty", location)
	}

	instance, err := decodeGeneric(data)
	if err != nil {
		return Document{}, fmt.Errorf("schema: parse %s: %w", location, err)
	}
	if list, ok := instance.([]any); ok {
		instance = map[string]any{"fields": list}
	}

	issues, err := Validate(instance)
	if err != nil {
		return Document{}, err
	}
	if len(issues) > 0 {
		return Document{}, &ValidationError{Source: location, Issues: issues}
	}

	normalised, err := json.Marshal(instance)
	if err != nil {
		return Document{}, fmt.Errorf("schema: parse %s: %w", location, err)
	}
	var doc Document
	if err := json.Unmarshal(normalised, &doc); err != nil {
		return Document{}, fmt.Errorf("schema: decode %s: %w", location, err)
	}
	doc.source = src
	return doc, nil
}

// LoadFile reads and parses a document from disk.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(SourceFromFile(path), data)
}

// LoadFS reads and parses a single document from fsys.
func LoadFS(fsys fs.FS, name string) (Document, error) {
	if fsys == nil {
		return Document{}, fmt.Errorf("schema: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Document{}, fmt.Errorf("schema: read %s: %w", name, err)
	}
	return Parse(SourceFromFS(name), data)
}

// LoadAll walks fsys and parses every JSON/YAML document it finds, in lexical
// order. The first failing document aborts the walk.
func LoadAll(fsys fs.FS) ([]Document, error) {
	if fsys == nil {
		return nil, nil
	}

	var docs []Document
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDocumentFile(path) {
			return nil
		}
		doc, err := LoadFS(fsys, path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func decodeGeneric(data []byte) (any, error) {
	var instance any
	if err := json.Unmarshal(data, &instance); err == nil {
		return instance, nil
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON or YAML: %w", err)
	}
	// Round-trip through JSON so numbers and maps match what encoding/json
	// produces and the validator sees one representation.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("unsupported YAML content: %w", err)
	}
	if err := json.Unmarshal(encoded, &instance); err != nil {
		return nil, err
	}
	return instance, nil
}

func isDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
