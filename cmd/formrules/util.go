package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formrules/pkg/schema"
)

// loadData reads a JSON or YAML mapping. An empty path yields nil.
func loadData(path string) (schema.FormData, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data %s: %w", path, err)
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse data %s: %w", path, err)
	}
	return schema.FormData(data), nil
}

// parseAssignment splits name=value. The value is read as a YAML scalar or
// flow collection, so 10 is a number, true a boolean and [a, b] a list.
func parseAssignment(raw string) (string, any, error) {
	name, text, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("invalid assignment %q, want name=value", raw)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return name, "", nil
	}
	var value any
	if err := yaml.Unmarshal([]byte(text), &value); err != nil {
		return name, text, nil
	}
	return name, value, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// output returns the writer for -o, falling back to fallback.
func output(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
