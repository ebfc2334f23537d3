package openapi

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formrules/pkg/schema"
)

// EncodeYAML writes doc as a field document that schema.Parse accepts.
func EncodeYAML(w io.Writer, doc schema.Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("openapi: encode document: %w", err)
	}
	return enc.Close()
}

// MarshalYAML is the byte slice form of EncodeYAML.
func MarshalYAML(doc schema.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeYAML(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
