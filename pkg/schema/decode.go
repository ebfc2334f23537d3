package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formrules/internal/jsvalue"
)

// UnmarshalJSON accepts either the object form of a condition or the
// shorthand string form understood by ParseCondition.
func (c *Condition) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		parsed, err := ParseCondition(text)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	type plain Condition
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*c = Condition(out)
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML documents.
func (c *Condition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var text string
		if err := node.Decode(&text); err != nil {
			return err
		}
		parsed, err := ParseCondition(text)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	type plain Condition
	var out plain
	if err := node.Decode(&out); err != nil {
		return err
	}
	*c = Condition(out)
	return nil
}

// UnmarshalJSON accepts a bare scalar as shorthand for an option whose label
// and value coincide.
func (o *Option) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		var value any
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*o = scalarOption(value)
		return nil
	}

	type plain Option
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*o = Option(out)
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML documents.
func (o *Option) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var value any
		if err := node.Decode(&value); err != nil {
			return err
		}
		*o = scalarOption(value)
		return nil
	case yaml.MappingNode:
		type plain Option
		var out plain
		if err := node.Decode(&out); err != nil {
			return err
		}
		*o = Option(out)
		return nil
	default:
		return fmt.Errorf("schema: option at line %d must be a scalar or a mapping", node.Line)
	}
}

func scalarOption(value any) Option {
	return Option{Label: jsvalue.String(value), Value: value}
}
