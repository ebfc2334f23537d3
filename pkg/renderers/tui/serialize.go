package tui

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/goliatone/go-formrules/internal/jsvalue"
	"github.com/goliatone/go-formrules/pkg/schema"
)

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	if data, ok := value.(schema.FormData); ok {
		value = map[string]any(data)
	}
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			flatten(joinKey(prefix, key), val, out)
		}
	case []any:
		for idx, val := range v {
			switch val.(type) {
			case map[string]any, schema.FormData:
				flatten(fmt.Sprintf("%s.%d", prefix, idx), val, out)
				continue
			}
			out.Add(prefix+"[]", jsvalue.String(val))
		}
	default:
		out.Set(prefix, jsvalue.String(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	if data, ok := value.(schema.FormData); ok {
		value = map[string]any(data)
	}
	switch v := value.(type) {
	case map[string]any:
		keys := maps.Keys(v)
		slices.Sort(keys)
		for _, key := range keys {
			writePretty(b, joinKey(prefix, key), v[key])
		}
	case []any:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%s\n", prefix, jsvalue.String(v))
		}
	}
}

func jsonBytes(values map[string]any) ([]byte, error) {
	return json.Marshal(values)
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
