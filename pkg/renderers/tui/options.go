package tui

import (
	"io"

	"github.com/goliatone/go-formrules/pkg/upload"
)

// OutputFormat selects the encoding of the data returned by Render.
type OutputFormat string

const (
	OutputFormatJSON           OutputFormat = "json"
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText writes one sorted "path=value" line per leaf,
	// with dotted paths for nested mappings and [i] for list items.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme prefixes the messages printed between prompts. ErrorPrefix marks
// rejected answers and errors passed in RenderOptions.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// SubmitTransformer rewrites the collected data, hidden inputs included,
// before it is encoded.
type SubmitTransformer func(map[string]any) (map[string]any, error)

// Option configures a Renderer.
type Option func(*Renderer)

// WithPromptDriver replaces the survey driver, for example with the huh
// driver or a scripted one in tests.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat picks the encoding of Render's result.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithUploadStore lets file fields store the file found at the entered path.
// Without a store the path itself becomes the value.
func WithUploadStore(store upload.Store) Option {
	return func(r *Renderer) {
		r.store = store
	}
}

// WithOutput redirects the messages of the default driver.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.out = w
		}
	}
}

// WithSubmitTransformer installs fn.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme sets the message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
