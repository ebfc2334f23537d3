// Package tui fills a form interactively in the terminal. Every answer goes
// through the form controller's change cycle, so modifiers and visibility
// conditions apply between prompts exactly as they would in a browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/microcosm-cc/bluemonday"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/render"
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/upload"
)

// Name is the registry key of the terminal renderer.
const Name = "tui"

// Renderer prompts for field values and serializes the collected data.
type Renderer struct {
	driver            PromptDriver
	out               io.Writer
	outputFormat      OutputFormat
	store             upload.Store
	submitTransformer SubmitTransformer
	theme             Theme
	text              *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a renderer. The survey driver writing to stdout is used
// unless WithPromptDriver says otherwise.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		out:          os.Stdout,
		outputFormat: OutputFormatJSON,
		theme:        Theme{ErrorPrefix: "! "},
		text:         bluemonday.StrictPolicy(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		driver, err := NewDriver(DriverSurvey, r.out)
		if err != nil {
			return nil, err
		}
		r.driver = driver
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// Name implements render.Renderer.
func (r *Renderer) Name() string {
	return Name
}

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render mounts a controller over f.Fields and f.Data, prompts for every
// visible field and returns the serialized result. Hidden inputs from
// options are added to the submitted values and field errors are shown
// before the matching prompt.
func (r *Renderer) Render(ctx context.Context, f render.Form, options render.RenderOptions) ([]byte, error) {
	ctrl := form.New(f.Fields, form.WithData(f.Data), form.WithUploadStore(r.store))
	if _, err := ctrl.Mount(); err != nil {
		return nil, fmt.Errorf("tui: mount: %w", err)
	}

	if f.Title != "" {
		if err := r.driver.Info(ctx, f.Title); err != nil {
			return nil, err
		}
	}
	for _, msg := range render.MergeFormErrors(options.FormErrors) {
		if err := r.warn(ctx, msg); err != nil {
			return nil, err
		}
	}

	fl := &filler{Renderer: r, errors: options.Errors}
	if err := fl.fill(ctx, controllerScope(ctrl, ctrl.Fields(), "")); err != nil {
		return nil, err
	}

	values := map[string]any(ctrl.Value())
	for _, hidden := range render.SortedHiddenFields(options.Hidden) {
		values[hidden.Name] = hidden.Value
	}
	if r.submitTransformer != nil {
		transformed, err := r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
		values = transformed
	}
	if logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("tui renderer: collected %d values", len(values)))
	}
	return r.serialize(values)
}

// Fill prompts for the fields of a mounted controller and returns its data
// once every visible field has been answered.
func (r *Renderer) Fill(ctx context.Context, ctrl *form.Controller) (schema.FormData, error) {
	if ctrl == nil {
		return nil, errors.New("tui: controller is nil")
	}
	fl := &filler{Renderer: r}
	if err := fl.fill(ctx, controllerScope(ctrl, ctrl.Fields(), "")); err != nil {
		return nil, err
	}
	return ctrl.Value(), nil
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return jsonBytes(values)
	}
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) warn(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}
