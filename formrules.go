// Package formrules is the top-level entry point of the form engine. It
// re-exports the common types and wires the packages under pkg/ for callers
// that want a document rendered or imported in one call.
package formrules

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/openapi"
	"github.com/goliatone/go-formrules/pkg/render"
	"github.com/goliatone/go-formrules/pkg/renderers/html"
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/theme"
	"github.com/goliatone/go-formrules/pkg/validation"
)

// Field aliases schema.Field.
type Field = schema.Field

// FormData aliases schema.FormData.
type FormData = schema.FormData

// Document aliases schema.Document.
type Document = schema.Document

// RenderOptions describes per-request overrides that renderers can use to
// prefill hidden inputs or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// FieldSubset aliases render.FieldSubset for callers rendering part of a
// form.
type FieldSubset = render.FieldSubset

// LoadDocument reads a JSON or YAML field document from disk.
func LoadDocument(path string) (Document, error) {
	return schema.LoadFile(path)
}

// NewController builds a form controller over fields. Call Mount before the
// first change.
func NewController(fields []Field, options ...form.Option) *form.Controller {
	return form.New(fields, options...)
}

// Initialize returns the empty data of fields.
func Initialize(fields []Field) FormData {
	return form.Initialize(fields)
}

// GenerateHTML mounts doc over data and renders it with the HTML renderer.
// The palette may be nil.
func GenerateHTML(ctx context.Context, doc Document, data FormData, palette theme.Palette, options RenderOptions, htmlOptions ...html.Option) ([]byte, error) {
	ctrl := form.New(doc.Fields, form.WithData(data))
	if _, err := ctrl.Mount(); err != nil {
		return nil, fmt.Errorf("formrules: mount: %w", err)
	}
	f, err := render.FromController(doc.Title, ctrl, palette)
	if err != nil {
		return nil, err
	}
	renderer, err := html.New(htmlOptions...)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, f, options)
}

// Validate checks submitted data against the visible, enabled fields of doc.
func Validate(doc Document, data FormData) (validation.Result, error) {
	return validation.Validate(doc.Fields, data)
}

// ImportOpenAPI loads src and converts the request body of operationID into
// a field document.
func ImportOpenAPI(ctx context.Context, src openapi.Source, operationID string, loaderOptions []openapi.LoaderOption, importOptions ...openapi.ImportOption) (openapi.Result, error) {
	doc, err := openapi.Load(ctx, src, loaderOptions...)
	if err != nil {
		return openapi.Result{}, err
	}
	return openapi.Import(doc, operationID, importOptions...)
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
