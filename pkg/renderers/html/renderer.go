// Package html renders a form view as server-side HTML using pongo2
// templates, one template per widget variant. Colours come from the render
// palette as CSS custom properties on the <form> element.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-formrules/pkg/render"
	rendertemplate "github.com/goliatone/go-formrules/pkg/render/template"
	"github.com/goliatone/go-formrules/pkg/render/template/pongo"
	"github.com/goliatone/go-formrules/pkg/theme"
)

// Name is the registry key of the HTML renderer.
const Name = "html"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	policy           *bluemonday.Policy
	inlineStyles     bool
	markdown         bool
	globals          map[string]any
}

// WithTemplatesFS supplies an alternate template bundle. It must contain a
// templates/ directory laid out like TemplatesFS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads the template bundle from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithPolicy replaces the sanitiser applied to header and paragraph content.
// The default is bluemonday.UGCPolicy.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithTemplateFuncs exposes funcs as template globals, for example the
// helpers returned by render.TemplateI18nFuncs. It has no effect together
// with WithTemplateRenderer.
func WithTemplateFuncs(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.globals[name] = fn
		}
	}
}

// WithMarkdown treats paragraph content and header descriptions as Markdown.
// The generated HTML still goes through the sanitiser.
func WithMarkdown() Option {
	return func(cfg *config) {
		cfg.markdown = true
	}
}

// WithInlineStylesheet embeds the bundled stylesheet in a <style> element.
func WithInlineStylesheet() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// Renderer renders render.Form values to HTML.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	policy       *bluemonday.Policy
	inlineStyles bool
	markdown     bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}

	engine := cfg.templateRenderer
	if engine == nil {
		pongoEngine, err := pongo.New(pongo.WithFS(cfg.templateFS), pongo.WithGlobalData(cfg.globals))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		engine = pongoEngine
	}

	return &Renderer{
		templates:    engine,
		policy:       cfg.policy,
		inlineStyles: cfg.inlineStyles,
		markdown:     cfg.markdown,
	}, nil
}

// Name implements render.Renderer.
func (r *Renderer) Name() string {
	return Name
}

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render implements render.Renderer.
func (r *Renderer) Render(ctx context.Context, f render.Form, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	render.Prepare(&f, options)

	fr := &fieldRenderer{
		templates: r.templates,
		policy:    r.policy,
		markdown:  r.markdown,
		errors:    options.Errors,
	}
	fields, err := fr.renderAll(ctx, f.Views, "")
	if err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}

	palette := f.Palette
	if palette == nil {
		palette = theme.Default()
	}
	method := strings.ToUpper(strings.TrimSpace(options.Method))
	if method == "" {
		method = "POST"
	}

	hidden := make([]map[string]any, 0, len(options.Hidden))
	for _, h := range render.SortedHiddenFields(options.Hidden) {
		hidden = append(hidden, map[string]any{"name": h.Name, "value": h.Value})
	}

	data := map[string]any{
		"title":       f.Title,
		"action":      options.Action,
		"method":      method,
		"multipart":   fr.multipart,
		"style":       palette.CSSVarsStyle(),
		"theme":       options.ThemeName,
		"variant":     options.ThemeVariant,
		"hidden":      hidden,
		"form_errors": render.MergeFormErrors(options.FormErrors),
		"fields":      fields,
	}
	if r.inlineStyles {
		data["stylesheet"] = defaultStylesheet()
	}

	out, err := r.templates.RenderTemplate("templates/form", data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render form: %w", err)
	}
	if logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("html renderer: %d fields, %d bytes", len(f.Views), len(out)))
	}
	return []byte(out), nil
}
