package openapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/getkin/kin-openapi/openapi3"
)

// LoaderOptions configures Load. HTTP sources stay disabled until a client
// is supplied.
type LoaderOptions struct {
	FileSystem fs.FS
	HTTPClient *http.Client
	// Validate runs the kin-openapi document validator after loading.
	Validate bool
}

// LoaderOption mutates LoaderOptions.
type LoaderOption func(*LoaderOptions)

// WithFileSystem resolves SourceKindFS sources against files.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient enables URL sources using client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithValidation toggles document validation.
func WithValidation(enabled bool) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.Validate = enabled
	}
}

// Load reads and parses an OpenAPI 3 document, resolving local references.
func Load(ctx context.Context, src Source, options ...LoaderOption) (*openapi3.T, error) {
	if src == nil {
		return nil, errors.New("openapi: source is nil")
	}
	cfg := LoaderOptions{Validate: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx

	var (
		doc *openapi3.T
		err error
	)
	switch src.Kind() {
	case SourceKindFile:
		doc, err = loader.LoadFromFile(src.Location())
	case SourceKindFS:
		if cfg.FileSystem == nil {
			return nil, errors.New("openapi: filesystem is not configured")
		}
		var data []byte
		data, err = fs.ReadFile(cfg.FileSystem, src.Location())
		if err == nil {
			doc, err = loader.LoadFromData(data)
		}
	case SourceKindURL:
		if cfg.HTTPClient == nil {
			return nil, errors.New("openapi: http support disabled")
		}
		var u *url.URL
		u, err = url.Parse(src.Location())
		if err == nil {
			loader.IsExternalRefsAllowed = true
			loader.ReadFromURIFunc = openapi3.ReadFromHTTP(cfg.HTTPClient)
			doc, err = loader.LoadFromURI(u)
		}
	default:
		return nil, fmt.Errorf("openapi: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return nil, fmt.Errorf("openapi: load %s: %w", src.Location(), err)
	}

	if cfg.Validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate %s: %w", src.Location(), err)
		}
	}
	return doc, nil
}

// LoadData parses an in-memory document.
func LoadData(ctx context.Context, data []byte) (*openapi3.T, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document is empty")
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return doc, nil
}
