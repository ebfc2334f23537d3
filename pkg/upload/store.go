// Package upload defines the storage collaborator used by file fields. A Store
// persists an uploaded file and returns a reference string (a URL or a key)
// that becomes the field's value.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidName is returned for names that escape the store root.
var ErrInvalidName = errors.New("upload: invalid file name")

// Store persists uploaded files.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader) (string, error)
}

// StoreFunc adapts a function into a Store.
type StoreFunc func(ctx context.Context, name string, r io.Reader) (string, error)

// Put delegates to the underlying function.
func (fn StoreFunc) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	return fn(ctx, name, r)
}

// File is an upload handed to a form controller.
type File struct {
	Name   string
	Reader io.Reader
}

// Option configures a DirStore.
type Option func(*DirStore)

// WithBaseURL prefixes returned references, e.g. "https://cdn.example.com/u".
func WithBaseURL(base string) Option {
	return func(s *DirStore) {
		s.baseURL = strings.TrimRight(base, "/")
	}
}

// WithKeyFunc overrides how stored file names are generated. The default
// uses a random UUID.
func WithKeyFunc(fn func() string) Option {
	return func(s *DirStore) {
		if fn != nil {
			s.newKey = fn
		}
	}
}

// DirStore writes uploads beneath a local directory. The directory part of
// name (a field's folder) is kept; the file itself is renamed to a generated
// key with the original extension.
type DirStore struct {
	root    string
	baseURL string
	newKey  func() string
}

// NewDirStore constructs a DirStore rooted at root, creating it if needed.
func NewDirStore(root string, opts ...Option) (*DirStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("upload: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("upload: create root %s: %w", root, err)
	}
	s := &DirStore{root: root, newKey: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Put implements Store.
func (s *DirStore) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r == nil {
		return "", errors.New("upload: reader is nil")
	}

	clean := path.Clean("/" + filepath.ToSlash(name))[1:]
	if clean == "" || strings.HasSuffix(name, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	folder, base := path.Split(clean)
	key := path.Join(folder, s.newKey()+strings.ToLower(path.Ext(base)))

	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("upload: create folder for %s: %w", key, err)
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("upload: create %s: %w", key, err)
	}
	_, copyErr := io.Copy(out, &ctxReader{ctx: ctx, r: r})
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("upload: write %s: %w", key, errors.Join(copyErr, closeErr))
	}

	if s.baseURL != "" {
		return s.baseURL + "/" + key, nil
	}
	return key, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
