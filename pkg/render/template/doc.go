// Package template defines the engine-agnostic template contract used by the
// markup renderers. The pongo sub-package provides the pongo2 implementation.
package template
