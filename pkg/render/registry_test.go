package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrules/pkg/render"
)

type titleRenderer struct{ name string }

func (r titleRenderer) Name() string        { return r.name }
func (r titleRenderer) ContentType() string { return "text/plain" }
func (r titleRenderer) Render(_ context.Context, f render.Form, _ render.RenderOptions) ([]byte, error) {
	return []byte(r.name + ":" + f.Title), nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := render.NewRegistry()
	if err := reg.Register(titleRenderer{name: "Text"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	reg.MustRegister(titleRenderer{name: "alt"})

	if err := reg.Register(titleRenderer{name: "text"}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := reg.Register(titleRenderer{}); err == nil {
		t.Fatalf("expected unnamed renderer to fail")
	}
	if diff := cmp.Diff([]string{"alt", "text"}, reg.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if !reg.Has("ALT") || reg.Has("") || reg.Has("pdf") {
		t.Fatalf("unexpected Has results")
	}

	out, contentType, err := reg.Render(context.Background(), "", render.Form{Title: "Order"}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "Text:Order" || contentType != "text/plain" {
		t.Fatalf("unexpected output %q (%s)", out, contentType)
	}

	if _, err := reg.Get("pdf"); !errors.Is(err, render.ErrUnknownRenderer) {
		t.Fatalf("expected ErrUnknownRenderer, got %v", err)
	}
}
