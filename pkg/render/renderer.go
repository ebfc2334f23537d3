package render

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/theme"
)

// Renderer turns one render pass of a form into bytes (HTML, text, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, f Form, options RenderOptions) ([]byte, error)
}

// Form is the payload handed to renderers: the visible field views of a
// render pass, the data they were computed from and the resolved palette.
type Form struct {
	Title   string
	Views   []form.FieldView
	Data    schema.FormData
	Fields  []schema.Field
	Palette theme.Palette
}

// FromController snapshots ctrl into a Form. A nil palette falls back to
// theme.Default.
func FromController(title string, ctrl *form.Controller, palette theme.Palette) (Form, error) {
	if ctrl == nil {
		return Form{}, fmt.Errorf("render: controller is required")
	}
	views, err := ctrl.View()
	if err != nil {
		return Form{}, fmt.Errorf("render: build views: %w", err)
	}
	if palette == nil {
		palette = theme.Default()
	}
	return Form{
		Title:   title,
		Views:   views,
		Data:    ctrl.Value(),
		Fields:  ctrl.Fields(),
		Palette: palette,
	}, nil
}
