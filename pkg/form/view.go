package form

import (
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/visibility"
	"github.com/goliatone/go-formrules/pkg/widgets"
)

// FieldView is the render-ready projection of one visible field.
type FieldView struct {
	Field      schema.Field
	Name       string
	Title      string
	Value      any
	Disabled   bool
	Widget     string
	WidthClass string

	// Children holds the views of a subForm, computed against its nested
	// mapping.
	Children []FieldView
	// Items holds one row of views per element of an array field.
	Items [][]FieldView
}

// View runs a render pass over the current data: hidden fields are dropped
// and every remaining field is projected with its title, value, disabled
// state, widget and layout class. It is recomputed on every call.
func (c *Controller) View() ([]FieldView, error) {
	c.mu.RLock()
	fields, data := c.fields, c.data.Clone()
	c.mu.RUnlock()
	return BuildViews(fields, data, c.visibility, c.widgets, c.mobile)
}

// BuildViews projects fields against data. It is the stateless form of
// Controller.View.
func BuildViews(fields []schema.Field, data schema.FormData, eval visibility.Evaluator, reg *widgets.Registry, mobile bool) ([]FieldView, error) {
	if eval == nil {
		eval = &visibility.Conditions{}
	}
	if reg == nil {
		reg = widgets.NewRegistry()
	}

	views := make([]FieldView, 0, len(fields))
	for _, field := range fields {
		state, err := eval.Eval(field, data)
		if err != nil {
			return nil, err
		}
		if state.Hidden {
			continue
		}

		view := FieldView{
			Field:      field,
			Name:       field.Name,
			Title:      field.DisplayTitle(),
			Value:      valueFor(field, data),
			Disabled:   state.Disabled,
			Widget:     reg.Variant(field),
			WidthClass: WidthClass(field.EffectiveWidth(), mobile),
		}

		switch view.Widget {
		case widgets.WidgetSubform:
			nested := asFormData(view.Value)
			view.Children, err = BuildViews(field.Fields, nested, eval, reg, mobile)
			if err != nil {
				return nil, err
			}
		case widgets.WidgetDynamicSubform:
			if items, ok := view.Value.([]any); ok {
				for _, item := range items {
					row, err := BuildViews(field.Fields, asFormData(item), eval, reg, mobile)
					if err != nil {
						return nil, err
					}
					view.Items = append(view.Items, row)
				}
			}
		}

		views = append(views, view)
	}
	return views, nil
}

// valueFor returns data[name], then the declared default, then "".
func valueFor(field schema.Field, data schema.FormData) any {
	if v, ok := data[field.Name]; ok && v != nil {
		return v
	}
	if field.Default != nil {
		return field.Default
	}
	return ""
}

func asFormData(value any) schema.FormData {
	switch typed := value.(type) {
	case schema.FormData:
		return typed
	case map[string]any:
		return schema.FormData(typed)
	default:
		return schema.FormData{}
	}
}
