package html

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formrules/internal/jsvalue"
	"github.com/goliatone/go-formrules/pkg/form"
	rendertemplate "github.com/goliatone/go-formrules/pkg/render/template"
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/widgets"
)

// widgetTemplates maps a widget variant to its template and, for plain
// inputs, the HTML input type.
var widgetTemplates = map[string]struct {
	template  string
	inputType string
}{
	widgets.WidgetInput:          {"input", "text"},
	widgets.WidgetEmail:          {"input", "email"},
	widgets.WidgetPhone:          {"input", "tel"},
	widgets.WidgetURL:            {"input", "url"},
	widgets.WidgetColor:          {"input", "color"},
	widgets.WidgetNumber:         {"input", "number"},
	widgets.WidgetDate:           {"input", "date"},
	widgets.WidgetDatetime:       {"input", "datetime-local"},
	widgets.WidgetTime:           {"input", "time"},
	widgets.WidgetTextarea:       {"textarea", ""},
	widgets.WidgetCheckbox:       {"checkbox", ""},
	widgets.WidgetToggle:         {"checkbox", ""},
	widgets.WidgetSelect:         {"select", ""},
	widgets.WidgetMultiselect:    {"select", ""},
	widgets.WidgetRadio:          {"radio", ""},
	widgets.WidgetFileUpload:     {"file", ""},
	widgets.WidgetImageBase64:    {"file", ""},
	widgets.WidgetMediaSelector:  {"media", ""},
	widgets.WidgetCaptcha:        {"placeholder", ""},
	widgets.WidgetSignature:      {"placeholder", ""},
	widgets.WidgetRating:         {"rating", ""},
	widgets.WidgetScale:          {"rating", ""},
	widgets.WidgetHeader:         {"header", ""},
	widgets.WidgetParagraph:      {"paragraph", ""},
	widgets.WidgetImage:          {"image", ""},
	widgets.WidgetSubform:        {"subform", ""},
	widgets.WidgetDynamicSubform: {"dynamic-subform", ""},
}

// fieldRenderer renders one form pass. It is not reused across renders.
type fieldRenderer struct {
	templates rendertemplate.TemplateRenderer
	policy    *bluemonday.Policy
	markdown  bool
	errors    map[string][]string

	multipart bool
}

func (r *fieldRenderer) renderAll(ctx context.Context, views []form.FieldView, prefix string) ([]string, error) {
	out := make([]string, 0, len(views))
	for _, view := range views {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		markup, err := r.render(ctx, view, joinPath(prefix, view.Name))
		if err != nil {
			return nil, err
		}
		if markup != "" {
			out = append(out, markup)
		}
	}
	return out, nil
}

func (r *fieldRenderer) render(ctx context.Context, view form.FieldView, path string) (string, error) {
	spec, ok := widgetTemplates[view.Widget]
	if !ok {
		// WidgetUnknown and unregistered custom variants render nothing.
		return "", nil
	}

	data := r.baseContext(view, path)
	data["input_type"] = spec.inputType

	switch view.Widget {
	case widgets.WidgetSubform:
		children, err := r.renderAll(ctx, view.Children, path)
		if err != nil {
			return "", err
		}
		data["children"] = children
	case widgets.WidgetDynamicSubform:
		rows := make([][]string, 0, len(view.Items))
		for idx, item := range view.Items {
			row, err := r.renderAll(ctx, item, joinPath(path, strconv.Itoa(idx)))
			if err != nil {
				return "", err
			}
			rows = append(rows, row)
		}
		data["rows"] = rows
	}

	control, err := r.templates.RenderTemplate("templates/widgets/"+spec.template, data)
	if err != nil {
		return "", fmt.Errorf("render %s widget for %q: %w", view.Widget, path, err)
	}

	data["control"] = control
	data["show_label"] = labelled(view.Widget)
	markup, err := r.templates.RenderTemplate("templates/field", data)
	if err != nil {
		return "", fmt.Errorf("render field %q: %w", path, err)
	}
	return markup, nil
}

func (r *fieldRenderer) baseContext(view form.FieldView, path string) map[string]any {
	field := view.Field
	display := jsvalue.String(view.Value)

	data := map[string]any{
		"path":        path,
		"id":          controlID(path),
		"title":       view.Title,
		"widget":      view.Widget,
		"width_class": view.WidthClass,
		"value":       display,
		"checked":     jsvalue.Truthy(view.Value),
		"disabled":    view.Disabled,
		"required":    field.Required,
		"placeholder": field.Placeholder,
		"description": field.Description,
		"folder":      field.Folder,
		"min":         formatBound(field.Min),
		"max":         formatBound(field.Max),
		"step":        formatBound(field.Step),
		"errors":      r.errorsFor(path),
	}

	switch view.Widget {
	case widgets.WidgetSelect, widgets.WidgetRadio:
		data["options"] = optionContext(field.Options, func(v any) bool {
			return jsvalue.String(v) == display
		})
	case widgets.WidgetMultiselect:
		selected := make(map[string]struct{})
		if items, ok := view.Value.([]any); ok {
			for _, item := range items {
				selected[jsvalue.String(item)] = struct{}{}
			}
		}
		data["multiple"] = true
		data["options"] = optionContext(field.Options, func(v any) bool {
			_, ok := selected[jsvalue.String(v)]
			return ok
		})
	case widgets.WidgetFileUpload:
		r.multipart = true
	case widgets.WidgetImageBase64:
		r.multipart = true
		data["accept"] = "image/*"
		data["preview"] = strings.HasPrefix(display, "data:image/")
	case widgets.WidgetRating:
		data["points"] = scalePoints(1, boundOr(field.Max, 5), view.Value, true)
	case widgets.WidgetScale:
		data["points"] = scalePoints(boundOr(field.Min, 1), boundOr(field.Max, 10), view.Value, false)
	case widgets.WidgetHeader:
		size := field.Size
		if size != "sm" && size != "lg" {
			size = "md"
		}
		data["size"] = size
		data["divider_above"] = field.DividerAbove
		data["divider_below"] = field.DividerBelow
		data["content"] = r.richText(field.Description)
	case widgets.WidgetParagraph:
		data["content"] = r.richText(field.Content)
	case widgets.WidgetImage:
		if field.Image != nil {
			data["src"] = safeURL(field.Image.Src)
			data["alt"] = field.Image.Alt
		}
	}
	return data
}

// richText sanitises author supplied markup, converting it from Markdown
// first when enabled.
func (r *fieldRenderer) richText(text string) string {
	if text == "" {
		return ""
	}
	if r.markdown {
		text = string(markdown.ToHTML([]byte(text), parser.NewWithExtensions(parser.CommonExtensions), nil))
	}
	return r.policy.Sanitize(text)
}

// errorsFor returns messages for path, plus those reported against the same
// path without array indexes.
func (r *fieldRenderer) errorsFor(path string) []string {
	if len(r.errors) == 0 {
		return nil
	}
	messages := append([]string(nil), r.errors[path]...)
	if plain := stripIndexes(path); plain != path {
		messages = append(messages, r.errors[plain]...)
	}
	return messages
}

func optionContext(options []schema.Option, selected func(any) bool) []map[string]any {
	out := make([]map[string]any, 0, len(options))
	for _, option := range options {
		out = append(out, map[string]any{
			"label":    option.Label,
			"value":    jsvalue.String(option.Value),
			"selected": selected(option.Value),
		})
	}
	return out
}

// scalePoints enumerates from..to. Rating stars up to the current value are
// marked active.
func scalePoints(from, to int, value any, cumulative bool) []map[string]any {
	current := jsvalue.Number(value)
	var out []map[string]any
	for n := from; n <= to; n++ {
		out = append(out, map[string]any{
			"value":    n,
			"selected": float64(n) == current,
			"active":   cumulative && float64(n) <= current,
		})
	}
	return out
}

// labelled reports whether the field chrome should print a <label>. Display
// blocks and fieldsets carry their own headings.
func labelled(widget string) bool {
	switch widget {
	case widgets.WidgetHeader, widgets.WidgetParagraph, widgets.WidgetImage,
		widgets.WidgetSubform, widgets.WidgetDynamicSubform:
		return false
	default:
		return true
	}
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return jsvalue.FormatNumber(*v)
}

func boundOr(v *float64, fallback int) int {
	if v == nil {
		return fallback
	}
	return int(*v)
}

// safeURL drops sources with a scheme other than http, https or an inline
// image.
func safeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "data:image/"), strings.HasPrefix(lower, "/"):
		return trimmed
	case strings.Contains(lower, ":"):
		return ""
	default:
		return trimmed
	}
}

func controlID(path string) string {
	return "fr-" + strings.ReplaceAll(path, ".", "-")
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func stripIndexes(path string) string {
	parts := strings.Split(path, ".")
	out := parts[:0]
	for _, part := range parts {
		if _, err := strconv.Atoi(part); err == nil {
			continue
		}
		out = append(out, part)
	}
	return strings.Join(out, ".")
}
