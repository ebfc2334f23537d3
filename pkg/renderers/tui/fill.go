package tui

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"mime"
	"net/mail"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formrules/internal/jsvalue"
	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/upload"
	"github.com/goliatone/go-formrules/pkg/widgets"
)

// scope is one level of fields being filled: the top-level form, a subForm
// or an array row. Views are re-read before every prompt so that answers
// given so far decide what is asked next.
type scope struct {
	fields []schema.Field
	path   string
	ctrl   *form.Controller
	views  func() ([]form.FieldView, error)
	commit func(name string, value any) error
	upload func(ctx context.Context, name string, file upload.File) error
}

func controllerScope(ctrl *form.Controller, fields []schema.Field, path string) *scope {
	return &scope{
		fields: fields,
		path:   path,
		ctrl:   ctrl,
		views:  ctrl.View,
		commit: func(name string, value any) error {
			_, err := ctrl.HandleValue(name, value)
			return err
		},
		upload: func(ctx context.Context, name string, file upload.File) error {
			_, err := ctrl.Upload(ctx, name, file)
			return err
		},
	}
}

// filler carries the state of one fill run.
type filler struct {
	*Renderer
	errors map[string][]string
}

func (f *filler) fill(ctx context.Context, sc *scope) error {
	for _, field := range sc.fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		views, err := sc.views()
		if err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		view, ok := findView(views, field.Name)
		if !ok {
			continue
		}
		if err := f.fillField(ctx, sc, view); err != nil {
			return err
		}
	}
	return nil
}

func (f *filler) fillField(ctx context.Context, sc *scope, view form.FieldView) error {
	fieldPath := joinKey(sc.path, view.Name)
	if view.Disabled {
		return f.info(ctx, fmt.Sprintf("%s: %s (disabled)", view.Title, jsvalue.String(view.Value)))
	}
	for _, msg := range f.errors[fieldPath] {
		if err := f.warn(ctx, fmt.Sprintf("%s: %s", view.Title, msg)); err != nil {
			return err
		}
	}

	switch view.Widget {
	case widgets.WidgetHeader:
		msg := view.Title
		if view.Field.Description != "" {
			msg += "\n" + f.plainText(view.Field.Description)
		}
		return f.info(ctx, msg)
	case widgets.WidgetParagraph:
		return f.info(ctx, f.plainText(view.Field.Content))
	case widgets.WidgetImage:
		if view.Field.Image == nil {
			return nil
		}
		return f.info(ctx, fmt.Sprintf("[image: %s] %s", view.Field.Image.Alt, view.Field.Image.Src))
	case widgets.WidgetCaptcha, widgets.WidgetSignature:
		return f.info(ctx, fmt.Sprintf("%s: not available in the terminal, skipped", view.Title))
	case widgets.WidgetSubform:
		return f.fillSubform(ctx, sc, view, fieldPath)
	case widgets.WidgetDynamicSubform:
		return f.fillArray(ctx, sc, view, fieldPath)
	case widgets.WidgetFileUpload:
		return f.fillUpload(ctx, sc, view, fieldPath)
	case widgets.WidgetImageBase64:
		return f.fillInlineImage(ctx, sc, view, fieldPath)
	}

	value, ok, err := f.prompt(ctx, view)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return f.commit(sc, view.Name, fieldPath, value)
}

func (f *filler) commit(sc *scope, name, fieldPath string, value any) error {
	if err := sc.commit(name, value); err != nil {
		return fmt.Errorf("tui: %s: %w", fieldPath, err)
	}
	return nil
}

// prompt asks for a scalar value. ok is false for variants the terminal has
// no prompt for.
func (f *filler) prompt(ctx context.Context, view form.FieldView) (any, bool, error) {
	field := view.Field
	switch view.Widget {
	case widgets.WidgetInput, widgets.WidgetEmail, widgets.WidgetPhone, widgets.WidgetURL,
		widgets.WidgetColor, widgets.WidgetDate, widgets.WidgetDatetime, widgets.WidgetTime,
		widgets.WidgetMediaSelector:
		value, err := f.promptText(ctx, view, jsvalue.String(view.Value), validatorFor(view.Widget))
		return value, err == nil, err
	case widgets.WidgetNumber:
		return f.promptNumber(ctx, view)
	case widgets.WidgetTextarea:
		for {
			value, err := f.driver.TextArea(ctx, TextAreaConfig{
				Message: view.Title,
				Default: jsvalue.String(view.Value),
				Help:    field.Description,
			})
			if err != nil {
				return nil, false, err
			}
			if field.Required && strings.TrimSpace(value) == "" {
				if err := f.warn(ctx, view.Title+": a value is required"); err != nil {
					return nil, false, err
				}
				continue
			}
			return value, true, nil
		}
	case widgets.WidgetCheckbox, widgets.WidgetToggle:
		value, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: view.Title,
			Default: jsvalue.Truthy(view.Value),
			Help:    field.Description,
		})
		return value, err == nil, err
	case widgets.WidgetSelect, widgets.WidgetRadio:
		if len(field.Options) == 0 {
			return nil, false, f.info(ctx, view.Title+": no options to choose from")
		}
		current := jsvalue.String(view.Value)
		idx, err := f.driver.Select(ctx, SelectConfig{
			Message:      view.Title,
			Options:      optionLabels(field.Options),
			DefaultIndex: optionIndex(field.Options, current),
			Help:         field.Description,
		})
		if err != nil {
			return nil, false, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return nil, false, nil
		}
		return field.Options[idx].Value, true, nil
	case widgets.WidgetMultiselect:
		if len(field.Options) == 0 {
			return nil, false, f.info(ctx, view.Title+": no options to choose from")
		}
		var defaults []int
		if items, ok := view.Value.([]any); ok {
			for _, item := range items {
				if idx := optionIndex(field.Options, jsvalue.String(item)); idx >= 0 {
					defaults = append(defaults, idx)
				}
			}
		}
		indices, err := f.driver.MultiSelect(ctx, SelectConfig{
			Message:  view.Title,
			Options:  optionLabels(field.Options),
			Defaults: defaults,
			Help:     field.Description,
		})
		if err != nil {
			return nil, false, err
		}
		selected := make([]any, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(field.Options) {
				selected = append(selected, field.Options[idx].Value)
			}
		}
		return selected, true, nil
	case widgets.WidgetRating:
		return f.promptPoints(ctx, view, 1, bound(field.Max, 5))
	case widgets.WidgetScale:
		return f.promptPoints(ctx, view, bound(field.Min, 1), bound(field.Max, 10))
	default:
		return nil, false, nil
	}
}

func (f *filler) promptText(ctx context.Context, view form.FieldView, initial string, validate func(string) error) (string, error) {
	for {
		raw, err := f.driver.Input(ctx, InputConfig{
			Message:     view.Title,
			Default:     initial,
			Help:        view.Field.Description,
			Placeholder: view.Field.Placeholder,
		})
		if err != nil {
			return "", err
		}
		raw = strings.TrimSpace(raw)
		switch {
		case raw == "" && view.Field.Required:
			err = errors.New("a value is required")
		case raw != "" && validate != nil:
			err = validate(raw)
		}
		if err == nil {
			return raw, nil
		}
		if err := f.warn(ctx, fmt.Sprintf("%s: %v", view.Title, err)); err != nil {
			return "", err
		}
	}
}

func (f *filler) promptNumber(ctx context.Context, view form.FieldView) (any, bool, error) {
	field := view.Field
	raw, err := f.promptText(ctx, view, jsvalue.String(view.Value), func(raw string) error {
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return errors.New("enter a number")
		}
		if field.Min != nil && n < *field.Min {
			return fmt.Errorf("must be at least %s", jsvalue.FormatNumber(*field.Min))
		}
		if field.Max != nil && n > *field.Max {
			return fmt.Errorf("must be at most %s", jsvalue.FormatNumber(*field.Max))
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if raw == "" {
		return "", true, nil
	}
	n, _ := strconv.ParseFloat(raw, 64)
	return n, true, nil
}

func (f *filler) promptPoints(ctx context.Context, view form.FieldView, from, to int) (any, bool, error) {
	if to < from {
		return nil, false, nil
	}
	labels := make([]string, 0, to-from+1)
	current := -1
	for n := from; n <= to; n++ {
		if float64(n) == jsvalue.Number(view.Value) {
			current = n - from
		}
		labels = append(labels, strconv.Itoa(n))
	}
	idx, err := f.driver.Select(ctx, SelectConfig{
		Message:      view.Title,
		Options:      labels,
		DefaultIndex: current,
		Help:         view.Field.Description,
	})
	if err != nil {
		return nil, false, err
	}
	if idx < 0 || idx >= len(labels) {
		return nil, false, nil
	}
	return from + idx, true, nil
}

// fillSubform prompts for the nested fields of a subForm. Inside a
// controller each answer goes through HandleNested; deeper levels get their
// own controller whose result is committed as a whole.
func (f *filler) fillSubform(ctx context.Context, sc *scope, view form.FieldView, fieldPath string) error {
	if err := f.info(ctx, view.Title); err != nil {
		return err
	}

	if sc.ctrl != nil {
		ctrl, parent := sc.ctrl, view.Name
		nested := &scope{
			fields: view.Field.Fields,
			path:   fieldPath,
			views: func() ([]form.FieldView, error) {
				views, err := ctrl.View()
				if err != nil {
					return nil, err
				}
				if v, ok := findView(views, parent); ok {
					return v.Children, nil
				}
				return nil, nil
			},
			commit: func(name string, value any) error {
				_, err := ctrl.HandleNested(parent, name, value)
				return err
			},
			upload: func(ctx context.Context, name string, file upload.File) error {
				if f.store == nil {
					return form.ErrNoUploadStore
				}
				child, _ := schema.Lookup(view.Field.Fields, name)
				ref, err := f.store.Put(ctx, path.Join(child.Folder, path.Base(file.Name)), file.Reader)
				if err != nil {
					return err
				}
				_, err = ctrl.HandleNested(parent, name, ref)
				return err
			},
		}
		return f.fill(ctx, nested)
	}

	sub := form.New(view.Field.Fields, form.WithData(asFormData(view.Value)), form.WithUploadStore(f.store))
	if _, err := sub.Mount(); err != nil {
		return fmt.Errorf("tui: %s: %w", fieldPath, err)
	}
	if err := f.fill(ctx, controllerScope(sub, view.Field.Fields, fieldPath)); err != nil {
		return err
	}
	return f.commit(sc, view.Name, fieldPath, map[string]any(sub.Value()))
}

// fillArray keeps the existing rows and offers to append new ones. The whole
// list is committed after every added row.
func (f *filler) fillArray(ctx context.Context, sc *scope, view form.FieldView, fieldPath string) error {
	var items []any
	if existing, ok := view.Value.([]any); ok {
		items = append(items, existing...)
	}
	if err := f.info(ctx, fmt.Sprintf("%s: %d item(s)", view.Title, len(items))); err != nil {
		return err
	}

	for {
		more, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Add an item to %s?", view.Title),
			Default: len(items) == 0,
		})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}

		rowPath := joinKey(fieldPath, strconv.Itoa(len(items)))
		row := form.New(view.Field.Fields, form.WithUploadStore(f.store))
		if _, err := row.Mount(); err != nil {
			return fmt.Errorf("tui: %s: %w", rowPath, err)
		}
		if err := f.fill(ctx, controllerScope(row, view.Field.Fields, rowPath)); err != nil {
			return err
		}
		items = append(items, map[string]any(row.Value()))
		if err := f.commit(sc, view.Name, fieldPath, append([]any(nil), items...)); err != nil {
			return err
		}
	}
}

// fillUpload asks for a local path. With a store the file is uploaded and
// the returned reference stored; otherwise the path is the value.
func (f *filler) fillUpload(ctx context.Context, sc *scope, view form.FieldView, fieldPath string) error {
	filePath, err := f.promptText(ctx, view, "", fileExists)
	if err != nil || filePath == "" {
		return err
	}
	if sc.upload == nil {
		return f.commit(sc, view.Name, fieldPath, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("tui: %s: %w", fieldPath, err)
	}
	defer file.Close()

	err = sc.upload(ctx, view.Name, upload.File{Name: filePath, Reader: file})
	if errors.Is(err, form.ErrNoUploadStore) {
		return f.commit(sc, view.Name, fieldPath, filePath)
	}
	if err != nil {
		return fmt.Errorf("tui: %s: %w", fieldPath, err)
	}
	return nil
}

// fillInlineImage reads an image file and stores it as a data URL.
func (f *filler) fillInlineImage(ctx context.Context, sc *scope, view form.FieldView, fieldPath string) error {
	filePath, err := f.promptText(ctx, view, "", func(raw string) error {
		if err := fileExists(raw); err != nil {
			return err
		}
		if !strings.HasPrefix(mime.TypeByExtension(filepath.Ext(raw)), "image/") {
			return errors.New("not an image file")
		}
		return nil
	})
	if err != nil || filePath == "" {
		return err
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("tui: %s: %w", fieldPath, err)
	}
	mediaType, _, _ := mime.ParseMediaType(mime.TypeByExtension(filepath.Ext(filePath)))
	dataURL := "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(raw)
	return f.commit(sc, view.Name, fieldPath, dataURL)
}

// plainText strips markup from display content.
func (f *filler) plainText(content string) string {
	return strings.TrimSpace(html.UnescapeString(f.text.Sanitize(content)))
}

func validatorFor(widget string) func(string) error {
	switch widget {
	case widgets.WidgetEmail:
		return func(raw string) error {
			if _, err := mail.ParseAddress(raw); err != nil {
				return errors.New("enter a valid email address")
			}
			return nil
		}
	case widgets.WidgetURL, widgets.WidgetMediaSelector:
		return func(raw string) error {
			u, err := url.ParseRequestURI(raw)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return errors.New("enter an absolute URL")
			}
			return nil
		}
	case widgets.WidgetColor:
		return func(raw string) error {
			hex := strings.TrimPrefix(raw, "#")
			if len(raw) == len(hex) || (len(hex) != 3 && len(hex) != 6 && len(hex) != 8) {
				return errors.New("enter a hex colour such as #1a2b3c")
			}
			if _, err := strconv.ParseUint(hex, 16, 64); err != nil {
				return errors.New("enter a hex colour such as #1a2b3c")
			}
			return nil
		}
	case widgets.WidgetDate:
		return timeLayout("2006-01-02")
	case widgets.WidgetDatetime:
		return timeLayout("2006-01-02T15:04")
	case widgets.WidgetTime:
		return timeLayout("15:04")
	default:
		return nil
	}
}

func timeLayout(layout string) func(string) error {
	return func(raw string) error {
		if _, err := time.Parse(layout, raw); err != nil {
			return fmt.Errorf("use the format %s", layout)
		}
		return nil
	}
}

func fileExists(raw string) error {
	info, err := os.Stat(raw)
	if err != nil {
		return errors.New("file not found")
	}
	if info.IsDir() {
		return errors.New("path is a directory")
	}
	return nil
}

func findView(views []form.FieldView, name string) (form.FieldView, bool) {
	for _, view := range views {
		if view.Name == name {
			return view, true
		}
	}
	return form.FieldView{}, false
}

func optionLabels(options []schema.Option) []string {
	out := make([]string, 0, len(options))
	for _, option := range options {
		label := option.Label
		if label == "" {
			label = jsvalue.String(option.Value)
		}
		out = append(out, label)
	}
	return out
}

func optionIndex(options []schema.Option, value string) int {
	for i, option := range options {
		if jsvalue.String(option.Value) == value {
			return i
		}
	}
	return -1
}

func bound(v *float64, fallback int) int {
	if v == nil {
		return fallback
	}
	return int(*v)
}

func asFormData(value any) schema.FormData {
	switch typed := value.(type) {
	case schema.FormData:
		return typed.Clone()
	case map[string]any:
		return schema.FormData(typed).Clone()
	default:
		return schema.FormData{}
	}
}
