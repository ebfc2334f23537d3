package form

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-formrules/pkg/modifier"
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/upload"
	"github.com/goliatone/go-formrules/pkg/visibility"
	"github.com/goliatone/go-formrules/pkg/widgets"
)

// ErrNoUploadStore is returned by Upload when the controller has no store.
var ErrNoUploadStore = errors.New("form: no upload store configured")

// Option customises a Controller.
type Option func(*Controller)

// WithOnChange registers the callback that receives every published mapping.
// The callback runs synchronously inside the change cycle and must not call
// back into HandleChange, HandleValue or Upload.
func WithOnChange(fn func(schema.FormData)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// WithData seeds the controller with existing form data. Mount leaves
// non-empty data untouched.
func WithData(data schema.FormData) Option {
	return func(c *Controller) {
		c.data = data.Clone()
	}
}

// WithWidgets overrides the widget registry used by View.
func WithWidgets(reg *widgets.Registry) Option {
	return func(c *Controller) {
		if reg != nil {
			c.widgets = reg
		}
	}
}

// WithEngine overrides the modifier engine.
func WithEngine(engine *modifier.Engine) Option {
	return func(c *Controller) {
		if engine != nil {
			c.engine = engine
		}
	}
}

// WithVisibility overrides how hidden and disabled states are computed.
func WithVisibility(eval visibility.Evaluator) Option {
	return func(c *Controller) {
		if eval != nil {
			c.visibility = eval
		}
	}
}

// WithUploadStore configures the store used by Upload.
func WithUploadStore(store upload.Store) Option {
	return func(c *Controller) {
		c.store = store
	}
}

// WithMobile renders every field at full width.
func WithMobile(mobile bool) Option {
	return func(c *Controller) {
		c.mobile = mobile
	}
}

// Controller owns the form data of one form instance. It initialises the
// data once, runs the change cycle for every input and publishes a fresh copy
// of the mapping after each cycle. Change cycles are serialised; reads may
// happen concurrently.
type Controller struct {
	cycle sync.Mutex

	mu     sync.RWMutex
	fields []schema.Field
	data   schema.FormData

	onChange   func(schema.FormData)
	widgets    *widgets.Registry
	engine     *modifier.Engine
	visibility visibility.Evaluator
	store      upload.Store
	mobile     bool
}

// New constructs a Controller for fields.
func New(fields []schema.Field, options ...Option) *Controller {
	c := &Controller{
		fields:     fields,
		data:       schema.FormData{},
		widgets:    widgets.NewRegistry(),
		engine:     modifier.NewEngine(),
		visibility: &visibility.Conditions{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Mount performs the one-time initialisation: when the form data is empty it
// is built from field defaults, every modifier runs once and the result is
// published. Mounting populated data is a no-op.
func (c *Controller) Mount() (schema.FormData, error) {
	c.cycle.Lock()
	defer c.cycle.Unlock()
	return c.initialiseLocked()
}

// SetFields replaces the field list and re-runs the mount step.
func (c *Controller) SetFields(fields []schema.Field) (schema.FormData, error) {
	c.cycle.Lock()
	defer c.cycle.Unlock()

	c.mu.Lock()
	c.fields = fields
	c.mu.Unlock()
	return c.initialiseLocked()
}

func (c *Controller) initialiseLocked() (schema.FormData, error) {
	c.mu.RLock()
	fields, data := c.fields, c.data
	c.mu.RUnlock()

	if len(data) > 0 {
		return data.Clone(), nil
	}

	next, err := c.engine.ApplyAllOnce(fields, Initialize(fields))
	if err != nil {
		return nil, fmt.Errorf("form: initialise: %w", err)
	}
	if logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("form: initialised %d keys from %d fields", len(next), len(fields)))
	}
	return c.publishLocked(next), nil
}

// SetValue replaces the form data without running modifiers or publishing,
// the way a host pushes a stored submission back into the form.
func (c *Controller) SetValue(data schema.FormData) {
	c.cycle.Lock()
	defer c.cycle.Unlock()

	c.mu.Lock()
	c.data = data.Clone()
	c.mu.Unlock()
}

// Value returns a copy of the current form data.
func (c *Controller) Value() schema.FormData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Clone()
}

// Fields returns the field list.
func (c *Controller) Fields() []schema.Field {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fields
}

// HandleChange runs one change cycle: the event is normalised, merged into a
// copy of the current data, the changed field's modifiers run and the result
// is published. On error the data is left unchanged.
func (c *Controller) HandleChange(ev ChangeEvent) (schema.FormData, error) {
	name, value := ev.Normalize()
	return c.HandleValue(name, value)
}

// HandleValue is the direct form of HandleChange.
func (c *Controller) HandleValue(name string, value any) (schema.FormData, error) {
	c.cycle.Lock()
	defer c.cycle.Unlock()
	return c.changeLocked(name, value)
}

// HandleNested applies a change below the composite field named parent.
// fieldPath is dotted and descends through subForm fields by name and array
// rows by index, so "street", "0.qty" and "billing.street" are all valid.
// Every level runs its own modifiers against its own mapping, innermost
// first, before the parent value goes through the regular change cycle.
// Paths through non-composite values or missing rows fail without touching
// the data.
func (c *Controller) HandleNested(parent, fieldPath string, value any) (schema.FormData, error) {
	c.cycle.Lock()
	defer c.cycle.Unlock()

	c.mu.RLock()
	field, ok := schema.Lookup(c.fields, parent)
	current := c.data[parent]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("form: unknown field %q", parent)
	}

	segments := strings.Split(fieldPath, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("form: invalid path %q", parent+"."+fieldPath)
		}
	}
	next, err := c.mergeInto(field, current, segments, value, parent)
	if err != nil {
		return nil, err
	}
	return c.changeLocked(parent, next)
}

// mergeInto returns a copy of current, the value of the composite field,
// with value written at segments.
func (c *Controller) mergeInto(field schema.Field, current any, segments []string, value any, at string) (any, error) {
	switch field.Kind() {
	case schema.FieldTypeSubForm:
		return c.mergeRow(field.Fields, current, segments, value, at)
	case schema.FieldTypeArray:
		rows, ok := current.([]any)
		if !ok && current != nil {
			return nil, fmt.Errorf("form: %s holds %T, not a list of rows", at, current)
		}
		idx, err := strconv.Atoi(segments[0])
		if err != nil || idx < 0 || idx >= len(rows) {
			return nil, fmt.Errorf("form: %s has no row %q", at, segments[0])
		}
		if len(segments) == 1 {
			return nil, fmt.Errorf("form: %s.%d: a row change needs a field name", at, idx)
		}
		row, err := c.mergeRow(field.Fields, rows[idx], segments[1:], value, at+"."+segments[0])
		if err != nil {
			return nil, err
		}
		out := make([]any, len(rows))
		copy(out, rows)
		out[idx] = row
		return out, nil
	default:
		return nil, fmt.Errorf("form: %s is a %q field and has no nested values", at, field.RawType())
	}
}

// mergeRow writes value at segments inside the mapping current, whose keys
// are declared by fields, and runs the modifiers of the changed key.
func (c *Controller) mergeRow(fields []schema.Field, current any, segments []string, value any, at string) (map[string]any, error) {
	switch current.(type) {
	case nil, map[string]any, schema.FormData:
	default:
		return nil, fmt.Errorf("form: %s holds %T, not a mapping", at, current)
	}
	name := segments[0]
	next := value
	if len(segments) > 1 {
		child, ok := schema.Lookup(fields, name)
		if !ok {
			return nil, fmt.Errorf("form: unknown field %q", at+"."+name)
		}
		var err error
		if next, err = c.mergeInto(child, mapping(current)[name], segments[1:], value, at+"."+name); err != nil {
			return nil, err
		}
	}

	row := NestedChange(current, name, next)
	out, err := c.engine.ApplyForField(fields, row, name, next)
	if err != nil {
		return nil, fmt.Errorf("form: change %s.%s: %w", at, name, err)
	}
	return map[string]any(out), nil
}

// Upload stores file through the configured store and feeds the returned
// reference through the change cycle of the field name. A field's folder is
// used as the directory part of the stored name.
func (c *Controller) Upload(ctx context.Context, name string, file upload.File) (schema.FormData, error) {
	if c.store == nil {
		return nil, ErrNoUploadStore
	}

	c.mu.RLock()
	field, _ := schema.Lookup(c.fields, name)
	c.mu.RUnlock()

	ref, err := c.store.Put(ctx, path.Join(field.Folder, path.Base(file.Name)), file.Reader)
	if err != nil {
		return nil, fmt.Errorf("form: upload %s: %w", name, err)
	}
	if logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("form: stored %s for %s as %s", file.Name, name, ref))
	}
	return c.HandleValue(name, ref)
}

func (c *Controller) changeLocked(name string, value any) (schema.FormData, error) {
	c.mu.RLock()
	fields := c.fields
	next := c.data.Clone()
	c.mu.RUnlock()

	next[name] = value
	next, err := c.engine.ApplyForField(fields, next, name, value)
	if err != nil {
		return nil, fmt.Errorf("form: change %s: %w", name, err)
	}
	if logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("form: change %s = %v", name, value))
	}
	return c.publishLocked(next), nil
}

func (c *Controller) publishLocked(next schema.FormData) schema.FormData {
	c.mu.Lock()
	c.data = next
	c.mu.Unlock()

	if c.onChange != nil {
		c.onChange(next.Clone())
	}
	return next.Clone()
}
