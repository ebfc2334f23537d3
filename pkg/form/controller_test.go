package form_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/upload"
	"github.com/goliatone/go-formrules/pkg/widgets"
)

func orderFields() []schema.Field {
	return []schema.Field{
		{Name: "qty", Type: schema.FieldTypeNumber},
		{Name: "price", Type: schema.FieldTypeNumber, Modifiers: []schema.ModifierRule{
			{Target: "total", Type: schema.OpMultiply, When: schema.WhenGreaterThan, Value: 0},
		}},
		{Name: "total", Type: schema.FieldTypeNumber},
	}
}

type recorder struct {
	mu       sync.Mutex
	received []schema.FormData
}

func (r *recorder) record(data schema.FormData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received = append(r.received, data)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.received)
}

func TestController_MountInitialisesOnce(t *testing.T) {
	t.Parallel()

	fields := []schema.Field{
		{Name: "title", Type: schema.FieldTypeString},
		{Name: "agree", Type: schema.FieldTypeBoolean},
		{Name: "base", Type: schema.FieldTypeNumber, Default: 10, Modifiers: []schema.ModifierRule{
			{Target: "derived", Type: schema.OpAdd, When: schema.WhenGreaterThan, Value: 5},
		}},
		{Name: "derived", Type: schema.FieldTypeNumber, Default: 1},
		{Name: "intro", Type: schema.FieldTypeHeader},
	}
	rec := &recorder{}
	ctrl := form.New(fields, form.WithOnChange(rec.record))

	got, err := ctrl.Mount()
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	want := schema.FormData{"title": "", "agree": false, "base": 10, "derived": "6"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("initial data mismatch (-want +got):\n%s", diff)
	}
	if rec.count() != 1 {
		t.Fatalf("mount should publish once, got %d", rec.count())
	}

	if _, err := ctrl.Mount(); err != nil {
		t.Fatalf("second mount: %v", err)
	}
	if rec.count() != 1 {
		t.Fatalf("mounting populated data must not publish again")
	}
}

func TestController_MountKeepsSeededData(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	ctrl := form.New(orderFields(), form.WithData(schema.FormData{"qty": 3}), form.WithOnChange(rec.record))
	got, err := ctrl.Mount()
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if diff := cmp.Diff(schema.FormData{"qty": 3}, got); diff != "" {
		t.Fatalf("seeded data mismatch (-want +got):\n%s", diff)
	}
	if rec.count() != 0 {
		t.Fatalf("no publish expected for populated data")
	}
}

func TestController_EndToEnd(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	ctrl := form.New(orderFields(),
		form.WithData(schema.FormData{"qty": 2, "price": 5, "total": 0}),
		form.WithOnChange(rec.record),
	)

	got, err := ctrl.HandleChange(form.ChangeEvent{Target: &form.EventTarget{Name: "price", Value: 10, Type: "number"}})
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	want := schema.FormData{"qty": 2, "price": 10, "total": "0"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if rec.count() != 1 {
		t.Fatalf("expected one publish, got %d", rec.count())
	}
	if diff := cmp.Diff(want, rec.received[0]); diff != "" {
		t.Fatalf("published mapping mismatch (-want +got):\n%s", diff)
	}
	rec.received[0]["qty"] = 99
	if ctrl.Value()["qty"] != 2 {
		t.Fatalf("published mapping must be a copy")
	}
}

func TestChangeEvent_Normalize(t *testing.T) {
	t.Parallel()

	file := upload.File{Name: "a.png"}
	cases := []struct {
		name      string
		event     form.ChangeEvent
		wantName  string
		wantValue any
	}{
		{name: "direct", event: form.ChangeEvent{Name: "qty", Value: 4}, wantName: "qty", wantValue: 4},
		{name: "text target", event: form.ChangeEvent{Target: &form.EventTarget{Name: "title", Value: "hi", Type: "text"}}, wantName: "title", wantValue: "hi"},
		{name: "checkbox", event: form.ChangeEvent{Target: &form.EventTarget{Name: "agree", Value: "on", Type: "checkbox", Checked: true}}, wantName: "agree", wantValue: true},
		{name: "checkbox unchecked", event: form.ChangeEvent{Target: &form.EventTarget{Name: "agree", Value: "on", Type: "checkbox"}}, wantName: "agree", wantValue: false},
		{name: "file", event: form.ChangeEvent{Target: &form.EventTarget{Name: "doc", Value: "C:\\fake", Type: "file", Files: []upload.File{file}}}, wantName: "doc", wantValue: file},
		{name: "file without files", event: form.ChangeEvent{Target: &form.EventTarget{Name: "doc", Value: "C:\\fake", Type: "file"}}, wantName: "doc", wantValue: "C:\\fake"},
		{name: "target wins over direct", event: form.ChangeEvent{Name: "ignored", Value: 1, Target: &form.EventTarget{Name: "real", Value: 2}}, wantName: "real", wantValue: 2},
	}
	for _, tc := range cases {
		name, value := tc.event.Normalize()
		if name != tc.wantName || value != tc.wantValue {
			t.Fatalf("%s: got (%q, %#v), want (%q, %#v)", tc.name, name, value, tc.wantName, tc.wantValue)
		}
	}
}

func TestController_ChangeErrorLeavesDataUntouched(t *testing.T) {
	t.Parallel()

	fields := []schema.Field{
		{Name: "code", Modifiers: []schema.ModifierRule{{Target: "x", Type: schema.OpReplace, When: schema.WhenMatches, Value: "("}}},
		{Name: "x"},
	}
	rec := &recorder{}
	ctrl := form.New(fields, form.WithData(schema.FormData{"code": "a", "x": "1"}), form.WithOnChange(rec.record))

	if _, err := ctrl.HandleValue("code", "b"); err == nil {
		t.Fatalf("expected pattern error")
	}
	if diff := cmp.Diff(schema.FormData{"code": "a", "x": "1"}, ctrl.Value()); diff != "" {
		t.Fatalf("data changed on error (-want +got):\n%s", diff)
	}
	if rec.count() != 0 {
		t.Fatalf("failed cycles must not publish")
	}
}

func TestController_HandleNested(t *testing.T) {
	t.Parallel()

	fields := []schema.Field{
		{Name: "address", Type: schema.FieldTypeSubForm, Fields: []schema.Field{
			{Name: "street", Type: schema.FieldTypeString, Modifiers: []schema.ModifierRule{
				{Target: "label", Type: schema.OpReplace, When: schema.WhenNotEmpty, Value: "set", StrictString: true},
			}},
			{Name: "label", Type: schema.FieldTypeString},
		}},
	}
	ctrl := form.New(fields)
	if _, err := ctrl.Mount(); err != nil {
		t.Fatalf("mount: %v", err)
	}

	got, err := ctrl.HandleNested("address", "street", "Main St")
	if err != nil {
		t.Fatalf("nested change: %v", err)
	}
	want := schema.FormData{"address": map[string]any{"street": "Main St", "label": "set"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("nested result mismatch (-want +got):\n%s", diff)
	}

	if _, err := ctrl.HandleNested("ghost", "x", 1); err == nil {
		t.Fatalf("unknown parent should fail")
	}
}

func TestController_HandleNestedArrayRow(t *testing.T) {
	t.Parallel()

	fields := []schema.Field{
		{Name: "items", Type: schema.FieldTypeArray, Fields: []schema.Field{
			{Name: "qty", Type: schema.FieldTypeNumber, Modifiers: []schema.ModifierRule{
				{Target: "total", Type: schema.OpAdd, When: schema.WhenGreaterThan, Value: 3},
			}},
			{Name: "total", Type: schema.FieldTypeNumber},
		}},
	}
	rows := []any{
		map[string]any{"qty": 1, "total": 0},
		map[string]any{"qty": 2, "total": 0},
	}
	ctrl := form.New(fields, form.WithData(schema.FormData{"items": rows}))

	got, err := ctrl.HandleNested("items", "0.qty", 5)
	if err != nil {
		t.Fatalf("row change: %v", err)
	}
	want := schema.FormData{"items": []any{
		map[string]any{"qty": 5, "total": "3"},
		map[string]any{"qty": 2, "total": 0},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("row result mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"qty": 1, "total": 0}, rows[0]); diff != "" {
		t.Fatalf("seeded rows must not be mutated (-want +got):\n%s", diff)
	}
}

func TestController_HandleNestedTwoLevels(t *testing.T) {
	t.Parallel()

	fields := []schema.Field{
		{Name: "customer", Type: schema.FieldTypeSubForm, Fields: []schema.Field{
			{Name: "name", Type: schema.FieldTypeString},
			{Name: "billing", Type: schema.FieldTypeSubForm, Fields: []schema.Field{
				{Name: "street", Type: schema.FieldTypeString, Modifiers: []schema.ModifierRule{
					{Target: "line", Type: schema.OpConcat, When: schema.WhenNotEmpty, Value: "Ship to ", StrictString: true},
				}},
				{Name: "line", Type: schema.FieldTypeString},
			}},
		}},
	}
	ctrl := form.New(fields)
	if _, err := ctrl.Mount(); err != nil {
		t.Fatalf("mount: %v", err)
	}

	got, err := ctrl.HandleNested("customer", "billing.street", "Main St")
	if err != nil {
		t.Fatalf("nested change: %v", err)
	}
	want := schema.FormData{"customer": map[string]any{
		"name":    "",
		"billing": map[string]any{"street": "Main St", "line": "Ship to "},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("nested result mismatch (-want +got):\n%s", diff)
	}
}

func TestController_HandleNestedRejectsBadPaths(t *testing.T) {
	t.Parallel()

	fields := []schema.Field{
		{Name: "items", Type: schema.FieldTypeArray, Fields: []schema.Field{
			{Name: "qty", Type: schema.FieldTypeNumber},
		}},
		{Name: "note", Type: schema.FieldTypeString},
		{Name: "address", Type: schema.FieldTypeSubForm, Fields: []schema.Field{
			{Name: "street", Type: schema.FieldTypeString},
		}},
	}
	seed := schema.FormData{
		"items":   []any{map[string]any{"qty": 1}},
		"note":    "hi",
		"address": map[string]any{"street": ""},
	}
	ctrl := form.New(fields, form.WithData(seed))

	for _, tc := range []struct{ parent, path string }{
		{"items", "3.qty"},
		{"items", "x.qty"},
		{"items", "0"},
		{"note", "x"},
		{"address", "street.more"},
		{"address", "ghost.x"},
		{"address", "a..b"},
	} {
		if _, err := ctrl.HandleNested(tc.parent, tc.path, 9); err == nil {
			t.Fatalf("%s.%s: expected an error", tc.parent, tc.path)
		}
	}
	if diff := cmp.Diff(seed, ctrl.Value()); diff != "" {
		t.Fatalf("failed changes must leave data untouched (-want +got):\n%s", diff)
	}
}

func TestController_Upload(t *testing.T) {
	t.Parallel()

	fields := []schema.Field{
		{Name: "avatar", Type: schema.FieldTypeFile, Folder: "avatars", Modifiers: []schema.ModifierRule{
			{Target: "hasAvatar", Type: schema.OpReplace, When: schema.WhenNotEmpty, Value: 1},
		}},
		{Name: "hasAvatar", Type: schema.FieldTypeNumber},
	}

	var storedName, storedBody string
	store := upload.StoreFunc(func(_ context.Context, name string, r io.Reader) (string, error) {
		body, err := io.ReadAll(r)
		if err != nil {
			return "", err
		}
		storedName, storedBody = name, string(body)
		return "https://cdn.test/" + name, nil
	})

	ctrl := form.New(fields, form.WithUploadStore(store))
	got, err := ctrl.Upload(context.Background(), "avatar", upload.File{Name: "/tmp/me.png", Reader: strings.NewReader("png")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if storedName != "avatars/me.png" || storedBody != "png" {
		t.Fatalf("store received %q with %q", storedName, storedBody)
	}
	want := schema.FormData{"avatar": "https://cdn.test/avatars/me.png", "hasAvatar": "1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("upload result mismatch (-want +got):\n%s", diff)
	}
}

func TestController_UploadErrors(t *testing.T) {
	t.Parallel()

	ctrl := form.New(nil)
	if _, err := ctrl.Upload(context.Background(), "f", upload.File{Name: "a"}); !errors.Is(err, form.ErrNoUploadStore) {
		t.Fatalf("expected ErrNoUploadStore, got %v", err)
	}

	boom := errors.New("disk full")
	ctrl = form.New(nil, form.WithUploadStore(upload.StoreFunc(func(context.Context, string, io.Reader) (string, error) {
		return "", boom
	})))
	if _, err := ctrl.Upload(context.Background(), "f", upload.File{Name: "a"}); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestController_ConcurrentChangesSerialise(t *testing.T) {
	t.Parallel()

	fields := []schema.Field{
		{Name: "tick", Modifiers: []schema.ModifierRule{{Target: "count", Type: schema.OpAdd, When: schema.WhenTrue, Value: 1}}},
		{Name: "count", Type: schema.FieldTypeNumber},
	}
	rec := &recorder{}
	ctrl := form.New(fields, form.WithOnChange(rec.record))
	if _, err := ctrl.Mount(); err != nil {
		t.Fatalf("mount: %v", err)
	}

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ctrl.HandleValue("tick", true); err != nil {
				t.Errorf("change: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := ctrl.Value()["count"]; got != "50" {
		t.Fatalf("expected 50 serialised increments, got %#v", got)
	}
	if rec.count() != n+1 {
		t.Fatalf("expected %d publishes, got %d", n+1, rec.count())
	}
}

func TestController_SetFieldsAndValue(t *testing.T) {
	t.Parallel()

	ctrl := form.New(nil, form.WithWidgets(widgets.NewRegistry()))
	got, err := ctrl.SetFields(orderFields())
	if err != nil {
		t.Fatalf("set fields: %v", err)
	}
	if diff := cmp.Diff(schema.FormData{"qty": 0, "price": 0, "total": 0}, got); diff != "" {
		t.Fatalf("initial data mismatch (-want +got):\n%s", diff)
	}

	ctrl.SetValue(schema.FormData{"qty": 7})
	if ctrl.Value()["qty"] != 7 || len(ctrl.Fields()) != 3 {
		t.Fatalf("SetValue not applied: %#v", ctrl.Value())
	}
}
