package form

import (
	"github.com/goliatone/go-formrules/pkg/upload"
)

// Input types with special value extraction.
const (
	InputCheckbox = "checkbox"
	InputFile     = "file"
)

// EventTarget mirrors the element that produced a change: its name, raw
// value, input type, checked state and selected files.
type EventTarget struct {
	Name    string
	Value   any
	Type    string
	Checked bool
	Files   []upload.File
}

// ChangeEvent is either a target-carrying event or the direct form that
// names the field and its new value.
type ChangeEvent struct {
	Target *EventTarget
	Name   string
	Value  any
}

// Normalize extracts the field name and value. Checkboxes yield their checked
// state; file inputs yield the first file when one is selected and the raw
// value otherwise.
func (ev ChangeEvent) Normalize() (string, any) {
	if ev.Target == nil {
		return ev.Name, ev.Value
	}

	target := ev.Target
	value := target.Value
	switch target.Type {
	case InputCheckbox:
		value = target.Checked
	case InputFile:
		if len(target.Files) > 0 {
			value = target.Files[0]
		}
	}
	return target.Name, value
}
