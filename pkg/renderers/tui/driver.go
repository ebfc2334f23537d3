package tui

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Driver names accepted by NewDriver.
const (
	DriverSurvey = "survey"
	DriverHuh    = "huh"
)

// InputConfig configures a single line text prompt.
type InputConfig struct {
	Message     string
	Default     string
	Help        string
	Placeholder string
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig configures a single or multi-select prompt.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Defaults     []int // multi-select only; indices into Options
	Help         string
	PageSize     int
}

// TextAreaConfig configures a multi-line text prompt.
type TextAreaConfig struct {
	Message string
	Default string
	Help    string
}

// PromptDriver abstracts the terminal toolkit so the fill loop can be tested
// without a terminal and callers can swap implementations.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

// NewDriver returns the named driver. Info messages go to out, or stdout when
// out is nil.
func NewDriver(name string, out io.Writer) (PromptDriver, error) {
	if out == nil {
		out = os.Stdout
	}
	switch name {
	case "", DriverSurvey:
		return newSurveyDriver(out), nil
	case DriverHuh:
		return newHuhDriver(out), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
}
