package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
)

// huhDriver runs every prompt as a one-field huh form.
type huhDriver struct {
	out   io.Writer
	theme *huh.Theme
}

func newHuhDriver(out io.Writer) *huhDriver {
	return &huhDriver{out: out, theme: huh.ThemeBase16()}
}

func (d *huhDriver) run(ctx context.Context, field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).WithTheme(d.theme).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

func (d *huhDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	value := cfg.Default
	field := huh.NewInput().
		Title(cfg.Message).
		Description(cfg.Help).
		Placeholder(cfg.Placeholder).
		Value(&value)
	if err := d.run(ctx, field); err != nil {
		return "", err
	}
	return value, nil
}

func (d *huhDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	value := cfg.Default
	field := huh.NewConfirm().
		Title(cfg.Message).
		Description(cfg.Help).
		Affirmative("Yes").
		Negative("No").
		Value(&value)
	if err := d.run(ctx, field); err != nil {
		return false, err
	}
	return value, nil
}

func (d *huhDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	value := cfg.DefaultIndex
	options := make([]huh.Option[int], 0, len(cfg.Options))
	for idx, label := range cfg.Options {
		options = append(options, huh.NewOption(label, idx))
	}
	field := huh.NewSelect[int]().
		Title(cfg.Message).
		Description(cfg.Help).
		Options(options...).
		Value(&value)
	if cfg.PageSize > 0 {
		field = field.Height(cfg.PageSize)
	}
	if err := d.run(ctx, field); err != nil {
		return 0, err
	}
	return value, nil
}

func (d *huhDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	selected := make(map[int]bool, len(cfg.Defaults))
	for _, idx := range cfg.Defaults {
		selected[idx] = true
	}
	options := make([]huh.Option[int], 0, len(cfg.Options))
	for idx, label := range cfg.Options {
		options = append(options, huh.NewOption(label, idx).Selected(selected[idx]))
	}

	var value []int
	field := huh.NewMultiSelect[int]().
		Title(cfg.Message).
		Description(cfg.Help).
		Options(options...).
		Value(&value)
	if err := d.run(ctx, field); err != nil {
		return nil, err
	}
	return value, nil
}

func (d *huhDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	value := cfg.Default
	field := huh.NewText().
		Title(cfg.Message).
		Description(cfg.Help).
		Value(&value)
	if err := d.run(ctx, field); err != nil {
		return "", err
	}
	return value, nil
}

func (d *huhDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}
