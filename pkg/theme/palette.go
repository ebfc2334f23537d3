// Package theme resolves the colour palette handed to widget renderers. The
// palette starts from built-in defaults and is overlaid with caller overrides
// or with the tokens of a go-theme manifest selection.
package theme

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	gotheme "github.com/goliatone/go-theme"
	"golang.org/x/exp/maps"
)

// Palette keys understood by the built-in widgets.
const (
	KeyTitle            = "title"
	KeyLabel            = "label"
	KeyInputText        = "inputText"
	KeyInputBackground  = "inputBackground"
	KeyInputBorder      = "inputBorder"
	KeyInputPlaceholder = "inputPlaceholder"
	KeyInputFocusBorder = "inputFocusBorder"
	KeyDescription      = "description"
	KeyError            = "error"
	KeyRequiredAsterisk = "requiredAsterisk"
	KeyRatingActive     = "ratingActive"
	KeyRatingInactive   = "ratingInactive"
	KeyRatingHover      = "ratingHover"
)

// Palette maps palette keys to CSS colour values.
type Palette map[string]string

// Default returns a fresh copy of the built-in palette.
func Default() Palette {
	return Palette{
		KeyTitle:            "#000",
		KeyLabel:            "#111",
		KeyInputText:        "#000",
		KeyInputBackground:  "#fff",
		KeyInputBorder:      "#ebebeb",
		KeyInputPlaceholder: "#888",
		KeyInputFocusBorder: "#020DF9",
		KeyDescription:      "#555",
		KeyError:            "#ff0000",
		KeyRequiredAsterisk: "#020DF9",
		KeyRatingActive:     "#020DF9",
		KeyRatingInactive:   "#8e8e8eff",
		KeyRatingHover:      "#5555ff",
	}
}

var canonicalKeys = func() map[string]string {
	out := make(map[string]string)
	for key := range Default() {
		out[foldKey(key)] = key
	}
	return out
}()

// Merge returns a copy of p overlaid with overrides. Override keys are matched
// case-insensitively and may use kebab or snake case ("input-text" sets
// inputText). Unknown keys are kept as given; empty values are ignored.
func (p Palette) Merge(overrides map[string]string) Palette {
	out := Palette(maps.Clone(map[string]string(p)))
	if out == nil {
		out = Palette{}
	}
	for key, value := range overrides {
		if strings.TrimSpace(value) == "" {
			continue
		}
		out[Canonical(key)] = value
	}
	return out
}

// Get returns the colour for key, or "" when unset.
func (p Palette) Get(key string) string {
	return p[Canonical(key)]
}

// Canonical maps a token name onto the palette key it overrides.
func Canonical(key string) string {
	if canonical, ok := canonicalKeys[foldKey(key)]; ok {
		return canonical
	}
	return key
}

// CSSVars derives CSS custom properties from the palette, e.g.
// "--fr-input-text". Keys are emitted in sorted order by CSSVarsStyle.
func (p Palette) CSSVars() map[string]string {
	out := make(map[string]string, len(p))
	for key, value := range p {
		out["--fr-"+kebab(key)] = value
	}
	return out
}

// CSSVarsStyle renders CSSVars as an inline style declaration list.
func (p Palette) CSSVarsStyle() string {
	vars := p.CSSVars()
	keys := maps.Keys(vars)
	sort.Strings(keys)
	var b strings.Builder
	for idx, key := range keys {
		if idx > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s: %s;", key, vars[key])
	}
	return b.String()
}

// FromManifest overlays the default palette with a go-theme manifest's tokens
// and, when variant names one of its variants, the variant's tokens.
func FromManifest(manifest *gotheme.Manifest, variant string) Palette {
	palette := Default()
	if manifest == nil {
		return palette
	}
	palette = palette.Merge(manifest.Tokens)
	if variant != "" {
		if v, ok := manifest.Variants[variant]; ok {
			palette = palette.Merge(v.Tokens)
		}
	}
	return palette
}

// FromSelection resolves the palette of a go-theme selection.
func FromSelection(selection *gotheme.Selection) Palette {
	if selection == nil {
		return Default()
	}
	return FromManifest(selection.Manifest, selection.Variant)
}

// FromRendererConfig overlays the default palette with renderer tokens.
func FromRendererConfig(cfg *gotheme.RendererConfig) Palette {
	if cfg == nil {
		return Default()
	}
	return Default().Merge(cfg.Tokens)
}

// Select asks selector for a theme and variant and resolves the palette.
func Select(selector gotheme.ThemeSelector, name, variant string) (Palette, error) {
	if selector == nil {
		return nil, fmt.Errorf("theme: selector is nil")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("theme: select %q/%q: %w", name, variant, err)
	}
	return FromSelection(selection), nil
}

// RendererConfig builds the go-theme renderer configuration for a palette so
// renderers that already consume go-theme settings receive the same colours.
func (p Palette) RendererConfig(name, variant string) *gotheme.RendererConfig {
	return &gotheme.RendererConfig{
		Theme:   name,
		Variant: variant,
		Tokens:  maps.Clone(map[string]string(p)),
		CSSVars: p.CSSVars(),
	}
}

func foldKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		if r == '-' || r == '_' || r == ' ' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func kebab(key string) string {
	var b strings.Builder
	for idx, r := range key {
		if unicode.IsUpper(r) {
			if idx > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
