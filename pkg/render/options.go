package render

// RenderOptions carry per-request settings that do not belong to the form
// definition itself.
type RenderOptions struct {
	// Action and Method describe the submission target. Method defaults to
	// POST in renderers that emit a <form> element.
	Action string
	Method string
	// Errors maps dotted field paths to server-side messages. Use
	// MapErrorPayload to normalise raw payloads first.
	Errors map[string][]string
	// FormErrors are messages that could not be tied to a field.
	FormErrors []string
	// Hidden inputs emitted alongside the visible fields.
	Hidden map[string]string
	// ThemeName and ThemeVariant are echoed into markup as data attributes.
	ThemeName    string
	ThemeVariant string

	// Locale, Translator and OnMissing drive LocalizeForm. A nil Translator
	// disables localisation.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
	// Subset restricts the pass to part of the form.
	Subset FieldSubset
}

// Prepare localises f and applies the subset. Renderers call it before
// walking the views.
func Prepare(f *Form, options RenderOptions) {
	LocalizeForm(f, options)
	ApplySubset(f, options.Subset)
}
