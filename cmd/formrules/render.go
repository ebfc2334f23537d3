package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/render"
	"github.com/goliatone/go-formrules/pkg/renderers/html"
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/theme"
)

type renderFlags struct {
	dataPath     string
	errorsPath   string
	outputPath   string
	title        string
	action       string
	method       string
	themeName    string
	themeVariant string
	templatesDir string
	csrf         string
	only         string
	mobile       bool
	inlineCSS    bool
	markdown     bool
	palette      map[string]string
}

func newRenderCmd() *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Render a document as an HTML form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := schema.LoadFile(args[0])
			if err != nil {
				return err
			}
			data, err := loadData(flags.dataPath)
			if err != nil {
				return err
			}

			ctrl := form.New(doc.Fields, form.WithData(data), form.WithMobile(flags.mobile))
			if _, err := ctrl.Mount(); err != nil {
				return err
			}
			title := flags.title
			if title == "" {
				title = doc.Title
			}
			f, err := render.FromController(title, ctrl, theme.Default().Merge(flags.palette))
			if err != nil {
				return err
			}

			htmlOpts := []html.Option{html.WithTemplatesDir(flags.templatesDir)}
			if flags.inlineCSS {
				htmlOpts = append(htmlOpts, html.WithInlineStylesheet())
			}
			if flags.markdown {
				htmlOpts = append(htmlOpts, html.WithMarkdown())
			}
			renderer, err := html.New(htmlOpts...)
			if err != nil {
				return err
			}
			registry := render.NewRegistry()
			if err := registry.Register(renderer); err != nil {
				return err
			}

			options := render.RenderOptions{
				Action:       flags.action,
				Method:       flags.method,
				ThemeName:    flags.themeName,
				ThemeVariant: flags.themeVariant,
				Subset:       render.ParseFieldSubset(flags.only),
			}
			if flags.csrf != "" {
				options.Hidden = render.MergeHiddenFields(nil, render.CSRFToken("_csrf", flags.csrf))
			}
			if flags.errorsPath != "" {
				mapping, err := loadErrors(flags.errorsPath, doc.Fields)
				if err != nil {
					return err
				}
				options.Errors = mapping.Fields
				options.FormErrors = mapping.Form
			}

			out, contentType, err := registry.Render(cmd.Context(), html.Name, f, options)
			if err != nil {
				return err
			}

			w, closeFn, err := output(flags.outputPath, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if _, err := w.Write(out); err != nil {
				closeFn()
				return err
			}
			logger.Verbose(fmt.Sprintf("rendered %s (%s, %d bytes)", args[0], contentType, len(out)))
			return closeFn()
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&flags.dataPath, "data", "", "JSON or YAML file with form data")
	fs.StringVar(&flags.errorsPath, "errors", "", "JSON file mapping error paths to messages")
	fs.StringVarP(&flags.outputPath, "output", "o", "", "Output file (stdout if empty)")
	fs.StringVar(&flags.title, "title", "", "Form title (defaults to the document title)")
	fs.StringVar(&flags.action, "action", "", "Form action URL")
	fs.StringVar(&flags.method, "method", "post", "Form method")
	fs.StringVar(&flags.themeName, "theme", "", "Theme name exposed as data-theme")
	fs.StringVar(&flags.themeVariant, "variant", "", "Theme variant exposed as data-theme-variant")
	fs.StringVar(&flags.templatesDir, "templates", "", "Directory overriding the bundled templates")
	fs.StringVar(&flags.csrf, "csrf", "", "CSRF token embedded as the hidden _csrf input")
	fs.StringVar(&flags.only, "only", "", "Render a subset: names, type:<tag> or section:<header>, comma separated")
	fs.BoolVar(&flags.mobile, "mobile", false, "Render every field at full width")
	fs.BoolVar(&flags.inlineCSS, "inline-css", false, "Embed the default stylesheet")
	fs.BoolVar(&flags.markdown, "markdown", false, "Treat paragraph content as Markdown")
	fs.StringToStringVar(&flags.palette, "palette", nil, "Palette overrides as key=colour")
	return cmd
}

// loadErrors reads a {"path": ["message", ...]} document and resolves its
// keys against fields.
func loadErrors(path string, fields []schema.Field) (render.ErrorMapping, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return render.ErrorMapping{}, fmt.Errorf("read errors %s: %w", path, err)
	}
	var payload map[string][]string
	if err := json.Unmarshal(raw, &payload); err != nil {
		return render.ErrorMapping{}, fmt.Errorf("parse errors %s: %w", path, err)
	}
	return render.MapErrorPayload(fields, payload), nil
}
