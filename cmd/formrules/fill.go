package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrules/pkg/render"
	"github.com/goliatone/go-formrules/pkg/renderers/tui"
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/upload"
)

func newFillCmd() *cobra.Command {
	var (
		dataPath   string
		driverName string
		uploadsDir string
		baseURL    string
		format     string
		outputPath string
	)
	cmd := &cobra.Command{
		Use:   "fill <document>",
		Short: "Fill a form interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := schema.LoadFile(args[0])
			if err != nil {
				return err
			}
			data, err := loadData(dataPath)
			if err != nil {
				return err
			}

			driver, err := tui.NewDriver(driverName, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts := []tui.Option{
				tui.WithPromptDriver(driver),
				tui.WithOutputFormat(tui.OutputFormat(format)),
			}
			if uploadsDir != "" {
				store, err := upload.NewDirStore(uploadsDir, upload.WithBaseURL(baseURL))
				if err != nil {
					return err
				}
				opts = append(opts, tui.WithUploadStore(store))
			}
			r, err := tui.New(opts...)
			if err != nil {
				return err
			}

			out, err := r.Render(cmd.Context(), render.Form{Title: doc.Title, Fields: doc.Fields, Data: data}, render.RenderOptions{})
			if errors.Is(err, tui.ErrAborted) {
				return fmt.Errorf("fill cancelled")
			}
			if err != nil {
				return err
			}

			w, closeFn, err := output(outputPath, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, string(out)); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&dataPath, "data", "", "JSON or YAML file with existing form data")
	fs.StringVar(&driverName, "driver", tui.DriverSurvey, "Prompt driver: survey or huh")
	fs.StringVar(&uploadsDir, "uploads", "", "Directory storing uploaded files")
	fs.StringVar(&baseURL, "uploads-url", "", "URL prefix for stored uploads")
	fs.StringVar(&format, "format", string(tui.OutputFormatJSON), "Output format: json, form or pretty")
	fs.StringVarP(&outputPath, "output", "o", "", "Output file (stdout if empty)")
	return cmd
}
