package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/validation"
)

func newValidateCmd() *cobra.Command {
	var (
		strict   bool
		dataPath string
	)
	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Validate a field document and, optionally, data submitted for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			doc, err := schema.LoadFile(args[0])
			if err != nil {
				var verr *schema.ValidationError
				if errors.As(err, &verr) {
					for _, issue := range verr.Issues {
						fmt.Fprintln(out, red("error:"), issue.String())
					}
				}
				return err
			}

			warnings := schema.Lint(doc.Fields)
			for _, w := range warnings {
				fmt.Fprintln(out, yellow("warning:"), w.String())
			}
			if strict && len(warnings) > 0 {
				return fmt.Errorf("%s: %d lint warning(s)", args[0], len(warnings))
			}
			logger.Verbose("validated", args[0])
			fmt.Fprintf(out, "%s %s: %d field(s)\n", green("ok"), args[0], len(doc.Fields))

			if dataPath == "" {
				return nil
			}
			data, err := loadData(dataPath)
			if err != nil {
				return err
			}
			result, err := validation.Validate(doc.Fields, data)
			if err != nil {
				return err
			}
			for _, issue := range result.Issues {
				fmt.Fprintf(out, "%s %s: %s\n", red("invalid:"), issue.Path, issue.Message)
			}
			if !result.Valid {
				return fmt.Errorf("%s: %d invalid value(s)", dataPath, len(result.Issues))
			}
			fmt.Fprintf(out, "%s %s\n", green("ok"), dataPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat lint warnings as errors")
	cmd.Flags().StringVar(&dataPath, "data", "", "JSON or YAML data file to check against the document")
	return cmd
}
