package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrules/internal/jsvalue"
	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/modifier"
	"github.com/goliatone/go-formrules/pkg/schema"
)

func newChangeCmd() *cobra.Command {
	var (
		dataPath    string
		assignments []string
		trace       bool
	)
	cmd := &cobra.Command{
		Use:   "change <document>",
		Short: "Apply change events and print the resulting form data",
		Long: `Runs one change cycle per --set, in order. A dotted name such as
address.street changes a field of the subForm address.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := schema.LoadFile(args[0])
			if err != nil {
				return err
			}
			data, err := loadData(dataPath)
			if err != nil {
				return err
			}

			var opts []modifier.Option
			if trace {
				errOut := cmd.ErrOrStderr()
				opts = append(opts, modifier.WithTracer(func(f modifier.Firing) {
					fmt.Fprintf(errOut, "%s.modifiers[%d] %s %s: %s -> %s\n",
						f.Source, f.Rule, f.Op, f.Target, jsvalue.String(f.Before), f.After)
				}))
			}
			ctrl := form.New(doc.Fields, form.WithData(data), form.WithEngine(modifier.NewEngine(opts...)))
			if _, err := ctrl.Mount(); err != nil {
				return err
			}

			for _, raw := range assignments {
				name, value, err := parseAssignment(raw)
				if err != nil {
					return err
				}
				if parent, child, nested := strings.Cut(name, "."); nested {
					_, err = ctrl.HandleNested(parent, child, value)
				} else {
					_, err = ctrl.HandleValue(name, value)
				}
				if err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), ctrl.Value())
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "JSON or YAML file with existing form data")
	cmd.Flags().StringArrayVar(&assignments, "set", nil, "Change to apply as name=value (repeatable)")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print every fired modifier to stderr")
	return cmd
}
