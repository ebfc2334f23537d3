package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrules/pkg/form"
	"github.com/goliatone/go-formrules/pkg/schema"
)

func newInitCmd() *cobra.Command {
	var dataPath string
	cmd := &cobra.Command{
		Use:   "init <document>",
		Short: "Print the initial form data of a document as JSON",
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
			initial, err := form.New(doc.Fields, form.WithData(data)).Mount()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), initial)
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "JSON or YAML file with existing form data")
	return cmd
}
