package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-formrules/pkg/openapi"
)

func newImportOpenAPICmd() *cobra.Command {
	var (
		operationID string
		mediaType   string
		outputPath  string
		list        bool
		maxDepth    int
	)
	cmd := &cobra.Command{
		Use:   "import-openapi <document|url>",
		Short: "Build a field document from an OpenAPI request body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, loaderOpts, err := openapiSource(args[0])
			if err != nil {
				return err
			}
			doc, err := openapi.Load(cmd.Context(), src, loaderOpts...)
			if err != nil {
				return err
			}

			if list {
				for _, op := range openapi.Operations(doc) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s %s\t%s\n", op.ID, op.Method, op.Path, op.Summary)
				}
				return nil
			}
			if operationID == "" {
				return fmt.Errorf("--operation is required (use --list to see operations)")
			}

			res, err := openapi.Import(doc, operationID, openapi.WithMediaType(mediaType), openapi.WithMaxDepth(maxDepth))
			if err != nil {
				return err
			}
			for _, path := range res.Skipped {
				logger.Warning("skipped property", path)
			}

			w, closeFn, err := output(outputPath, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := openapi.EncodeYAML(w, res.Document); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&operationID, "operation", "", "Operation id (or method:path) to import")
	fs.StringVar(&mediaType, "media-type", "", "Request body media type to read")
	fs.StringVarP(&outputPath, "output", "o", "", "Output file (stdout if empty)")
	fs.BoolVar(&list, "list", false, "List operations with a request body")
	fs.IntVar(&maxDepth, "max-depth", 8, "Maximum nesting of objects")
	return cmd
}

func openapiSource(raw string) (openapi.Source, []openapi.LoaderOption, error) {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		src, err := openapi.SourceFromURL(raw)
		if err != nil {
			return nil, nil, err
		}
		return src, []openapi.LoaderOption{openapi.WithHTTPClient(&http.Client{Timeout: 30 * time.Second})}, nil
	}
	return openapi.SourceFromFile(raw), nil, nil
}
