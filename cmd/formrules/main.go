// Command formrules loads field documents and drives the form engine from the
// command line: validation, change cycles, HTML rendering, interactive
// terminal fill and OpenAPI import.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/cobrau"
	"github.com/untillpro/goutils/logger"
)

var version = "dev"

var (
	red    func(a ...interface{}) string
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
)

func init() {
	red = color.New(color.FgRed).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
}

func main() {
	logger.PrintLine = printLogLine
	if err := execRootCmd(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

func execRootCmd(args []string) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	err := cobrau.ExecCommandAndCatchInterrupt(rootCmd)
	if err != nil {
		logger.Error(err)
	}
	return err
}

func newRootCmd() *cobra.Command {
	var verbose bool
	rootCmd := &cobra.Command{
		Use:           "formrules",
		Short:         "Dynamic form engine: conditions, modifiers and rendering",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLogLevel(logger.LogLevelVerbose)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.AddCommand(
		newValidateCmd(),
		newInitCmd(),
		newChangeCmd(),
		newRenderCmd(),
		newFillCmd(),
		newImportOpenAPICmd(),
	)
	return rootCmd
}

func printLogLine(level logger.TLogLevel, line string) {
	switch level {
	case logger.LogLevelError:
		fmt.Fprintln(os.Stderr, red(line))
	case logger.LogLevelWarning:
		fmt.Fprintln(os.Stderr, yellow(line))
	default:
		fmt.Fprintln(os.Stderr, line)
	}
}
