// Package cmd contains all CLI commands for the cellkit binary.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cmdaddress "github.com/klytics/cellkit/cmd/address"
	cmdaudit "github.com/klytics/cellkit/cmd/audit"
	"github.com/klytics/cellkit/cmd/book"
	"github.com/klytics/cellkit/cmd/cell"
	"github.com/klytics/cellkit/cmd/completion"
	cmdconfig "github.com/klytics/cellkit/cmd/config"
	cmdshell "github.com/klytics/cellkit/cmd/shell"
	"github.com/klytics/cellkit/cmd/version"
	cmdwatch "github.com/klytics/cellkit/cmd/watch"
	"github.com/klytics/cellkit/internal/config"
	"github.com/klytics/cellkit/internal/output"
)

var (
	jsonOutput bool
	verbose    bool
	noColor    bool
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cellkit",
		Short: "Write cells into .xlsx workbooks from the terminal",
		Long: `cellkit writes text, numbers and timestamps into .xlsx workbook cells.

Addresses are given in A1 ("C5") or R1C1 ("R5C3") notation. Every write is
saved to disk before the command returns, and writes to the same workbook
never interleave.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
				return
			}
			if cfg, err := config.Load(); err == nil && !cfg.Output.Color {
				color.NoColor = true
			}
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log writer activity to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")

	// Register subcommands
	rootCmd.AddCommand(cell.NewCommand())
	rootCmd.AddCommand(cmdaddress.NewCommand())
	rootCmd.AddCommand(book.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdshell.NewCommand())
	rootCmd.AddCommand(cmdaudit.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	code := output.ExitUserError
	var exitErr *output.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		if exitErr.Reported {
			os.Exit(code)
		}
	}
	if jsonOutput {
		output.PrintJSONError(rootCmd.Name(), err, code)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(code)
}
