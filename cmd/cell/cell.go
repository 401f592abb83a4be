// Package cell provides the "cellkit cell" commands that write cell values.
package cell

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klytics/cellkit/internal/config"
	"github.com/klytics/cellkit/internal/writer"
)

// NewCommand returns the cell command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cell",
		Short: "Write values into workbook cells",
		Long: `Write text, numbers and timestamps into cells of an .xlsx workbook.

Every write is saved to disk before the command returns.

Example:
  cellkit cell write C5 42 --kind number --doc book.xlsx
  cellkit cell write R5C3 "hello" --notation r1c1 --sheet 2
  cellkit cell apply plan.yaml`,
	}

	cmd.AddCommand(newWriteCommand())
	cmd.AddCommand(newApplyCommand())

	return cmd
}

// loadSettings reads the config and builds writer options for cmd's flags.
func loadSettings(cmd *cobra.Command) (*config.Config, []writer.Option, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	return cfg, cfg.WriterOptions(verbose), nil
}

func pick(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

func noDocument() error {
	return fmt.Errorf("no document given — pass --doc <file.xlsx> or run 'cellkit config set document <file.xlsx>'")
}
