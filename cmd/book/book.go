// Package book provides the "cellkit book" commands for creating and
// reading workbooks.
package book

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klytics/cellkit/internal/output"
	"github.com/klytics/cellkit/internal/workbook"
)

// NewCommand returns the book command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Create and read .xlsx workbooks",
	}

	cmd.AddCommand(newNewCommand())
	cmd.AddCommand(newReadCommand())

	return cmd
}

func newNewCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new <file.xlsx>",
		Short: "Create an empty workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			path := args[0]
			if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
				return fmt.Errorf("expected an .xlsx file, got %q — use 'cellkit book new <file.xlsx>'", path)
			}
			if err := workbook.CreateFile(path, force); err != nil {
				return err
			}
			if jsonFlag {
				return output.PrintJSON("book new", map[string]string{"path": path})
			}
			fmt.Printf("Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func newReadCommand() *cobra.Command {
	var (
		sheetNumber int
		csvOutput   bool
	)

	cmd := &cobra.Command{
		Use:   "read <file.xlsx>",
		Short: "Print the contents of a workbook",
		Long:  "Reads an .xlsx file and prints its cells as a table, CSV or JSON. Pass '-' to read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			var wb *workbook.Workbook
			var err error
			if len(args) == 0 || args[0] == "-" {
				data, readErr := io.ReadAll(os.Stdin)
				if readErr != nil {
					return fmt.Errorf("could not read from stdin: %w", readErr)
				}
				if len(data) == 0 {
					return fmt.Errorf("no input provided — pass an .xlsx file path or pipe data to stdin")
				}
				wb, err = workbook.ReadBytes(data)
			} else {
				wb, err = workbook.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			if sheetNumber > 0 {
				sheet, err := wb.SheetAt(sheetNumber)
				if err != nil {
					return err
				}
				wb = &workbook.Workbook{Sheets: []workbook.Sheet{*sheet}}
			}

			switch {
			case jsonFlag:
				return output.PrintJSON("book read", wb.Sheets)
			case csvOutput:
				for _, sheet := range wb.Sheets {
					if len(wb.Sheets) > 1 {
						fmt.Fprintf(os.Stderr, "--- %s ---\n", sheet.Name)
					}
					fmt.Print(sheet.ToCSV())
				}
			default:
				for _, sheet := range wb.Sheets {
					output.PrintSheet(os.Stdout, sheet)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&sheetNumber, "sheet", "s", 0, "Read only this sheet number, from 1")
	cmd.Flags().BoolVar(&csvOutput, "csv", false, "Output as CSV")

	return cmd
}
