package cell

import (
	"github.com/spf13/cobra"

	"github.com/klytics/cellkit/internal/address"
	"github.com/klytics/cellkit/internal/entry"
	"github.com/klytics/cellkit/internal/output"
	"github.com/klytics/cellkit/internal/writer"
)

func newWriteCommand() *cobra.Command {
	var (
		docPath  string
		kindName string
		notation string
		sheet    int
	)

	cmd := &cobra.Command{
		Use:   "write <address> <value>",
		Short: "Write one value into a cell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			cfg, opts, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			doc := pick(docPath, cfg.Document)
			if doc == "" {
				return &output.ExitError{Code: output.ExitUserError, Err: noDocument()}
			}
			if sheet == 0 {
				sheet = cfg.Sheet
			}
			n := cfg.AddressNotation()
			if notation != "" {
				n = address.ParseNotation(notation)
			}

			kind, err := entry.ParseValueKind(kindName)
			if err != nil {
				return &output.ExitError{Code: output.ExitUserError, Err: err}
			}
			e, err := entry.New(args[1], kind, args[0],
				entry.WithNotation(n),
				entry.WithSheetNumber(sheet),
			)
			if err != nil {
				return &output.ExitError{Code: output.ExitUserError, Err: err}
			}

			w, rep := writer.Open(doc, opts...)
			defer w.Close()
			if rep.OK() {
				rep = w.Apply(e)
			}
			return output.EmitReport("cell write", jsonFlag, rep)
		},
	}

	cmd.Flags().StringVarP(&docPath, "doc", "d", "", "Workbook to write (default: config 'document')")
	cmd.Flags().StringVarP(&kindName, "kind", "k", "text", "Value kind: text, number, timestamp")
	cmd.Flags().StringVarP(&notation, "notation", "n", "", "Address notation: a1 or r1c1 (default: config 'notation')")
	cmd.Flags().IntVarP(&sheet, "sheet", "s", 0, "Sheet number, from 1 (default: config 'sheet')")

	return cmd
}
