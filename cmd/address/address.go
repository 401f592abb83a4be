// Package address provides the "cellkit address" commands for converting
// cell addresses between notations.
package address

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	addr "github.com/klytics/cellkit/internal/address"
	"github.com/klytics/cellkit/internal/output"
)

// Conversion is one decoded address in every form.
type Conversion struct {
	Input  string `json:"input"`
	Valid  bool   `json:"valid"`
	A1     string `json:"a1,omitempty"`
	R1C1   string `json:"r1c1,omitempty"`
	Column int    `json:"column"`
	Row    int    `json:"row"`
}

// NewCommand returns the address command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Convert cell addresses between A1 and R1C1",
		Long: `Decode and encode cell addresses.

Coordinates are zero-based: A1 is column 0, row 0.

Example:
  cellkit address decode C5 AA100
  cellkit address decode R5C3 --from r1c1
  cellkit address encode 2 4`,
	}

	cmd.AddCommand(newDecodeCommand())
	cmd.AddCommand(newEncodeCommand())

	return cmd
}

// Convert decodes each input in notation n.
func Convert(inputs []string, n addr.Notation) []Conversion {
	out := make([]Conversion, 0, len(inputs))
	for _, in := range inputs {
		conv := Conversion{Input: in}
		if c, ok := addr.Decode(in, n); ok {
			conv.Valid = true
			conv.A1 = addr.EncodeA1(c)
			conv.R1C1 = addr.EncodeR1C1(c)
			conv.Column = c.Column
			conv.Row = c.Row
		}
		out = append(out, conv)
	}
	return out
}

func newDecodeCommand() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "decode <address> [address...]",
		Short: "Decode addresses into coordinates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			convs := Convert(args, addr.ParseNotation(from))
			invalid := 0
			for _, c := range convs {
				if !c.Valid {
					invalid++
				}
			}

			if jsonFlag {
				if err := output.PrintJSON("address decode", convs); err != nil {
					return err
				}
			} else {
				tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "INPUT\tA1\tR1C1\tCOLUMN\tROW\n")
				for _, c := range convs {
					if !c.Valid {
						fmt.Fprintf(tw, "%s\t(invalid %s address)\t\t\t\n", c.Input, addr.ParseNotation(from))
						continue
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", c.Input, c.A1, c.R1C1, c.Column, c.Row)
				}
				tw.Flush()
			}

			if invalid > 0 {
				return &output.ExitError{
					Code:     output.ExitUserError,
					Err:      fmt.Errorf("%d of %d addresses are invalid", invalid, len(convs)),
					Reported: jsonFlag,
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "a1", "Notation of the inputs: a1 or r1c1")
	return cmd
}

func newEncodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <column> <row>",
		Short: "Encode zero-based coordinates as addresses",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			col, err := strconv.Atoi(args[0])
			if err != nil || col < 0 {
				return fmt.Errorf("column must be a non-negative integer, got %q", args[0])
			}
			row, err := strconv.Atoi(args[1])
			if err != nil || row < 0 {
				return fmt.Errorf("row must be a non-negative integer, got %q", args[1])
			}

			c := addr.Coordinate{Column: col, Row: row}
			conv := Conversion{
				Input:  fmt.Sprintf("%d,%d", col, row),
				Valid:  true,
				A1:     addr.EncodeA1(c),
				R1C1:   addr.EncodeR1C1(c),
				Column: col,
				Row:    row,
			}

			if jsonFlag {
				return output.PrintJSON("address encode", conv)
			}
			fmt.Printf("%s  %s\n", conv.A1, conv.R1C1)
			return nil
		},
	}
}
