// Package shell provides the "cellkit shell" interactive REPL command.
package shell

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klytics/cellkit/internal/config"
	shellpkg "github.com/klytics/cellkit/internal/shell"
	"github.com/klytics/cellkit/internal/writer"
)

// NewCommand creates the "shell" command.
func NewCommand() *cobra.Command {
	var (
		evalCmd string
		docPath string
	)

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive cellkit shell",
		Long: `Start an interactive REPL that keeps one workbook open between writes.

Type 'help' at the prompt for the list of commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			verbose, _ := cmd.Flags().GetBool("verbose")

			wr := writer.New(cfg.WriterOptions(verbose)...)
			defer wr.Close()

			session := shellpkg.NewSession(wr)
			session.Notation = cfg.AddressNotation()
			if cfg.Sheet > 0 {
				session.Sheet = cfg.Sheet
			}
			if docPath == "" {
				docPath = cfg.Document
			}
			if docPath != "" {
				if rep := wr.SetDocumentPath(docPath); !rep.OK() {
					return fmt.Errorf("could not open %s: %s", docPath, rep)
				}
			}

			if evalCmd != "" {
				out, err := session.Eval(cmd.Context(), evalCmd)
				if err != nil {
					return err
				}
				fmt.Print(out)
				return nil
			}
			return session.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&evalCmd, "eval", "", "Run a single command and exit")
	cmd.Flags().StringVarP(&docPath, "doc", "d", "", "Workbook to open at start (default: config 'document')")
	return cmd
}
