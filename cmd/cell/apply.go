package cell

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/cellkit/internal/output"
	"github.com/klytics/cellkit/internal/plan"
	"github.com/klytics/cellkit/internal/progress"
	"github.com/klytics/cellkit/internal/writer"
)

type groupResult struct {
	Document string            `json:"document"`
	Entries  int               `json:"entries"`
	Report   output.ReportJSON `json:"report"`
}

func newApplyCommand() *cobra.Command {
	var (
		docPath string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "apply <plan.yaml>",
		Short: "Write every cell listed in a plan file",
		Long: `Apply a YAML or JSON plan of cell writes.

Entries are grouped by target document and each group is written as one
batch. A batch stops at its first failing entry; entries before it stay
written.

Plan format:
  document: book.xlsx      # default for entries without one
  notation: a1             # a1 or r1c1
  sheet: 1
  entries:
    - {address: A1, kind: number, value: 42}
    - {address: R2C3, notation: r1c1, kind: timestamp, value: 2024-03-15}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			cfg, opts, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			p, err := plan.Load(args[0])
			if err != nil {
				return &output.ExitError{Code: output.ExitUserError, Err: err}
			}
			groups, err := p.Groups()
			if err != nil {
				return &output.ExitError{Code: output.ExitUserError, Err: err}
			}

			defaultDoc := pick(docPath, cfg.Document)
			for i := range groups {
				if groups[i].Document == "" {
					if defaultDoc == "" {
						return &output.ExitError{Code: output.ExitUserError, Err: noDocument()}
					}
					groups[i].Document = defaultDoc
				}
			}

			if dryRun {
				return printPlan(groups, jsonFlag)
			}

			pool := writer.NewPool(opts...)
			defer pool.Close()

			bar := progress.New("Applying", len(groups))
			if jsonFlag || len(groups) < 2 {
				bar.Enabled = false
			}

			var results []groupResult
			final := writer.Report{Result: writer.Success}
			for _, g := range groups {
				w, rep := pool.Get(g.Document)
				if rep.OK() {
					rep = w.ApplyBatch(g.Entries)
				}
				bar.Increment(filepath.Base(g.Document))
				results = append(results, groupResult{
					Document: g.Document,
					Entries:  len(g.Entries),
					Report:   output.NewReportJSON(rep),
				})
				final.Applied += rep.Applied
				if !rep.OK() {
					final.Result = rep.Result
					final.Err = fmt.Errorf("%s: %w", g.Document, rep.Err)
					break
				}
			}
			if final.OK() {
				bar.Finish(fmt.Sprintf("%d cells written to %d workbooks", final.Applied, pool.Len()))
			} else {
				bar.Abort()
			}

			if jsonFlag {
				if final.OK() {
					return output.PrintJSON("cell apply", results)
				}
				return output.EmitReport("cell apply", true, final)
			}

			for _, r := range results {
				output.PrintReport(output.Stdout, writer.Report{
					Result:  r.Report.Result,
					Applied: r.Report.Applied,
					Path:    r.Document,
				})
			}
			if !final.OK() {
				color.New(color.FgRed).Fprintf(os.Stderr, "Stopped: %v\n", final.Err)
				return &output.ExitError{Code: output.ExitCode(final.Result), Err: final.Err, Reported: true}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&docPath, "doc", "d", "", "Workbook for entries that name none (default: config 'document')")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the writes without performing them")

	return cmd
}

func printPlan(groups []plan.Group, jsonOut bool) error {
	if jsonOut {
		type item struct {
			Document string `json:"document"`
			Sheet    int    `json:"sheet"`
			Address  string `json:"address"`
			Kind     string `json:"kind"`
			Value    string `json:"value"`
		}
		var items []item
		for _, g := range groups {
			for _, e := range g.Entries {
				items = append(items, item{g.Document, e.SheetNumber(), e.A1(), e.Kind.String(), e.Value})
			}
		}
		return output.PrintJSON("cell apply", items)
	}

	header := color.New(color.Bold, color.FgCyan)
	for _, g := range groups {
		header.Printf("%s\n", g.Document)
		for _, e := range g.Entries {
			fmt.Printf("  %s\n", e)
		}
	}
	return nil
}
