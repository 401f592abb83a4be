// Package audit provides the "cellkit audit" commands for viewing the write log.
package audit

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	auditpkg "github.com/klytics/cellkit/internal/audit"
	"github.com/klytics/cellkit/internal/config"
	"github.com/klytics/cellkit/internal/output"
	"github.com/klytics/cellkit/internal/writer"
)

// NewCommand creates the "audit" command with all subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "View and manage the write audit log",
		Long: `Every open and write call is recorded when audit.enabled is set:
  cellkit config set audit.enabled true`,
	}

	cmd.AddCommand(newLogCmd())
	cmd.AddCommand(newClearCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

func auditLogPath() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.Audit.Path, nil
}

func newLogCmd() *cobra.Command {
	var (
		last   int
		result string
		since  string
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent audit log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := auditLogPath()
			if err != nil {
				return err
			}
			entries, err := auditpkg.ReadEntries(path)
			if err != nil {
				return err
			}

			var sinceTime time.Time
			if since != "" {
				t, err := time.Parse("2006-01-02", since)
				if err != nil {
					return fmt.Errorf("invalid --since date: %w (use YYYY-MM-DD)", err)
				}
				sinceTime = t
			}

			if result != "" {
				var r writer.Result
				if err := r.UnmarshalText([]byte(result)); err != nil {
					return &output.ExitError{Code: output.ExitUserError, Err: fmt.Errorf("invalid --result: %w", err)}
				}
				result = r.String()
			}

			filtered := auditpkg.FilterEntries(entries, sinceTime, result)
			if last > 0 && len(filtered) > last {
				filtered = filtered[len(filtered)-last:]
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("audit log", filtered)
			}

			if len(filtered) == 0 {
				fmt.Println("No audit log entries found.")
				return nil
			}

			fmt.Printf("Audit Log — %d Entries\n", len(filtered))
			fmt.Printf("File: %s\n\n", path)

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "TIMESTAMP\tOPERATION\tRESULT\tAPPLIED\tDURATION\tDOCUMENT\n")
			for _, e := range filtered {
				ts := e.Timestamp.Format("2006-01-02 15:04:05")
				dur := fmt.Sprintf("%dms", e.DurationMs)
				if e.DurationMs >= 1000 {
					dur = fmt.Sprintf("%.1fs", float64(e.DurationMs)/1000)
				}
				doc := e.Document
				if doc == "" {
					doc = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%s\t%s\n", ts, e.Operation, e.Result, e.Applied, e.Entries, dur, doc)
			}
			tw.Flush()
			return nil
		},
	}

	cmd.Flags().IntVar(&last, "last", 20, "Show last N entries")
	cmd.Flags().StringVar(&result, "result", "", "Filter by result, e.g. success or exception")
	cmd.Flags().StringVar(&since, "since", "", "Filter entries since date (YYYY-MM-DD)")
	return cmd
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := auditLogPath()
			if err != nil {
				return err
			}
			if err := auditpkg.Clear(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("could not clear audit log: %w", err)
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("audit clear", map[string]string{"cleared": path})
			}
			fmt.Printf("Audit log cleared: %s\n", path)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show audit log path and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			path := cfg.Audit.Path
			size := auditpkg.LogSize(path)
			entries, _ := auditpkg.ReadEntries(path)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("audit status", map[string]interface{}{
					"enabled": cfg.Audit.Enabled,
					"path":    path,
					"size":    size,
					"entries": len(entries),
				})
			}

			fmt.Printf("Audit log: %s\n", path)
			fmt.Printf("Enabled:   %v\n", cfg.Audit.Enabled)
			if size == 0 {
				fmt.Println("Size:      empty (no entries)")
			} else {
				fmt.Printf("Size:      %s\n", formatSize(size))
			}
			fmt.Printf("Entries:   %d\n", len(entries))
			return nil
		},
	}
}

func formatSize(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
}
