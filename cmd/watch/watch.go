// Package watch provides the "cellkit watch" commands that apply plan files
// dropped into a directory.
package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/klytics/cellkit/internal/config"
	"github.com/klytics/cellkit/internal/output"
	w "github.com/klytics/cellkit/internal/watch"
	"github.com/klytics/cellkit/internal/writer"
)

// NewCommand creates the "watch" command with subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Apply plan files as they appear in a directory",
		Long: `Watch directories for new or modified plan files (.yaml, .yml, .json)
and write their entries as soon as they settle.

Example:
  cellkit watch start ./inbox --doc book.xlsx
  cellkit watch status
  cellkit watch stop`,
	}

	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newStopCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

func newStartCmd() *cobra.Command {
	var (
		docPath   string
		recursive bool
		debounce  int
	)

	cmd := &cobra.Command{
		Use:   "start <directory> [directory...]",
		Short: "Start watching directories for plan files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			verbose, _ := cmd.Flags().GetBool("verbose")

			if docPath == "" {
				docPath = cfg.Document
			}
			if debounce <= 0 {
				debounce = cfg.Watch.DebounceMs
			}

			wc := w.Config{
				Directories: args,
				Recursive:   recursive,
				Debounce:    debounce,
				Document:    docPath,
			}
			watcher, err := w.New(wc)
			if err != nil {
				return err
			}

			pool := writer.NewPool(cfg.WriterOptions(verbose)...)
			defer pool.Close()
			watcher.Handler = w.PlanHandler(pool, docPath)

			stateDir := w.DefaultStateDir()
			if err := w.WritePIDFile(stateDir); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not write PID file: %v\n", err)
			}
			defer w.RemovePIDFile(stateDir)
			if err := w.SaveConfig(stateDir, wc); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not save watch config: %v\n", err)
			}

			fmt.Printf("Watching %s for plans\n", strings.Join(args, ", "))
			if docPath != "" {
				fmt.Printf("Default document: %s\n", docPath)
			}
			fmt.Println("Press Ctrl+C to stop")

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return watcher.Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&docPath, "doc", "d", "", "Workbook for entries that name none (default: config 'document')")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Watch directories recursively")
	cmd.Flags().IntVar(&debounce, "debounce", 0, "Debounce interval in milliseconds (default: config 'watch.debounce_ms')")

	return cmd
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running watcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			stateDir := w.DefaultStateDir()
			pid, err := w.ReadPIDFile(stateDir)
			if err != nil {
				return fmt.Errorf("no watcher running (PID file not found)")
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("could not find process %d: %w", pid, err)
			}
			if err := process.Signal(syscall.SIGTERM); err != nil {
				w.RemovePIDFile(stateDir)
				return fmt.Errorf("could not stop watcher (PID %d): %w", pid, err)
			}
			w.RemovePIDFile(stateDir)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("watch stop", map[string]any{"stopped": true, "pid": pid})
			}
			fmt.Printf("Stopped watcher (PID %d)\n", pid)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current watcher status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stateDir := w.DefaultStateDir()

			pid, err := w.ReadPIDFile(stateDir)
			running := err == nil
			if running {
				// Signal 0 probes for the process without touching it.
				process, err := os.FindProcess(pid)
				if err != nil || process.Signal(syscall.Signal(0)) != nil {
					running = false
					w.RemovePIDFile(stateDir)
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if !running {
				if jsonOut {
					return output.PrintJSON("watch status", map[string]any{"running": false})
				}
				fmt.Println("Watcher is not running")
				return nil
			}

			wc, _ := w.LoadConfig(stateDir)
			if jsonOut {
				status := map[string]any{"running": true, "pid": pid}
				if wc != nil {
					status["directories"] = wc.Directories
					status["document"] = wc.Document
					status["recursive"] = wc.Recursive
					status["debounceMs"] = wc.Debounce
				}
				return output.PrintJSON("watch status", status)
			}

			fmt.Printf("Watcher is running (PID %d)\n", pid)
			if wc != nil {
				fmt.Printf("  Directories: %s\n", strings.Join(wc.Directories, ", "))
				fmt.Printf("  Document:    %s\n", wc.Document)
				fmt.Printf("  Recursive:   %v\n", wc.Recursive)
				fmt.Printf("  Debounce:    %dms\n", wc.Debounce)
			}
			return nil
		},
	}
}
