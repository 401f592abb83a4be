// Package shell provides the interactive cellkit REPL. A session holds one
// writer and the notation and sheet used for addresses typed at the prompt.
package shell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/klytics/cellkit/internal/address"
	"github.com/klytics/cellkit/internal/entry"
	"github.com/klytics/cellkit/internal/writer"
)

// Session manages an interactive shell session.
type Session struct {
	Writer         *writer.Writer
	Notation       address.Notation
	Sheet          int
	LastReport     writer.Report
	CommandHistory []string
	HistoryFile    string
	StartTime      time.Time

	// KnownCommands is the list of commands for completion.
	KnownCommands []string
}

// NewSession creates a session around w. Addresses default to A1 on sheet 1.
func NewSession(w *writer.Writer) *Session {
	home, _ := os.UserHomeDir()
	histFile := filepath.Join(home, ".cellkit", "shell_history")
	os.MkdirAll(filepath.Dir(histFile), 0700)

	return &Session{
		Writer:      w,
		Notation:    address.A1,
		Sheet:       1,
		HistoryFile: histFile,
		StartTime:   time.Now(),
		KnownCommands: []string{
			"open", "sheet", "notation", "set", "addr", "show",
			"status", "history", "help", "exit", "quit",
		},
	}
}

// Run starts the REPL loop. Blocks until 'exit' or Ctrl+D.
func (s *Session) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		HistoryFile:     s.HistoryFile,
		AutoComplete:    readline.NewPrefixCompleter(s.buildCompleter()...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("cellkit — Interactive Shell")
	fmt.Println("Type 'help' for commands, 'exit' to quit.")
	fmt.Println()

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == "exit" || line == "quit" {
			fmt.Printf("\nSession ended. %d commands run in %s.\n",
				len(s.CommandHistory), formatDuration(time.Since(s.StartTime)))
			return nil
		}

		output, err := s.Eval(ctx, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		} else if output != "" {
			fmt.Print(output)
			if !strings.HasSuffix(output, "\n") {
				fmt.Println()
			}
		}
		rl.SetPrompt(s.prompt())
	}

	return nil
}

// Eval runs a single shell command and returns its output.
func (s *Session) Eval(_ context.Context, line string) (string, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return "", nil
	}
	s.CommandHistory = append(s.CommandHistory, line)

	switch args[0] {
	case "help":
		return helpText, nil
	case "history":
		var b strings.Builder
		for i, cmd := range s.CommandHistory {
			fmt.Fprintf(&b, "  %d  %s\n", i+1, cmd)
		}
		return b.String(), nil
	case "status":
		return s.status(), nil
	case "open":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: open <file.xlsx>")
		}
		return s.report(s.Writer.SetDocumentPath(args[1]))
	case "sheet":
		if len(args) != 2 {
			return fmt.Sprintf("sheet %d\n", s.Sheet), nil
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return "", fmt.Errorf("sheet must be a number of 1 or more, got %q", args[1])
		}
		s.Sheet = n
		return fmt.Sprintf("sheet %d\n", n), nil
	case "notation":
		if len(args) != 2 {
			return fmt.Sprintf("notation %s\n", s.Notation), nil
		}
		switch strings.ToLower(args[1]) {
		case "a1", "r1c1":
		default:
			return "", fmt.Errorf("unknown notation %q — expected a1 or r1c1", args[1])
		}
		s.Notation = address.ParseNotation(args[1])
		return fmt.Sprintf("notation %s\n", s.Notation), nil
	case "set":
		return s.set(args[1:])
	case "addr":
		if len(args) != 2 {
			return "", fmt.Errorf("usage: addr <address>")
		}
		c, ok := address.Decode(args[1], s.Notation)
		if !ok {
			return "", fmt.Errorf("%q is not a valid %s address", args[1], s.Notation)
		}
		return fmt.Sprintf("%s  %s  (column %d, row %d)\n",
			address.EncodeA1(c), address.EncodeR1C1(c), c.Column, c.Row), nil
	case "show":
		return s.show(args[1:])
	}
	return "", fmt.Errorf("unknown command %q — type 'help' for commands", args[0])
}

func (s *Session) set(args []string) (string, error) {
	if len(args) < 3 {
		return "", fmt.Errorf("usage: set <address> <text|number|timestamp> <value...>")
	}
	kind, err := entry.ParseValueKind(args[1])
	if err != nil {
		return "", err
	}
	e, err := entry.New(strings.Join(args[2:], " "), kind, args[0],
		entry.WithNotation(s.Notation),
		entry.WithSheetNumber(s.Sheet),
	)
	if err != nil {
		return "", err
	}
	out, err := s.report(s.Writer.Apply(e))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\n%s", e, out), nil
}

func (s *Session) show(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: show <address>")
	}
	if s.Writer.Path() == "" {
		return "", fmt.Errorf("no document is open — use 'open <file.xlsx>' first")
	}
	c, ok := address.Decode(args[0], s.Notation)
	if !ok {
		return "", fmt.Errorf("%q is not a valid %s address", args[0], s.Notation)
	}

	v, err := s.Writer.Read(s.Sheet-1, c)
	if err != nil {
		return "", err
	}
	return v + "\n", nil
}

func (s *Session) report(rep writer.Report) (string, error) {
	s.LastReport = rep
	if !rep.OK() {
		return "", fmt.Errorf("%s", rep)
	}
	if rep.Path != "" {
		return fmt.Sprintf("%s  %s\n", rep.Result, rep.Path), nil
	}
	return rep.Result.String() + "\n", nil
}

func (s *Session) status() string {
	doc := s.Writer.Path()
	if doc == "" {
		doc = "(none)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "document:  %s\n", doc)
	fmt.Fprintf(&b, "notation:  %s\n", s.Notation)
	fmt.Fprintf(&b, "sheet:     %d\n", s.Sheet)
	if s.LastReport.Result != writer.Unknown {
		fmt.Fprintf(&b, "last:      %s\n", s.LastReport)
	}
	return b.String()
}

func (s *Session) prompt() string {
	if s.Notation == address.R1C1 {
		return fmt.Sprintf("cellkit[%d r1c1]> ", s.Sheet)
	}
	return fmt.Sprintf("cellkit[%d]> ", s.Sheet)
}

// Complete returns tab-completion candidates for the given input.
func (s *Session) Complete(input string) []string {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return s.KnownCommands
	}

	if len(parts) == 1 && !strings.HasSuffix(input, " ") {
		var matches []string
		for _, cmd := range s.KnownCommands {
			if strings.HasPrefix(cmd, parts[0]) {
				matches = append(matches, cmd)
			}
		}
		sort.Strings(matches)
		return matches
	}

	switch parts[0] {
	case "notation":
		return []string{"a1", "r1c1"}
	case "set":
		if len(parts) == 2 && strings.HasSuffix(input, " ") {
			return []string{"number", "text", "timestamp"}
		}
	}
	return nil
}

func (s *Session) buildCompleter() []readline.PrefixCompleterInterface {
	var items []readline.PrefixCompleterInterface
	for _, cmd := range s.KnownCommands {
		if cmd == "notation" {
			items = append(items, readline.PcItem(cmd, readline.PcItem("a1"), readline.PcItem("r1c1")))
			continue
		}
		items = append(items, readline.PcItem(cmd))
	}
	return items
}

const helpText = `Shell commands:
  open <file.xlsx>                 open a workbook for writing
  sheet [n]                        show or set the sheet number (from 1)
  notation [a1|r1c1]               show or set the address notation
  set <addr> <kind> <value...>     write a cell; kind is text, number or timestamp
  addr <addr>                      show an address in both notations
  show <addr>                      read a cell from the saved workbook
  status                           show the session state
  history                          show command history
  exit                             exit the shell
`

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	m := int(d.Minutes())
	sec := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", m, sec)
}
