package shell

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klytics/cellkit/internal/address"
	"github.com/klytics/cellkit/internal/workbook"
	"github.com/klytics/cellkit/internal/writer"
)

func newTestSession(t *testing.T) (*Session, string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := workbook.CreateFile(path, false); err != nil {
		t.Fatal(err)
	}
	w := writer.New()
	t.Cleanup(func() { w.Close() })
	return NewSession(w), path
}

func eval(t *testing.T, s *Session, line string) string {
	t.Helper()
	out, err := s.Eval(context.Background(), line)
	if err != nil {
		t.Fatalf("Eval(%q) failed: %v", line, err)
	}
	return out
}

func TestNewSession(t *testing.T) {
	s, _ := newTestSession(t)
	if s.Sheet != 1 || s.Notation != address.A1 {
		t.Errorf("unexpected defaults: sheet %d, notation %s", s.Sheet, s.Notation)
	}
	if !strings.HasSuffix(s.HistoryFile, filepath.Join(".cellkit", "shell_history")) {
		t.Errorf("HistoryFile = %q", s.HistoryFile)
	}
}

func TestEvalOpenSetShow(t *testing.T) {
	s, path := newTestSession(t)

	if out := eval(t, s, "open "+path); !strings.HasPrefix(out, "success") {
		t.Errorf("open output = %q", out)
	}
	out := eval(t, s, "set B2 number 42")
	if !strings.Contains(out, "B2") || !strings.Contains(out, "success") {
		t.Errorf("set output = %q", out)
	}
	if out := eval(t, s, "show B2"); out != "42\n" {
		t.Errorf("show B2 = %q", out)
	}

	eval(t, s, "set C1 text hello there")
	if out := eval(t, s, "show C1"); out != "hello there\n" {
		t.Errorf("show C1 = %q", out)
	}
}

func TestEvalNotationAndSheet(t *testing.T) {
	s, path := newTestSession(t)
	eval(t, s, "open "+path)

	eval(t, s, "notation r1c1")
	eval(t, s, "sheet 2")
	if s.Notation != address.R1C1 || s.Sheet != 2 {
		t.Fatalf("notation %s, sheet %d", s.Notation, s.Sheet)
	}
	if p := s.prompt(); p != "cellkit[2 r1c1]> " {
		t.Errorf("prompt = %q", p)
	}

	eval(t, s, "set R3C2 text on-two")
	if out := eval(t, s, "show R3C2"); out != "on-two\n" {
		t.Errorf("show = %q", out)
	}

	wb, err := workbook.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(wb.Sheets) != 2 {
		t.Errorf("expected sheet 2 to be created, got %d sheets", len(wb.Sheets))
	}
}

func TestEvalShowMissingSheet(t *testing.T) {
	s, path := newTestSession(t)
	eval(t, s, "open "+path)
	eval(t, s, "sheet 5")

	_, err := s.Eval(context.Background(), "show A1")
	if err == nil || !strings.Contains(err.Error(), "sheet 5 not found") {
		t.Errorf("expected missing sheet error, got %v", err)
	}
	if wb, _ := workbook.ReadFile(path); len(wb.Sheets) != 1 {
		t.Errorf("show should not add sheets, have %d", len(wb.Sheets))
	}
}

func TestEvalAddr(t *testing.T) {
	s, _ := newTestSession(t)
	out := eval(t, s, "addr AA10")
	if out != "AA10  R10C27  (column 26, row 9)\n" {
		t.Errorf("addr = %q", out)
	}
	eval(t, s, "notation r1c1")
	if out := eval(t, s, "addr R2C3"); !strings.HasPrefix(out, "C2") {
		t.Errorf("addr = %q", out)
	}
}

func TestEvalErrors(t *testing.T) {
	s, _ := newTestSession(t)
	bad := []string{
		"bogus",
		"open",
		"sheet 0",
		"sheet x",
		"notation xy",
		"set A1 number",
		"set A1 blob 1",
		"set 1A text x",
		"set A1 text x", // no document open
		"show A1",       // no document open
		"addr 1A",
		"open /nonexistent/book.xlsx",
	}
	for _, line := range bad {
		if _, err := s.Eval(context.Background(), line); err == nil {
			t.Errorf("Eval(%q) should fail", line)
		}
	}
	if s.LastReport.Result != writer.Failure {
		t.Errorf("LastReport = %s", s.LastReport)
	}
	if out := eval(t, s, "status"); !strings.Contains(out, "(none)") || !strings.Contains(out, "failure") {
		t.Errorf("status = %q", out)
	}
}

func TestEvalHistory(t *testing.T) {
	s, _ := newTestSession(t)
	eval(t, s, "help")
	eval(t, s, "notation")
	out := eval(t, s, "history")
	if !strings.Contains(out, "1  help") || !strings.Contains(out, "3  history") {
		t.Errorf("history = %q", out)
	}
}

func TestComplete(t *testing.T) {
	s, _ := newTestSession(t)

	matches := s.Complete("s")
	if len(matches) != 4 {
		t.Errorf("Complete(s) = %v", matches)
	}
	if got := s.Complete("notation "); len(got) != 2 {
		t.Errorf("Complete(notation) = %v", got)
	}
	if got := s.Complete("set A1 "); len(got) != 3 {
		t.Errorf("Complete(set A1) = %v", got)
	}
	if got := s.Complete(""); len(got) != len(s.KnownCommands) {
		t.Errorf("Complete('') = %v", got)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(5 * time.Second); got != "5s" {
		t.Errorf("got %q", got)
	}
	if got := formatDuration(2*time.Minute + 3*time.Second); got != "2m 3s" {
		t.Errorf("got %q", got)
	}
}
