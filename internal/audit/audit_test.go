package audit

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestLogWritesEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	l := NewLogger(path, true)
	entry := Entry{
		Operation:  "apply_batch",
		Document:   "/tmp/book.xlsx",
		Entries:    2,
		Applied:    2,
		Result:     "success",
		DurationMs: 12,
	}
	if err := l.Log(context.Background(), entry); err != nil {
		t.Fatal(err)
	}

	entries, err := ReadEntries(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Document != "/tmp/book.xlsx" || entries[0].Applied != 2 {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
	if entries[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be filled in")
	}
}

func TestLogDisabledIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	l := NewLogger(path, false)
	l.Log(context.Background(), Entry{Operation: "apply"})

	if _, err := os.Stat(path); err == nil {
		t.Error("disabled logger should not create file")
	}

	var nilLogger *Logger
	if err := nilLogger.Log(context.Background(), Entry{}); err != nil {
		t.Errorf("nil logger returned %v", err)
	}
}

func TestLogConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "audit.log")
	l := NewLogger(path, true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Log(context.Background(), Entry{Operation: "apply", Entries: i})
		}(i)
	}
	wg.Wait()

	entries, err := ReadEntries(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 20 {
		t.Errorf("expected 20 entries, got %d", len(entries))
	}
}

func TestReadEntriesSkipsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	data := `{"operation":"apply","result":"success"}
not json

{"operation":"apply_batch","result":"exception"}
`
	os.WriteFile(path, []byte(data), 0644)

	entries, err := ReadEntries(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}
}

func TestReadEntriesMissingFile(t *testing.T) {
	entries, err := ReadEntries("/nonexistent/audit.log")
	if err != nil {
		t.Fatalf("expected nil error for missing file, got: %v", err)
	}
	if len(entries) != 0 {
		t.Error("expected empty entries for missing file")
	}
}

func TestFilterEntries(t *testing.T) {
	now := time.Now()
	entries := []Entry{
		{Timestamp: now.Add(-2 * time.Hour), Result: "success"},
		{Timestamp: now.Add(-1 * time.Hour), Result: "exception"},
		{Timestamp: now, Result: "success"},
	}

	if got := FilterEntries(entries, time.Time{}, "success"); len(got) != 2 {
		t.Errorf("expected 2 success entries, got %d", len(got))
	}
	if got := FilterEntries(entries, now.Add(-90*time.Minute), ""); len(got) != 2 {
		t.Errorf("expected 2 recent entries, got %d", len(got))
	}
	if got := FilterEntries(entries, now.Add(-90*time.Minute), "EXCEPTION"); len(got) != 1 {
		t.Errorf("expected 1 recent exception, got %d", len(got))
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	os.WriteFile(path, []byte("some data\n"), 0644)

	if err := Clear(path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if len(data) != 0 {
		t.Error("expected empty file after clear")
	}
}

func TestLogSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	if LogSize(path) != 0 {
		t.Error("missing file should report size 0")
	}
	NewLogger(path, true).Log(context.Background(), Entry{Operation: "open", Result: "success"})
	if LogSize(path) == 0 {
		t.Error("expected non-zero size after a write")
	}
}
