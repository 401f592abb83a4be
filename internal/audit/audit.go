// Package audit records every workbook write call as one JSON line.
package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Entry is a single audit record.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	Operation  string    `json:"operation"`
	Document   string    `json:"document,omitempty"`
	Entries    int       `json:"entries"`
	Applied    int       `json:"applied"`
	Result     string    `json:"result"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}

// Logger appends entries to a file.
type Logger struct {
	FilePath string
	Enabled  bool

	mu sync.Mutex
}

// NewLogger creates a Logger. A disabled logger or an empty path makes Log a no-op.
func NewLogger(filePath string, enabled bool) *Logger {
	return &Logger{FilePath: filePath, Enabled: enabled}
}

// Log appends entry to the log. It is best effort: failures to write the log
// are swallowed so they never fail the write being audited.
func (l *Logger) Log(_ context.Context, entry Entry) error {
	if l == nil || !l.Enabled || l.FilePath == "" {
		return nil
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.FilePath), 0755); err != nil {
		return nil
	}
	f, err := os.OpenFile(l.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil
	}
	defer f.Close()
	_, _ = f.Write(data)
	return nil
}

// ReadEntries reads all entries from the log. A missing file yields no entries.
func ReadEntries(filePath string) ([]Entry, error) {
	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue // skip malformed lines
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}

// FilterEntries keeps entries at or after since (if set) whose result matches
// result (if set).
func FilterEntries(entries []Entry, since time.Time, result string) []Entry {
	var out []Entry
	for _, e := range entries {
		if !since.IsZero() && e.Timestamp.Before(since) {
			continue
		}
		if result != "" && !strings.EqualFold(e.Result, result) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Clear truncates the log file.
func Clear(filePath string) error {
	return os.Truncate(filePath, 0)
}

// LogSize returns the size of the log file in bytes, or 0 if it does not exist.
func LogSize(filePath string) int64 {
	info, err := os.Stat(filePath)
	if err != nil {
		return 0
	}
	return info.Size()
}
