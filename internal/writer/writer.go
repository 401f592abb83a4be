// Package writer applies cell writes to a persisted workbook under mutual
// exclusion.
//
// A Writer owns at most one open document. Every public write call holds the
// writer's lock for the whole open-if-needed, mutate, persist and reopen
// sequence, so two calls never interleave their mutations or persist
// concurrently. Batches are not transactional: entries persisted before a
// failing entry stay persisted.
package writer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klytics/cellkit/internal/address"
	"github.com/klytics/cellkit/internal/audit"
	"github.com/klytics/cellkit/internal/entry"
	"github.com/klytics/cellkit/internal/workbook"
)

var (
	// ErrEmptyPath is returned for an empty document path.
	ErrEmptyPath = errors.New("document path is empty")
	// ErrNoDocument is returned when a write has no document to target.
	ErrNoDocument = errors.New("no document is open")
	// ErrNilEntry is returned for a nil entry.
	ErrNilEntry = errors.New("entry is nil")
)

// Auditor receives one record per public write call.
type Auditor interface {
	Log(ctx context.Context, e audit.Entry) error
}

// Writer holds one open document and serializes writes to it.
type Writer struct {
	mu      sync.Mutex
	doc     *workbook.Document
	path    string
	lastErr string

	logger  *log.Logger
	auditor Auditor
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger routes diagnostic logging to l.
func WithLogger(l *log.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithAuditor records every public write call with a.
func WithAuditor(a Auditor) Option {
	return func(w *Writer) { w.auditor = a }
}

// New returns a Writer with no document open.
func New(opts ...Option) *Writer {
	w := &Writer{logger: log.New(io.Discard, "[writer] ", log.LstdFlags)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Open returns a Writer with path already open.
func Open(path string, opts ...Option) (*Writer, Report) {
	w := New(opts...)
	return w, w.SetDocumentPath(path)
}

// SetDocumentPath opens path read-write and makes it the current document.
// On failure the writer is left with no document open.
func (w *Writer) SetDocumentPath(path string) Report {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.record("open", 0, time.Now(), w.setDocumentPath(path))
}

// Apply writes a single entry, persists the document and reopens it.
func (w *Writer) Apply(e *entry.Entry) Report {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	rep := Report{Result: Success}
	if err := w.apply(e); err != nil {
		rep = w.fail(err)
	} else {
		rep.Applied = 1
	}
	rep.Path = w.path
	return w.record("apply", 1, start, rep)
}

// ApplyBatch writes entries in order under a single acquisition of the lock.
// It stops at the first failing entry; earlier entries remain persisted and
// are counted in Report.Applied.
func (w *Writer) ApplyBatch(entries []*entry.Entry) Report {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	rep := Report{Result: Success}
	for i, e := range entries {
		if err := w.apply(e); err != nil {
			rep = w.fail(fmt.Errorf("entry %d of %d: %w", i+1, len(entries), err))
			break
		}
		rep.Applied++
	}
	rep.Path = w.path
	return w.record("apply_batch", len(entries), start, rep)
}

// Path returns the path of the open document, or "" if none is open.
func (w *Writer) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// IsOpen reports whether a document is open.
func (w *Writer) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.doc != nil
}

// LastError returns the message of the most recent failed call on this writer.
func (w *Writer) LastError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Read returns the formatted value at c on the sheet with the zero-based
// index, as of the last persisted write. It never adds sheets.
func (w *Writer) Read(sheetIndex int, c address.Coordinate) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.doc == nil {
		return "", ErrNoDocument
	}
	names := w.doc.SheetNames()
	if sheetIndex < 0 || sheetIndex >= len(names) {
		return "", fmt.Errorf("sheet %d not found — %s has %d sheet(s)", sheetIndex+1, filepath.Base(w.path), len(names))
	}
	return w.doc.Value(names[sheetIndex], c)
}

// Close releases the open document.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeDoc()
}

// stepError marks where in the write sequence an error occurred.
type stepError struct {
	result Result
	err    error
}

func (e *stepError) Error() string { return e.err.Error() }
func (e *stepError) Unwrap() error { return e.err }

func failure(err error) error   { return &stepError{result: Failure, err: err} }
func exception(err error) error { return &stepError{result: Exception, err: err} }
func paramError(err error) error {
	return &stepError{result: ParamError, err: err}
}

func (w *Writer) fail(err error) Report {
	res := Exception
	var se *stepError
	if errors.As(err, &se) {
		res = se.result
	}
	w.lastErr = err.Error()
	w.logger.Printf("%s: %v", res, err)
	return Report{Result: res, Err: err}
}

func (w *Writer) setDocumentPath(path string) Report {
	if path == "" {
		return w.fail(paramError(ErrEmptyPath))
	}
	abs, err := normalize(path)
	if err != nil {
		return w.fail(paramError(err))
	}
	if err := w.open(abs); err != nil {
		return w.fail(failure(err))
	}
	return Report{Result: Success, Path: abs}
}

// open replaces the current document with a fresh parse of path.
func (w *Writer) open(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		w.closeDoc()
		return fmt.Errorf("could not open %s for read-write: %w", path, err)
	}
	defer f.Close()

	doc, err := workbook.OpenReader(f)
	if err != nil {
		w.closeDoc()
		return fmt.Errorf("could not read %s: %w", path, err)
	}

	w.closeDoc()
	w.doc = doc
	w.path = path
	w.logger.Printf("opened %s", path)
	return nil
}

func (w *Writer) closeDoc() error {
	var err error
	if w.doc != nil {
		err = w.doc.Close()
	}
	w.doc = nil
	w.path = ""
	return err
}

func (w *Writer) apply(e *entry.Entry) (err error) {
	// A panic from excelize is reported as an Exception.
	defer func() {
		if r := recover(); r != nil {
			err = exception(fmt.Errorf("panic while writing %s: %v", e, r))
		}
	}()

	if e == nil {
		return paramError(ErrNilEntry)
	}

	if e.DocumentPath != "" {
		abs, err := normalize(e.DocumentPath)
		if err != nil {
			return paramError(err)
		}
		if abs != w.path {
			if err := w.open(abs); err != nil {
				return failure(err)
			}
		}
	}
	if w.doc == nil {
		return failure(ErrNoDocument)
	}

	// The entry's own document, when given, is the open one by now.
	target := w.path
	if err := w.setCell(e); err != nil {
		return exception(err)
	}
	if err := persist(w.doc, target); err != nil {
		return exception(err)
	}
	w.logger.Printf("wrote %s to %s", e, target)

	// Refresh so the next call sees what is on disk, not the mutated handle.
	if err := w.open(target); err != nil {
		return exception(fmt.Errorf("written but could not reopen: %w", err))
	}
	return nil
}

func (w *Writer) setCell(e *entry.Entry) error {
	before := len(w.doc.SheetNames())
	sheet, err := w.doc.Sheet(e.SheetIndex())
	if err != nil {
		return err
	}
	if added := len(w.doc.SheetNames()) - before; added > 0 {
		w.logger.Printf("added %d empty sheet(s) up to %s", added, sheet)
	}
	c := e.Coordinate()

	switch e.Kind {
	case entry.Number:
		v, err := entry.ParseNumber(e.Value)
		if err != nil {
			return err
		}
		return w.doc.SetNumber(sheet, c, v)
	case entry.Timestamp:
		v, err := entry.ParseTimestamp(e.Value)
		if err != nil {
			return err
		}
		return w.doc.SetTime(sheet, c, v)
	case entry.Text:
		return w.doc.SetString(sheet, c, e.Value)
	default:
		return fmt.Errorf("unknown value kind %d", int(e.Kind))
	}
}

// persist writes doc next to target and renames it into place, so readers
// never observe a half-written file.
func persist(doc *workbook.Document, target string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary file for %s: %w", target, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := doc.WriteTo(tmp); err != nil {
		cleanup()
		return fmt.Errorf("could not serialize %s: %w", target, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		cleanup()
		return fmt.Errorf("could not set permissions on %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not write %s: %w", target, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not replace %s: %w", target, err)
	}
	return nil
}

func (w *Writer) record(op string, n int, start time.Time, rep Report) Report {
	if w.auditor == nil {
		return rep
	}
	_ = w.auditor.Log(context.Background(), audit.Entry{
		Timestamp:  start,
		Operation:  op,
		Document:   rep.Path,
		Entries:    n,
		Applied:    rep.Applied,
		Result:     rep.Result.String(),
		Error:      rep.Message(),
		DurationMs: time.Since(start).Milliseconds(),
	})
	return rep
}

func normalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("could not resolve %s: %w", path, err)
	}
	return abs, nil
}
