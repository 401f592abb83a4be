package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/klytics/cellkit/internal/entry"
)

func TestPoolReusesWriterPerPath(t *testing.T) {
	path := newBook(t, "book.xlsx")
	p := NewPool()
	defer p.Close()

	w1, rep := p.Get(path)
	if !rep.OK() {
		t.Fatalf("Get failed: %s", rep)
	}
	// A relative spelling of the same file maps to the same writer.
	wd, _ := os.Getwd()
	rel, err := filepath.Rel(wd, path)
	if err != nil {
		t.Fatal(err)
	}
	w2, rep := p.Get(rel)
	if !rep.OK() {
		t.Fatalf("Get failed: %s", rep)
	}
	if w1 != w2 {
		t.Error("expected the same writer for the same document")
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}
}

func TestPoolGetErrors(t *testing.T) {
	p := NewPool()
	if _, rep := p.Get(""); rep.Result != ParamError {
		t.Errorf("expected ParamError, got %s", rep)
	}
	if _, rep := p.Get(filepath.Join(t.TempDir(), "missing.xlsx")); rep.Result != Failure {
		t.Errorf("expected Failure, got %s", rep)
	}
	if p.Len() != 0 {
		t.Errorf("failed opens must not be pooled, Len() = %d", p.Len())
	}
}

func TestPoolIndependentDocuments(t *testing.T) {
	paths := []string{newBook(t, "a.xlsx"), newBook(t, "b.xlsx"), newBook(t, "c.xlsx")}
	p := NewPool()
	defer p.Close()

	var wg sync.WaitGroup
	errs := make(chan string, len(paths))
	for _, path := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			w, rep := p.Get(path)
			if !rep.OK() {
				errs <- rep.String()
				return
			}
			var batch []*entry.Entry
			for i := 1; i <= 5; i++ {
				e, _ := entry.New(filepath.Base(path), entry.Text, fmt.Sprintf("B%d", i))
				batch = append(batch, e)
			}
			if rep := w.ApplyBatch(batch); !rep.OK() {
				errs <- rep.String()
			}
		}(path)
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}

	for _, path := range paths {
		if v, _ := cell(t, path, "Sheet1", "B5"); v != filepath.Base(path) {
			t.Errorf("%s B5 = %q", path, v)
		}
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if p.Len() != 0 {
		t.Error("expected empty pool after Close")
	}
}

func TestPoolReopensClosedWriter(t *testing.T) {
	path := newBook(t, "book.xlsx")
	p := NewPool()
	defer p.Close()

	w, rep := p.Get(path)
	if !rep.OK() {
		t.Fatalf("Get failed: %s", rep)
	}
	w.Close()

	again, rep := p.Get(path)
	if !rep.OK() {
		t.Fatalf("Get failed: %s", rep)
	}
	if again != w || !again.IsOpen() {
		t.Error("expected the pooled writer to be reopened")
	}
}
