package writer

import (
	"errors"
	"sync"
)

// Pool hands out one Writer per document path, so writes to different
// documents proceed in parallel while writes to the same document serialize.
type Pool struct {
	mu      sync.Mutex
	writers map[string]*Writer
	opts    []Option
}

// NewPool returns an empty pool; opts are applied to every Writer it creates.
func NewPool(opts ...Option) *Pool {
	return &Pool{writers: make(map[string]*Writer), opts: opts}
}

// Get returns the writer for path, opening the document on first use.
func (p *Pool) Get(path string) (*Writer, Report) {
	if path == "" {
		return nil, Report{Result: ParamError, Err: ErrEmptyPath}
	}
	abs, err := normalize(path)
	if err != nil {
		return nil, Report{Result: ParamError, Err: err}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[abs]; ok {
		// A failed write can leave the writer without a document.
		if !w.IsOpen() {
			if rep := w.SetDocumentPath(abs); !rep.OK() {
				return nil, rep
			}
		}
		return w, Report{Result: Success, Path: abs}
	}
	w, rep := Open(abs, p.opts...)
	if !rep.OK() {
		return nil, rep
	}
	p.writers[abs] = w
	return w, rep
}

// Len returns the number of writers in the pool.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.writers)
}

// Close closes every writer and empties the pool.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for path, w := range p.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(p.writers, path)
	}
	return errors.Join(errs...)
}
