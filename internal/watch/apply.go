package watch

import (
	"fmt"

	"github.com/klytics/cellkit/internal/plan"
	"github.com/klytics/cellkit/internal/writer"
)

// PlanHandler returns a Handler that loads each file as a plan and writes
// it through pool. Entries without a document go to defaultDoc.
//
// Each document group is applied as one batch on the pooled writer for that
// document, so writes never switch a pooled writer to another document.
func PlanHandler(pool *writer.Pool, defaultDoc string) Handler {
	return func(path string) (int, error) {
		p, err := plan.Load(path)
		if err != nil {
			return 0, err
		}
		groups, err := p.Groups()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}

		applied := 0
		for _, g := range groups {
			doc := g.Document
			if doc == "" {
				doc = defaultDoc
			}
			if doc == "" {
				return applied, fmt.Errorf("%s: %d entries name no document and no default is set — add 'document:' to the plan or pass --doc", path, len(g.Entries))
			}

			w, rep := pool.Get(doc)
			if !rep.OK() {
				return applied, fmt.Errorf("%s: %s", doc, rep)
			}
			rep = w.ApplyBatch(g.Entries)
			applied += rep.Applied
			if !rep.OK() {
				return applied, fmt.Errorf("%s: %s", doc, rep)
			}
		}
		return applied, nil
	}
}
