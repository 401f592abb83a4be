// Package plan reads write plans: YAML (or JSON) files listing cell writes.
package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klytics/cellkit/internal/address"
	"github.com/klytics/cellkit/internal/entry"
)

// Scalar is a YAML scalar kept as its source text, so `value: 42` and
// `value: "42"` decode alike.
type Scalar string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	*s = Scalar(node.Value)
	return nil
}

// Plan is a list of cell writes with shared defaults.
type Plan struct {
	Document string `yaml:"document,omitempty" json:"document,omitempty"`
	Notation string `yaml:"notation,omitempty" json:"notation,omitempty"`
	Sheet    int    `yaml:"sheet,omitempty" json:"sheet,omitempty"`
	Items    []Item `yaml:"entries" json:"entries"`

	baseDir string
}

// Item is one write in a plan. Empty fields inherit the plan's defaults.
type Item struct {
	Address  string `yaml:"address" json:"address"`
	Notation string `yaml:"notation,omitempty" json:"notation,omitempty"`
	Kind     string `yaml:"kind,omitempty" json:"kind,omitempty"`
	Value    Scalar `yaml:"value" json:"value"`
	Sheet    int    `yaml:"sheet,omitempty" json:"sheet,omitempty"`
	Document string `yaml:"document,omitempty" json:"document,omitempty"`
}

// Group is a run of entries bound for one document.
type Group struct {
	Document string
	Entries  []*entry.Entry
}

// Load reads and validates a plan file. Relative document paths in it are
// resolved against the file's directory.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("plan file not found: %s — check that the path is correct", path)
		}
		return nil, fmt.Errorf("could not read plan file %s: %w", path, err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.baseDir = filepath.Dir(path)
	return p, nil
}

// Parse decodes and validates a plan.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Plan) validate() error {
	if len(p.Items) == 0 {
		return fmt.Errorf("plan has no entries")
	}
	if p.Sheet < 0 {
		return fmt.Errorf("plan sheet must be 1 or greater, got %d", p.Sheet)
	}
	if err := checkNotation(p.Notation); err != nil {
		return fmt.Errorf("plan: %w", err)
	}
	for i, it := range p.Items {
		if strings.TrimSpace(it.Address) == "" {
			return fmt.Errorf("entry %d is missing an 'address' field", i+1)
		}
		if _, err := entry.ParseValueKind(it.Kind); err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
		if err := checkNotation(it.Notation); err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	return nil
}

func checkNotation(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "a1", "r1c1":
		return nil
	}
	return fmt.Errorf("unknown notation %q — expected a1 or r1c1", s)
}

// Entries builds the plan's entries with defaults applied.
func (p *Plan) Entries() ([]*entry.Entry, error) {
	out := make([]*entry.Entry, 0, len(p.Items))
	for i, it := range p.Items {
		e, err := p.build(it)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Groups splits the entries by target document, keeping the order in which
// documents first appear and the order of entries within each. Entries with
// no document of their own and no plan default form a group with Document "".
func (p *Plan) Groups() ([]Group, error) {
	entries, err := p.Entries()
	if err != nil {
		return nil, err
	}

	var groups []Group
	index := make(map[string]int)
	for _, e := range entries {
		i, ok := index[e.DocumentPath]
		if !ok {
			i = len(groups)
			index[e.DocumentPath] = i
			groups = append(groups, Group{Document: e.DocumentPath})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups, nil
}

func (p *Plan) build(it Item) (*entry.Entry, error) {
	kind, err := entry.ParseValueKind(it.Kind)
	if err != nil {
		return nil, err
	}

	notation := p.Notation
	if it.Notation != "" {
		notation = it.Notation
	}
	sheet := p.Sheet
	if it.Sheet != 0 {
		sheet = it.Sheet
	}
	if sheet == 0 {
		sheet = 1
	}
	doc := p.Document
	if it.Document != "" {
		doc = it.Document
	}

	return entry.New(string(it.Value), kind, strings.TrimSpace(it.Address),
		entry.WithNotation(address.ParseNotation(notation)),
		entry.WithSheetNumber(sheet),
		entry.WithDocument(p.resolve(doc)),
	)
}

func (p *Plan) resolve(doc string) string {
	if doc == "" || filepath.IsAbs(doc) || p.baseDir == "" {
		return doc
	}
	return filepath.Join(p.baseDir, doc)
}
