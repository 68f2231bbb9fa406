package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrNotFound is returned when a plan id is not in the store.
var ErrNotFound = fmt.Errorf("plan not found")

// document is the on-disk shape of the plan store.
type document struct {
	Plans map[string]*Plan `json:"plans"`
}

// Store persists plans as indented JSON at a single path. Each operation
// loads, mutates, and rewrites the file; this is bookkeeping, not a
// durability layer.
type Store struct {
	path string
}

// NewStore returns a Store backed by the file at path. The file is created
// on first save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) load() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &document{Plans: map[string]*Plan{}}, nil
		}
		return nil, fmt.Errorf("read plans file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse plans file: %w", err)
	}
	if doc.Plans == nil {
		doc.Plans = map[string]*Plan{}
	}
	return &doc, nil
}

func (s *Store) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal plans: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create plans dir: %w", err)
	}

	// Write-then-rename keeps a crash from truncating the store.
	tmp, err := os.CreateTemp(dir, "plans-*.json")
	if err != nil {
		return fmt.Errorf("create temp plans file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write plans file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close plans file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace plans file: %w", err)
	}
	return nil
}

// Add persists a new plan.
func (s *Store) Add(p *Plan) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Plans[p.ID] = p
	return s.save(doc)
}

// Get returns the plan with the given id, or ErrNotFound.
func (s *Store) Get(id string) (*Plan, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	p, ok := doc.Plans[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

// List returns all plans ordered by creation time.
func (s *Store) List() ([]*Plan, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	plans := make([]*Plan, 0, len(doc.Plans))
	for _, p := range doc.Plans {
		plans = append(plans, p)
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].CreatedAt.Before(plans[j].CreatedAt)
	})
	return plans, nil
}

// Update rewrites an existing plan, failing with ErrNotFound for unknown ids.
func (s *Store) Update(p *Plan) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc.Plans[p.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}
	doc.Plans[p.ID] = p
	return s.save(doc)
}

// Delete removes the plan with the given id, failing with ErrNotFound for
// unknown ids.
func (s *Store) Delete(id string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc.Plans[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(doc.Plans, id)
	return s.save(doc)
}
