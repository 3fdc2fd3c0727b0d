// Package graph ties the engine stages together into an immutable view state.
//
// A State is rebuilt wholesale on every reload or filter and swapped by its
// owner; nothing in it is mutated after New returns.
package graph

import (
	"path/filepath"

	"github.com/satishbabariya/migraph/graph/builder"
	"github.com/satishbabariya/migraph/graph/domain"
	"github.com/satishbabariya/migraph/graph/layout"
	"github.com/satishbabariya/migraph/graph/query"
)

// State is the collection, adjacency and positions of one view.
type State struct {
	Location   domain.Location
	Collection *domain.Collection
	Adjacency  domain.Adjacency
	Positions  domain.Positions
	Layout     layout.Config

	// Fingerprint identifies the loaded file set, empty when unknown.
	Fingerprint string
	// FilterFrom and FilterTo record the active date filter.
	FilterFrom string
	FilterTo   string
	// Unfiltered is the total before filtering.
	Unfiltered int
}

// New builds a state from a collection.
func New(loc domain.Location, c *domain.Collection, cfg layout.Config) *State {
	if c == nil {
		c = domain.NewCollection()
	}
	adj := builder.Build(c)
	return &State{
		Location:   loc,
		Collection: c,
		Adjacency:  adj,
		Positions:  layout.Compute(c, adj, cfg),
		Layout:     cfg,
		Unfiltered: c.Len(),
	}
}

// Empty returns a state with no migrations.
func Empty(cfg layout.Config) *State {
	return New(domain.Location{}, nil, cfg)
}

// Filter returns a new state restricted to the date range. Edges to
// excluded revisions disappear, so heads and roots are recomputed within
// the subset.
func (s *State) Filter(from, to string) (*State, error) {
	c, err := query.FilterByDate(s.Collection, from, to)
	if err != nil {
		return nil, err
	}
	next := New(s.Location, c, s.Layout)
	next.Fingerprint = s.Fingerprint
	next.FilterFrom, next.FilterTo = from, to
	next.Unfiltered = s.Unfiltered
	return next, nil
}

// Filtered reports whether a date filter produced this state.
func (s *State) Filtered() bool {
	return s.FilterFrom != "" || s.FilterTo != ""
}

// Heads returns the heads of the state.
func (s *State) Heads() []string {
	return query.Heads(s.Collection, s.Adjacency)
}

// Roots returns the roots of the state.
func (s *State) Roots() []string {
	return query.Roots(s.Collection, s.Adjacency)
}

// Stats summarises the state.
func (s *State) Stats() query.Stats {
	return query.Summarize(s.Collection, s.Adjacency)
}

// Kind classifies rev.
func (s *State) Kind(rev string) query.NodeKind {
	return query.Classify(s.Collection, s.Adjacency, rev)
}

// SourcePath resolves the file backing rev.
func (s *State) SourcePath(rev string) (string, bool) {
	m, ok := s.Collection.Get(rev)
	if !ok {
		return "", false
	}
	return filepath.Join(s.Location.Path, m.Filename), true
}
