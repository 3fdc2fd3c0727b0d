package domain

// Collection maps revisions to migrations while remembering insertion order.
// Layout tie-breaking depends on that order, so it is part of the contract.
type Collection struct {
	order []string
	byRev map[string]*Migration
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{byRev: make(map[string]*Migration)}
}

// CollectionOf builds a collection from migrations in the given order.
func CollectionOf(migrations ...*Migration) *Collection {
	c := NewCollection()
	for _, m := range migrations {
		c.Put(m)
	}
	return c
}

// Put inserts m under its revision. A repeated revision replaces the
// previous migration and keeps the original position.
func (c *Collection) Put(m *Migration) {
	if _, ok := c.byRev[m.Revision]; !ok {
		c.order = append(c.order, m.Revision)
	}
	c.byRev[m.Revision] = m
}

// Get returns the migration for rev.
func (c *Collection) Get(rev string) (*Migration, bool) {
	m, ok := c.byRev[rev]
	return m, ok
}

// Has reports whether rev is present.
func (c *Collection) Has(rev string) bool {
	_, ok := c.byRev[rev]
	return ok
}

// Len returns the number of migrations.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Revisions returns the revisions in insertion order.
func (c *Collection) Revisions() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Each calls fn for every migration in insertion order.
func (c *Collection) Each(fn func(m *Migration)) {
	for _, rev := range c.order {
		fn(c.byRev[rev])
	}
}

// Filter returns a new collection with the migrations keep accepts,
// preserving order.
func (c *Collection) Filter(keep func(m *Migration) bool) *Collection {
	out := NewCollection()
	c.Each(func(m *Migration) {
		if keep(m) {
			out.Put(m)
		}
	})
	return out
}

// Adjacency holds the parent/child maps derived from a collection.
type Adjacency struct {
	Children map[string][]string
	Parents  map[string][]string
}

// ChildrenOf returns the children of rev, empty when none were recorded.
func (a Adjacency) ChildrenOf(rev string) []string {
	return a.Children[rev]
}

// ParentsOf returns the parents of rev, empty when none were recorded.
func (a Adjacency) ParentsOf(rev string) []string {
	return a.Parents[rev]
}

// NodePosition is the logical placement of a node.
type NodePosition struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Level  int     `json:"level" yaml:"level"`
	Column int     `json:"column" yaml:"column"`
}

// Positions maps revisions to their computed placement.
type Positions map[string]NodePosition
