package query

import "github.com/satishbabariya/migraph/graph/domain"

// NodeKind classifies a revision for display.
type NodeKind string

const (
	KindNormal NodeKind = "normal"
	KindHead   NodeKind = "head"
	KindRoot   NodeKind = "root"
	KindMerge  NodeKind = "merge"
)

// Classify returns the kind of rev. Head wins over root, root over merge.
func Classify(c *domain.Collection, adj domain.Adjacency, rev string) NodeKind {
	switch {
	case len(adj.ChildrenOf(rev)) == 0:
		return KindHead
	case len(adj.ParentsOf(rev)) == 0:
		return KindRoot
	}
	if m, ok := c.Get(rev); ok && m.IsMerge() {
		return KindMerge
	}
	return KindNormal
}

// Stats summarises a collection.
type Stats struct {
	Total  int `json:"total" yaml:"total"`
	Merges int `json:"merges" yaml:"merges"`
	Heads  int `json:"heads" yaml:"heads"`
	Roots  int `json:"roots" yaml:"roots"`
}

// Summarize counts migrations, merges, heads and roots.
func Summarize(c *domain.Collection, adj domain.Adjacency) Stats {
	s := Stats{
		Total: c.Len(),
		Heads: len(Heads(c, adj)),
		Roots: len(Roots(c, adj)),
	}
	c.Each(func(m *domain.Migration) {
		if m.IsMerge() {
			s.Merges++
		}
	})
	return s
}
