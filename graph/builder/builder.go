// Package builder derives parent/child adjacency from a migration collection.
package builder

import (
	"github.com/satishbabariya/migraph/graph/domain"
)

// Build returns the adjacency maps of c. A root gets an explicit empty
// parent list; references to revisions outside c are dropped.
func Build(c *domain.Collection) domain.Adjacency {
	adj := domain.Adjacency{
		Children: make(map[string][]string),
		Parents:  make(map[string][]string),
	}

	c.Each(func(m *domain.Migration) {
		switch m.Down.Kind() {
		case domain.DownNone:
			adj.Parents[m.Revision] = []string{}
		case domain.DownSingle, domain.DownMerge:
			for _, parent := range m.Down.Revisions() {
				if !c.Has(parent) {
					continue
				}
				addEdge(adj, parent, m.Revision)
			}
		}
	})

	return adj
}

func addEdge(adj domain.Adjacency, parent, child string) {
	if contains(adj.Parents[child], parent) {
		return
	}
	adj.Parents[child] = append(adj.Parents[child], parent)
	adj.Children[parent] = append(adj.Children[parent], child)
}

// DanglingRef is a down revision that names a revision outside the collection.
type DanglingRef struct {
	Revision string
	Missing  string
}

// DanglingRefs lists the references Build dropped, in collection order.
func DanglingRefs(c *domain.Collection) []DanglingRef {
	var refs []DanglingRef
	c.Each(func(m *domain.Migration) {
		switch m.Down.Kind() {
		case domain.DownNone:
		case domain.DownSingle, domain.DownMerge:
			for _, parent := range m.Down.Revisions() {
				if !c.Has(parent) {
					refs = append(refs, DanglingRef{Revision: m.Revision, Missing: parent})
				}
			}
		}
	})
	return refs
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
