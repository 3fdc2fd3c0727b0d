package applied

import (
	"slices"

	"github.com/satishbabariya/migraph/graph/domain"
	"github.com/satishbabariya/migraph/graph/query"
)

// Status compares a database against a migration graph.
type Status struct {
	// Current is what the version table holds.
	Current []string `json:"current" yaml:"current"`
	// Applied are the current revisions and all their ancestors.
	Applied []string `json:"applied" yaml:"applied"`
	// Pending are revisions not yet applied, oldest first.
	Pending []string `json:"pending" yaml:"pending"`
	// Unknown are stamped revisions missing from the graph.
	Unknown []string `json:"unknown" yaml:"unknown"`
	// AtHead is true when the stamped revisions are exactly the heads.
	AtHead bool `json:"at_head" yaml:"at_head"`
}

// Compare computes the status of current against the graph.
func Compare(c *domain.Collection, adj domain.Adjacency, current []string) Status {
	st := Status{
		Current: slices.Clone(current),
		Applied: []string{},
		Pending: []string{},
		Unknown: []string{},
	}
	if st.Current == nil {
		st.Current = []string{}
	}

	applied := make(map[string]bool)
	for _, rev := range current {
		if !c.Has(rev) {
			st.Unknown = append(st.Unknown, rev)
			continue
		}
		applied[rev] = true
		for _, a := range query.Ancestors(adj, rev) {
			applied[a] = true
		}
	}

	for _, rev := range c.Revisions() {
		if applied[rev] {
			st.Applied = append(st.Applied, rev)
		} else {
			st.Pending = append(st.Pending, rev)
		}
	}
	query.SortByDate(c, st.Applied)
	query.SortByDate(c, st.Pending)

	heads := query.Heads(c, adj)
	known := slices.DeleteFunc(slices.Clone(current), func(rev string) bool { return !c.Has(rev) })
	slices.Sort(heads)
	slices.Sort(known)
	known = slices.Compact(known)
	st.AtHead = len(st.Unknown) == 0 && len(heads) > 0 && slices.Equal(heads, known)
	return st
}
