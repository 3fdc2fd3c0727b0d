// Package query answers read-only questions about a migration graph.
package query

import (
	"errors"
	"slices"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/satishbabariya/migraph/graph/domain"
)

// ErrEmptyDateRange is returned when a date filter has neither bound.
var ErrEmptyDateRange = errors.New("at least one date bound is required")

// Heads returns the revisions nothing depends on, in collection order.
func Heads(c *domain.Collection, adj domain.Adjacency) []string {
	heads := []string{}
	for _, rev := range c.Revisions() {
		if len(adj.ChildrenOf(rev)) == 0 {
			heads = append(heads, rev)
		}
	}
	return heads
}

// Roots returns the revisions without parents, in collection order.
func Roots(c *domain.Collection, adj domain.Adjacency) []string {
	roots := []string{}
	for _, rev := range c.Revisions() {
		if len(adj.ParentsOf(rev)) == 0 {
			roots = append(roots, rev)
		}
	}
	return roots
}

// Ancestors returns every revision reachable through parent edges, nearest
// first. The start revision is never included.
func Ancestors(adj domain.Adjacency, rev string) []string {
	return walk(rev, adj.ParentsOf)
}

// Descendants returns every revision reachable through child edges.
func Descendants(adj domain.Adjacency, rev string) []string {
	return walk(rev, adj.ChildrenOf)
}

func walk(start string, next func(string) []string) []string {
	seen := map[string]bool{start: true}
	queue := []string{start}
	out := []string{}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range next(cur) {
			if seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
			queue = append(queue, n)
		}
	}
	return out
}

// FindNodes searches revisions and messages. An exact revision match
// (case-insensitive) is returned alone; otherwise substring matches are
// returned ordered by creation date, undated first.
func FindNodes(c *domain.Collection, text string) []string {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return []string{}
	}

	for _, rev := range c.Revisions() {
		if strings.ToLower(rev) == q {
			return []string{rev}
		}
	}

	results := []string{}
	c.Each(func(m *domain.Migration) {
		if strings.Contains(strings.ToLower(m.Revision), q) ||
			strings.Contains(strings.ToLower(m.Message), q) {
			results = append(results, m.Revision)
		}
	})

	SortByDate(c, results)
	return results
}

// SortByDate stable-sorts revisions by CreateDate; empty dates come first.
func SortByDate(c *domain.Collection, revs []string) {
	sort.SliceStable(revs, func(i, j int) bool {
		return createDate(c, revs[i]) < createDate(c, revs[j])
	})
}

func createDate(c *domain.Collection, rev string) string {
	if m, ok := c.Get(rev); ok {
		return m.CreateDate
	}
	return ""
}

// Suggest returns up to limit revisions whose id or message fuzzily match
// text, closest first. It backs "did you mean" hints.
func Suggest(c *domain.Collection, text string, limit int) []string {
	q := strings.TrimSpace(text)
	if q == "" {
		return nil
	}

	revs := c.Revisions()
	targets := make([]string, len(revs))
	for i, rev := range revs {
		m, _ := c.Get(rev)
		targets[i] = rev + " " + m.Message
	}

	ranks := fuzzy.RankFindFold(q, targets)
	sort.Sort(ranks)

	var out []string
	for _, r := range ranks {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, revs[r.OriginalIndex])
	}
	return out
}

// FilterByDate keeps the migrations whose creation day lies within the
// inclusive bounds. An empty bound is open.
func FilterByDate(c *domain.Collection, from, to string) (*domain.Collection, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" && to == "" {
		return nil, ErrEmptyDateRange
	}
	return c.Filter(func(m *domain.Migration) bool {
		day := m.DateKey()
		if from != "" && day < from {
			return false
		}
		if to != "" && day > to {
			return false
		}
		return true
	}), nil
}

// Cyclic returns the revisions that can reach themselves through parent
// edges, in collection order.
func Cyclic(c *domain.Collection, adj domain.Adjacency) []string {
	var out []string
	for _, rev := range c.Revisions() {
		for _, parent := range adj.ParentsOf(rev) {
			if parent == rev || slices.Contains(Ancestors(adj, parent), rev) {
				out = append(out, rev)
				break
			}
		}
	}
	return out
}
