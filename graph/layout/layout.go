// Package layout places migration nodes on levels and columns.
//
// A node's level is its longest-path distance from a root, so every edge
// points from a lower level to a higher one. Within a level nodes are
// ordered by creation date, with collection order breaking ties, which
// makes the layout reproducible for identical input.
package layout

import (
	"sort"

	"github.com/satishbabariya/migraph/graph/domain"
)

// Config holds the spacing constants of the logical coordinate space.
type Config struct {
	BaseX       float64 `json:"base_x" yaml:"base_x"`
	BaseY       float64 `json:"base_y" yaml:"base_y"`
	ColumnWidth float64 `json:"column_width" yaml:"column_width"`
	LevelHeight float64 `json:"level_height" yaml:"level_height"`
	NodeRadius  float64 `json:"node_radius" yaml:"node_radius"`
}

// DefaultConfig returns the standard spacing.
func DefaultConfig() Config {
	return Config{
		BaseX:       100,
		BaseY:       50,
		ColumnWidth: 150,
		LevelHeight: 100,
		NodeRadius:  32,
	}
}

// Compute assigns a position to every revision in c.
func Compute(c *domain.Collection, adj domain.Adjacency, cfg Config) domain.Positions {
	positions := make(domain.Positions, c.Len())
	if c.Len() == 0 {
		return positions
	}

	levels := AssignLevels(c, adj)

	groups := make(map[int][]string)
	maxLevel := 0
	for _, rev := range c.Revisions() {
		lvl := levels[rev]
		groups[lvl] = append(groups[lvl], rev)
		if lvl > maxLevel {
			maxLevel = lvl
		}
	}

	for lvl := 0; lvl <= maxLevel; lvl++ {
		revs := groups[lvl]
		sort.SliceStable(revs, func(i, j int) bool {
			return dateOf(c, revs[i]) < dateOf(c, revs[j])
		})
		for col, rev := range revs {
			positions[rev] = domain.NodePosition{
				X:      cfg.BaseX + float64(col)*cfg.ColumnWidth,
				Y:      cfg.BaseY + float64(lvl)*cfg.LevelHeight,
				Level:  lvl,
				Column: col,
			}
		}
	}
	return positions
}

func dateOf(c *domain.Collection, rev string) string {
	m, _ := c.Get(rev)
	return m.CreateDate
}

// frame is one pending node on the traversal stack.
type frame struct {
	rev  string
	next int // index of the next parent to visit
	max  int // highest parent level seen so far
}

// AssignLevels computes longest-path levels with an explicit stack.
//
// Cyclic input is tolerated: an edge back to a node still on the stack
// contributes that node's best-known level, which is 0 because in-progress
// nodes have none yet. Levels on such a cycle are not meaningful, but the
// traversal always terminates.
func AssignLevels(c *domain.Collection, adj domain.Adjacency) map[string]int {
	levels := make(map[string]int, c.Len())
	inProgress := make(map[string]bool)

	for _, start := range c.Revisions() {
		if _, done := levels[start]; done {
			continue
		}

		stack := []frame{{rev: start, max: -1}}
		inProgress[start] = true

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			parents := adj.ParentsOf(top.rev)

			if top.next < len(parents) {
				p := parents[top.next]
				top.next++
				if !c.Has(p) {
					continue
				}
				if lvl, done := levels[p]; done {
					top.max = max(top.max, lvl)
					continue
				}
				if inProgress[p] {
					top.max = max(top.max, levels[p])
					continue
				}
				inProgress[p] = true
				stack = append(stack, frame{rev: p, max: -1})
				continue
			}

			lvl := top.max + 1
			levels[top.rev] = lvl
			delete(inProgress, top.rev)
			stack = stack[:len(stack)-1]
			if n := len(stack); n > 0 {
				stack[n-1].max = max(stack[n-1].max, lvl)
			}
		}
	}
	return levels
}

// Extent returns the logical content size of a layout.
func Extent(positions domain.Positions, cfg Config) (width, height float64) {
	if len(positions) == 0 {
		return 0, 0
	}
	for _, p := range positions {
		width = max(width, p.X)
		height = max(height, p.Y)
	}
	return width + cfg.ColumnWidth, height + cfg.LevelHeight
}

// Levels groups revisions by level, each level in column order.
func Levels(positions domain.Positions) [][]string {
	maxLevel := -1
	for _, p := range positions {
		maxLevel = max(maxLevel, p.Level)
	}
	out := make([][]string, maxLevel+1)
	for rev, p := range positions {
		out[p.Level] = append(out[p.Level], rev)
	}
	for _, revs := range out {
		sort.Slice(revs, func(i, j int) bool {
			return positions[revs[i]].Column < positions[revs[j]].Column
		})
	}
	return out
}
