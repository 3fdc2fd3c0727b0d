package view

import (
	"slices"

	"github.com/satishbabariya/migraph/graph/domain"
	"github.com/satishbabariya/migraph/graph/query"
)

// Slot names a themeable colour.
type Slot string

const (
	SlotNodeNormal       Slot = "node_normal"
	SlotNodeHead         Slot = "node_head"
	SlotNodeRoot         Slot = "node_root"
	SlotNodeMerge        Slot = "node_merge"
	SlotNodeSelected     Slot = "node_selected"
	SlotEdgeNormal       Slot = "edge_normal"
	SlotEdgeMerge        Slot = "edge_merge"
	SlotEdgeParent       Slot = "edge_parent"
	SlotEdgeChild        Slot = "edge_child"
	SlotNodeParentBorder Slot = "node_parent_border"
	SlotNodeChildBorder  Slot = "node_child_border"
	SlotText             Slot = "text"
	SlotBackground       Slot = "background"
)

// DefaultBorderColor outlines nodes that are not highlighted.
const DefaultBorderColor = "#2c3e50"

// Border and edge widths in logical pixels.
const (
	NormalWidth    = 2
	HighlightWidth = 4
)

var defaultColors = map[Slot]string{
	SlotNodeNormal:       "#4a90d9",
	SlotNodeHead:         "#9b59b6",
	SlotNodeRoot:         "#f1c40f",
	SlotNodeMerge:        "#e67e22",
	SlotNodeSelected:     "#2ecc71",
	SlotEdgeNormal:       "#7f8c8d",
	SlotEdgeMerge:        "#e67e22",
	SlotEdgeParent:       "#27ae60",
	SlotEdgeChild:        "#58d68d",
	SlotNodeParentBorder: "#27ae60",
	SlotNodeChildBorder:  "#58d68d",
	SlotText:             "#2c3e50",
	SlotBackground:       "#ecf0f1",
}

var slotOrder = []Slot{
	SlotNodeNormal, SlotNodeHead, SlotNodeRoot, SlotNodeMerge, SlotNodeSelected,
	SlotEdgeNormal, SlotEdgeMerge, SlotEdgeParent, SlotEdgeChild,
	SlotNodeParentBorder, SlotNodeChildBorder, SlotText, SlotBackground,
}

// Slots lists every slot in display order.
func Slots() []Slot {
	return slices.Clone(slotOrder)
}

// IsSlot reports whether name is a known slot.
func IsSlot(name string) bool {
	_, ok := defaultColors[Slot(name)]
	return ok
}

// Palette maps slots to "#rrggbb" colours.
type Palette map[Slot]string

// DefaultPalette returns a fresh copy of the built-in colours.
func DefaultPalette() Palette {
	p := make(Palette, len(defaultColors))
	for k, v := range defaultColors {
		p[k] = v
	}
	return p
}

// Merge returns a copy of p with overrides applied. Unknown slot names are
// ignored.
func (p Palette) Merge(overrides map[string]string) Palette {
	out := make(Palette, len(p))
	for k, v := range p {
		out[k] = v
	}
	for name, color := range overrides {
		if IsSlot(name) && color != "" {
			out[Slot(name)] = color
		}
	}
	return out
}

// Color returns the colour of slot, falling back to the default.
func (p Palette) Color(slot Slot) string {
	if c, ok := p[slot]; ok && c != "" {
		return c
	}
	return defaultColors[slot]
}

// NodeStyle describes how one node is drawn.
type NodeStyle struct {
	Fill Slot
	// Border is empty for the default outline.
	Border      Slot
	BorderWidth int
	Label       string
}

// NodeStyle returns the style of rev given the current selection.
func (c *Controller) NodeStyle(rev string) NodeStyle {
	st := NodeStyle{
		Fill:        c.fillSlot(rev),
		BorderWidth: NormalWidth,
		Label:       domain.ShortRevision(rev, ShortRevLength),
	}

	if c.selected == "" || rev == c.selected {
		return st
	}
	adj := c.state.Adjacency
	switch {
	case slices.Contains(adj.ParentsOf(c.selected), rev):
		st.Border, st.BorderWidth = SlotNodeParentBorder, HighlightWidth
	case slices.Contains(adj.ChildrenOf(c.selected), rev):
		st.Border, st.BorderWidth = SlotNodeChildBorder, HighlightWidth
	}
	return st
}

func (c *Controller) fillSlot(rev string) Slot {
	if rev == c.selected {
		return SlotNodeSelected
	}
	switch c.state.Kind(rev) {
	case query.KindHead:
		return SlotNodeHead
	case query.KindRoot:
		return SlotNodeRoot
	case query.KindMerge:
		return SlotNodeMerge
	}
	return SlotNodeNormal
}

// Edge is one drawn connection. It runs from the child To back to the
// parent From.
type Edge struct {
	From  string
	To    string
	Slot  Slot
	Width int
}

// Edges returns every edge between positioned nodes, children in collection
// order and parents in declaration order.
func (c *Controller) Edges() []Edge {
	s := c.state
	var selParents, selChildren []string
	if c.selected != "" {
		selParents = s.Adjacency.ParentsOf(c.selected)
		selChildren = s.Adjacency.ChildrenOf(c.selected)
	}

	edges := []Edge{}
	for _, rev := range s.Collection.Revisions() {
		if _, ok := s.Positions[rev]; !ok {
			continue
		}
		parents := s.Adjacency.ParentsOf(rev)
		for _, parent := range parents {
			if _, ok := s.Positions[parent]; !ok {
				continue
			}
			e := Edge{From: parent, To: rev, Slot: SlotEdgeNormal, Width: NormalWidth}
			switch {
			case c.selected != "" && rev == c.selected && slices.Contains(selParents, parent):
				e.Slot, e.Width = SlotEdgeParent, HighlightWidth
			case c.selected != "" && parent == c.selected && slices.Contains(selChildren, rev):
				e.Slot, e.Width = SlotEdgeChild, HighlightWidth
			case len(parents) > 1:
				e.Slot = SlotEdgeMerge
			}
			edges = append(edges, e)
		}
	}
	return edges
}

// SourcePath resolves the file behind rev in the current state.
func (c *Controller) SourcePath(rev string) (string, bool) {
	return c.state.SourcePath(rev)
}
