package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/satishbabariya/migraph/graph/query"
	"github.com/satishbabariya/migraph/graph/view"
)

// Theme turns palette slots into terminal styles
type Theme struct {
	Palette view.Palette
}

// NewTheme wraps a palette
func NewTheme(p view.Palette) Theme {
	if p == nil {
		p = view.DefaultPalette()
	}
	return Theme{Palette: p}
}

// Foreground styles text in a slot colour
func (t Theme) Foreground(slot view.Slot) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Palette.Color(slot)))
}

// Fill styles a label on a slot-coloured background
func (t Theme) Fill(slot view.Slot) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(t.Palette.Color(slot))).
		Foreground(lipgloss.Color(t.Palette.Color(view.SlotText))).
		Bold(true)
}

// KindSlot maps a node kind to its fill slot
func KindSlot(kind query.NodeKind) view.Slot {
	switch kind {
	case query.KindHead:
		return view.SlotNodeHead
	case query.KindRoot:
		return view.SlotNodeRoot
	case query.KindMerge:
		return view.SlotNodeMerge
	}
	return view.SlotNodeNormal
}

// KindLabel is the display name of a node kind
func KindLabel(kind query.NodeKind) string {
	switch kind {
	case query.KindHead:
		return "HEAD"
	case query.KindRoot:
		return "ROOT"
	case query.KindMerge:
		return "MERGE"
	}
	return "MIGRATION"
}

// Badge renders a node kind as a coloured tag
func (t Theme) Badge(kind query.NodeKind) string {
	return t.Fill(KindSlot(kind)).Padding(0, 1).Render(KindLabel(kind))
}

// Swatch renders two cells of hex as a background colour
func Swatch(hex string) string {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return "  "
	}
	return color.RGB(255, 255, 255).AddBgRGB(r, g, b).Sprint("  ")
}

// ParseHex decodes #rgb or #rrggbb
func ParseHex(hex string) (r, g, b int, err error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid colour %q", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), nil
}

var legendEntries = []struct {
	slot  view.Slot
	label string
}{
	{view.SlotNodeRoot, "root"},
	{view.SlotNodeHead, "head"},
	{view.SlotNodeMerge, "merge"},
	{view.SlotNodeNormal, "migration"},
	{view.SlotNodeSelected, "selected"},
	{view.SlotEdgeParent, "parent of selection"},
	{view.SlotEdgeChild, "child of selection"},
}

// Legend returns a one-line key of node and edge colours
func (t Theme) Legend() string {
	parts := make([]string, 0, len(legendEntries))
	for _, e := range legendEntries {
		parts = append(parts, Swatch(t.Palette.Color(e.slot))+" "+e.label)
	}
	return strings.Join(parts, "  ")
}

// PrintLegend prints the legend
func (t Theme) PrintLegend() {
	fmt.Fprintln(Out, t.Legend())
}

// PrintPalette lists every slot with its colour
func (t Theme) PrintPalette() error {
	rows := make([][]string, 0, len(view.Slots()))
	for _, slot := range view.Slots() {
		c := t.Palette.Color(slot)
		rows = append(rows, []string{string(slot), Swatch(c) + " " + c})
	}
	return PrintTable([]string{"Slot", "Colour"}, rows)
}

// SummaryLine formats the stats line shown under the graph
func SummaryLine(s query.Stats, filtered bool, unfiltered int) string {
	total := fmt.Sprintf("%d migrations", s.Total)
	if filtered {
		total = fmt.Sprintf("%d/%d migrations (filtered)", s.Total, unfiltered)
	}
	return fmt.Sprintf("%s | %d merges | %d heads | %d roots", total, s.Merges, s.Heads, s.Roots)
}
