// Package render draws a migration graph onto a character grid.
//
// Logical layout pixels map to terminal cells through the view camera:
// one cell is CellWidth pixels wide and CellHeight pixels tall, so the
// default spacing puts columns 15 cells apart and levels 5 rows apart.
package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/satishbabariya/migraph/cli/internal/ui"
	"github.com/satishbabariya/migraph/graph"
	"github.com/satishbabariya/migraph/graph/domain"
	"github.com/satishbabariya/migraph/graph/layout"
	"github.com/satishbabariya/migraph/graph/view"
)

// Cell size in logical pixels.
const (
	CellWidth  = 10.0
	CellHeight = 20.0
)

// Options control colouring.
type Options struct {
	Color bool
	Theme ui.Theme
}

type style struct {
	fg, bg string
	bold   bool
}

type cell struct {
	ch rune
	st style
}

// Canvas is a fixed-size grid of styled runes.
type Canvas struct {
	cols, rows int
	cells      []cell
}

// NewCanvas creates a blank canvas.
func NewCanvas(cols, rows int) *Canvas {
	cols, rows = max(cols, 0), max(rows, 0)
	c := &Canvas{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
	for i := range c.cells {
		c.cells[i].ch = ' '
	}
	return c
}

func (c *Canvas) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return nil
	}
	return &c.cells[row*c.cols+col]
}

func (c *Canvas) set(col, row int, ch rune, st style) {
	if p := c.at(col, row); p != nil {
		p.ch, p.st = ch, st
	}
}

// line merges ch with what is already there so crossings stay visible.
func (c *Canvas) line(col, row int, ch rune, st style) {
	p := c.at(col, row)
	if p == nil {
		return
	}
	switch {
	case p.ch == ch || p.ch == ' ':
	case (p.ch == '│' && ch == '─') || (p.ch == '─' && ch == '│') || p.ch == '┼':
		ch = '┼'
	}
	p.ch = ch
	if st.bold || !p.st.bold {
		p.st = st
	}
}

func (c *Canvas) text(col, row int, s string, st style) {
	for i, r := range []rune(s) {
		c.set(col+i, row, r, st)
	}
}

// Lines returns the canvas rows, styled when opts.Color is set.
func (c *Canvas) Lines(opts Options) []string {
	out := make([]string, c.rows)
	for row := 0; row < c.rows; row++ {
		cells := c.cells[row*c.cols : (row+1)*c.cols]
		if !opts.Color {
			var b strings.Builder
			for _, cl := range cells {
				b.WriteRune(cl.ch)
			}
			out[row] = strings.TrimRight(b.String(), " ")
			continue
		}

		var b strings.Builder
		start := 0
		for i := 1; i <= len(cells); i++ {
			if i < len(cells) && cells[i].st == cells[start].st {
				continue
			}
			var run strings.Builder
			for _, cl := range cells[start:i] {
				run.WriteRune(cl.ch)
			}
			b.WriteString(paint(cells[start].st, run.String()))
			start = i
		}
		out[row] = b.String()
	}
	return out
}

func paint(st style, s string) string {
	if st == (style{}) {
		return s
	}
	ls := lipgloss.NewStyle().Bold(st.bold)
	if st.fg != "" {
		ls = ls.Foreground(lipgloss.Color(st.fg))
	}
	if st.bg != "" {
		ls = ls.Background(lipgloss.Color(st.bg))
	}
	return ls.Render(s)
}

func toCell(p view.Point) (int, int) {
	return int(math.Floor(p.X / CellWidth)), int(math.Floor(p.Y / CellHeight))
}

// Draw renders the controller's visible area onto a cols x rows canvas.
// The controller's viewport should match the canvas size in pixels.
func Draw(ctrl *view.Controller, cols, rows int, opts Options) *Canvas {
	canvas := NewCanvas(cols, rows)
	palette := opts.Theme.Palette
	if palette == nil {
		palette = view.DefaultPalette()
	}

	for _, e := range ctrl.Edges() {
		from, ok1 := ctrl.ScreenPosition(e.From)
		to, ok2 := ctrl.ScreenPosition(e.To)
		if !ok1 || !ok2 {
			continue
		}
		st := style{fg: palette.Color(e.Slot), bold: e.Width > view.NormalWidth}
		drawEdge(canvas, from, to, st)
	}

	state := ctrl.State()
	labelWidth := labelCells(state.Layout, ctrl.Camera().Scale)
	for _, rev := range state.Collection.Revisions() {
		p, ok := ctrl.ScreenPosition(rev)
		if !ok {
			continue
		}
		ns := ctrl.NodeStyle(rev)
		label := domain.ShortRevision(ns.Label, labelWidth)
		col, row := toCell(p)
		start := col - (len(label)+2)/2

		border := style{fg: view.DefaultBorderColor}
		if ns.Border != "" {
			border = style{fg: palette.Color(ns.Border), bold: true}
		}
		fill := style{fg: palette.Color(view.SlotText), bg: palette.Color(ns.Fill), bold: ns.Fill == view.SlotNodeSelected}

		canvas.set(start, row, '[', border)
		canvas.text(start+1, row, label, fill)
		canvas.set(start+1+len(label), row, ']', border)
	}
	return canvas
}

// labelCells is how many characters of a revision fit between columns.
func labelCells(cfg layout.Config, scale float64) int {
	room := int(cfg.ColumnWidth*scale/CellWidth) - 3
	return min(max(room, 1), view.ShortRevLength)
}

// drawEdge routes parent to child down, across, then down.
func drawEdge(c *Canvas, parent, child view.Point, st style) {
	pc, pr := toCell(parent)
	cc, cr := toCell(child)
	if cr < pr {
		pc, pr, cc, cr = cc, cr, pc, pr
	}
	mid := pr + (cr-pr)/2

	for r := pr + 1; r <= mid; r++ {
		c.line(pc, r, '│', st)
	}
	step := 1
	if cc < pc {
		step = -1
	}
	if pc != cc {
		for col := pc; col != cc+step; col += step {
			c.line(col, mid, '─', st)
		}
	}
	for r := mid; r < cr; r++ {
		if r == mid && pc != cc {
			continue
		}
		c.line(cc, r, '│', st)
	}
}

// Static renders a whole state at scale 1 without interaction.
func Static(s *graph.State, opts Options) []string {
	ctrl := view.NewController(s.Layout, view.Hooks{})
	ctrl.SetState(s, false)
	w, h := layout.Extent(s.Positions, s.Layout)
	ctrl.SetViewport(w, h)

	cols := int(math.Ceil(w / CellWidth))
	rows := int(math.Ceil(h / CellHeight))
	return Draw(ctrl, cols, rows, opts).Lines(opts)
}
