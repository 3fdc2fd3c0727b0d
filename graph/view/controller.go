// Package view implements the interaction controller of the graph viewer.
//
// The controller owns selection, camera and pointer-gesture state on top of
// an immutable graph.State. It translates pointer input into graph
// operations and reports them through Hooks. Screen coordinates are pixels
// relative to the viewport's top-left corner; camera offsets are measured in
// scaled content pixels.
//
// A Controller is not safe for concurrent use; drive it from one UI loop.
package view

import (
	"math"

	"github.com/satishbabariya/migraph/graph"
	"github.com/satishbabariya/migraph/graph/layout"
)

// Zoom and gesture constants.
const (
	MinScale       = 0.3
	MaxScale       = 3.0
	ZoomInFactor   = 1.1
	ZoomOutFactor  = 0.9
	DragThreshold  = 5.0
	ShortRevLength = 8
)

// Point is a screen or content coordinate.
type Point struct {
	X, Y float64
}

// Camera is the current zoom and scroll position.
type Camera struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// SelectionEvent is delivered when a node becomes selected.
type SelectionEvent struct {
	Revision string
	Parents  []string
	Children []string
}

// Hooks receives controller notifications. Nil fields are ignored.
type Hooks struct {
	NodeSelected         func(SelectionEvent)
	NodeDeselected       func()
	NodeActivated        func(rev string)
	SearchResultsChanged func(SearchResults)
}

type gesture struct {
	active    bool
	dragging  bool
	start     Point
	startOffX float64
	startOffY float64
}

// Controller holds the interactive view over a graph state.
type Controller struct {
	state    *graph.State
	hooks    Hooks
	camera   Camera
	width    float64
	height   float64
	selected string
	gesture  gesture
	search   SearchResults
}

// NewController creates a controller over an empty state.
func NewController(cfg layout.Config, hooks Hooks) *Controller {
	return &Controller{
		state:  graph.Empty(cfg),
		hooks:  hooks,
		camera: Camera{Scale: 1},
		search: SearchResults{Index: -1},
	}
}

// State returns the current view state.
func (c *Controller) State() *graph.State {
	return c.state
}

// SetState swaps in a new view state. With keep set the selection survives
// when its revision is still present and is reported again with its new
// neighbours; otherwise it is cleared. Any search
// session is dropped because its results belong to the old state.
func (c *Controller) SetState(s *graph.State, keep bool) {
	if s == nil {
		s = graph.Empty(c.state.Layout)
	}
	c.state = s
	c.gesture = gesture{}

	if c.selected != "" {
		if keep && s.Collection.Has(c.selected) {
			// neighbours may have changed
			c.Select(c.selected)
		} else {
			c.Deselect()
		}
	}
	if len(c.search.Revisions) > 0 {
		c.ClearSearch()
	}
	c.clampOffsets()
}

// SetViewport records the visible area in screen pixels.
func (c *Controller) SetViewport(width, height float64) {
	c.width, c.height = math.Max(0, width), math.Max(0, height)
	c.clampOffsets()
}

// Viewport returns the visible area in screen pixels.
func (c *Controller) Viewport() (width, height float64) {
	return c.width, c.height
}

// Camera returns the current camera.
func (c *Controller) Camera() Camera {
	return c.camera
}

// ContentSize returns the scaled size of the whole layout.
func (c *Controller) ContentSize() (width, height float64) {
	w, h := layout.Extent(c.state.Positions, c.state.Layout)
	return w * c.camera.Scale, h * c.camera.Scale
}

// ScreenPosition returns where rev's centre is drawn.
func (c *Controller) ScreenPosition(rev string) (Point, bool) {
	pos, ok := c.state.Positions[rev]
	if !ok {
		return Point{}, false
	}
	return Point{
		X: pos.X*c.camera.Scale - c.camera.OffsetX,
		Y: pos.Y*c.camera.Scale - c.camera.OffsetY,
	}, true
}

// NodeRadius returns the scaled node radius.
func (c *Controller) NodeRadius() float64 {
	return c.state.Layout.NodeRadius * c.camera.Scale
}

// HitTest returns the node under a screen point.
func (c *Controller) HitTest(p Point) (string, bool) {
	cx := p.X + c.camera.OffsetX
	cy := p.Y + c.camera.OffsetY
	radius := c.NodeRadius()

	for _, rev := range c.state.Collection.Revisions() {
		pos, ok := c.state.Positions[rev]
		if !ok {
			continue
		}
		dx := cx - pos.X*c.camera.Scale
		dy := cy - pos.Y*c.camera.Scale
		if math.Hypot(dx, dy) <= radius {
			return rev, true
		}
	}
	return "", false
}

// Selected returns the selected revision.
func (c *Controller) Selected() (string, bool) {
	return c.selected, c.selected != ""
}

// Select marks rev as selected and notifies with its parents and children.
// Selecting the selected node again only re-notifies.
func (c *Controller) Select(rev string) bool {
	if !c.state.Collection.Has(rev) {
		return false
	}
	c.selected = rev
	if c.hooks.NodeSelected != nil {
		c.hooks.NodeSelected(SelectionEvent{
			Revision: rev,
			Parents:  copyOf(c.state.Adjacency.ParentsOf(rev)),
			Children: copyOf(c.state.Adjacency.ChildrenOf(rev)),
		})
	}
	return true
}

// Deselect clears the selection if there is one.
func (c *Controller) Deselect() {
	if c.selected == "" {
		return
	}
	c.selected = ""
	if c.hooks.NodeDeselected != nil {
		c.hooks.NodeDeselected()
	}
}

// CenterOn scrolls rev to the middle of the viewport and selects it.
func (c *Controller) CenterOn(rev string) bool {
	pos, ok := c.state.Positions[rev]
	if !ok {
		return false
	}

	totalW, totalH := c.ContentSize()
	targetX := pos.X*c.camera.Scale - c.width/2
	targetY := pos.Y*c.camera.Scale - c.height/2

	if totalW > c.width {
		c.camera.OffsetX = clamp(targetX/totalW, 0, 1) * totalW
	}
	if totalH > c.height {
		c.camera.OffsetY = clamp(targetY/totalH, 0, 1) * totalH
	}
	c.clampOffsets()

	c.Select(rev)
	return true
}

// Zoom multiplies the scale by factor, clamped to [MinScale, MaxScale],
// keeping the content under pivot in place. It reports whether the scale
// changed.
func (c *Controller) Zoom(factor float64, pivot Point) bool {
	old := c.camera.Scale
	next := clamp(old*factor, MinScale, MaxScale)
	if next == old {
		return false
	}

	ratio := next / old
	contentX := pivot.X + c.camera.OffsetX
	contentY := pivot.Y + c.camera.OffsetY

	c.camera.Scale = next
	c.camera.OffsetX = contentX*ratio - pivot.X
	c.camera.OffsetY = contentY*ratio - pivot.Y
	c.clampOffsets()
	return true
}

// ZoomIn zooms one step in around pivot.
func (c *Controller) ZoomIn(pivot Point) bool {
	return c.Zoom(ZoomInFactor, pivot)
}

// ZoomOut zooms one step out around pivot.
func (c *Controller) ZoomOut(pivot Point) bool {
	return c.Zoom(ZoomOutFactor, pivot)
}

// Pan moves the content by (dx, dy) screen pixels.
func (c *Controller) Pan(dx, dy float64) {
	c.camera.OffsetX -= dx
	c.camera.OffsetY -= dy
	c.clampOffsets()
}

// ResetView restores scale 1 and scrolls to the bottom-left, where the
// heads are drawn.
func (c *Controller) ResetView() {
	c.camera.Scale = 1
	c.camera.OffsetX = 0
	_, totalH := c.ContentSize()
	c.camera.OffsetY = math.Max(0, totalH-c.height)
	c.clampOffsets()
}

// PointerDown starts a click-or-drag gesture.
func (c *Controller) PointerDown(p Point) {
	c.gesture = gesture{
		active:    true,
		start:     p,
		startOffX: c.camera.OffsetX,
		startOffY: c.camera.OffsetY,
	}
}

// PointerMove updates the gesture. Once the pointer has moved more than
// DragThreshold on either axis the gesture is a drag and pans the view.
func (c *Controller) PointerMove(p Point) {
	if !c.gesture.active {
		return
	}
	dx := p.X - c.gesture.start.X
	dy := p.Y - c.gesture.start.Y
	if math.Abs(dx) > DragThreshold || math.Abs(dy) > DragThreshold {
		c.gesture.dragging = true
	}
	if c.gesture.dragging {
		c.camera.OffsetX = c.gesture.startOffX - dx
		c.camera.OffsetY = c.gesture.startOffY - dy
		c.clampOffsets()
	}
}

// PointerUp ends the gesture. A click selects the node under the pointer
// or clears the selection; a drag does neither. It reports whether the
// gesture was a click.
func (c *Controller) PointerUp(p Point) bool {
	if !c.gesture.active {
		return false
	}
	c.PointerMove(p)
	wasDrag := c.gesture.dragging
	c.gesture = gesture{}
	if wasDrag {
		return false
	}

	if rev, ok := c.HitTest(p); ok {
		c.Select(rev)
	} else {
		c.Deselect()
	}
	return true
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	return c.gesture.dragging
}

// DoubleClick activates the node under p.
func (c *Controller) DoubleClick(p Point) (string, bool) {
	rev, ok := c.HitTest(p)
	if !ok {
		return "", false
	}
	if c.hooks.NodeActivated != nil {
		c.hooks.NodeActivated(rev)
	}
	return rev, true
}

func (c *Controller) clampOffsets() {
	totalW, totalH := c.ContentSize()
	c.camera.OffsetX = clamp(c.camera.OffsetX, 0, math.Max(0, totalW-c.width))
	c.camera.OffsetY = clamp(c.camera.OffsetY, 0, math.Max(0, totalH-c.height))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func copyOf(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
