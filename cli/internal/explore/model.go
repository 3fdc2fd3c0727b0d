// Package explore is the interactive terminal graph explorer.
package explore

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/satishbabariya/migraph/cli/internal/render"
	"github.com/satishbabariya/migraph/cli/internal/ui"
	"github.com/satishbabariya/migraph/graph"
	"github.com/satishbabariya/migraph/graph/domain"
	"github.com/satishbabariya/migraph/graph/view"
)

// DoubleClickInterval is the longest gap between presses of a double click.
const DoubleClickInterval = 400 * time.Millisecond

const (
	headerRows = 1
	footerRows = 3
	panCells   = 3
)

// ReloadMsg carries a freshly loaded state, usually sent by a watcher
// through Program.Send.
type ReloadMsg struct {
	State *graph.State
	Err   error
}

type editorDoneMsg struct {
	path string
	err  error
}

type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeFilter
)

// Config configures the explorer.
type Config struct {
	Theme ui.Theme
	// Editor overrides $VISUAL and $EDITOR.
	Editor string
	// Color enables styled output.
	Color bool
	// Now is the clock used for double-click detection.
	Now func() time.Time
}

// Model is the bubbletea model. Use it through a pointer; the view
// controller's hooks write back into it.
type Model struct {
	cfg  Config
	ctrl *view.Controller
	base *graph.State

	width, height int
	sized         bool

	input textinput.Model
	mode  inputMode

	selection *view.SelectionEvent
	search    view.SearchResults
	status    string
	pending   string

	lastClick    time.Time
	lastClickPos [2]int

	quitting bool
}

// New creates a model over state.
func New(cfg Config, state *graph.State) *Model {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Theme.Palette == nil {
		cfg.Theme = ui.NewTheme(nil)
	}

	ti := textinput.New()
	ti.CharLimit = 120

	m := &Model{
		cfg:   cfg,
		base:  state,
		input: ti,
	}
	m.ctrl = view.NewController(state.Layout, view.Hooks{
		NodeSelected: func(e view.SelectionEvent) {
			m.selection = &e
		},
		NodeDeselected: func() {
			m.selection = nil
		},
		NodeActivated: func(rev string) {
			if path, ok := m.ctrl.SourcePath(rev); ok {
				m.pending = path
			}
		},
		SearchResultsChanged: func(r view.SearchResults) {
			m.search = r
		},
	})
	m.ctrl.SetState(state, false)
	return m
}

// Options returns the program options the explorer needs.
func Options() []tea.ProgramOption {
	return []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
}

// Controller exposes the underlying view controller.
func (m *Model) Controller() *view.Controller {
	return m.ctrl
}

// Status returns the current status line text.
func (m *Model) Status() string {
	return m.status
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		cols, rows := m.canvasSize()
		m.ctrl.SetViewport(float64(cols)*render.CellWidth, float64(rows)*render.CellHeight)
		if !m.sized {
			m.ctrl.ResetView()
			m.sized = true
		}
		return m, nil

	case ReloadMsg:
		m.reload(msg)
		return m, nil

	case editorDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("editor failed: %v", msg.err)
		} else {
			m.status = "closed " + msg.path
		}
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m, m.handleInput(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) reload(msg ReloadMsg) {
	if msg.Err != nil {
		m.status = fmt.Sprintf("reload failed: %v", msg.Err)
		return
	}
	m.base = msg.State
	next := msg.State
	cur := m.ctrl.State()
	if cur.Filtered() {
		if filtered, err := msg.State.Filter(cur.FilterFrom, cur.FilterTo); err == nil {
			next = filtered
		}
	}
	m.ctrl.SetState(next, true)
	m.status = fmt.Sprintf("reloaded %d migrations", next.Collection.Len())
}

func (m *Model) canvasSize() (cols, rows int) {
	return max(m.width, 1), max(m.height-headerRows-footerRows, 1)
}

// cellPoint maps a terminal cell to the centre of its canvas pixel box.
func (m *Model) cellPoint(x, y int) view.Point {
	return view.Point{
		X: (float64(x) + 0.5) * render.CellWidth,
		Y: (float64(y-headerRows) + 0.5) * render.CellHeight,
	}
}

func (m *Model) centre() view.Point {
	w, h := m.ctrl.Viewport()
	return view.Point{X: w / 2, Y: h / 2}
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	p := m.cellPoint(msg.X, msg.Y)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.ctrl.ZoomIn(p)
	case msg.Button == tea.MouseButtonWheelDown:
		m.ctrl.ZoomOut(p)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		now := m.cfg.Now()
		pos := [2]int{msg.X, msg.Y}
		if !m.lastClick.IsZero() && now.Sub(m.lastClick) <= DoubleClickInterval && pos == m.lastClickPos {
			m.lastClick = time.Time{}
			if _, ok := m.ctrl.DoubleClick(p); ok {
				return m.openPending()
			}
			return nil
		}
		m.lastClick, m.lastClickPos = now, pos
		m.ctrl.PointerDown(p)
	case msg.Action == tea.MouseActionMotion:
		m.ctrl.PointerMove(p)
	case msg.Action == tea.MouseActionRelease:
		m.ctrl.PointerUp(p)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	dx := panCells * render.CellWidth
	dy := panCells * render.CellHeight
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return tea.Quit
	case "left", "h":
		m.ctrl.Pan(dx, 0)
	case "right", "l":
		m.ctrl.Pan(-dx, 0)
	case "up", "k":
		m.ctrl.Pan(0, dy)
	case "down", "j":
		m.ctrl.Pan(0, -dy)
	case "+", "=":
		m.ctrl.ZoomIn(m.centre())
	case "-", "_":
		m.ctrl.ZoomOut(m.centre())
	case "r", "home":
		m.ctrl.ResetView()
	case "n":
		m.ctrl.SearchNext()
	case "N":
		m.ctrl.SearchPrev()
	case "/":
		return m.startInput(modeSearch, "/", "")
	case "f":
		cur := m.ctrl.State()
		value := ""
		if cur.Filtered() {
			value = cur.FilterFrom + ".." + cur.FilterTo
		}
		return m.startInput(modeFilter, "date from..to: ", value)
	case "enter", "o":
		if rev, ok := m.ctrl.Selected(); ok {
			if path, ok := m.ctrl.SourcePath(rev); ok {
				m.pending = path
				return m.openPending()
			}
		}
	case "esc":
		if len(m.search.Revisions) > 0 {
			m.ctrl.ClearSearch()
		} else {
			m.ctrl.Deselect()
		}
	}
	return nil
}

func (m *Model) startInput(mode inputMode, prompt, value string) tea.Cmd {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) handleInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.endInput()
		return nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.endInput()
		if mode == modeSearch {
			m.runSearch(value)
		} else {
			m.applyFilter(value)
		}
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) endInput() {
	m.mode = modeNormal
	m.input.Blur()
}

func (m *Model) runSearch(text string) {
	if text == "" {
		m.ctrl.ClearSearch()
		return
	}
	res := m.ctrl.Search(text)
	if len(res.Revisions) == 0 {
		m.status = fmt.Sprintf("no migrations match %q", text)
		return
	}
	m.status = ""
}

// applyFilter parses "from..to"; either side may be empty. An empty value
// clears the filter. A range with no migrations leaves the view as it is.
func (m *Model) applyFilter(value string) {
	if value == "" {
		m.ctrl.SetState(m.base, true)
		m.status = "filter cleared"
		return
	}
	from, to, found := strings.Cut(value, "..")
	if !found {
		from = value
	}
	filtered, err := m.base.Filter(strings.TrimSpace(from), strings.TrimSpace(to))
	if err != nil {
		m.status = err.Error()
		return
	}
	if filtered.Collection.Len() == 0 {
		m.status = "no migrations in that date range"
		return
	}
	m.ctrl.SetState(filtered, false)
	m.ctrl.ResetView()
	m.status = fmt.Sprintf("showing %d of %d migrations", filtered.Collection.Len(), filtered.Unfiltered)
}

func (m *Model) openPending() tea.Cmd {
	path := m.pending
	m.pending = ""
	if path == "" {
		return nil
	}
	args := strings.Fields(m.editor())
	if len(args) == 0 {
		return nil
	}
	c := exec.Command(args[0], append(args[1:], path)...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorDoneMsg{path: path, err: err}
	})
}

func (m *Model) editor() string {
	for _, e := range []string{m.cfg.Editor, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if e != "" {
			return e
		}
	}
	return "vi"
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.sized {
		return "Loading...\n"
	}

	cols, rows := m.canvasSize()
	opts := render.Options{Color: m.cfg.Color, Theme: m.cfg.Theme}
	lines := render.Draw(m.ctrl, cols, rows, opts).Lines(opts)

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	b.WriteString(m.renderDetails())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(ui.SecondaryStyle.Render("drag pan · wheel/+/- zoom · / search · n/N next · f dates · r reset · enter open · q quit"))
	return b.String()
}

func (m *Model) renderHeader() string {
	s := m.ctrl.State()
	name := s.Location.DisplayName()
	if s.Location.Path == "" {
		name = "(no location)"
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(ui.PrimaryColor).Render("migraph " + name)
	return title + "  " + ui.SummaryLine(s.Stats(), s.Filtered(), s.Unfiltered)
}

func (m *Model) renderDetails() string {
	if m.selection == nil {
		return ui.SecondaryStyle.Render("click a node to inspect it")
	}
	s := m.ctrl.State()
	rev := m.selection.Revision
	mig, ok := s.Collection.Get(rev)
	if !ok {
		return ""
	}
	parts := []string{
		m.cfg.Theme.Badge(s.Kind(rev)),
		lipgloss.NewStyle().Bold(true).Render(rev),
		truncate(mig.Message, 50),
	}
	if mig.CreateDate != "" {
		parts = append(parts, mig.DateKey())
	}
	parts = append(parts,
		"parents: "+shortList(m.selection.Parents),
		"children: "+shortList(m.selection.Children),
	)
	return strings.Join(parts, "  ")
}

func (m *Model) renderStatus() string {
	switch m.mode {
	case modeSearch, modeFilter:
		return m.input.View()
	}
	if n := len(m.search.Revisions); n > 0 {
		return ui.InfoStyle.Render(fmt.Sprintf("search %q: %d/%d", m.search.Query, m.search.Index+1, n))
	}
	return m.status
}

func shortList(revs []string) string {
	if len(revs) == 0 {
		return "-"
	}
	out := make([]string, len(revs))
	for i, r := range revs {
		out[i] = domain.ShortRevision(r, view.ShortRevLength)
	}
	return strings.Join(out, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
