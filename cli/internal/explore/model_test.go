package explore

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/migraph/graph"
	"github.com/satishbabariya/migraph/graph/domain"
	"github.com/satishbabariya/migraph/graph/layout"
)

func mig(rev string, down domain.DownRevision, date string) *domain.Migration {
	return &domain.Migration{Revision: rev, Down: down, Message: "change " + rev, Filename: rev + ".py", CreateDate: date}
}

func chainState(extra ...*domain.Migration) *graph.State {
	migs := []*domain.Migration{
		mig("rev1", domain.NoDownRevision(), "2024-01-01"),
		mig("rev2", domain.SingleDownRevision("rev1"), "2024-01-02"),
		mig("rev3", domain.SingleDownRevision("rev2"), "2024-01-03"),
	}
	migs = append(migs, extra...)
	return graph.New(domain.Location{Path: "/app/versions"}, domain.CollectionOf(migs...), layout.DefaultConfig())
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newModel(t *testing.T, w, h int) (*Model, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := New(Config{Editor: "true", Now: clock.now}, chainState())
	m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return m, clock
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, button tea.MouseButton, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

// rev2 sits at pixel (100,150): cell column 10, canvas row 7, terminal row 8.
func TestClickSelects(t *testing.T) {
	m, _ := newModel(t, 40, 24)

	m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 10, 8))
	m.Update(mouse(tea.MouseActionRelease, tea.MouseButtonNone, 10, 8))

	require.NotNil(t, m.selection)
	assert.Equal(t, "rev2", m.selection.Revision)
	assert.Equal(t, []string{"rev1"}, m.selection.Parents)
	assert.Contains(t, m.renderDetails(), "rev2")

	m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 35, 20))
	m.Update(mouse(tea.MouseActionRelease, tea.MouseButtonNone, 35, 20))
	assert.Nil(t, m.selection)
}

func TestDoubleClickOpensEditor(t *testing.T) {
	m, clock := newModel(t, 40, 24)

	m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 10, 8))
	m.Update(mouse(tea.MouseActionRelease, tea.MouseButtonNone, 10, 8))
	clock.t = clock.t.Add(150 * time.Millisecond)
	_, cmd := m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 10, 8))
	assert.NotNil(t, cmd)
	assert.Empty(t, m.pending)

	// too slow for a double click
	clock.t = clock.t.Add(time.Second)
	_, cmd = m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 10, 8))
	assert.Nil(t, cmd)
	clock.t = clock.t.Add(time.Second)
	_, cmd = m.Update(mouse(tea.MouseActionPress, tea.MouseButtonLeft, 10, 8))
	assert.Nil(t, cmd)
}

func TestEditorDone(t *testing.T) {
	m, _ := newModel(t, 40, 24)
	m.Update(editorDoneMsg{path: "/app/versions/rev1.py"})
	assert.Equal(t, "closed /app/versions/rev1.py", m.Status())

	m.Update(editorDoneMsg{path: "x", err: errors.New("exit 1")})
	assert.Contains(t, m.Status(), "editor failed")
}

func TestKeysPanAndZoom(t *testing.T) {
	m, _ := newModel(t, 10, 8)
	cam := m.Controller().Camera()
	assert.Equal(t, 1.0, cam.Scale)
	assert.Equal(t, 270.0, cam.OffsetY, "reset view shows the heads at the bottom")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 30.0, m.Controller().Camera().OffsetX)
	m.Update(runes("h"))
	assert.Equal(t, 0.0, m.Controller().Camera().OffsetX)

	m.Update(runes("+"))
	assert.InDelta(t, 1.1, m.Controller().Camera().Scale, 1e-9)
	m.Update(runes("r"))
	assert.Equal(t, 1.0, m.Controller().Camera().Scale)

	m.Update(mouse(tea.MouseActionPress, tea.MouseButtonWheelUp, 2, 2))
	assert.InDelta(t, 1.1, m.Controller().Camera().Scale, 1e-9)
	m.Update(mouse(tea.MouseActionPress, tea.MouseButtonWheelDown, 2, 2))
	assert.InDelta(t, 0.99, m.Controller().Camera().Scale, 1e-9)
}

func TestSearchFlow(t *testing.T) {
	m, _ := newModel(t, 40, 24)

	m.Update(runes("/"))
	assert.Equal(t, modeSearch, m.mode)
	m.Update(runes("change"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, []string{"rev1", "rev2", "rev3"}, m.search.Revisions)
	assert.Contains(t, m.renderStatus(), "1/3")

	m.Update(runes("n"))
	sel, _ := m.Controller().Selected()
	assert.Equal(t, "rev2", sel)
	assert.Contains(t, m.renderStatus(), "2/3")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.search.Revisions)

	m.Update(runes("/"))
	m.Update(runes("nothing"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, `no migrations match "nothing"`, m.Status())
}

func TestFilterAndReload(t *testing.T) {
	m, _ := newModel(t, 40, 24)

	m.Update(runes("f"))
	m.Update(runes("2024-01-02.."))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "showing 2 of 3 migrations", m.Status())
	assert.Equal(t, []string{"rev2"}, m.Controller().State().Roots())

	m.Update(runes("f"))
	m.input.SetValue("2030-01-01..")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "no migrations in that date range", m.Status())
	assert.Equal(t, 2, m.Controller().State().Collection.Len(), "view kept")
	assert.Equal(t, []string{"rev2"}, m.Controller().State().Roots())

	m.Update(ReloadMsg{State: chainState(mig("rev4", domain.SingleDownRevision("rev3"), "2024-01-04"))})
	assert.Equal(t, "reloaded 3 migrations", m.Status())
	assert.True(t, m.Controller().State().Filtered())

	m.Update(ReloadMsg{Err: errors.New("boom")})
	assert.Contains(t, m.Status(), "reload failed")

	m.Update(runes("f"))
	m.input.SetValue("")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "filter cleared", m.Status())
	assert.Equal(t, 4, m.Controller().State().Collection.Len())
}

func TestViewAndQuit(t *testing.T) {
	m, _ := newModel(t, 60, 20)
	out := m.View()
	assert.Contains(t, out, "migraph versions")
	assert.Contains(t, out, "3 migrations")
	assert.Contains(t, out, "[rev1]")

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}
