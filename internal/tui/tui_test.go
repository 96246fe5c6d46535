package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetlab/internal/config"
	"sheetlab/internal/sheet"
)

// fakeClock replaces the host clock; every read advances one frame.
func fakeClock(t *testing.T) func() time.Time {
	t.Helper()
	cur := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := func() time.Time {
		cur = cur.Add(time.Second / 60)
		return cur
	}
	old := now
	now = tick
	t.Cleanup(func() { now = old })
	return tick
}

type harness struct {
	t     *testing.T
	m     model
	clock func() time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	m, err := newModel(Options{Config: config.Default(), NoColor: true})
	require.NoError(t, err)
	h := &harness{t: t, m: m, clock: fakeClock(t)}
	h.send(tea.WindowSizeMsg{Width: 100, Height: 44})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(model)
	return cmd
}

func (h *harness) key(s string) {
	switch s {
	case "esc":
		h.send(tea.KeyMsg{Type: tea.KeyEsc})
	default:
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	}
}

func (h *harness) mouse(action tea.MouseAction, y int) {
	h.send(tea.MouseMsg{X: 10, Y: y, Action: action, Button: tea.MouseButtonLeft})
}

func (h *harness) settle() {
	h.t.Helper()
	for i := 0; i < 600; i++ {
		h.send(frameMsg(h.clock()))
		if !h.m.ticking {
			return
		}
	}
	h.t.Fatalf("demo kept ticking")
}

func (h *harness) phase(i int) sheet.Phase {
	return h.m.sheets[i].State().Phase
}

func TestNewModelBuildsOneSheetPerPreset(t *testing.T) {
	h := newHarness(t)
	assert.Len(t, h.m.sheets, 8)
	assert.Equal(t, "create-post", h.m.names[0])
	assert.Equal(t, 40, h.m.ui.Rows)
	assert.Equal(t, 800.0, h.m.sheets[0].State().ScreenHeight)
}

func TestPresetKeyOpensAndSettles(t *testing.T) {
	h := newHarness(t)
	h.key("1")
	assert.True(t, h.m.ticking)
	h.settle()

	assert.Equal(t, sheet.Collapsed, h.phase(0))
	assert.Equal(t, []string{"create-post opened"}, h.m.events.lines)
}

func TestSwitchingPresetClosesPrevious(t *testing.T) {
	h := newHarness(t)
	h.key("1")
	h.settle()
	h.key("2")
	assert.Equal(t, sheet.Closed, h.phase(0))
	assert.Equal(t, sheet.Collapsed, h.phase(1))
	assert.Equal(t, 1, h.m.ui.Active)
	h.settle()

	assert.Contains(t, h.m.events.lines, "create-post closed")
	assert.Contains(t, h.m.events.lines, "comments opened")
}

func TestSamePresetKeyToggles(t *testing.T) {
	h := newHarness(t)
	h.key("3")
	h.settle()
	h.key("3")
	h.settle()
	assert.Equal(t, sheet.Closed, h.phase(2))
}

func TestEscCloses(t *testing.T) {
	h := newHarness(t)
	h.key("o")
	h.settle()
	h.key("esc")
	h.settle()
	assert.Equal(t, sheet.Closed, h.phase(0))
}

func TestMouseDragPastCloseLine(t *testing.T) {
	h := newHarness(t)
	h.key("1")
	h.settle()
	// 85% of 40 rows is 34, so the sheet starts on row 7.
	require.Equal(t, 7, h.m.sheetTop())

	h.mouse(tea.MouseActionPress, 10)
	require.True(t, h.m.ptr.down)
	h.mouse(tea.MouseActionMotion, 15)
	assert.True(t, h.m.sheets[0].State().Dragging())
	h.mouse(tea.MouseActionMotion, 30)
	h.mouse(tea.MouseActionRelease, 30)
	assert.False(t, h.m.ptr.down)
	h.settle()

	assert.Equal(t, sheet.Closed, h.phase(0))
}

func TestMouseShortDragSnapsBack(t *testing.T) {
	h := newHarness(t)
	h.key("1")
	h.settle()

	h.mouse(tea.MouseActionPress, 10)
	h.mouse(tea.MouseActionMotion, 13)
	// Held still across a few frames: the heartbeat keeps the drag alive
	// and bleeds off its velocity.
	for i := 0; i < 30; i++ {
		h.send(frameMsg(h.clock()))
	}
	assert.True(t, h.m.sheets[0].State().Dragging())
	h.mouse(tea.MouseActionRelease, 13)
	h.settle()

	assert.Equal(t, sheet.Collapsed, h.phase(0))
}

func TestLostReleaseSnapsBack(t *testing.T) {
	h := newHarness(t)
	h.key("1")
	h.settle()

	h.mouse(tea.MouseActionPress, 10)
	h.mouse(tea.MouseActionMotion, 20)
	require.True(t, h.m.sheets[0].State().Dragging())
	// The release never arrives.
	h.settle()

	assert.False(t, h.m.ptr.down)
	assert.False(t, h.m.sheets[0].Dragging())
	st := h.m.sheets[0].State()
	assert.False(t, st.Dragging())
	assert.Equal(t, sheet.Collapsed, st.Phase)
	assert.Equal(t, 0.0, st.OffsetY)

	// A late release from the lost gesture changes nothing.
	h.mouse(tea.MouseActionRelease, 20)
	assert.Equal(t, sheet.Collapsed, h.phase(0))
	assert.False(t, h.m.ticking)
}

func TestPressOutsideSheetIgnored(t *testing.T) {
	h := newHarness(t)
	h.key("1")
	h.settle()
	h.mouse(tea.MouseActionPress, 2)
	assert.False(t, h.m.ptr.down)
	assert.False(t, h.m.sheets[0].Dragging())
}

func TestFlickUpExtendsTwoTierSheet(t *testing.T) {
	h := newHarness(t)
	h.key("2")
	h.settle()
	h.key("K")
	h.settle()
	assert.Equal(t, sheet.Extended, h.phase(1))

	h.key("J")
	h.settle()
	assert.Equal(t, sheet.Collapsed, h.phase(1))
}

func TestFlickDownCloses(t *testing.T) {
	h := newHarness(t)
	h.key("1")
	h.settle()
	h.key("J")
	h.settle()
	assert.Equal(t, sheet.Closed, h.phase(0))
}

func TestYankCopiesState(t *testing.T) {
	var copied string
	old := clipboardWriteAll
	clipboardWriteAll = func(s string) error { copied = s; return nil }
	defer func() { clipboardWriteAll = old }()

	h := newHarness(t)
	h.key("y")
	assert.True(t, strings.HasPrefix(copied, "create-post phase=closed"), copied)
	assert.Equal(t, "copied state", h.m.ui.Notice)

	clipboardWriteAll = func(string) error { return errors.New("no display") }
	h.key("y")
	assert.Contains(t, h.m.ui.Notice, "no display")
}

func TestReloadKeepsSurvivingSheets(t *testing.T) {
	h := newHarness(t)
	kept := h.m.sheets[1]

	next := config.Default()
	next.Sheets = append(next.Sheets[:2:2], config.Sheet{Name: "extra", CollapsedFraction: 0.3})
	h.send(reloadMsg{Config: next})

	assert.Equal(t, []string{"create-post", "comments", "extra"}, h.m.names)
	assert.Same(t, kept, h.m.sheets[1])
	assert.Contains(t, h.m.ui.Notice, "reloaded 3 presets")
	assert.NotEqual(t, h.m.diffBefore, h.m.diffAfter)
}

func TestReloadActivePresetRemoved(t *testing.T) {
	h := newHarness(t)
	h.key("8")
	next := config.Default()
	next.Sheets = next.Sheets[:1]
	h.send(reloadMsg{Config: next})
	assert.Equal(t, 0, h.m.ui.Active)
}

func TestReloadError(t *testing.T) {
	h := newHarness(t)
	h.send(reloadMsg{Err: errors.New("boom")})
	assert.Equal(t, "reload failed: boom", h.m.ui.Notice)
	assert.Len(t, h.m.sheets, 8)
}

func TestSmallTerminalRejectsTallPreset(t *testing.T) {
	h := newHarness(t)
	h.send(tea.WindowSizeMsg{Width: 80, Height: 20})
	assert.Equal(t, 16, h.m.ui.Rows)
	assert.Contains(t, h.m.ui.Notice, "comments: too tall")
	assert.Equal(t, 320.0, h.m.sheets[0].State().ScreenHeight)
}

func TestViewRendersSheetOverList(t *testing.T) {
	h := newHarness(t)
	out := h.m.View()
	assert.Contains(t, out, "sheetlab  built-in presets")
	assert.Contains(t, out, "> 1) create-post")

	h.key("1")
	h.settle()
	out = h.m.View()
	assert.Contains(t, out, "| Create post")
	assert.Contains(t, out, "[COLLAPSED]")
	assert.Contains(t, out, "create-post opened")

	h.key("?")
	assert.Contains(t, h.m.View(), "Help (Sheet: create-post)")
}
