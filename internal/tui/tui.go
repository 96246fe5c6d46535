package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"sheetlab/internal/config"
	"sheetlab/internal/sheet"
	"sheetlab/internal/tui/state"
	"sheetlab/internal/tui/util"
	"sheetlab/internal/tui/views/presets"
	"sheetlab/internal/tui/widgets/diff"
	"sheetlab/internal/tui/widgets/helpoverlay"
	"sheetlab/internal/tui/widgets/statusbar"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// now is the host clock for pointer samples.
var now = time.Now

// Options configures the demo.
type Options struct {
	Config *config.Config
	// Source names where Config came from, for the title bar.
	Source string
	// Reloads, when set, delivers edits of the preset file.
	Reloads <-chan config.Reload
	Log     *zap.Logger
	NoColor bool
}

// Run shows the interactive sheet demo until the user quits.
func Run(opts Options) error {
	m, err := newModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// ===== Model =====

type frameMsg time.Time

type reloadMsg config.Reload

func frame(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func waitReload(ch <-chan config.Reload) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return reloadMsg(r)
	}
}

// lifecycle collects onOpened/onClosed events for the footer.
type lifecycle struct {
	lines []string
}

func (l *lifecycle) add(s string) {
	l.lines = append(l.lines, s)
	if len(l.lines) > 4 {
		l.lines = l.lines[len(l.lines)-4:]
	}
}

// pointer tracks a mouse press on the active sheet, in terminal rows.
type pointer struct {
	down   bool
	startY int
	lastY  int
	// moved is when the terminal last reported the pointer.
	moved time.Time
}

type model struct {
	// data
	cfg     *config.Config
	source  string
	names   []string
	sheets  []*sheet.Sheet
	log     *zap.Logger
	events  *lifecycle
	reloads <-chan config.Reload

	// ui state
	ui      state.UIState
	keys    keyMap
	help    help.Model
	ptr     pointer
	ticking bool

	// last reload, as preset file text
	diffBefore string
	diffAfter  string
}

func newModel(opts Options) (model, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	ui := state.UIState{
		PxPerRow: opts.Config.PxPerRow,
		MinCol:   30,
		NoColor:  util.NoColor(opts.NoColor),
	}
	ui = state.Resize(ui, 80, 44)
	m := model{
		cfg:     opts.Config,
		source:  opts.Source,
		log:     log,
		events:  &lifecycle{},
		reloads: opts.Reloads,
		ui:      ui,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
	for _, p := range opts.Config.Sheets {
		s, err := m.newSheet(p)
		if err != nil {
			return model{}, err
		}
		m.names = append(m.names, p.Name)
		m.sheets = append(m.sheets, s)
	}
	return m, nil
}

// newSheet builds a sheet for preset p at the current screen height, or at
// the nominal height if the preset does not fit the terminal.
func (m *model) newSheet(p config.Sheet) (*sheet.Sheet, error) {
	sc, err := m.cfg.SheetConfig(p, m.ui.ScreenHeight())
	if err != nil {
		m.ui = state.SetNotice(m.ui, "%s: too tall for this terminal", p.Name)
		if sc, err = m.cfg.SheetConfig(p, 800); err != nil {
			return nil, err
		}
	}
	name, events := p.Name, m.events
	return sheet.New(sc,
		sheet.WithID(name),
		sheet.WithLogger(m.log),
		sheet.WithOnOpened(func() { events.add(name + " opened") }),
		sheet.WithOnClosed(func() { events.add(name + " closed") }))
}

func (m model) Init() tea.Cmd {
	if m.reloads != nil {
		return waitReload(m.reloads)
	}
	return nil
}

func (m *model) active() *sheet.Sheet {
	if len(m.sheets) == 0 {
		return nil
	}
	return m.sheets[m.ui.Active]
}

// startFrames schedules frame ticks unless they are already running.
func (m *model) startFrames() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return frame(m.cfg.FPS)
}

// Update handles all TUI interactions.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ui = state.Resize(m.ui, msg.Width, msg.Height)
		m.help.Width = msg.Width
		m.resizeSheets()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case frameMsg:
		m.heartbeat(time.Time(msg))
		busy := false
		for _, s := range m.sheets {
			if s.Tick(time.Time(msg)) || s.State().Dragging() {
				busy = true
			}
		}
		if !busy {
			m.ticking = false
			return m, nil
		}
		return m, frame(m.cfg.FPS)

	case reloadMsg:
		m.applyReload(config.Reload(msg))
		return m, tea.Batch(waitReload(m.reloads), m.startFrames())
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.active()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.ui = state.ToggleHelp(m.ui)
	case key.Matches(msg, m.keys.Diff):
		m.ui = state.ToggleDiff(m.ui)
	case key.Matches(msg, m.keys.View):
		m.ui = state.ToggleView(m.ui)
	case s == nil:
		return m, nil
	case key.Matches(msg, m.keys.Presets):
		i, _ := strconv.Atoi(msg.String())
		return m, m.selectPreset(i - 1)
	case key.Matches(msg, m.keys.Open):
		s.Open()
		return m, m.startFrames()
	case key.Matches(msg, m.keys.Close):
		s.Close()
		m.ptr = pointer{}
		return m, m.startFrames()
	case key.Matches(msg, m.keys.FlickDown):
		return m, m.flick(1)
	case key.Matches(msg, m.keys.FlickUp):
		return m, m.flick(-1)
	case key.Matches(msg, m.keys.Yank):
		text := fmt.Sprintf("%s %s", m.names[m.ui.Active], s.State())
		if err := clipboardWriteAll(text); err != nil {
			m.ui = state.SetNotice(m.ui, "copy failed: %v", err)
		} else {
			m.ui = state.SetNotice(m.ui, "copied state")
		}
	}
	return m, nil
}

// selectPreset opens preset i, closing the previous one. Selecting the
// active preset again toggles it.
func (m *model) selectPreset(i int) tea.Cmd {
	m.ui = state.ClearNotice(m.ui)
	if i == m.ui.Active {
		if s := m.active(); s.State().Phase.Open() {
			s.Close()
		} else {
			s.Open()
		}
		return m.startFrames()
	}
	prev := m.ui.Active
	m.ui = state.SelectPreset(m.ui, i, len(m.sheets))
	if m.ui.Active == prev {
		return nil
	}
	m.sheets[prev].Close()
	m.ptr = pointer{}
	m.active().Open()
	return m.startFrames()
}

// flick synthesises a fast release past every threshold, in direction dir
// (+1 toward close).
func (m *model) flick(dir float64) tea.Cmd {
	s := m.active()
	t := now()
	if !s.PointerDown(t) {
		return nil
	}
	m.ptr = pointer{}
	cfg := s.Config()
	s.Release(dir*2*cfg.ActivationDistance, dir*2*cfg.VelocityThreshold, t)
	return m.startFrames()
}

// sheetTop returns the terminal row of the active sheet's top edge.
func (m *model) sheetTop() int {
	return 1 + m.ui.Rows - visibleRows(m.active().State(), m.ui.Rows)
}

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	s := m.active()
	if s == nil {
		return nil
	}
	px := float64(m.ui.PxPerRow)
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if msg.Y < m.sheetTop() || msg.Y > m.ui.Rows {
			return nil
		}
		if t := now(); s.PointerDown(t) {
			m.ptr = pointer{down: true, startY: msg.Y, lastY: msg.Y, moved: t}
		}
		return nil
	case msg.Action == tea.MouseActionMotion && m.ptr.down:
		t := now()
		m.ptr.lastY, m.ptr.moved = msg.Y, t
		s.PointerMove(float64(msg.Y-m.ptr.startY)*px, t)
		return m.startFrames()
	case msg.Action == tea.MouseActionRelease && m.ptr.down:
		s.PointerUp(float64(msg.Y-m.ptr.startY)*px, now())
		m.ptr = pointer{}
		return m.startFrames()
	}
	return nil
}

// heartbeat repeats the last position of a held pointer. Terminals only
// report motion, and a pointer held still is still a live drag. Once the
// terminal has been silent for the stale-drag timeout the release is taken
// as lost: the pointer is dropped and the engine's watchdog snaps back.
func (m *model) heartbeat(t time.Time) {
	if !m.ptr.down {
		return
	}
	s := m.active()
	if t.Sub(m.ptr.moved) > s.Config().StaleDragTimeout {
		m.log.Debug("pointer silent, dropping heartbeat", zap.String("sheet", m.names[m.ui.Active]))
		m.ptr = pointer{}
		return
	}
	s.PointerMove(float64(m.ptr.lastY-m.ptr.startY)*float64(m.ui.PxPerRow), t)
}

func (m *model) resizeSheets() {
	for i, s := range m.sheets {
		if err := s.Resize(m.ui.ScreenHeight()); err != nil {
			m.log.Debug("resize rejected", zap.String("sheet", m.names[i]), zap.Error(err))
			m.ui = state.SetNotice(m.ui, "%s: too tall for this terminal", m.names[i])
		}
	}
}

// applyReload swaps in an edited preset file. Sheets that survive by name
// are reconfigured and pick the change up at their next open.
func (m *model) applyReload(r config.Reload) {
	if r.Err != nil {
		m.ui = state.SetNotice(m.ui, "reload failed: %v", r.Err)
		return
	}
	before, _ := config.Marshal(m.cfg)
	after, _ := config.Marshal(r.Config)
	m.diffBefore, m.diffAfter = string(before), string(after)

	old := map[string]*sheet.Sheet{}
	for i, n := range m.names {
		old[n] = m.sheets[i]
	}
	m.cfg = r.Config
	m.ui.PxPerRow = r.Config.PxPerRow
	names := make([]string, 0, len(r.Config.Sheets))
	sheets := make([]*sheet.Sheet, 0, len(r.Config.Sheets))
	for _, p := range r.Config.Sheets {
		s, ok := old[p.Name]
		if ok {
			sc, err := r.Config.SheetConfig(p, m.ui.ScreenHeight())
			if err == nil {
				err = s.Reconfigure(sc)
			}
			if err != nil {
				m.ui = state.SetNotice(m.ui, "%s: %v", p.Name, err)
			}
		} else {
			var err error
			if s, err = m.newSheet(p); err != nil {
				m.ui = state.SetNotice(m.ui, "%s: %v", p.Name, err)
				continue
			}
		}
		names = append(names, p.Name)
		sheets = append(sheets, s)
	}
	m.names, m.sheets = names, sheets
	m.ui = state.ClampActive(m.ui, len(sheets))
	m.log.Info("presets reloaded", zap.Int("sheets", len(sheets)))
	if m.ui.Notice == "" {
		m.ui = state.SetNotice(m.ui, "reloaded %d presets (d: diff)", len(sheets))
	}
}

// ===== Views =====

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	handleStyle = lipgloss.NewStyle().Foreground(util.DefaultPalette().Muted)
)

func visibleRows(st sheet.State, rows int) int {
	return int(math.Round(st.VisibleFraction() * float64(rows)))
}

func (m model) View() string {
	width := m.ui.Width
	if width <= 0 {
		width = 80
	}
	noColor := m.ui.NoColor

	var b strings.Builder
	src := m.source
	if src == "" {
		src = "built-in presets"
	}
	title := "sheetlab"
	if !noColor {
		title = titleStyle.Render(title)
	}
	b.WriteString(title + "  " + m.faint(src) + "\n")

	screen := m.background()
	st := sheet.State{}
	name := ""
	if s := m.active(); s != nil {
		st = s.State()
		name = m.names[m.ui.Active]
		if st.Scrim() >= 0.5 && !noColor {
			for i := range screen {
				screen[i] = faintStyle.Render(screen[i])
			}
		}
		visible := visibleRows(st, m.ui.Rows)
		top := m.ui.Rows - visible
		for i, l := range m.sheetLines(s, visible, width) {
			screen[top+i] = l
		}
	}
	b.WriteString(strings.Join(screen, "\n") + "\n")

	b.WriteString(statusbar.NewStatusBar().View(m.ui, name, st) + "\n")
	b.WriteString(m.faint(strings.Join(m.events.lines, " · ")) + "\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// background fills the screen rows behind the sheet.
func (m model) background() []string {
	var lines []string
	switch {
	case m.ui.ShowHelp:
		lines = strings.Split(helpoverlay.NewHelpOverlay().View(m.ui, m.names), "\n")
	case m.ui.ShowDiff:
		lines = strings.Split(diff.NewDiffView("BEFORE", "AFTER").View(m.ui, m.diffBefore, m.diffAfter), "\n")
	default:
		lines = presets.Lines(m.cfg, m.ui.Active, m.ui.NoColor)
	}
	screen := make([]string, m.ui.Rows)
	for i := range screen {
		if i < len(lines) {
			screen[i] = lines[i]
		}
	}
	return screen
}

func (m model) sheetLines(s *sheet.Sheet, visible, width int) []string {
	if visible <= 0 {
		return nil
	}
	p, _ := m.cfg.Find(m.names[m.ui.Active])
	title := p.Title
	if title == "" {
		title = p.Name
	}
	content := []string{
		strings.Repeat(" ", max(0, width/2-3)) + "──────",
		" " + title,
		" " + presets.RenderTags(s.State(), s.Feedback(), s.Config().SupportsExtended, m.ui.NoColor),
	}
	for _, l := range strings.Split(strings.TrimRight(presets.Details(m.cfg, p, m.ui.NoColor), "\n"), "\n") {
		content = append(content, " "+l)
	}

	out := make([]string, visible)
	style := lipgloss.NewStyle().Width(width).MaxWidth(width).Background(util.DefaultPalette().Sheet)
	for i := range out {
		l := ""
		if i < len(content) {
			l = content[i]
		}
		switch {
		case m.ui.NoColor && i == 0:
			out[i] = "+" + strings.Repeat("-", max(0, width-2)) + "+"
		case m.ui.NoColor:
			out[i] = "|" + l
		case i == 0:
			out[i] = style.Render(handleStyle.Render(l))
		default:
			out[i] = style.Render(l)
		}
	}
	return out
}

func (m model) faint(s string) string {
	if m.ui.NoColor {
		return s
	}
	return faintStyle.Render(s)
}
