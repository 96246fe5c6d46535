package state

// DiffMode controls how the diff is rendered.
type DiffMode int

const (
    Unified DiffMode = iota
    SideBySide
)

// Rows reserved above and below the simulated screen: title, status bar and
// key help.
const Chrome = 4

// UIState holds cross-widget UI state used by the status bar, help overlay,
// preset list and diff panel.
type UIState struct {
    // Layout
    Width  int
    Height int
    // Rows is the height of the simulated phone screen in terminal rows.
    Rows     int
    PxPerRow int

    // Active is the index of the preset driven by keys and the mouse.
    Active int

    // Panels
    ShowHelp bool
    ShowDiff bool
    View     DiffMode
    MinCol   int

    NoColor bool

    // Notices and ephemeral messages
    Notice string
}

// ScreenHeight is the simulated screen height in virtual pixels.
func (s UIState) ScreenHeight() float64 {
    return float64(s.Rows * s.PxPerRow)
}
