package statusbar

import (
    "fmt"
    "strings"

    "sheetlab/internal/sheet"
    "sheetlab/internal/tui/state"
)

type StatusBar struct{}

func NewStatusBar() StatusBar { return StatusBar{} }

// View composes a concise status line for the active sheet.
func (StatusBar) View(s state.UIState, name string, st sheet.State) string {
    preset := fmt.Sprintf("[%d:%s]", s.Active+1, name)
    phase := fmt.Sprintf("%-9s", st.Phase)
    pos := fmt.Sprintf("Y:%.0f H:%.0f%%", st.OffsetY, st.HeightFraction*100)
    screen := fmt.Sprintf("Screen:%.0fpx (%d rows×%d)", s.ScreenHeight(), s.Rows, s.PxPerRow)

    parts := []string{preset, phase, pos, screen}
    if s.Notice != "" {
        parts = append(parts, s.Notice)
    }
    return strings.Join(parts, "  ")
}
