package helpoverlay

import (
    "fmt"
    "strings"

    "sheetlab/internal/tui/state"
)

type HelpOverlay struct{}

func NewHelpOverlay() HelpOverlay { return HelpOverlay{} }

// View returns grouped keys help with the active preset indicated.
func (HelpOverlay) View(s state.UIState, presets []string) string {
    active := "-"
    if s.Active >= 0 && s.Active < len(presets) {
        active = presets[s.Active]
    }
    sections := []struct {
        title string
        keys  []string
    }{
        {"Sheets", []string{"1–9: open preset", "o: open", "c/Esc: close"}},
        {"Gestures", []string{"mouse drag: move the sheet", "J: flick down", "K: flick up"}},
        {"View", []string{"d: last reload diff", "v: unified/side-by-side", "?: this help"}},
        {"Other", []string{"y: copy state", "q: quit"}},
    }
    var b strings.Builder
    fmt.Fprintf(&b, "Help (Sheet: %s)\n", active)
    for _, sec := range sections {
        fmt.Fprintf(&b, "\n%s:\n", sec.title)
        for _, k := range sec.keys {
            fmt.Fprintf(&b, "  %s\n", k)
        }
    }
    return b.String()
}
