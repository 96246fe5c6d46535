package helpoverlay

import (
    "strings"
    "testing"

    "sheetlab/internal/tui/state"
)

func TestHelpNamesActiveSheet(t *testing.T) {
    out := NewHelpOverlay().View(state.UIState{Active: 1}, []string{"create-post", "comments"})
    if !strings.HasPrefix(out, "Help (Sheet: comments)\n") {
        t.Fatalf("missing header: %q", out)
    }
    for _, sec := range []string{"Sheets:", "Gestures:", "View:", "Other:"} {
        if !strings.Contains(out, sec) {
            t.Fatalf("missing section %q", sec)
        }
    }
}
