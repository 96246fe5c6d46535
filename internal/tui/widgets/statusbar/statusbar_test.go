package statusbar

import (
    "strings"
    "testing"

    "sheetlab/internal/sheet"
    "sheetlab/internal/tui/state"
)

func TestStatusLine(t *testing.T) {
    s := state.UIState{Active: 1, Rows: 40, PxPerRow: 20, Notice: "reloaded"}
    st := sheet.State{Phase: sheet.Collapsed, OffsetY: 12, HeightFraction: 0.85}
    out := NewStatusBar().View(s, "comments", st)
    for _, want := range []string{"[2:comments]", "collapsed", "Y:12 H:85%", "Screen:800px", "reloaded"} {
        if !strings.Contains(out, want) {
            t.Fatalf("expected %q in %q", want, out)
        }
    }
}
