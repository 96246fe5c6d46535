package state

import "fmt"

// ToggleHelp flips the full help overlay.
func ToggleHelp(s UIState) UIState {
    s.ShowHelp = !s.ShowHelp
    return s
}

// ToggleDiff shows or hides the last config reload diff.
func ToggleDiff(s UIState) UIState {
    s.ShowDiff = !s.ShowDiff
    return s
}

// ToggleView switches between Unified and SideBySide diff views.
func ToggleView(s UIState) UIState {
    if s.View == Unified {
        s.View = SideBySide
        if s.Width > 0 && s.Width < 2*s.MinCol+3 {
            s.View = Unified
            s.Notice = "Narrow width: using unified view"
        }
    } else {
        s.View = Unified
    }
    return s
}

// Resize records the terminal size and derives the simulated screen rows.
// Threshold heuristic for side-by-side: need at least 2*MinCol plus 3 chars
// for separator/gutters.
func Resize(s UIState, width, height int) UIState {
    s.Width = width
    s.Height = height
    s.Rows = height - Chrome
    if s.Rows < 4 {
        s.Rows = 4
    }
    threshold := 2*s.MinCol + 3
    if s.View == SideBySide && s.Width < threshold {
        s.View = Unified
        s.Notice = "Narrow width: using unified view"
    }
    return s
}

// SelectPreset makes preset i of n active. Out-of-range indexes are ignored.
func SelectPreset(s UIState, i, n int) UIState {
    if i < 0 || i >= n {
        s.Notice = fmt.Sprintf("No preset %d", i+1)
        return s
    }
    s.Active = i
    return s
}

// ClampActive keeps Active valid after the preset list shrinks.
func ClampActive(s UIState, n int) UIState {
    if s.Active >= n {
        s.Active = 0
    }
    return s
}

// SetNotice replaces the status bar notice.
func SetNotice(s UIState, format string, args ...any) UIState {
    s.Notice = fmt.Sprintf(format, args...)
    return s
}

// ClearNotice drops the notice.
func ClearNotice(s UIState) UIState {
    s.Notice = ""
    return s
}
