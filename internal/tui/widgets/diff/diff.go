package diff

import (
    "fmt"
    "strings"

    "github.com/charmbracelet/lipgloss"
    dmp "github.com/sergi/go-diff/diffmatchpatch"

    "sheetlab/internal/tui/state"
    "sheetlab/internal/tui/util"
)

var (
    delLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
    addLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"})
    delChar = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"}).Underline(true)
    addChar = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"}).Underline(true)
    faint   = lipgloss.NewStyle().Faint(true)
    header  = lipgloss.NewStyle().Bold(true)
)

// DiffView renders line diffs between two texts, such as a golden timeline
// and a fresh run or two revisions of the preset file.
type DiffView struct {
    Left, Right string
}

func NewDiffView(left, right string) DiffView { return DiffView{Left: left, Right: right} }

// View renders before against after. Unified groups changed lines with -/+
// markers and highlights changed characters; SideBySide aligns two columns
// with a vertical separator.
func (d DiffView) View(s state.UIState, before, after string) string {
    noColor := util.NoColor(s.NoColor)
    if before == after {
        return "No changes\n"
    }
    if s.View == state.SideBySide {
        return d.sideBySide(before, after, s, noColor)
    }
    return d.unified(before, after, noColor)
}

type hunk struct {
    op    dmp.Operation
    lines []string
}

// lineHunks runs a line-mode diff: lines are mapped to runes, diffed, and
// mapped back.
func lineHunks(before, after string) []hunk {
    m := dmp.New()
    a, b, lines := m.DiffLinesToChars(before, after)
    diffs := m.DiffCharsToLines(m.DiffMain(a, b, false), lines)
    out := make([]hunk, 0, len(diffs))
    for _, df := range diffs {
        text := strings.TrimSuffix(df.Text, "\n")
        out = append(out, hunk{op: df.Type, lines: strings.Split(text, "\n")})
    }
    return out
}

func (d DiffView) unified(before, after string, noColor bool) string {
    var b strings.Builder
    fmt.Fprintf(&b, "%s\n", paint(header, fmt.Sprintf("%s vs %s (Unified)", d.Left, d.Right), noColor))
    hunks := lineHunks(before, after)
    for i := 0; i < len(hunks); i++ {
        h := hunks[i]
        switch h.op {
        case dmp.DiffEqual:
            for _, l := range h.lines {
                b.WriteString("  " + paint(faint, l, noColor) + "\n")
            }
        case dmp.DiffDelete:
            // A delete followed by an insert of the same size is a set of
            // edited lines: pair them up for char-level highlights.
            if i+1 < len(hunks) && hunks[i+1].op == dmp.DiffInsert && len(hunks[i+1].lines) == len(h.lines) && !noColor {
                ins := hunks[i+1]
                for j := range h.lines {
                    del, add := charLines(h.lines[j], ins.lines[j])
                    b.WriteString(del + "\n" + add + "\n")
                }
                i++
                continue
            }
            for _, l := range h.lines {
                b.WriteString(paint(delLine, "- "+l, noColor) + "\n")
            }
        case dmp.DiffInsert:
            for _, l := range h.lines {
                b.WriteString(paint(addLine, "+ "+l, noColor) + "\n")
            }
        }
    }
    return b.String()
}

// charLines renders one edited line pair with changed spans underlined.
func charLines(before, after string) (string, string) {
    m := dmp.New()
    diffs := m.DiffMain(before, after, false)
    diffs = m.DiffCleanupSemantic(diffs)
    var del, add strings.Builder
    del.WriteString(delLine.Render("- "))
    add.WriteString(addLine.Render("+ "))
    for _, df := range diffs {
        switch df.Type {
        case dmp.DiffDelete:
            del.WriteString(delChar.Render(df.Text))
        case dmp.DiffInsert:
            add.WriteString(addChar.Render(df.Text))
        case dmp.DiffEqual:
            del.WriteString(delLine.Render(df.Text))
            add.WriteString(addLine.Render(df.Text))
        }
    }
    return del.String(), add.String()
}

func (d DiffView) sideBySide(before, after string, s state.UIState, noColor bool) string {
    const sep = " │ "
    colWidth := 40
    if s.Width > 0 {
        colWidth = (s.Width - len(sep)) / 2
        if colWidth < 10 {
            colWidth = 10
        }
    }
    var b strings.Builder
    fmt.Fprintf(&b, "%s%s%s\n", pad(d.Left, colWidth), sep, d.Right)

    var left, right []string
    flush := func() {
        for len(left) < len(right) {
            left = append(left, "")
        }
        for len(right) < len(left) {
            right = append(right, "")
        }
        for i := range left {
            l := pad(clip(left[i], colWidth), colWidth)
            r := clip(right[i], colWidth)
            fmt.Fprintf(&b, "%s%s%s\n", l, sep, r)
        }
        left, right = nil, nil
    }
    for _, h := range lineHunks(before, after) {
        switch h.op {
        case dmp.DiffEqual:
            flush()
            for _, l := range h.lines {
                left = append(left, "  "+l)
                right = append(right, "  "+l)
            }
            flush()
        case dmp.DiffDelete:
            for _, l := range h.lines {
                left = append(left, "- "+l)
            }
        case dmp.DiffInsert:
            for _, l := range h.lines {
                right = append(right, "+ "+l)
            }
        }
    }
    flush()
    return b.String()
}

func paint(st lipgloss.Style, s string, noColor bool) string {
    if noColor {
        return s
    }
    return st.Render(s)
}

func clip(s string, width int) string {
    runes := []rune(s)
    if len(runes) > width {
        return string(runes[:width])
    }
    return s
}

func pad(s string, width int) string {
    if w := len([]rune(s)); w < width {
        return s + strings.Repeat(" ", width-w)
    }
    return s
}
