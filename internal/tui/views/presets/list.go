package presets

import (
    "fmt"
    "strings"

    "github.com/charmbracelet/lipgloss"

    "sheetlab/internal/config"
    "sheetlab/internal/sheet"
    "sheetlab/internal/tui/util"
    chips "sheetlab/internal/tui/widgets/tagchips"
)

var (
    selStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "205", Dark: "213"}).Bold(true)
    faintStyle = lipgloss.NewStyle().Faint(true)
)

// Lines renders one line per preset, numbered from 1, with the active one
// marked. It is the demo's background feed and the `presets` listing.
func Lines(c *config.Config, active int, noColor bool) []string {
    noColor = util.NoColor(noColor)
    out := make([]string, 0, len(c.Sheets))
    for i, s := range c.Sheets {
        title := s.Title
        if title == "" {
            title = s.Name
        }
        line := fmt.Sprintf("%d) %-14s %-16s %s", i+1, s.Name, title, shape(s))
        switch {
        case i == active && noColor:
            line = "> " + line
        case i == active:
            line = selStyle.Render("> " + line)
        default:
            line = "  " + line
        }
        out = append(out, line)
    }
    return out
}

// Details renders the description and thresholds of one preset.
func Details(c *config.Config, s config.Sheet, noColor bool) string {
    var b strings.Builder
    if s.Description != "" {
        b.WriteString(s.Description + "\n")
    }
    cfg, err := c.SheetConfig(s, 800)
    if err != nil {
        b.WriteString(err.Error() + "\n")
        return b.String()
    }
    line := fmt.Sprintf("close %.0f%%  velocity %.0fpx/s  spring ζ=%.2f ω=%.1f",
        cfg.CloseDragThreshold*100, cfg.VelocityThreshold, cfg.Spring.DampingRatio(), cfg.Spring.AngularFrequency())
    if cfg.SupportsExtended {
        line += fmt.Sprintf("  extend %.0f%%  collapse %.0f%%", cfg.ExtendDragThreshold*100, cfg.CollapseDragThreshold*100)
    }
    if util.NoColor(noColor) {
        b.WriteString(line + "\n")
    } else {
        b.WriteString(faintStyle.Render(line) + "\n")
    }
    return b.String()
}

// RenderTags is a thin adapter over the TagChips widget for the active sheet.
func RenderTags(st sheet.State, fb sheet.Feedback, twoTier, noColor bool) string {
    return chips.View(util.ComputeTags(st, fb, twoTier), noColor)
}

func shape(s config.Sheet) string {
    var h string
    switch {
    case s.CollapsedHeight > 0:
        h = fmt.Sprintf("%.0fpx", s.CollapsedHeight)
    case s.CollapsedFraction > 0:
        h = fmt.Sprintf("%.0f%%", s.CollapsedFraction*100)
    default:
        h = fmt.Sprintf("%.0f%%", sheet.DefaultCollapsedFraction*100)
    }
    if s.SupportsExtended {
        return h + " + extended"
    }
    return h
}
