package tagchips

import (
    "fmt"
    "strings"

    "github.com/charmbracelet/lipgloss"

    "sheetlab/internal/sheet"
    "sheetlab/internal/tui/state"
    "sheetlab/internal/tui/util"
)

// View renders sheet tags in a stable order using colored chips when
// possible and ASCII fallbacks when color is disabled or not desired.
func View(tags []state.Tag, noColor bool) string {
    if len(tags) == 0 {
        return ""
    }
    noColor = util.NoColor(noColor)

    parts := make([]string, 0, len(tags))
    for _, t := range tags {
        parts = append(parts, renderChip(t, noColor))
    }
    return strings.Join(parts, " ")
}

func renderChip(t state.Tag, noColor bool) string {
    label := chipLabel(t)
    if noColor {
        return fmt.Sprintf("[%s]", label)
    }
    return chipStyle(t).Render(label)
}

func chipLabel(t state.Tag) string {
    switch t.Kind {
    case state.PHASE:
        return strings.ToUpper(sheet.Phase(t.Value).String())
    case state.TWO_TIER:
        return "Two-tier"
    case state.DRAGGING:
        return "Dragging"
    case state.TARGET:
        return "→ " + sheet.Phase(t.Value).String()
    case state.PROGRESS:
        return fmt.Sprintf("%d%%", t.Value)
    case state.ANIMATING:
        return "Animating"
    case state.SCRIM:
        return fmt.Sprintf("Scrim %d%%", t.Value)
    default:
        return "Tag"
    }
}

func chipStyle(t state.Tag) lipgloss.Style {
    p := util.DefaultPalette()
    base := lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(p.Text)
    switch t.Kind {
    case state.PHASE:
        if sheet.Phase(t.Value) == sheet.Closed {
            return base.Background(p.Muted)
        }
        return base.Background(p.Primary)
    case state.TWO_TIER:
        return base.Background(p.MutedDark)
    case state.DRAGGING:
        return base.Background(p.Warning).Foreground(lipgloss.Color("#111111"))
    case state.TARGET:
        if sheet.Phase(t.Value) == sheet.Closed {
            return base.Background(p.Danger)
        }
        return base.Background(p.Success)
    case state.PROGRESS, state.SCRIM:
        return base.Background(p.MutedDark)
    case state.ANIMATING:
        return base.Background(p.Success)
    default:
        return base
    }
}
