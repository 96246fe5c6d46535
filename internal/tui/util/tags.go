package util

import (
    "math"

    "sheetlab/internal/sheet"
    "sheetlab/internal/tui/state"
)

// ComputeTags derives the status chips for a sheet from its live state and
// the feedback for the drag in progress, if any.
//
// The returned slice preserves a stable order:
//   Phase, Two-tier, Dragging, Target, Progress, Animating, Scrim
//
// Rules:
// - Phase is always present.
// - Target and Progress only appear while a drag is active; Target only when
//   releasing now would change the phase.
// - Scrim is always present, as a whole percentage.
func ComputeTags(st sheet.State, fb sheet.Feedback, twoTier bool) []state.Tag {
    tags := make([]state.Tag, 0, 7)

    tags = append(tags, state.Tag{Kind: state.PHASE, Value: int(st.Phase)})
    if twoTier {
        tags = append(tags, state.Tag{Kind: state.TWO_TIER})
    }
    if st.Dragging() {
        tags = append(tags, state.Tag{Kind: state.DRAGGING})
        if fb.Candidate != st.Phase {
            tags = append(tags, state.Tag{Kind: state.TARGET, Value: int(fb.Candidate)})
        }
        tags = append(tags, state.Tag{Kind: state.PROGRESS, Value: percent(fb.Progress)})
    }
    if st.Animating {
        tags = append(tags, state.Tag{Kind: state.ANIMATING})
    }
    tags = append(tags, state.Tag{Kind: state.SCRIM, Value: percent(st.Scrim())})
    return tags
}

func percent(f float64) int {
    return int(math.Round(f * 100))
}
