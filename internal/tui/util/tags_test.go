package util

import (
    "testing"

    "sheetlab/internal/sheet"
    "sheetlab/internal/tui/state"
)

func findKind(tags []state.Tag, k state.TagKind) (idx int, ok bool) {
    for i, t := range tags {
        if t.Kind == k {
            return i, true
        }
    }
    return -1, false
}

func TestClosedSheetTags(t *testing.T) {
    st := sheet.State{Phase: sheet.Closed, OffsetY: 800, ScreenHeight: 800}
    tags := ComputeTags(st, sheet.Feedback{Candidate: sheet.Closed}, false)
    if len(tags) != 2 {
        t.Fatalf("expected phase and scrim only, got %v", tags)
    }
    if idx, ok := findKind(tags, state.SCRIM); !ok || tags[idx].Value != 0 {
        t.Fatalf("expected SCRIM 0 for a closed sheet")
    }
}

func TestDragTags(t *testing.T) {
    st := sheet.State{
        Phase:        sheet.Collapsed,
        OffsetY:      200,
        ScreenHeight: 800,
        Drag:         &sheet.DragOrigin{Translation: 200},
    }
    fb := sheet.Feedback{Candidate: sheet.Closed, Progress: 0.834}
    tags := ComputeTags(st, fb, true)

    if idx, ok := findKind(tags, state.TARGET); !ok || sheet.Phase(tags[idx].Value) != sheet.Closed {
        t.Fatalf("expected TARGET closed")
    }
    if idx, ok := findKind(tags, state.PROGRESS); !ok || tags[idx].Value != 83 {
        t.Fatalf("expected PROGRESS 83")
    }
    if idx, ok := findKind(tags, state.SCRIM); !ok || tags[idx].Value != 75 {
        t.Fatalf("expected SCRIM 75")
    }
}

func TestNoTargetWhenPhaseHolds(t *testing.T) {
    st := sheet.State{Phase: sheet.Collapsed, ScreenHeight: 800, Drag: &sheet.DragOrigin{Translation: 20}}
    tags := ComputeTags(st, sheet.Feedback{Candidate: sheet.Collapsed, Progress: 0.1}, false)
    if _, ok := findKind(tags, state.TARGET); ok {
        t.Fatalf("did not expect TARGET when the phase would hold")
    }
    if _, ok := findKind(tags, state.DRAGGING); !ok {
        t.Fatalf("expected DRAGGING")
    }
}

func TestStableOrder(t *testing.T) {
    st := sheet.State{Phase: sheet.Extended, ScreenHeight: 800, Animating: true, Drag: &sheet.DragOrigin{}}
    tags := ComputeTags(st, sheet.Feedback{Candidate: sheet.Collapsed, Progress: 1}, true)
    order := []state.TagKind{state.PHASE, state.TWO_TIER, state.DRAGGING, state.TARGET, state.PROGRESS, state.ANIMATING, state.SCRIM}
    if len(tags) != len(order) {
        t.Fatalf("expected %d tags, got %d", len(order), len(tags))
    }
    for i, k := range order {
        if tags[i].Kind != k {
            t.Fatalf("tag %d is %v, want %v", i, tags[i].Kind, k)
        }
    }
}
