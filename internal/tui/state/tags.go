package state

// TagKind enumerates the status chips shown for the active sheet.
type TagKind int

const (
    // Stable ordering for display: Phase, Two-tier, Dragging, Target, Progress, Animating, Scrim
    PHASE TagKind = iota
    TWO_TIER
    DRAGGING
    TARGET
    PROGRESS
    ANIMATING
    SCRIM
)

// Tag represents a single status chip. Value carries a phase for PHASE and
// TARGET and a percentage for PROGRESS and SCRIM; other tags use Value = 0.
type Tag struct {
    Kind  TagKind
    Value int
}
