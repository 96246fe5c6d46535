package sheet

import "fmt"

// Phase is the discrete lifecycle phase of a sheet. Phases are ordered:
// Closed < Collapsed < Extended.
type Phase int

const (
	Closed Phase = iota
	Collapsed
	Extended
)

func (p Phase) String() string {
	switch p {
	case Closed:
		return "closed"
	case Collapsed:
		return "collapsed"
	case Extended:
		return "extended"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Open reports whether the sheet is on screen at either tier.
func (p Phase) Open() bool { return p != Closed }

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "closed":
		return Closed, nil
	case "collapsed":
		return Collapsed, nil
	case "extended":
		return Extended, nil
	}
	return Closed, fmt.Errorf("unknown phase %q", s)
}

// Values is a pair of animatable render values.
type Values struct {
	OffsetY        float64
	HeightFraction float64
}

// DragOrigin is recorded when a drag activates and cleared on release.
type DragOrigin struct {
	Gesture uint64
	// Translation is the latest raw translation of the gesture.
	Translation float64
	// Start holds the live values at the moment the drag pre-empted the sheet.
	Start Values
}

// State is the runtime state published to renderers. OffsetY and
// HeightFraction are always live animated values, never targets.
type State struct {
	Phase          Phase
	OffsetY        float64
	HeightFraction float64
	Drag           *DragOrigin

	// Animating is true while a spring is in flight.
	Animating bool
	// ScreenHeight is the height frozen when the sheet was last opened.
	ScreenHeight float64
}

// Dragging reports whether an activated drag is in progress.
func (s State) Dragging() bool { return s.Drag != nil }

// Values returns the live render values.
func (s State) Values() Values {
	return Values{OffsetY: s.OffsetY, HeightFraction: s.HeightFraction}
}

// VisibleFraction is the share of the screen covered by the sheet after
// translation, in [0,1].
func (s State) VisibleFraction() float64 {
	if s.ScreenHeight <= 0 {
		return 0
	}
	return clamp(s.HeightFraction-s.OffsetY/s.ScreenHeight, 0, 1)
}

// Scrim is the opacity of the backdrop behind the sheet: 1 when fully open,
// 0 when closed.
func (s State) Scrim() float64 {
	if s.ScreenHeight <= 0 {
		return 0
	}
	return clamp(1-s.OffsetY/s.ScreenHeight, 0, 1)
}

func (s State) String() string {
	drag := "-"
	if s.Drag != nil {
		drag = fmt.Sprintf("%+.1f", s.Drag.Translation)
	}
	return fmt.Sprintf("phase=%s offset=%.1f height=%.3f drag=%s", s.Phase, s.OffsetY, s.HeightFraction, drag)
}

// snapshot returns a copy that shares no memory with s.
func (s State) snapshot() State {
	if s.Drag != nil {
		d := *s.Drag
		s.Drag = &d
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
