package sheet

// Decision is the outcome of a released drag.
type Decision struct {
	Next   Phase
	Target Values
}

// Transition reports whether the decision leaves the current phase.
func (d Decision) Transition(from Phase) bool { return d.Next != from }

// Feedback is the live visual response to an unreleased drag.
type Feedback struct {
	Values
	// Candidate is the phase the drag is heading toward.
	Candidate Phase
	// Progress is the travel toward Candidate's distance threshold in [0,1].
	Progress float64
}

// Resolve decides where a released drag lands. Rules are evaluated in
// precedence order and the first match wins. Velocity is positive downward.
//
// Comparisons are strict so an exact tie stays put, with one exception: the
// close line closes when reached.
func Resolve(s State, cfg Config, finalTranslationY, velocityY float64) Decision {
	h := cfg.ScreenHeight
	ty, vy := finalTranslationY, velocityY
	closed := Decision{Next: Closed, Target: Values{OffsetY: h, HeightFraction: cfg.CollapsedFraction}}
	collapsed := Decision{Next: Collapsed, Target: Values{OffsetY: 0, HeightFraction: cfg.CollapsedFraction}}
	extended := Decision{Next: Extended, Target: Values{OffsetY: 0, HeightFraction: cfg.ExtendedFraction}}

	switch {
	case s.Phase == Closed:
		return closed

	case s.Phase == Extended && cfg.SupportsExtended:
		if ty > h*cfg.CollapseDragThreshold || vy > cfg.VelocityThreshold {
			return collapsed
		}
		return extended

	default:
		if cfg.SupportsExtended && (ty < -h*cfg.ExtendDragThreshold || vy < -cfg.VelocityThreshold) {
			return extended
		}
		if ty >= h*cfg.CloseDragThreshold || vy > cfg.VelocityThreshold {
			return closed
		}
		return collapsed
	}
}

// Preview maps an in-progress translation onto live values, measured from
// the values captured when the drag began. Movement tracks the finger 1:1
// and is clamped to the reachable range of the current phase.
func Preview(s State, cfg Config, translationY float64) Feedback {
	h := cfg.ScreenHeight
	start := s.Values()
	if s.Drag != nil {
		start = s.Drag.Start
	}
	fb := Feedback{Values: start, Candidate: s.Phase}
	if h <= 0 {
		return fb
	}
	ty := translationY

	switch {
	case s.Phase == Closed:
		return fb

	case s.Phase == Extended && cfg.SupportsExtended:
		if ty <= 0 {
			return fb
		}
		fb.HeightFraction = clamp(start.HeightFraction-ty/h, cfg.CollapsedFraction, cfg.ExtendedFraction)
		fb.Candidate = Collapsed
		fb.Progress = progress(ty, h*cfg.CollapseDragThreshold)

	case ty > 0:
		fb.OffsetY = clamp(start.OffsetY+ty, 0, h)
		fb.Candidate = Closed
		fb.Progress = progress(ty, h*cfg.CloseDragThreshold)

	case ty < 0 && cfg.SupportsExtended:
		fb.HeightFraction = clamp(start.HeightFraction-ty/h, cfg.CollapsedFraction, cfg.ExtendedFraction)
		fb.OffsetY = clamp(start.OffsetY+ty, 0, h)
		fb.Candidate = Extended
		fb.Progress = progress(-ty, h*cfg.ExtendDragThreshold)

	case ty < 0:
		// No tier above Collapsed: upward travel only undoes a partial offset.
		fb.OffsetY = clamp(start.OffsetY+ty, 0, h)
	}
	return fb
}

func progress(travel, threshold float64) float64 {
	if threshold <= 0 {
		if travel > 0 {
			return 1
		}
		return 0
	}
	return clamp(travel/threshold, 0, 1)
}
