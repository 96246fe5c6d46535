package sheet

import (
	"math"
	"time"
)

// Sample is one pointer position during a drag, measured as the vertical
// translation from where the touch began. Positive is downward.
type Sample struct {
	TranslationY float64
	At           time.Time
}

// DragSink receives what the Tracker forwards. The state machine implements it.
type DragSink interface {
	DragUpdate(gesture uint64, s Sample)
	DragEnd(gesture uint64, s Sample, velocityY float64, activated bool)
}

const (
	// velocitySmoothing weights the newest instantaneous velocity.
	velocitySmoothing = 0.7
	// releaseStillness is how long a pointer may rest before release and
	// still carry its velocity.
	releaseStillness = 100 * time.Millisecond
)

// Tracker turns raw pointer samples into drag updates. It does not decide
// transitions.
type Tracker struct {
	sink       DragSink
	activation float64

	gesture   uint64
	captured  bool
	activated bool
	last      Sample
	velocity  float64
}

// NewTracker forwards to sink once a touch has moved activation pixels.
func NewTracker(sink DragSink, activation float64) *Tracker {
	return &Tracker{sink: sink, activation: activation}
}

// SetActivation changes the activation distance from the next touch on.
func (t *Tracker) SetActivation(px float64) { t.activation = px }

// Begin captures a new touch and returns its gesture id.
func (t *Tracker) Begin(at time.Time) uint64 {
	t.gesture++
	t.captured = true
	t.activated = false
	t.last = Sample{At: at}
	t.velocity = 0
	return t.gesture
}

// Move feeds one sample of the captured touch. Samples before activation
// are swallowed.
func (t *Tracker) Move(s Sample) {
	if !t.captured {
		return
	}
	if !t.activated {
		if math.Abs(s.TranslationY) < t.activation {
			t.observe(s)
			return
		}
		t.activated = true
	}
	t.observe(s)
	t.sink.DragUpdate(t.gesture, s)
}

// End releases the touch using the tracker's own velocity estimate. A
// pointer that rested before release carries no velocity.
func (t *Tracker) End(s Sample) {
	if !t.captured {
		return
	}
	if s.TranslationY != t.last.TranslationY {
		t.Move(s)
	} else if !s.At.IsZero() && !t.last.At.IsZero() && s.At.Sub(t.last.At) > releaseStillness {
		t.velocity = 0
	}
	t.EndWithVelocity(s, t.velocity)
}

// EndWithVelocity releases the touch with a terminal velocity supplied by
// the input system. The sink always hears about the release, activated or not.
func (t *Tracker) EndWithVelocity(s Sample, velocityY float64) {
	if !t.captured {
		return
	}
	if !t.activated && math.Abs(s.TranslationY) >= t.activation {
		t.Move(s)
	}
	t.captured = false
	t.sink.DragEnd(t.gesture, s, velocityY, t.activated)
}

// Cancel drops the captured touch without notifying the sink.
func (t *Tracker) Cancel() {
	t.captured = false
	t.activated = false
	t.velocity = 0
}

// Gesture returns the id of the most recent touch.
func (t *Tracker) Gesture() uint64 { return t.gesture }

// Captured reports whether a touch is being tracked.
func (t *Tracker) Captured() bool { return t.captured }

// Velocity is the current smoothed velocity estimate in px/s.
func (t *Tracker) Velocity() float64 { return t.velocity }

func (t *Tracker) observe(s Sample) {
	if dt := s.At.Sub(t.last.At).Seconds(); dt > 0 && !t.last.At.IsZero() {
		inst := (s.TranslationY - t.last.TranslationY) / dt
		t.velocity = velocitySmoothing*inst + (1-velocitySmoothing)*t.velocity
	}
	t.last = s
}
