// Package sheet implements the interaction engine behind bottom-anchored
// modal sheets: a drag tracker, a pure physics resolver, and a state machine
// that animates between Closed, Collapsed and Extended with a damped spring.
//
// A Sheet is a plain value driven by its host. The host forwards pointer
// samples and frame ticks, calls Open and Close from its own handlers, and
// renders whatever State it is handed. Nothing in this package starts a
// goroutine or blocks.
package sheet

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sheet wires a Tracker and a Machine for one on-screen drawer.
type Sheet struct {
	id      string
	tracker *Tracker
	machine *Machine
}

// Option customises a Sheet at construction.
type Option func(*options)

type options struct {
	id    string
	log   *zap.Logger
	hooks Hooks
}

// WithLogger routes engine debug logs to log.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithID names the sheet in logs. The default is a random UUID.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithOnOpened registers fn to run once the sheet has settled open.
func WithOnOpened(fn func()) Option {
	return func(o *options) { o.hooks.OnOpened = fn }
}

// WithOnClosed registers fn to run once the sheet has settled closed.
func WithOnClosed(fn func()) Option {
	return func(o *options) { o.hooks.OnClosed = fn }
}

// New returns a Closed sheet for cfg.
func New(cfg Config, opts ...Option) (*Sheet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	cfg = cfg.withDefaults()
	m := NewMachine(o.id, cfg, o.hooks, o.log)
	return &Sheet{
		id:      o.id,
		machine: m,
		tracker: NewTracker(m, cfg.ActivationDistance),
	}, nil
}

// ID returns the sheet's log identifier.
func (s *Sheet) ID() string { return s.id }

// Open slides the sheet in at its Collapsed tier.
func (s *Sheet) Open() { s.machine.Open() }

// Close slides the sheet out. A drag in progress is abandoned and its
// remaining samples are ignored.
func (s *Sheet) Close() {
	s.machine.Close()
	s.tracker.Cancel()
}

// State returns a snapshot of the runtime state.
func (s *Sheet) State() State { return s.machine.State() }

// Config returns the config frozen at the last open.
func (s *Sheet) Config() Config { return s.machine.Config() }

// Subscribe delivers a snapshot after every change.
func (s *Sheet) Subscribe(fn func(State)) Subscription { return s.machine.Subscribe(fn) }

// PointerDown captures a touch on the sheet. It returns false, and captures
// nothing, while the sheet is closed.
func (s *Sheet) PointerDown(at time.Time) bool {
	if s.machine.State().Phase == Closed {
		return false
	}
	s.tracker.SetActivation(s.machine.Config().ActivationDistance)
	s.tracker.Begin(at)
	return true
}

// PointerMove reports the captured touch's translation from where it began.
func (s *Sheet) PointerMove(translationY float64, at time.Time) {
	s.tracker.Move(Sample{TranslationY: translationY, At: at})
}

// PointerUp releases the touch with an estimated velocity.
func (s *Sheet) PointerUp(translationY float64, at time.Time) {
	s.tracker.End(Sample{TranslationY: translationY, At: at})
}

// Release ends the touch with a velocity reported by the input system.
func (s *Sheet) Release(translationY, velocityY float64, at time.Time) {
	s.tracker.EndWithVelocity(Sample{TranslationY: translationY, At: at}, velocityY)
}

// Tick advances one animation frame. It reports whether the sheet is still
// animating.
func (s *Sheet) Tick(now time.Time) bool {
	busy := s.machine.Tick(now)
	s.dropAbandoned()
	return busy
}

// Resize records a new screen height. It applies immediately to a settled,
// Closed sheet and otherwise at the next Open.
func (s *Sheet) Resize(screenHeight float64) error {
	return s.Reconfigure(s.machine.next.WithScreenHeight(screenHeight))
}

// Reconfigure replaces the config from the next Open on.
func (s *Sheet) Reconfigure(cfg Config) error {
	if err := s.machine.Reconfigure(cfg); err != nil {
		return fmt.Errorf("reconfigure sheet %s: %w", s.id, err)
	}
	return nil
}

// Dragging reports whether a touch is captured, activated or not.
func (s *Sheet) Dragging() bool { return s.tracker.Captured() }

// Feedback previews where the current drag is heading.
func (s *Sheet) Feedback() Feedback {
	st := s.machine.State()
	if st.Drag == nil {
		return Feedback{Values: st.Values(), Candidate: st.Phase}
	}
	return Preview(st, s.machine.Config(), st.Drag.Translation)
}

func (s *Sheet) dropAbandoned() {
	if s.tracker.Captured() && s.machine.Abandoned(s.tracker.Gesture()) {
		s.tracker.Cancel()
	}
}
