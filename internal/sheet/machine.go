package sheet

import (
	"time"

	"go.uber.org/zap"
)

// Hooks are lifecycle callbacks. Both fire only when an animation settles,
// and only on a visibility edge: a sheet closed before its opening animation
// settled was never reported open, so neither hook fires for it.
type Hooks struct {
	OnOpened func()
	OnClosed func()
}

type actionKind int

const (
	actOpen actionKind = iota
	actClose
	actDragUpdate
	actDragEnd
	actFrame
	actSettle
	actReconfigure
)

var actionNames = [...]string{"open", "close", "drag-update", "drag-end", "frame", "settle", "reconfigure"}

func (k actionKind) String() string { return actionNames[k] }

type action struct {
	kind      actionKind
	gesture   uint64
	sample    Sample
	velocity  float64
	activated bool
	token     uint64
	now       time.Time
	cfg       Config
}

// Machine owns a sheet's State and is the only thing that changes it. Every
// input funnels through dispatch, and subscribers see a snapshot after each
// change. A Machine is driven from a single goroutine.
type Machine struct {
	id    string
	cfg   Config // frozen at open time
	next  Config // becomes cfg at the next open
	state State
	anim  *animator
	token uint64 // token of the animation whose settle still counts
	hooks Hooks
	obs   observers
	log   *zap.Logger

	// shown is true once onOpened has fired and until onClosed fires.
	shown     bool
	abandoned uint64
	lastDrag  time.Time
}

// NewMachine returns a Closed machine. cfg must already be valid.
func NewMachine(id string, cfg Config, hooks Hooks, log *zap.Logger) *Machine {
	if log == nil {
		log = zap.NewNop()
	}
	cfg = cfg.withDefaults()
	m := &Machine{id: id, cfg: cfg, next: cfg, hooks: hooks, log: log}
	m.state = State{
		Phase:          Closed,
		OffsetY:        cfg.ScreenHeight,
		HeightFraction: cfg.CollapsedFraction,
		ScreenHeight:   cfg.ScreenHeight,
	}
	m.anim = newAnimator(cfg.FPS, cfg.Spring, cfg.ScreenHeight, m.state.Values())
	return m
}

// Open shows a Closed sheet at its Collapsed tier. It is a no-op when the
// sheet is already open.
func (m *Machine) Open() { m.dispatch(action{kind: actOpen}) }

// Close hides the sheet, abandoning any drag in progress.
func (m *Machine) Close() { m.dispatch(action{kind: actClose}) }

// DragUpdate implements DragSink.
func (m *Machine) DragUpdate(gesture uint64, s Sample) {
	m.dispatch(action{kind: actDragUpdate, gesture: gesture, sample: s})
}

// DragEnd implements DragSink.
func (m *Machine) DragEnd(gesture uint64, s Sample, velocityY float64, activated bool) {
	m.dispatch(action{kind: actDragEnd, gesture: gesture, sample: s, velocity: velocityY, activated: activated})
}

// Tick advances the animation by one frame and runs the stale-drag
// watchdog. It reports whether another frame is wanted.
func (m *Machine) Tick(now time.Time) bool {
	m.dispatch(action{kind: actFrame, now: now})
	return m.state.Animating
}

// Reconfigure replaces the config used from the next Open on. A settled,
// Closed sheet adopts it immediately.
func (m *Machine) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.dispatch(action{kind: actReconfigure, cfg: cfg})
	return nil
}

// State returns a snapshot of the runtime state.
func (m *Machine) State() State { return m.state.snapshot() }

// Config returns the config currently in force.
func (m *Machine) Config() Config { return m.cfg }

// Subscribe registers fn to receive a snapshot after every change.
func (m *Machine) Subscribe(fn func(State)) Subscription { return m.obs.add(fn) }

// Abandoned reports whether gesture was cut off by Close or the watchdog.
func (m *Machine) Abandoned(gesture uint64) bool {
	return gesture != 0 && gesture <= m.abandoned
}

func (m *Machine) dispatch(a action) {
	var changed bool
	switch a.kind {
	case actOpen:
		changed = m.open()
	case actClose:
		changed = m.close()
	case actDragUpdate:
		changed = m.dragUpdate(a.gesture, a.sample)
	case actDragEnd:
		changed = m.dragEnd(a.gesture, a.sample, a.velocity, a.activated)
	case actFrame:
		changed = m.frame(a.now)
	case actSettle:
		changed = m.settle(a.token)
	case actReconfigure:
		changed = m.reconfigure(a.cfg)
	}
	if changed {
		m.obs.publish(m.state)
	}
}

func (m *Machine) open() bool {
	if m.state.Phase != Closed {
		return false
	}
	m.freeze()
	m.state.Phase = Collapsed
	m.animate(m.rest(Collapsed), Values{})
	m.log.Debug("sheet opening", zap.String("sheet", m.id), zap.Float64("screen_height", m.cfg.ScreenHeight))
	return true
}

func (m *Machine) close() bool {
	if m.state.Phase == Closed {
		return false
	}
	from := m.state.Phase
	if d := m.state.Drag; d != nil {
		m.abandon(d.Gesture)
		m.log.Debug("drag abandoned by close", zap.String("sheet", m.id), zap.Uint64("gesture", d.Gesture))
	}
	m.state.Phase = Closed
	m.animate(m.rest(Closed), Values{})
	m.log.Debug("sheet closing", zap.String("sheet", m.id), zap.Stringer("from", from))
	return true
}

func (m *Machine) dragUpdate(gesture uint64, s Sample) bool {
	if m.state.Phase == Closed || m.Abandoned(gesture) {
		return false
	}
	d := m.state.Drag
	if d != nil && d.Gesture != gesture {
		// Input is serialized, so a new gesture means the old release was lost.
		m.abandon(d.Gesture)
		d = nil
	}
	if d == nil {
		m.anim.Stop()
		d = &DragOrigin{Gesture: gesture, Start: m.anim.Values()}
		m.state.Drag = d
		m.log.Debug("drag started", zap.String("sheet", m.id), zap.Uint64("gesture", gesture), zap.Stringer("phase", m.state.Phase))
	}
	d.Translation = s.TranslationY
	m.lastDrag = s.At
	fb := Preview(m.state, m.cfg, s.TranslationY)
	m.anim.jump(fb.Values)
	m.sync()
	return true
}

func (m *Machine) dragEnd(gesture uint64, s Sample, velocity float64, activated bool) bool {
	if m.Abandoned(gesture) {
		return false
	}
	d := m.state.Drag
	if d == nil || d.Gesture != gesture {
		// Never activated: nothing moved, so there is nothing to settle.
		return false
	}
	m.release(s.TranslationY, velocity)
	return true
}

func (m *Machine) release(translation, velocity float64) {
	from := m.state.Phase
	dec := Resolve(m.state, m.cfg, translation, velocity)
	m.state.Drag = nil
	m.state.Phase = dec.Next

	// Release velocity only carries over when it points at the target.
	var seed Values
	live := m.anim.Values()
	switch {
	case dec.Next == Closed, from == Collapsed && dec.Next == Collapsed:
		if (dec.Target.OffsetY-live.OffsetY)*velocity > 0 {
			seed.OffsetY = velocity
		}
	case m.cfg.ScreenHeight > 0:
		if v := -velocity / m.cfg.ScreenHeight; (dec.Target.HeightFraction-live.HeightFraction)*v > 0 {
			seed.HeightFraction = v
		}
	}
	m.animate(dec.Target, seed)
	m.log.Debug("drag released",
		zap.String("sheet", m.id),
		zap.Stringer("from", from),
		zap.Stringer("to", dec.Next),
		zap.Float64("translation", translation),
		zap.Float64("velocity", velocity))
}

func (m *Machine) frame(now time.Time) bool {
	changed := false
	if d := m.state.Drag; d != nil && !m.lastDrag.IsZero() && now.Sub(m.lastDrag) > m.cfg.StaleDragTimeout {
		m.abandon(d.Gesture)
		m.animate(m.rest(m.state.Phase), Values{})
		m.log.Warn("drag timed out, snapping back",
			zap.String("sheet", m.id),
			zap.Uint64("gesture", d.Gesture),
			zap.Duration("idle", now.Sub(m.lastDrag)))
		changed = true
	}
	if !m.anim.Running() {
		return changed
	}
	token, settled := m.anim.Step()
	m.sync()
	if settled {
		m.settle(token)
	}
	return true
}

// settle runs when an animation comes to rest. A token from a superseded
// animation is ignored.
func (m *Machine) settle(token uint64) bool {
	if token != m.token {
		m.log.Debug("stale settle ignored", zap.String("sheet", m.id), zap.Uint64("token", token))
		return false
	}
	m.sync()
	switch {
	case m.state.Phase.Open() && !m.shown:
		m.shown = true
		m.log.Debug("sheet opened", zap.String("sheet", m.id))
		if m.hooks.OnOpened != nil {
			m.hooks.OnOpened()
		}
	case m.state.Phase == Closed && m.shown:
		m.shown = false
		m.log.Debug("sheet closed", zap.String("sheet", m.id))
		if m.hooks.OnClosed != nil {
			m.hooks.OnClosed()
		}
	}
	return true
}

func (m *Machine) reconfigure(cfg Config) bool {
	m.next = cfg.withDefaults()
	if m.state.Phase != Closed || m.anim.Running() || m.state.Drag != nil {
		return false
	}
	m.freeze()
	return true
}

// freeze adopts the pending config. A settled, Closed sheet moves to the
// bottom of the new screen so the next open starts from there.
func (m *Machine) freeze() {
	m.cfg = m.next
	m.state.ScreenHeight = m.cfg.ScreenHeight
	m.anim.configure(m.cfg.FPS, m.cfg.Spring, m.cfg.ScreenHeight)
	if m.state.Phase == Closed && !m.anim.Running() {
		m.anim.jump(m.rest(Closed))
		m.sync()
	}
}

func (m *Machine) animate(to, seed Values) {
	m.token = m.anim.Start(to, seed)
	m.sync()
}

func (m *Machine) abandon(gesture uint64) {
	if gesture > m.abandoned {
		m.abandoned = gesture
	}
	m.state.Drag = nil
}

// rest returns the settled values for p under the frozen config.
func (m *Machine) rest(p Phase) Values {
	switch p {
	case Closed:
		return Values{OffsetY: m.cfg.ScreenHeight, HeightFraction: m.cfg.CollapsedFraction}
	case Extended:
		return Values{OffsetY: 0, HeightFraction: m.cfg.ExtendedFraction}
	default:
		return Values{OffsetY: 0, HeightFraction: m.cfg.CollapsedFraction}
	}
}

// sync copies the animator's live values into the published state.
func (m *Machine) sync() {
	v := m.anim.Values()
	m.state.OffsetY = v.OffsetY
	m.state.HeightFraction = v.HeightFraction
	m.state.Animating = m.anim.Running()
}
