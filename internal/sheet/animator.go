package sheet

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Settle tolerances. Offsets are in pixels, heights are fractions.
const (
	offsetEpsilon   = 0.5
	heightEpsilon   = 0.001
	velocityEpsilon = 1.0
)

type channel struct {
	pos, vel, target float64
}

func (c *channel) step(s harmonica.Spring) {
	c.pos, c.vel = s.Update(c.pos, c.vel, c.target)
}

func (c channel) settled(eps, scale float64) bool {
	return math.Abs(c.pos-c.target) < eps && math.Abs(c.vel)*scale < velocityEpsilon
}

// animator drives OffsetY and HeightFraction toward a target with a damped
// spring, one fixed-length frame per step. Each Start hands out a fresh token;
// Stop and Start invalidate older tokens so their settle never reports.
type animator struct {
	spring harmonica.Spring
	offset channel
	height channel
	// heightScale converts a height velocity into px/s for the settle test.
	heightScale float64
	running     bool
	token       uint64
}

func newAnimator(fps int, sp Spring, screenHeight float64, at Values) *animator {
	a := &animator{}
	a.configure(fps, sp, screenHeight)
	a.jump(at)
	return a
}

func (a *animator) configure(fps int, sp Spring, screenHeight float64) {
	a.spring = harmonica.NewSpring(harmonica.FPS(fps), sp.AngularFrequency(), sp.DampingRatio())
	a.heightScale = screenHeight
}

// Start retargets the spring from its live values. Non-zero components of
// vel replace the live velocity of that channel.
func (a *animator) Start(to, vel Values) uint64 {
	a.token++
	a.offset.target = to.OffsetY
	a.height.target = to.HeightFraction
	if vel.OffsetY != 0 {
		a.offset.vel = vel.OffsetY
	}
	if vel.HeightFraction != 0 {
		a.height.vel = vel.HeightFraction
	}
	a.running = true
	return a.token
}

// Stop freezes the spring at its live values and invalidates the in-flight token.
func (a *animator) Stop() {
	a.token++
	a.running = false
	a.offset.vel, a.height.vel = 0, 0
	a.offset.target, a.height.target = a.offset.pos, a.height.pos
}

// jump places the spring at v without animating.
func (a *animator) jump(v Values) {
	a.Stop()
	a.offset = channel{pos: v.OffsetY, target: v.OffsetY}
	a.height = channel{pos: v.HeightFraction, target: v.HeightFraction}
}

// Step advances one frame. When the spring comes to rest it snaps to the
// target and returns the token that started it.
func (a *animator) Step() (settledToken uint64, settled bool) {
	if !a.running {
		return 0, false
	}
	a.offset.step(a.spring)
	a.height.step(a.spring)
	a.clampOffset()
	if a.offset.settled(offsetEpsilon, 1) && a.height.settled(heightEpsilon, a.heightScale) {
		a.offset = channel{pos: a.offset.target, target: a.offset.target}
		a.height = channel{pos: a.height.target, target: a.height.target}
		a.running = false
		return a.token, true
	}
	return 0, false
}

// clampOffset keeps the sheet between the top of its tier and the bottom of
// the screen. Velocity carrying it past either edge is dropped.
func (a *animator) clampOffset() {
	switch {
	case a.offset.pos < 0:
		a.offset.pos = 0
		a.offset.vel = math.Max(a.offset.vel, 0)
	case a.heightScale > 0 && a.offset.pos > a.heightScale:
		a.offset.pos = a.heightScale
		a.offset.vel = math.Min(a.offset.vel, 0)
	}
}

func (a *animator) Values() Values {
	return Values{OffsetY: a.offset.pos, HeightFraction: a.height.pos}
}

func (a *animator) Target() Values {
	return Values{OffsetY: a.offset.target, HeightFraction: a.height.target}
}

func (a *animator) Running() bool { return a.running }
