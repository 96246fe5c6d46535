package sheet

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfig is wrapped by every validation failure returned from New,
// Reconfigure and Config.Validate.
var ErrInvalidConfig = errors.New("sheet: invalid config")

// Defaults observed across the drawers the engine replaces.
const (
	DefaultCollapsedFraction     = 0.85
	DefaultExtendedFraction      = 1.0
	DefaultCloseDragThreshold    = 0.3
	DefaultExtendDragThreshold   = 0.1
	DefaultCollapseDragThreshold = 0.1
	DefaultVelocityThreshold     = 500.0 // px/s
	DefaultActivationDistance    = 15.0  // px
	DefaultFPS                   = 60
	DefaultStaleDragTimeout      = 750 * time.Millisecond
)

// Spring holds mass-spring-damper parameters in the units animation
// libraries on mobile platforms use.
type Spring struct {
	Damping   float64 `yaml:"damping" json:"damping"`
	Stiffness float64 `yaml:"stiffness" json:"stiffness"`
	Mass      float64 `yaml:"mass" json:"mass"`
}

// DefaultSpring is used for open, close and every drag-driven transition.
var DefaultSpring = Spring{Damping: 20, Stiffness: 90, Mass: 0.4}

// AngularFrequency returns sqrt(k/m) in rad/s.
func (s Spring) AngularFrequency() float64 {
	return math.Sqrt(s.Stiffness / s.Mass)
}

// DampingRatio returns c / (2*sqrt(k*m)). Values above 1 are overdamped.
func (s Spring) DampingRatio() float64 {
	return s.Damping / (2 * math.Sqrt(s.Stiffness*s.Mass))
}

// Config describes one drawer. Zero-valued optional fields take the package
// defaults; ScreenHeight is the only required field.
type Config struct {
	// ScreenHeight is the reference frame for every fractional threshold.
	ScreenHeight float64

	// SupportsExtended enables the Collapsed/Extended two-tier mode.
	SupportsExtended bool

	// CollapsedFraction is the visible height in Collapsed, in (0,1].
	CollapsedFraction float64
	// CollapsedHeight, when positive, pins the Collapsed tier to a pixel
	// height and overrides CollapsedFraction.
	CollapsedHeight float64
	// ExtendedFraction is the visible height in Extended, in (CollapsedFraction,1].
	ExtendedFraction float64

	CloseDragThreshold    float64
	ExtendDragThreshold   float64
	CollapseDragThreshold float64
	// VelocityThreshold is in px/s; positive velocity points toward close.
	VelocityThreshold float64

	// ActivationDistance is how far a touch must travel before it counts as a drag.
	ActivationDistance float64

	Spring Spring
	FPS    int

	// StaleDragTimeout bounds how long an activated drag may go without a
	// sample before a frame tick releases it.
	StaleDragTimeout time.Duration
}

// DefaultConfig returns a Closed↔Collapsed config with every default filled in.
func DefaultConfig(screenHeight float64) Config {
	return Config{ScreenHeight: screenHeight}.withDefaults()
}

// WithFixedHeight pins the Collapsed tier to px pixels.
func (c Config) WithFixedHeight(px float64) Config {
	c.CollapsedHeight = px
	return c
}

// WithScreenHeight returns c measured against h. A fixed collapsed height is
// re-expressed as a fraction of the new height.
func (c Config) WithScreenHeight(h float64) Config {
	c.ScreenHeight = h
	return c.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.CollapsedHeight > 0 && c.ScreenHeight > 0 {
		c.CollapsedFraction = c.CollapsedHeight / c.ScreenHeight
	}
	if c.CollapsedFraction == 0 {
		c.CollapsedFraction = DefaultCollapsedFraction
	}
	if c.ExtendedFraction == 0 {
		c.ExtendedFraction = DefaultExtendedFraction
	}
	if c.CloseDragThreshold == 0 {
		c.CloseDragThreshold = DefaultCloseDragThreshold
	}
	if c.ExtendDragThreshold == 0 {
		c.ExtendDragThreshold = DefaultExtendDragThreshold
	}
	if c.CollapseDragThreshold == 0 {
		c.CollapseDragThreshold = DefaultCollapseDragThreshold
	}
	if c.VelocityThreshold == 0 {
		c.VelocityThreshold = DefaultVelocityThreshold
	}
	if c.ActivationDistance == 0 {
		c.ActivationDistance = DefaultActivationDistance
	}
	if c.Spring == (Spring{}) {
		c.Spring = DefaultSpring
	}
	if c.FPS == 0 {
		c.FPS = DefaultFPS
	}
	if c.StaleDragTimeout == 0 {
		c.StaleDragTimeout = DefaultStaleDragTimeout
	}
	return c
}

// Validate reports whether c, after defaults, describes a usable drawer.
func (c Config) Validate() error {
	c = c.withDefaults()
	switch {
	case !(c.ScreenHeight > 0):
		return fmt.Errorf("%w: screen height %v must be positive", ErrInvalidConfig, c.ScreenHeight)
	case !(c.CollapsedFraction > 0 && c.CollapsedFraction <= 1):
		return fmt.Errorf("%w: collapsed fraction %v outside (0,1]", ErrInvalidConfig, c.CollapsedFraction)
	case c.SupportsExtended && !(c.ExtendedFraction > c.CollapsedFraction && c.ExtendedFraction <= 1):
		return fmt.Errorf("%w: extended fraction %v outside (%v,1]", ErrInvalidConfig, c.ExtendedFraction, c.CollapsedFraction)
	case c.CloseDragThreshold < 0 || c.ExtendDragThreshold < 0 || c.CollapseDragThreshold < 0:
		return fmt.Errorf("%w: drag thresholds must not be negative", ErrInvalidConfig)
	case c.VelocityThreshold < 0:
		return fmt.Errorf("%w: velocity threshold %v must not be negative", ErrInvalidConfig, c.VelocityThreshold)
	case c.ActivationDistance < 0:
		return fmt.Errorf("%w: activation distance %v must not be negative", ErrInvalidConfig, c.ActivationDistance)
	case c.Spring.Stiffness <= 0 || c.Spring.Mass <= 0 || c.Spring.Damping < 0:
		return fmt.Errorf("%w: spring %+v", ErrInvalidConfig, c.Spring)
	case c.FPS < 1:
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, c.FPS)
	}
	return nil
}
