package sheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig(800)
	assert.Equal(t, 800.0, c.ScreenHeight)
	assert.False(t, c.SupportsExtended)
	assert.Equal(t, 0.85, c.CollapsedFraction)
	assert.Equal(t, 1.0, c.ExtendedFraction)
	assert.Equal(t, 0.3, c.CloseDragThreshold)
	assert.Equal(t, 0.1, c.ExtendDragThreshold)
	assert.Equal(t, 0.1, c.CollapseDragThreshold)
	assert.Equal(t, 500.0, c.VelocityThreshold)
	assert.Equal(t, 15.0, c.ActivationDistance)
	assert.Equal(t, DefaultSpring, c.Spring)
	assert.Equal(t, 60, c.FPS)
	assert.Equal(t, 750*time.Millisecond, c.StaleDragTimeout)
	require.NoError(t, c.Validate())
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"defaults", Config{ScreenHeight: 800}, true},
		{"missing height", Config{}, false},
		{"negative height", Config{ScreenHeight: -1}, false},
		{"collapsed above one", Config{ScreenHeight: 800, CollapsedFraction: 1.2}, false},
		{"fixed height taller than screen", Config{ScreenHeight: 800, CollapsedHeight: 900}, false},
		{"extended not above collapsed", Config{ScreenHeight: 800, SupportsExtended: true, CollapsedFraction: 0.9, ExtendedFraction: 0.9}, false},
		{"extended ignored without tier", Config{ScreenHeight: 800, CollapsedFraction: 0.9, ExtendedFraction: 0.5}, true},
		{"full height collapsed", Config{ScreenHeight: 800, CollapsedFraction: 1}, true},
		{"negative threshold", Config{ScreenHeight: 800, CloseDragThreshold: -0.1}, false},
		{"massless spring", Config{ScreenHeight: 800, Spring: Spring{Damping: 1, Stiffness: 1}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestFixedHeightFollowsScreenHeight(t *testing.T) {
	c := Config{ScreenHeight: 800}.WithFixedHeight(200).WithScreenHeight(800)
	assert.Equal(t, 0.25, c.CollapsedFraction)

	c = c.WithScreenHeight(400)
	assert.Equal(t, 0.5, c.CollapsedFraction)
}

func TestSpringConversion(t *testing.T) {
	assert.InDelta(t, 15.0, DefaultSpring.AngularFrequency(), 1e-9)
	assert.InDelta(t, 20.0/12.0, DefaultSpring.DampingRatio(), 1e-9)
}
