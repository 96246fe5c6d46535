// Package trace replays scripted gestures against a sheet on a synthetic
// clock and records a deterministic timeline.
package trace

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"sheetlab/internal/sheet"
)

// ErrExpectation is wrapped by every failed expect step.
var ErrExpectation = errors.New("expectation failed")

// Script is a gesture scenario:
//
//	sheet: comments
//	screen_height: 800
//	steps:
//	  - action: open
//	  - action: settle
//	  - action: down
//	  - action: drag
//	    path: [20, 120, 260]
//	  - action: end
//	  - action: settle
//	  - action: expect
//	    phase: closed
type Script struct {
	Name         string  `yaml:"name,omitempty"`
	Sheet        string  `yaml:"sheet,omitempty"`
	ScreenHeight float64 `yaml:"screen_height,omitempty"`
	Steps        []Step  `yaml:"steps"`
}

// Step is one scripted input. Which fields apply depends on Action.
type Step struct {
	Action string `yaml:"action"`
	// Path lists successive translations for drag.
	Path []float64 `yaml:"path,omitempty,flow"`
	// Interval is the clock advance per drag sample, before a release, or for wait.
	Interval time.Duration `yaml:"interval,omitempty"`
	// Velocity makes release use a reported velocity instead of the estimate.
	Velocity *float64 `yaml:"velocity,omitempty"`
	Frames   int      `yaml:"frames,omitempty"`
	Phase    string   `yaml:"phase,omitempty"`
	Height   float64  `yaml:"height,omitempty"`
}

// Actions understood by the runner.
const (
	ActOpen    = "open"
	ActClose   = "close"
	ActDown    = "down"
	ActDrag    = "drag"
	ActRelease = "release"
	ActEnd     = "end"
	ActTick    = "tick"
	ActSettle  = "settle"
	ActWait    = "wait"
	ActResize  = "resize"
	ActExpect  = "expect"
)

// LoadScript reads and validates a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScript decodes and validates a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script YAML: %w", err)
	}
	if s.ScreenHeight == 0 {
		s.ScreenHeight = 800
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) validate() error {
	if s.ScreenHeight < 0 {
		return fmt.Errorf("screen_height %v must be positive", s.ScreenHeight)
	}
	if len(s.Steps) == 0 {
		return errors.New("script has no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case ActOpen, ActClose, ActDown, ActRelease, ActEnd, ActTick, ActSettle:
		case ActDrag:
			if len(st.Path) == 0 {
				return fmt.Errorf("step %d: drag needs a path", i+1)
			}
		case ActWait:
			if st.Interval <= 0 {
				return fmt.Errorf("step %d: wait needs an interval", i+1)
			}
		case ActResize:
			if st.Height <= 0 {
				return fmt.Errorf("step %d: resize needs a height", i+1)
			}
		case ActExpect:
			if _, err := sheet.ParsePhase(st.Phase); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		default:
			return fmt.Errorf("step %d: unknown action %q", i+1, st.Action)
		}
	}
	return nil
}
