package trace

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetlab/internal/config"
	"sheetlab/internal/sheet"
)

func run(t *testing.T, path string) *Result {
	t.Helper()
	sc, err := LoadScript(path)
	require.NoError(t, err)
	res, err := NewRunner(config.Default(), nil).Run(sc)
	require.NoError(t, err, "timeline:\n%s", res.Text())
	return res
}

func TestScripts(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	for _, p := range paths {
		t.Run(filepath.Base(p), func(t *testing.T) {
			run(t, p)
		})
	}
}

func TestCloseByDragEmitsBothEvents(t *testing.T) {
	res := run(t, filepath.Join("testdata", "close_by_drag.yaml"))
	assert.Equal(t, 1, res.Opened)
	assert.Equal(t, 1, res.Closed)
	assert.Equal(t, sheet.Closed, res.Final.Phase)
	assert.False(t, res.Final.Animating)
}

func TestShortDragNeverCloses(t *testing.T) {
	res := run(t, filepath.Join("testdata", "short_drag.yaml"))
	assert.Equal(t, 1, res.Opened)
	assert.Equal(t, 0, res.Closed)
	for _, l := range res.Lines {
		assert.NotContains(t, l, "drag=+", "sub-activation drag reached the machine")
	}
}

func TestRapidToggleOpensOnce(t *testing.T) {
	res := run(t, filepath.Join("testdata", "rapid_toggle.yaml"))
	assert.Equal(t, 1, res.Opened)
	assert.Equal(t, 0, res.Closed)
}

func TestRunIsDeterministic(t *testing.T) {
	a := run(t, filepath.Join("testdata", "flick_extend.yaml"))
	b := run(t, filepath.Join("testdata", "flick_extend.yaml"))
	if diff := cmp.Diff(a.Lines, b.Lines); diff != "" {
		t.Fatalf("timelines differ (-first +second):\n%s", diff)
	}
}

func TestGoldenRoundTrip(t *testing.T) {
	res := run(t, filepath.Join("testdata", "snap_back.yaml"))
	golden := filepath.Join(t.TempDir(), "snap_back.golden")
	require.NoError(t, WriteGolden(golden, res))

	lines, err := ReadGolden(golden)
	require.NoError(t, err)
	if diff := cmp.Diff(res.Lines, lines); diff != "" {
		t.Fatalf("golden mismatch (-got +golden):\n%s", diff)
	}
}

func TestExpectationFailureKeepsTimeline(t *testing.T) {
	sc, err := ParseScript([]byte(`
steps:
  - action: open
  - action: settle
  - action: expect
    phase: extended
`))
	require.NoError(t, err)

	res, err := NewRunner(config.Default(), nil).Run(sc)
	require.ErrorIs(t, err, ErrExpectation)
	assert.Contains(t, err.Error(), "step 3")
	require.NotNil(t, res)
	last := res.Lines[len(res.Lines)-1]
	assert.True(t, strings.Contains(last, "want=extended got=collapsed"), last)
}

func TestWatchdogInScript(t *testing.T) {
	sc, err := ParseScript([]byte(`
steps:
  - action: open
  - action: settle
  - action: down
  - action: drag
    path: [40, 200]
  - action: wait
    interval: 2s
  - action: tick
  - action: settle
  - action: expect
    phase: collapsed
  - action: end
  - action: expect
    phase: collapsed
`))
	require.NoError(t, err)
	res, err := NewRunner(config.Default(), nil).Run(sc)
	require.NoError(t, err, res.Text())
	assert.Equal(t, 0, res.Closed)
}

func TestResizeWhileClosed(t *testing.T) {
	sc, err := ParseScript([]byte(`
sheet: comments
steps:
  - action: resize
    height: 1040
  - action: open
  - action: settle
  - action: expect
    phase: collapsed
`))
	require.NoError(t, err)
	res, err := NewRunner(config.Default(), nil).Run(sc)
	require.NoError(t, err)
	assert.Equal(t, 1040.0, res.Final.ScreenHeight)
	assert.InDelta(t, 0.5, res.Final.HeightFraction, 1e-6)
}

func TestUnknownSheet(t *testing.T) {
	sc, err := ParseScript([]byte("sheet: nope\nsteps:\n  - action: open\n"))
	require.NoError(t, err)
	_, err = NewRunner(config.Default(), nil).Run(sc)
	assert.ErrorIs(t, err, config.ErrUnknownSheet)
}

func TestParseScriptErrors(t *testing.T) {
	cases := map[string]string{
		"no steps":       "sheet: poll\n",
		"unknown action": "steps:\n  - action: jump\n",
		"empty drag":     "steps:\n  - action: drag\n",
		"bad phase":      "steps:\n  - action: expect\n    phase: halfway\n",
		"wait forever":   "steps:\n  - action: wait\n",
		"resize to zero": "steps:\n  - action: resize\n",
		"bad interval":   "steps:\n  - action: wait\n    interval: later\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScript([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestParseScriptDefaults(t *testing.T) {
	sc, err := ParseScript([]byte("steps:\n  - action: wait\n    interval: 250ms\n"))
	require.NoError(t, err)
	assert.Equal(t, 800.0, sc.ScreenHeight)
	assert.Equal(t, "250ms", sc.Steps[0].Interval.String())
}
