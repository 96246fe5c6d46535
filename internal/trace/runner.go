package trace

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"sheetlab/internal/config"
	"sheetlab/internal/sheet"
)

// Epoch is the synthetic clock's zero.
var Epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

const maxSettleFrames = 1200

// Result is the outcome of a replay.
type Result struct {
	Lines []string
	Final sheet.State
	// Opened and Closed count lifecycle events.
	Opened int
	Closed int
}

// Text joins the timeline with a trailing newline, the golden file format.
func (r *Result) Text() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return strings.Join(r.Lines, "\n") + "\n"
}

// Runner replays scripts against presets from a config.
type Runner struct {
	cfg *config.Config
	log *zap.Logger
}

func NewRunner(cfg *config.Config, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, log: log}
}

type replay struct {
	s     *sheet.Sheet
	res   *Result
	start time.Time
	now   time.Time
	frame time.Duration
	ty    float64
}

// Run replays sc. The partial timeline is returned alongside any error so
// a failed expectation can still be inspected.
func (r *Runner) Run(sc *Script) (*Result, error) {
	preset := config.Sheet{Name: "default"}
	if sc.Sheet != "" {
		p, err := r.cfg.Find(sc.Sheet)
		if err != nil {
			return nil, err
		}
		preset = p
	}
	cfg, err := r.cfg.SheetConfig(preset, sc.ScreenHeight)
	if err != nil {
		return nil, err
	}

	rp := &replay{res: &Result{}, start: Epoch, now: Epoch, frame: time.Second / time.Duration(cfg.FPS)}
	s, err := sheet.New(cfg,
		sheet.WithID(preset.Name),
		sheet.WithLogger(r.log),
		sheet.WithOnOpened(func() {
			rp.res.Opened++
			rp.emit("event", "opened")
		}),
		sheet.WithOnClosed(func() {
			rp.res.Closed++
			rp.emit("event", "closed")
		}))
	if err != nil {
		return nil, err
	}
	rp.s = s
	rp.emit("start", fmt.Sprintf("sheet=%s screen=%.0f %s", preset.Name, sc.ScreenHeight, s.State()))

	for i, st := range sc.Steps {
		if err := rp.step(st); err != nil {
			rp.res.Final = s.State()
			return rp.res, fmt.Errorf("step %d (%s): %w", i+1, st.Action, err)
		}
	}
	rp.res.Final = s.State()
	return rp.res, nil
}

func (rp *replay) step(st Step) error {
	switch st.Action {
	case ActOpen:
		rp.s.Open()
	case ActClose:
		rp.s.Close()
	case ActDown:
		rp.ty = 0
		if !rp.s.PointerDown(rp.now) {
			rp.emit(st.Action, "ignored")
			return nil
		}
	case ActDrag:
		for _, ty := range st.Path {
			rp.advance(st.Interval)
			rp.ty = ty
			rp.s.PointerMove(ty, rp.now)
		}
	case ActRelease, ActEnd:
		rp.advance(st.Interval)
		if st.Velocity != nil {
			rp.s.Release(rp.ty, *st.Velocity, rp.now)
		} else {
			rp.s.PointerUp(rp.ty, rp.now)
		}
	case ActTick:
		n := st.Frames
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			rp.advance(0)
			rp.s.Tick(rp.now)
		}
	case ActSettle:
		frames := 0
		for rp.s.Tick(rp.advance(0)) {
			frames++
			if frames >= maxSettleFrames {
				return fmt.Errorf("not settled after %d frames", frames)
			}
		}
		rp.emit(st.Action, fmt.Sprintf("frames=%d %s", frames+1, rp.s.State()))
		return nil
	case ActWait:
		rp.advance(st.Interval)
	case ActResize:
		if err := rp.s.Resize(st.Height); err != nil {
			return err
		}
	case ActExpect:
		want, _ := sheet.ParsePhase(st.Phase)
		if got := rp.s.State().Phase; got != want {
			rp.emit(st.Action, fmt.Sprintf("want=%s got=%s", want, got))
			return fmt.Errorf("%w: phase is %s, want %s", ErrExpectation, got, want)
		}
	}
	rp.emit(st.Action, rp.s.State().String())
	return nil
}

// advance moves the clock by d, or by one frame when d is zero.
func (rp *replay) advance(d time.Duration) time.Time {
	if d <= 0 {
		d = rp.frame
	}
	rp.now = rp.now.Add(d)
	return rp.now
}

func (rp *replay) emit(what, detail string) {
	ms := rp.now.Sub(rp.start).Milliseconds()
	rp.res.Lines = append(rp.res.Lines, fmt.Sprintf("%6dms  %-8s %s", ms, what, detail))
}

// ReadGolden loads a golden timeline as lines.
func ReadGolden(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read golden: %w", err)
	}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

// WriteGolden stores r as the golden timeline at path.
func WriteGolden(path string, r *Result) error {
	return os.WriteFile(path, []byte(r.Text()), 0644)
}
