// Copyright
// SPDX-License-Identifier: MIT
// sheetlab: interaction engine for draggable modal sheets, with a terminal demo and a headless gesture replayer
package main

import (
    "errors"
    "fmt"
    "io"
    "os"
    "os/signal"
    "path/filepath"
    "strings"

    "github.com/spf13/cobra"
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"

    "sheetlab/internal/config"
    "sheetlab/internal/trace"
    "sheetlab/internal/tui"
    "sheetlab/internal/tui/state"
    "sheetlab/internal/tui/util"
    "sheetlab/internal/tui/views/presets"
    "sheetlab/internal/tui/widgets/diff"
)

const Version = "0.3.0"

/* ---------- CLI ---------- */

// globals holds the persistent flags shared by every command.
type globals struct {
    configPath string
    verbosity  int
    logFile    string
    noColor    bool
}

func main() {
    if err := newRootCmd(os.Stdout).Execute(); err != nil {
        fmt.Fprintln(os.Stderr, "error:", err)
        os.Exit(1)
    }
}

func newRootCmd(out io.Writer) *cobra.Command {
    g := &globals{}
    root := &cobra.Command{
        Use:   "sheetlab",
        Short: "sheetlab " + Version + " - draggable modal sheet engine",
        Long: `sheetlab ` + Version + `
Interaction engine for bottom-anchored modal sheets: drag tracking, threshold and
velocity resolution, and spring animation between Closed, Collapsed and Extended.

NOTES
  • Presets live in ` + config.DefaultFile + ` (see 'sheetlab init'); built-in presets are used when it is missing.
  • SHEETLAB_FPS and SHEETLAB_PX_PER_ROW override the file.
  • Default output is minimal; use -v or -vv for engine logs. Use --log-file to send logs to a file.`,
        SilenceUsage:  true,
        SilenceErrors: true,
    }
    root.SetOut(out)
    pf := root.PersistentFlags()
    pf.StringVar(&g.configPath, "config", config.DefaultFile, "Preset file")
    pf.CountVarP(&g.verbosity, "verbose", "v", "Verbose logs: -v INFO, -vv DEBUG")
    pf.StringVar(&g.logFile, "log-file", "", "Append logs to file (created if missing)")
    pf.BoolVar(&g.noColor, "no-color", false, "Disable colors (also honours NO_COLOR)")

    root.AddCommand(
        newDemoCmd(g),
        newSimulateCmd(g),
        newPresetsCmd(g),
        newInitCmd(g),
        &cobra.Command{
            Use:   "version",
            Short: "Print version",
            Run: func(cmd *cobra.Command, _ []string) {
                fmt.Fprintln(cmd.OutOrStdout(), "sheetlab", Version)
            },
        },
    )
    return root
}

/* ---------- logging ---------- */

// newLogger builds the process logger. Verbosity 0 logs warnings, 1 info and
// 2 debug. When the terminal belongs to the demo and no log file was given,
// logs are discarded.
func newLogger(g *globals, ownsTerminal bool) (*zap.Logger, error) {
    if g.logFile == "" && ownsTerminal {
        return zap.NewNop(), nil
    }
    zc := zap.NewProductionConfig()
    zc.Encoding = "console"
    zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
    zc.Level = zap.NewAtomicLevelAt(verbosityLevel(g.verbosity))
    zc.OutputPaths = []string{"stderr"}
    if g.logFile != "" {
        if dir := filepath.Dir(g.logFile); dir != "." && dir != "" {
            _ = os.MkdirAll(dir, 0o755)
        }
        zc.OutputPaths = []string{g.logFile}
    }
    log, err := zc.Build()
    if err != nil {
        return nil, fmt.Errorf("failed to initialize logger: %w", err)
    }
    return log.With(zap.String("version", Version)), nil
}

func verbosityLevel(v int) zapcore.Level {
    switch {
    case v >= 2:
        return zapcore.DebugLevel
    case v == 1:
        return zapcore.InfoLevel
    default:
        return zapcore.WarnLevel
    }
}

/* ---------- commands ---------- */

func newDemoCmd(g *globals) *cobra.Command {
    var watch bool
    var pxPerRow int
    cmd := &cobra.Command{
        Use:   "demo",
        Short: "Interactive terminal demo: one sheet per preset, driven by keys and the mouse",
        Long: `USAGE
  sheetlab demo [--config PATH] [--watch] [--px-per-row N] [-v | -vv] [--log-file PATH]
DESCRIPTION
  Opens a simulated phone screen. Keys 1-9 open a preset, o opens, c/esc closes,
  J/K flick down/up, y copies the live state, ? shows help and q quits.
  Drag the sheet with the mouse. Terminal rows map to --px-per-row virtual pixels
  so thresholds keep their pixel meaning.
OPTIONS
  --watch                Reload the preset file when it changes. Open sheets pick
                         up the change the next time they open.
  --px-per-row N         Virtual pixels per terminal row (default from config: 20)`,
        Args: cobra.NoArgs,
        RunE: func(cmd *cobra.Command, _ []string) error {
            log, err := newLogger(g, true)
            if err != nil {
                return err
            }
            defer func() { _ = log.Sync() }()

            c, err := config.LoadOrDefault(g.configPath)
            if err != nil {
                return err
            }
            if pxPerRow > 0 {
                c.PxPerRow = pxPerRow
            }
            source := "built-in presets"
            if _, err := os.Stat(g.configPath); err == nil {
                source = g.configPath
            }

            opts := tui.Options{Config: c, Source: source, Log: log, NoColor: g.noColor}
            if watch {
                ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
                defer stop()
                w, err := config.Watch(ctx, g.configPath, log)
                if err != nil {
                    return err
                }
                defer w.Close()
                opts.Reloads = w.Events()
            }
            log.Info("demo starting", zap.String("source", source), zap.Int("presets", len(c.Sheets)))
            return tui.Run(opts)
        },
    }
    cmd.Flags().BoolVar(&watch, "watch", false, "Reload the preset file on change")
    cmd.Flags().IntVar(&pxPerRow, "px-per-row", 0, "Virtual pixels per terminal row")
    return cmd
}

func newSimulateCmd(g *globals) *cobra.Command {
    var golden string
    var update bool
    cmd := &cobra.Command{
        Use:   "simulate SCRIPT",
        Short: "Replay a gesture script headlessly and print the timeline",
        Long: `USAGE
  sheetlab simulate SCRIPT [--golden FILE [--update]]
DESCRIPTION
  Replays a YAML gesture script on a synthetic clock and prints one line per step.
  With --golden the timeline is compared against FILE; a mismatch prints a diff
  and exits non-zero. --update rewrites FILE instead.
SCRIPT
  sheet: comments
  screen_height: 800
  steps:
    - action: open
    - action: settle
    - action: down
    - action: drag
      path: [20, 120, 260]
    - action: end
    - action: settle
    - action: expect
      phase: closed`,
        Args: cobra.ExactArgs(1),
        RunE: func(cmd *cobra.Command, args []string) error {
            log, err := newLogger(g, false)
            if err != nil {
                return err
            }
            defer func() { _ = log.Sync() }()

            c, err := config.LoadOrDefault(g.configPath)
            if err != nil {
                return err
            }
            sc, err := trace.LoadScript(args[0])
            if err != nil {
                return err
            }
            res, runErr := trace.NewRunner(c, log).Run(sc)
            if res != nil {
                fmt.Fprint(cmd.OutOrStdout(), res.Text())
            }
            if runErr != nil {
                return runErr
            }
            if golden == "" {
                return nil
            }
            if update {
                if err := trace.WriteGolden(golden, res); err != nil {
                    return err
                }
                fmt.Fprintln(cmd.OutOrStdout(), "Wrote", golden)
                return nil
            }
            want, err := trace.ReadGolden(golden)
            if err != nil {
                return err
            }
            if got := res.Lines; strings.Join(got, "\n") != strings.Join(want, "\n") {
                ui := state.UIState{NoColor: util.NoColor(g.noColor)}
                v := diff.NewDiffView("GOLDEN", "RUN")
                fmt.Fprint(cmd.OutOrStdout(), "\n"+v.View(ui, strings.Join(want, "\n"), strings.Join(got, "\n")))
                return fmt.Errorf("timeline differs from %s", golden)
            }
            fmt.Fprintln(cmd.OutOrStdout(), "Matches", golden)
            return nil
        },
    }
    cmd.Flags().StringVar(&golden, "golden", "", "Compare the timeline against this file")
    cmd.Flags().BoolVar(&update, "update", false, "Rewrite the golden file instead of comparing")
    return cmd
}

func newPresetsCmd(g *globals) *cobra.Command {
    return &cobra.Command{
        Use:   "presets",
        Short: "List the sheet presets",
        Args:  cobra.NoArgs,
        RunE: func(cmd *cobra.Command, _ []string) error {
            c, err := config.LoadOrDefault(g.configPath)
            if err != nil {
                return err
            }
            out := cmd.OutOrStdout()
            for i, line := range presets.Lines(c, -1, g.noColor) {
                fmt.Fprintln(out, line)
                for _, d := range strings.Split(strings.TrimRight(presets.Details(c, c.Sheets[i], g.noColor), "\n"), "\n") {
                    fmt.Fprintln(out, "     "+d)
                }
            }
            return nil
        },
    }
}

func newInitCmd(g *globals) *cobra.Command {
    var force bool
    cmd := &cobra.Command{
        Use:   "init",
        Short: "Write the built-in presets to " + config.DefaultFile,
        Args:  cobra.NoArgs,
        RunE: func(cmd *cobra.Command, _ []string) error {
            _, err := os.Stat(g.configPath)
            if err == nil && !force {
                fmt.Fprintln(cmd.OutOrStdout(), g.configPath, "already exists; not overwriting")
                return nil
            }
            if err != nil && !errors.Is(err, os.ErrNotExist) {
                return err
            }
            if err := config.Save(g.configPath, config.Default()); err != nil {
                return fmt.Errorf("write %s: %w", g.configPath, err)
            }
            fmt.Fprintln(cmd.OutOrStdout(), "Wrote", g.configPath)
            return nil
        },
    }
    cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
    return cmd
}
