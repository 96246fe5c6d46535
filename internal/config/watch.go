package config

import (
    "context"
    "fmt"
    "path/filepath"
    "sync"
    "time"

    "github.com/fsnotify/fsnotify"
    "go.uber.org/zap"
)

// Reload is delivered on Watcher.Events after the preset file changes.
// Exactly one of Config and Err is set.
type Reload struct {
    Config *Config
    Err    error
}

// Watcher reloads a preset file when it changes on disk. Editors that
// save via rename are handled by watching the parent directory.
type Watcher struct {
    path     string
    debounce time.Duration
    log      *zap.Logger

    fs     *fsnotify.Watcher
    events chan Reload

    stopOnce sync.Once
    stopCh   chan struct{}
    doneCh   chan struct{}
}

// Watch starts watching path. Events stops when ctx ends or Close is called.
func Watch(ctx context.Context, path string, log *zap.Logger) (*Watcher, error) {
    if log == nil {
        log = zap.NewNop()
    }
    fw, err := fsnotify.NewWatcher()
    if err != nil {
        return nil, fmt.Errorf("create watcher: %w", err)
    }
    abs, err := filepath.Abs(path)
    if err != nil {
        fw.Close()
        return nil, err
    }
    if err := fw.Add(filepath.Dir(abs)); err != nil {
        fw.Close()
        return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
    }
    w := &Watcher{
        path:     abs,
        debounce: 150 * time.Millisecond,
        log:      log,
        fs:       fw,
        events:   make(chan Reload, 1),
        stopCh:   make(chan struct{}),
        doneCh:   make(chan struct{}),
    }
    go w.run(ctx)
    return w, nil
}

// Events yields one Reload per settled burst of writes.
func (w *Watcher) Events() <-chan Reload { return w.events }

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
    w.stopOnce.Do(func() { close(w.stopCh) })
    <-w.doneCh
    return w.fs.Close()
}

func (w *Watcher) run(ctx context.Context) {
    defer close(w.doneCh)
    defer close(w.events)

    var timer *time.Timer
    var fire <-chan time.Time
    for {
        select {
        case <-ctx.Done():
            return
        case <-w.stopCh:
            return
        case ev, ok := <-w.fs.Events:
            if !ok {
                return
            }
            if filepath.Clean(ev.Name) != w.path {
                continue
            }
            if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
                continue
            }
            w.log.Debug("preset file changed", zap.String("path", w.path), zap.String("op", ev.Op.String()))
            if timer == nil {
                timer = time.NewTimer(w.debounce)
            } else {
                if !timer.Stop() {
                    select {
                    case <-timer.C:
                    default:
                    }
                }
                timer.Reset(w.debounce)
            }
            fire = timer.C
        case err, ok := <-w.fs.Errors:
            if !ok {
                return
            }
            w.log.Warn("preset watcher error", zap.Error(err))
        case <-fire:
            fire = nil
            c, err := Load(w.path)
            if err != nil {
                w.log.Warn("preset reload failed", zap.Error(err))
            }
            select {
            case w.events <- Reload{Config: c, Err: err}:
            case <-w.stopCh:
                return
            case <-ctx.Done():
                return
            }
        }
    }
}
