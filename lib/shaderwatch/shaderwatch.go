package shaderwatch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/jhenstridge/go-inotify"

	"github.com/learngl/learngl/lib/rendering/shaders"
)

// settle gives editors that write in several steps time to finish before
// the sources are read again.
const settle = 100 * time.Millisecond

// Watcher signals on Reloads whenever a shader source in the watched
// directory has been rewritten. Bursts of writes collapse into one signal
// as long as the previous one has not been consumed.
type Watcher struct {
	Reloads chan struct{}

	dir     string
	watcher *inotify.Watcher
	logger  *slog.Logger
}

func New(dir string) (*Watcher, error) {
	watcher, err := inotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create inotify watcher: %w", err)
	}

	_, err = watcher.Watch(dir)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("could not watch %s: %w", dir, err)
	}

	return &Watcher{
		Reloads: make(chan struct{}, 1),
		dir:     dir,
		watcher: watcher,
		logger:  slog.Default().With(slog.String("module", "shaderwatch")),
	}, nil
}

// Run forwards events until Close is called.
func (w *Watcher) Run() {
	w.logger.Info(fmt.Sprintf("Watching %s for shader changes", w.dir))
	for ev := range w.watcher.Event {
		if ev.Mask&(inotify.IN_CLOSE_WRITE|inotify.IN_MOVED_TO) == 0 {
			continue
		}
		if !IsShaderFile(ev.Name) {
			continue
		}
		w.logger.Debug(fmt.Sprintf("Reloading shaders due to inotify event on %s", filepath.Base(ev.Name)))
		time.Sleep(settle)

		select {
		case w.Reloads <- struct{}{}:
		default:
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// IsShaderFile reports whether path names one of the loaded shader sources.
func IsShaderFile(path string) bool {
	switch filepath.Base(path) {
	case shaders.VertexShaderName, shaders.FragmentShaderName:
		return true
	default:
		return false
	}
}
