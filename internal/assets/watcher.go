// Package assets watches on-disk shader sources for edits.
package assets

import (
	"path/filepath"
	"slices"
	"sync"

	"modelviewer/internal/graphics"
	"modelviewer/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ShaderWatcher collects the shader files in a directory that changed
// since the last call to Changed.
type ShaderWatcher struct {
	dir     string
	watcher *fsnotify.Watcher
	done    chan struct{}
	exited  chan struct{}

	closeOnce sync.Once
	closeErr  error

	mu      sync.Mutex
	pending map[string]bool
}

// WatchShaders starts watching dir. Paths reported by Changed are
// slash-separated and relative to dir, matching the names used to load
// the shaders.
func WatchShaders(dir string) (*ShaderWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	sw := &ShaderWatcher{
		dir:     dir,
		watcher: w,
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
		pending: make(map[string]bool),
	}
	go sw.watch()
	return sw, nil
}

func (sw *ShaderWatcher) watch() {
	defer close(sw.exited)
	for {
		select {
		case <-sw.done:
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			sw.mark(event.Name)
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Warn("shader watch error", zap.String("dir", sw.dir), zap.Error(err))
		}
	}
}

func (sw *ShaderWatcher) mark(name string) {
	if _, err := graphics.StageForPath(name); err != nil {
		return
	}
	rel, err := filepath.Rel(sw.dir, name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	sw.mu.Lock()
	sw.pending[rel] = true
	sw.mu.Unlock()
	logger.Log.Debug("shader changed", zap.String("path", rel))
}

// Changed returns and clears the changed paths in sorted order. It never
// blocks on the filesystem.
func (sw *ShaderWatcher) Changed() []string {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if len(sw.pending) == 0 {
		return nil
	}
	out := make([]string, 0, len(sw.pending))
	for p := range sw.pending {
		out = append(out, p)
	}
	clear(sw.pending)
	slices.Sort(out)
	return out
}

// Close stops watching. It is safe to call more than once and from
// several goroutines.
func (sw *ShaderWatcher) Close() error {
	sw.closeOnce.Do(func() {
		close(sw.done)
		sw.closeErr = sw.watcher.Close()
		<-sw.exited
	})
	return sw.closeErr
}
