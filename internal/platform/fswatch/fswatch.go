package fswatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

// Watcher reports changes to documents inside the per-user folders directly below Root.
// Bursts of events for one folder collapse into a single callback after Debounce.
type Watcher struct {
	log        *logger.Logger
	fw         *fsnotify.Watcher
	root       string
	extensions []string
	debounce   time.Duration

	mu       sync.Mutex
	timers   map[string]*time.Timer
	stopped  bool
	inflight sync.WaitGroup
}

func New(log *logger.Logger, root string, extensions []string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if len(extensions) == 0 {
		extensions = []string{".pdf"}
	}
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, 0o755); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("create watch root: %w", err)
	}
	w := &Watcher{
		log:        log.With("service", "FolderWatcher"),
		fw:         fw,
		root:       root,
		extensions: extensions,
		debounce:   debounce,
		timers:     map[string]*time.Timer{},
	}
	if err := fw.Add(root); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("read %s: %w", root, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			w.addFolder(filepath.Join(root, e.Name()))
		}
	}
	return w, nil
}

// Run dispatches events until ctx is done or the watcher is closed.
// onChange receives the folder name relative to Root. Run returns only after every
// callback it started has finished.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, folder string)) {
	defer w.inflight.Wait()
	defer w.stopTimers()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handle(ctx, ev, onChange)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("folder watcher error", "error", err)
		}
	}
}

func (w *Watcher) Close() error {
	return w.fw.Close()
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event, onChange func(context.Context, string)) {
	dir := filepath.Dir(ev.Name)

	// new user folder
	if dir == w.root {
		if ev.Has(fsnotify.Create) {
			if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
				w.addFolder(ev.Name)
			}
		}
		return
	}
	if filepath.Dir(dir) != w.root || !w.watched(ev.Name) {
		return
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	w.schedule(ctx, filepath.Base(dir), onChange)
}

func (w *Watcher) schedule(ctx context.Context, folder string, onChange func(context.Context, string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[folder]; ok {
		t.Reset(w.debounce)
		return
	}
	if w.stopped {
		return
	}
	w.timers[folder] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, folder)
		if w.stopped {
			w.mu.Unlock()
			return
		}
		w.inflight.Add(1)
		w.mu.Unlock()
		defer w.inflight.Done()
		if ctx.Err() != nil {
			return
		}
		onChange(ctx, folder)
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	for k, t := range w.timers {
		t.Stop()
		delete(w.timers, k)
	}
}

func (w *Watcher) addFolder(path string) {
	if err := w.fw.Add(path); err != nil {
		w.log.Warn("cannot watch folder", "folder", filepath.Base(path), "error", err)
	}
}

func (w *Watcher) watched(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
