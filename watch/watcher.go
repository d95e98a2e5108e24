// Package watch reports changes to a set of files.
package watch

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("comb.watch")

// FileWatcher calls onChange with the files that changed once events have
// been quiet for the debounce interval. Parent directories are watched so
// that files replaced by rename are still seen.
type FileWatcher struct {
	files    map[string]bool
	debounce time.Duration
	onChange func(paths []string)

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]bool
	stopped bool
}

func NewFileWatcher(debounce time.Duration, onChange func(paths []string), paths ...string) (*FileWatcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("watch: no files given")
	}
	files := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		files[abs] = true
	}
	return &FileWatcher{
		files:    files,
		debounce: debounce,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		pending:  make(map[string]bool),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *FileWatcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	dirs := make(map[string]bool)
	for path := range w.files {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("failed to watch directory %q: %w", dir, err)
		}
		log.Debugf("watching %s", dir)
	}

	w.watcher = watcher
	go w.run()
	return nil
}

// Stop ends watching and cancels any pending notification.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	if w.stopped || w.watcher == nil {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

func (w *FileWatcher) run() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod || !w.files[filepath.Clean(event.Name)] {
				continue
			}
			log.Debugf("%s: %s", event.Name, event.Op)
			w.trigger(filepath.Clean(event.Name))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("watch: %s", err)
		}
	}
}

func (w *FileWatcher) trigger(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *FileWatcher) flush() {
	w.mu.Lock()
	if w.stopped || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	sort.Strings(paths)
	w.onChange(paths)
}
