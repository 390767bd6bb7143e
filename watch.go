package nv

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultWatchDebounce coalesces bursts of events (e.g. a copy of many pages)
const defaultWatchDebounce = 300 * time.Millisecond

// FolderWatcher reports changes to the file set of one folder. Bursts of
// events are coalesced into a single callback
type FolderWatcher struct {
	folder   string
	debounce time.Duration
	onChange func(folder string)

	fsWatcher *fsnotify.Watcher
	stopChan  chan struct{}
	done      chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// WatchFolder starts watching folder. onChange runs on the watcher's
// goroutine after debounce has passed without further events (0 selects the
// default)
func WatchFolder(folder string, debounce time.Duration, onChange func(folder string)) (*FolderWatcher, error) {
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(folder); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to add directory %s to watcher: %w", folder, err)
	}

	w := &FolderWatcher{
		folder:    folder,
		debounce:  debounce,
		onChange:  onChange,
		fsWatcher: fsWatcher,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	go w.loop()

	logger.WithField("folder", folder).Debug("Watching folder")
	return w, nil
}

// Folder returns the watched folder
func (w *FolderWatcher) Folder() string {
	return w.folder
}

func (w *FolderWatcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			// Writes do not change which files exist
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
				debugLog("Folder event %s on %s", event.Op, event.Name)
				w.trigger()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logger.WithField("folder", w.folder).WithError(err).Error("fsnotify watcher error")

		case <-w.stopChan:
			return
		}
	}
}

func (w *FolderWatcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		stopped := w.stopped
		w.mu.Unlock()
		if !stopped && w.onChange != nil {
			w.onChange(w.folder)
		}
	})
}

// Close stops watching. Pending callbacks are dropped. It is safe to call
// more than once
func (w *FolderWatcher) Close() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		logger.WithField("folder", w.folder).WithError(err).Error("Error closing fsnotify watcher")
	}
	<-w.done
}
