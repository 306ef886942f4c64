// file: internal/watcher/watcher.go
// version: 2.1.0
// guid: 2b3c4d5e-6f7a-8b9c-0d1e-2f3a4b5c6d7f

// Package watcher monitors a drop directory for EPUB files and hands
// settled files to a callback, typically the ingestion pipeline.
package watcher

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the default settle period. A file is handed to the
// callback only after its events stop for this long, so half-copied
// files are not ingested.
const DefaultDebounce = 5 * time.Second

// Callback is invoked with the path of each settled EPUB file.
type Callback func(path string)

// Watcher monitors a directory tree for EPUB files and invokes a
// callback per file after a debounce period.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	rootDir   string
	debounce  time.Duration
	callback  Callback
	stop      chan struct{}
	stopped   chan struct{}
	mu        sync.Mutex
	timers    map[string]*time.Timer
	running   bool
}

// New creates a Watcher. The callback is called once per EPUB file after
// its events settle for the debounce duration. Pass 0 for debounce to
// use DefaultDebounce.
func New(callback Callback, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		debounce: debounce,
		callback: callback,
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}
}

// Start begins watching rootDir recursively. It is safe to call only once.
func (w *Watcher) Start(rootDir string) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsWatcher = fsw
	w.rootDir = rootDir

	// Walk the tree and add all directories.
	if err := w.addRecursive(rootDir); err != nil {
		fsw.Close()
		return err
	}

	go w.eventLoop()
	return nil
}

// Stop gracefully shuts down the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stop)
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}
	<-w.stopped

	w.mu.Lock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible dirs
		}
		if d.IsDir() {
			if watchErr := w.fsWatcher.Add(path); watchErr != nil {
				log.Printf("[WARN] watcher: cannot watch %s: %v", path, watchErr)
			}
		}
		return nil
	})
}

func (w *Watcher) eventLoop() {
	defer close(w.stopped)

	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[ERROR] watcher: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// On Create, if it's a directory, watch it recursively.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
		}
	}

	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		// The file is gone; cancel any pending hand-off.
		w.cancelTimer(event.Name)
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !IsEPUBFile(event.Name) {
		return
	}

	w.scheduleHandoff(event.Name)
}

// scheduleHandoff arms (or re-arms) the per-file settle timer.
func (w *Watcher) scheduleHandoff(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Reset(w.debounce)
		return
	}

	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		log.Printf("[INFO] watcher: file settled: %s", path)
		if w.callback != nil {
			w.callback(path)
		}
	})
}

func (w *Watcher) cancelTimer(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.timers[path]; ok {
		timer.Stop()
		delete(w.timers, path)
	}
}

// IsEPUBFile reports whether name has the EPUB extension.
func IsEPUBFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".epub")
}
