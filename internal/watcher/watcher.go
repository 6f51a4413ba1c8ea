// Package watcher provides debounced file watching using fsnotify.
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when operations are called on a closed Watcher.
var ErrClosed = errors.New("watcher: watcher is closed")

// DefaultDebounceDuration is the default window for coalescing events.
const DefaultDebounceDuration = 250 * time.Millisecond

// EventType represents the type of file system event.
type EventType uint32

const (
	// Create is triggered when a file or directory is created.
	Create EventType = 1 << iota
	// Write is triggered when a file is modified.
	Write
	// Remove is triggered when a file or directory is removed.
	Remove
	// Rename is triggered when a file or directory is renamed.
	Rename
	// Chmod is triggered when file permissions change.
	Chmod
)

// Event represents a file system event.
type Event struct {
	// Path is the absolute path to the file or directory.
	Path string
	// Type is the type of event.
	Type EventType
}

func eventTypeFromFsnotify(op fsnotify.Op) EventType {
	var t EventType
	if op.Has(fsnotify.Create) {
		t |= Create
	}
	if op.Has(fsnotify.Write) {
		t |= Write
	}
	if op.Has(fsnotify.Remove) {
		t |= Remove
	}
	if op.Has(fsnotify.Rename) {
		t |= Rename
	}
	if op.Has(fsnotify.Chmod) {
		t |= Chmod
	}
	return t
}

// Handler is called when file system events occur. Rapid events within
// the debounce window are coalesced into a single call.
type Handler func(events []Event)

// ErrorHandler is called when a watch error occurs.
type ErrorHandler func(err error)

// Watcher watches files and directories for changes and delivers
// debounced batches to its handler.
type Watcher struct {
	fsWatcher    *fsnotify.Watcher
	handler      Handler
	errorHandler ErrorHandler
	debounce     time.Duration

	mu            sync.Mutex
	timer         *time.Timer
	watchedPaths  map[string]bool
	pendingEvents []Event
	closed        bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the debounce window for coalescing events.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler sets the error handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(w *Watcher) {
		w.errorHandler = handler
	}
}

// New creates a new Watcher delivering events to handler.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		handler:      handler,
		debounce:     DefaultDebounceDuration,
		watchedPaths: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.fsWatcher = fsWatcher

	go w.run()
	return w, nil
}

// Add adds a file or directory to the watcher.
func (w *Watcher) Add(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if w.watchedPaths[absPath] {
		return nil
	}
	if _, err := os.Stat(absPath); err != nil {
		return err
	}
	if err := w.fsWatcher.Add(absPath); err != nil {
		return err
	}
	w.watchedPaths[absPath] = true
	return nil
}

// Remove removes a path from the watcher.
func (w *Watcher) Remove(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !w.watchedPaths[absPath] {
		return nil
	}
	if err := w.fsWatcher.Remove(absPath); err != nil {
		return err
	}
	delete(w.watchedPaths, absPath)
	return nil
}

// WatchedPaths returns all currently watched paths.
func (w *Watcher) WatchedPaths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.watchedPaths))
	for p := range w.watchedPaths {
		paths = append(paths, p)
	}
	return paths
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	return w.fsWatcher.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.errorHandler != nil {
				w.errorHandler(err)
			}
		}
	}
}

func (w *Watcher) handleEvent(fsEvent fsnotify.Event) {
	event := Event{
		Path: fsEvent.Name,
		Type: eventTypeFromFsnotify(fsEvent.Op),
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	// A removed or renamed watch target stops producing events; forget it
	// so a later Add can re-register it.
	if event.Type&(Remove|Rename) != 0 {
		delete(w.watchedPaths, fsEvent.Name)
	}

	w.pendingEvents = append(w.pendingEvents, event)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

// flush delivers the pending batch after the debounce window elapses.
func (w *Watcher) flush() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	toDeliver := w.pendingEvents
	w.pendingEvents = nil
	w.mu.Unlock()

	if len(toDeliver) > 0 && w.handler != nil {
		w.handler(toDeliver)
	}
}
