package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestNewWatcher(t *testing.T) {
	w, err := New(func(events []Event) {})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	if w.fsWatcher == nil {
		t.Error("fsWatcher should not be nil")
	}
	if w.debounce != DefaultDebounceDuration {
		t.Errorf("debounce = %v, want %v", w.debounce, DefaultDebounceDuration)
	}
}

func TestWatcherAddRemove(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := New(func(events []Event) {})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	if err := w.Add(tmpDir); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if paths := w.WatchedPaths(); len(paths) != 1 {
		t.Errorf("WatchedPaths() = %v, want 1 path", paths)
	}

	// Adding again is a no-op.
	if err := w.Add(tmpDir); err != nil {
		t.Fatalf("repeated Add() failed: %v", err)
	}
	if paths := w.WatchedPaths(); len(paths) != 1 {
		t.Errorf("WatchedPaths() after repeated Add = %v", paths)
	}

	if err := w.Remove(tmpDir); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if paths := w.WatchedPaths(); len(paths) != 0 {
		t.Errorf("WatchedPaths() after Remove = %v", paths)
	}
}

func TestWatcherAddMissingPath(t *testing.T) {
	w, err := New(func(events []Event) {})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Add() of missing path should fail")
	}
}

func TestWatcherDeliversDebouncedBatch(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(file, []byte("a = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var (
		mu      sync.Mutex
		batches [][]Event
	)
	w, err := New(func(events []Event) {
		mu.Lock()
		batches = append(batches, events)
		mu.Unlock()
	}, WithDebounceDuration(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	if err := w.Add(file); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	// Rapid writes within the window should coalesce into one callback.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(file, []byte("a = 2\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := len(batches)
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("no events delivered")
		case <-time.After(10 * time.Millisecond):
		}
	}

	// Let any stray timer fire before counting batches.
	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(batches) != 1 {
		t.Errorf("batches = %d, want 1 (debounced)", len(batches))
	}
	if len(batches[0]) == 0 {
		t.Error("empty event batch")
	}
	for _, e := range batches[0] {
		if filepath.Clean(e.Path) != filepath.Clean(file) {
			t.Errorf("event path = %q, want %q", e.Path, file)
		}
	}
}

func TestWatcherClose(t *testing.T) {
	w, err := New(func(events []Event) {})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	// Close is idempotent.
	if err := w.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
	if err := w.Add(t.TempDir()); err != ErrClosed {
		t.Errorf("Add() after Close = %v, want ErrClosed", err)
	}
	if err := w.Remove("x"); err != ErrClosed {
		t.Errorf("Remove() after Close = %v, want ErrClosed", err)
	}
}
