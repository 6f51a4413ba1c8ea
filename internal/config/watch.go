package config

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/lazyverdi/lazyverdi/internal/watcher"
)

// Watch starts watching the config file for changes.
// It calls onChange with the new config when a change is detected.
// It returns a close function to stop watching.
func Watch(onChange func(*Config)) (func(), error) {
	path := DefaultPath()
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	path = absPath

	// Debounce so one editor save does not trigger multiple reloads.
	w, err := watcher.New(func(events []watcher.Event) {
		cfg, err := Load(path)
		if err != nil {
			log.Printf("Error reloading config: %v", err)
			return
		}
		if onChange != nil {
			onChange(cfg)
		}
	}, watcher.WithDebounceDuration(500*time.Millisecond))

	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}

	// Watch the file; fall back to the directory so we still see the
	// file being created on first save.
	if err := w.Add(path); err != nil {
		dir := filepath.Dir(path)
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watching config path %s: %w", path, err)
		}
	}

	return func() {
		w.Close()
	}, nil
}
