package runner

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// RefreshSource tells the auto-refresh loop what to refresh. The dashboard
// implements it; tests use fakes.
type RefreshSource interface {
	// Panels returns the IDs of every known panel.
	Panels() []string
	// Focused returns the ID of the currently focused panel, or "" if none.
	Focused() string
	// RefreshPanel re-runs the panel's active-tab command through the
	// engine and applies the result. It must honor ctx cancellation.
	RefreshPanel(ctx context.Context, id string) error
}

// AutoRefresh periodically sweeps all panels, re-running each panel's
// active-tab command sequentially through the shared gate so refreshes are
// never concurrent, not even across panels. The focused panel is refreshed
// first for responsiveness. A non-positive interval disables the loop.
type AutoRefresh struct {
	source   RefreshSource
	interval atomic.Int64 // nanoseconds

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewAutoRefresh creates a loop over source with the given interval.
func NewAutoRefresh(source RefreshSource, interval time.Duration) *AutoRefresh {
	a := &AutoRefresh{source: source}
	a.interval.Store(int64(interval))
	return a
}

// SetInterval changes the interval for subsequent passes. Setting it to
// zero or below makes a running loop exit after its current sleep.
func (a *AutoRefresh) SetInterval(d time.Duration) {
	a.interval.Store(int64(d))
}

// Interval returns the current interval.
func (a *AutoRefresh) Interval() time.Duration {
	return time.Duration(a.interval.Load())
}

// Run blocks, sweeping panels on every interval until ctx is cancelled or
// the interval becomes non-positive. It returns ctx.Err() on cancellation
// and nil when self-disabled.
func (a *AutoRefresh) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		interval := a.Interval()
		if interval <= 0 {
			return nil
		}
		timer.Reset(interval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		if err := a.pass(ctx); err != nil {
			return err
		}
	}
}

// pass performs one sequential sweep. A failing panel does not abort the
// rest of the pass; only cancellation does.
func (a *AutoRefresh) pass(ctx context.Context) error {
	for _, id := range a.order() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.source.RefreshPanel(ctx, id); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, ErrClosed) {
				return err
			}
			log.Printf("auto-refresh: panel %s: %v", id, err)
		}
	}
	return nil
}

// order returns all panel IDs with the focused panel moved to the front.
func (a *AutoRefresh) order() []string {
	panels := a.source.Panels()
	focused := a.source.Focused()
	if focused == "" {
		return panels
	}
	ordered := make([]string, 0, len(panels))
	for _, id := range panels {
		if id == focused {
			ordered = append(ordered, id)
		}
	}
	if len(ordered) == 0 {
		return panels
	}
	for _, id := range panels {
		if id != focused {
			ordered = append(ordered, id)
		}
	}
	return ordered
}

// Start runs the loop on its own goroutine. Calling Start on a loop that
// is already running is a no-op.
func (a *AutoRefresh) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	done := make(chan struct{})
	a.done = done
	go func() {
		defer close(done)
		_ = a.Run(ctx)
	}()
}

// Stop cancels a running loop and waits for it to exit. Stopping a loop
// that is not running is a no-op.
func (a *AutoRefresh) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the loop is currently active.
func (a *AutoRefresh) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancel != nil
}
