package runner

import "time"

// Status is the lifecycle state of a command invocation.
type Status int

const (
	// StatusRunning means the invocation has been created but not finished.
	StatusRunning Status = iota
	// StatusDone means the command ran to completion (exit code may be non-zero
	// only for StatusFailed; Done implies exit 0).
	StatusDone
	// StatusCancelled means the invocation was cancelled while queued or running.
	StatusCancelled
	// StatusFailed means the command exited non-zero, returned an error, or
	// panicked.
	StatusFailed
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusDone:
		return "done"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is a final state.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCancelled || s == StatusFailed
}

// Output is what a command boundary produces: captured streams plus the
// exit code. Plain queries synthesize an Output with exit code 0.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Result describes one command invocation. It is created when the
// invocation is submitted, mutated only by the engine while it owns the
// invocation, and immutable once Status is terminal.
type Result struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	Status   Status
	Start    time.Time
	End      time.Time
}

// Duration returns how long the invocation ran, or how long it has been
// running if it has not finished yet.
func (r *Result) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

// Success reports whether the command completed cleanly.
func (r *Result) Success() bool {
	return r.Status == StatusDone && r.ExitCode == 0
}
