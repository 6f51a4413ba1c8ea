// Package runner serializes all backend command execution through a single
// gate. The backend holds session state that concurrent queries corrupt, so
// at most one invocation runs at a time system-wide. Requests marked as
// priority (typically from the focused panel) are admitted before queued
// normal requests, but never preempt a running invocation.
package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// ErrClosed is returned when submitting to a runner that has been shut down.
var ErrClosed = errors.New("runner: closed")

// Invoker is the command boundary: anything that can produce captured
// output or fail. The runner treats process invocations and plain
// in-process queries uniformly.
type Invoker interface {
	Name() string
	Invoke(ctx context.Context) (Output, error)
}

// QueryFunc adapts a plain read-only query function into an Invoker.
// The function's return value becomes stdout with exit code 0.
func QueryFunc(name string, fn func(ctx context.Context) (string, error)) Invoker {
	return queryFunc{name: name, fn: fn}
}

type queryFunc struct {
	name string
	fn   func(ctx context.Context) (string, error)
}

func (q queryFunc) Name() string { return q.name }

func (q queryFunc) Invoke(ctx context.Context) (Output, error) {
	out, err := q.fn(ctx)
	if err != nil {
		return Output{Stderr: err.Error(), ExitCode: 1}, err
	}
	return Output{Stdout: out}, nil
}

// Scope is the backend session owned by the execution context. Reset is
// called before and after every invocation to clear any state a previous
// command may have left behind.
type Scope interface {
	Reset()
}

const (
	reqPending int32 = iota
	reqRunning
	reqCancelled
)

type request struct {
	ctx      context.Context
	inv      Invoker
	res      *Result
	state    atomic.Int32
	done     chan struct{}
	callback func(*Result)
}

// finish records the terminal state and releases the waiter. It must be
// called exactly once per request.
func (req *request) finish(status Status) {
	req.res.End = time.Now()
	req.res.Status = status
	if req.callback != nil {
		req.callback(req.res)
	}
	close(req.done)
}

// Runner is the command execution engine. Construct with New and inject it
// into callers; its lifetime matches the application's, and a fresh one can
// be built per test.
type Runner struct {
	scope    Scope
	priority chan *request
	normal   chan *request

	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
	dispDone  chan struct{}
	workers   sync.WaitGroup
}

// Option configures a Runner.
type Option func(*Runner)

// WithScope sets the session scope reset around every invocation.
func WithScope(s Scope) Option {
	return func(r *Runner) { r.scope = s }
}

// DefaultQueueDepth is how many requests may wait per admission queue
// before submitters block (still cancellable while blocked).
const DefaultQueueDepth = 64

// New creates a runner and starts its dispatcher. Call Close when done.
func New(opts ...Option) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		priority: make(chan *request, DefaultQueueDepth),
		normal:   make(chan *request, DefaultQueueDepth),
		ctx:      ctx,
		cancel:   cancel,
		dispDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.dispatch()
	return r
}

// ExecOption configures a single Execute call.
type ExecOption func(*request)

// WithCallback registers a completion callback, invoked after the result
// reaches a terminal status.
func WithCallback(fn func(*Result)) ExecOption {
	return func(req *request) { req.callback = fn }
}

// Execute runs inv through the serialization gate and returns its result.
// The returned error is non-nil only for cancellation (the caller's ctx)
// or runner shutdown; command failures are reported through the Result so
// a failed query never crashes the caller.
func (r *Runner) Execute(ctx context.Context, inv Invoker, opts ...ExecOption) (*Result, error) {
	return r.execute(ctx, inv, false, opts...)
}

// ExecutePriority is Execute with priority admission.
func (r *Runner) ExecutePriority(ctx context.Context, inv Invoker, opts ...ExecOption) (*Result, error) {
	return r.execute(ctx, inv, true, opts...)
}

func (r *Runner) execute(ctx context.Context, inv Invoker, priority bool, opts ...ExecOption) (*Result, error) {
	req := &request{
		ctx: ctx,
		inv: inv,
		res: &Result{
			Command:  inv.Name(),
			ExitCode: -1,
			Status:   StatusRunning,
			Start:    time.Now(),
		},
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(req)
	}

	queue := r.normal
	if priority {
		queue = r.priority
	}

	select {
	case queue <- req:
	case <-ctx.Done():
		req.res.End = time.Now()
		req.res.Status = StatusCancelled
		return req.res, ctx.Err()
	case <-r.ctx.Done():
		req.res.End = time.Now()
		req.res.Status = StatusCancelled
		return req.res, ErrClosed
	}

	select {
	case <-req.done:
		if req.res.Status == StatusCancelled {
			if err := ctx.Err(); err != nil {
				return req.res, err
			}
			return req.res, ErrClosed
		}
		return req.res, nil
	case <-ctx.Done():
		// Try to withdraw from the queue before the dispatcher claims it.
		if req.state.CompareAndSwap(reqPending, reqCancelled) {
			req.finish(StatusCancelled)
			return req.res, ctx.Err()
		}
		// Already running: the worker has been signalled, wait for it to
		// observe the cancellation.
		<-req.done
		if req.res.Status == StatusCancelled {
			return req.res, ctx.Err()
		}
		return req.res, nil
	case <-r.ctx.Done():
		// The enqueue can win its race against shutdown and land the
		// request in a queue no dispatcher will drain. Withdraw it here
		// so a post-close submit never hangs.
		if req.state.CompareAndSwap(reqPending, reqCancelled) {
			req.finish(StatusCancelled)
			return req.res, ErrClosed
		}
		<-req.done
		if req.res.Status == StatusCancelled {
			return req.res, ErrClosed
		}
		return req.res, nil
	}
}

// dispatch is the gate. It serves exactly one request at a time, always
// draining the priority queue first.
func (r *Runner) dispatch() {
	defer close(r.dispDone)
	for {
		// Priority requests first, without blocking.
		select {
		case req := <-r.priority:
			r.serve(req)
			continue
		default:
		}

		select {
		case req := <-r.priority:
			r.serve(req)
		case req := <-r.normal:
			r.serve(req)
		case <-r.ctx.Done():
			r.drain()
			return
		}
	}
}

// drain cancels every request still queued at shutdown.
func (r *Runner) drain() {
	for {
		select {
		case req := <-r.priority:
			if req.state.CompareAndSwap(reqPending, reqCancelled) {
				req.finish(StatusCancelled)
			}
		case req := <-r.normal:
			if req.state.CompareAndSwap(reqPending, reqCancelled) {
				req.finish(StatusCancelled)
			}
		default:
			return
		}
	}
}

type outcome struct {
	out      Output
	err      error
	panicked bool
	panicMsg string
	stack    string
}

// serve owns the gate while it runs. The query itself executes on a worker
// goroutine so the gate-holder can still observe cancellation even when the
// underlying call is an uninterruptible blocking call; in that case the
// worker is abandoned and finishes late (best-effort cancellation).
func (r *Runner) serve(req *request) {
	if !req.state.CompareAndSwap(reqPending, reqRunning) {
		// Withdrawn by the submitter while queued; no side effects.
		return
	}
	if req.ctx.Err() != nil {
		req.finish(StatusCancelled)
		return
	}

	runCtx, cancel := context.WithCancel(req.ctx)
	defer cancel()
	stop := context.AfterFunc(r.ctx, cancel)
	defer stop()

	outCh := make(chan outcome, 1)
	r.workers.Add(1)
	go func() {
		defer r.workers.Done()
		oc := outcome{}
		defer func() {
			if p := recover(); p != nil {
				oc.panicked = true
				oc.panicMsg = fmt.Sprint(p)
				oc.stack = string(debug.Stack())
			}
			outCh <- oc
		}()
		if r.scope != nil {
			r.scope.Reset()
			defer r.scope.Reset()
		}
		oc.out, oc.err = req.inv.Invoke(runCtx)
	}()

	select {
	case oc := <-outCh:
		r.settle(req, runCtx, oc)
	case <-runCtx.Done():
		// Best-effort: the worker has been signalled via runCtx but may be
		// stuck in a synchronous call. Do not hold the gate for it.
		req.finish(StatusCancelled)
	}
}

// settle converts an invocation outcome into a terminal result.
func (r *Runner) settle(req *request, runCtx context.Context, oc outcome) {
	res := req.res
	res.Stdout = oc.out.Stdout
	res.Stderr = oc.out.Stderr
	res.ExitCode = oc.out.ExitCode

	switch {
	case oc.panicked:
		diag := fmt.Sprintf("%s\n\n%s", oc.panicMsg, oc.stack)
		if res.Stderr == "" {
			res.Stderr = diag
		} else {
			res.Stderr += "\n\n" + diag
		}
		if res.ExitCode == 0 {
			res.ExitCode = 1
		}
		req.finish(StatusFailed)
	case runCtx.Err() != nil && (oc.err == nil || errors.Is(oc.err, context.Canceled) || errors.Is(oc.err, context.DeadlineExceeded)):
		req.finish(StatusCancelled)
	case oc.err != nil:
		if res.Stderr == "" {
			res.Stderr = oc.err.Error()
		}
		if res.ExitCode == 0 {
			res.ExitCode = 1
		}
		req.finish(StatusFailed)
	case res.ExitCode != 0:
		req.finish(StatusFailed)
	default:
		req.finish(StatusDone)
	}
}

// Close cancels all queued and in-flight invocations and waits for the
// dispatcher and any workers to finish. It is safe to call more than once.
func (r *Runner) Close() {
	r.closeOnce.Do(func() {
		r.cancel()
		<-r.dispDone
		r.drain()
		r.workers.Wait()
	})
}
