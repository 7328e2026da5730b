package sync

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"
)

// DeadlockDetection is how long a single step may run before the coroutine is
// considered deadlocked.
const DeadlockDetection = 40 * time.Second

type StepStatus int

const (
	// StepSuspended means the coroutine paused awaiting an Awaitable.
	StepSuspended StepStatus = iota

	// StepCompleted means the body returned a value. The coroutine must not
	// be stepped again.
	StepCompleted

	// StepFailed means the body returned an error or panicked. The coroutine
	// must not be stepped again.
	StepFailed
)

// StepOutcome is the result of driving a coroutine past one suspension point.
type StepOutcome[T any] struct {
	Status StepStatus

	// On is the awaitable the coroutine suspended on. Set for StepSuspended.
	On Awaitable

	Value T
	Err   error
}

// Body is the code of a suspendable computation. It runs on its own goroutine
// and may only pause by awaiting a Future through ctx. Everything between two
// suspension points executes without interruption.
type Body[T any] func(ctx context.Context) (T, error)

type key int

var coroutinesCtxKey key

type coState struct {
	blocking   chan bool   // coroutine is going to be blocked
	unblock    chan bool   // channel to unblock a blocked coroutine
	blocked    atomic.Bool // coroutine is currently blocked
	finished   atomic.Bool // coroutine finished executing
	shouldExit atomic.Bool // coroutine should exit at the next resume

	// awaited is the awaitable the coroutine is currently suspended on. Only
	// read by Step, only written by suspend; the channel handshake orders the
	// accesses.
	awaited Awaitable

	err error

	deadlockDetection time.Duration
}

// Coroutine is a suspendable computation driven one step at a time. Creating
// a coroutine starts its goroutine parked before the first body instruction;
// no body code runs until the first Step.
type Coroutine[T any] struct {
	state *coState

	result T

	// terminal outcome already returned, Step must not be called again
	terminal bool
}

func NewCoroutine[T any](ctx context.Context, body Body[T]) *Coroutine[T] {
	s := newState()
	ctx = withCoState(ctx, s)

	c := &Coroutine[T]{state: s}

	go func() {
		defer s.finish() // Ensure we always mark the coroutine as finished
		defer func() {
			if r := recover(); r != nil {
				if err, ok := r.(error); ok && errors.Is(err, ErrCoroutineAlreadyFinished) {
					// Forced exit, not a failure
					return
				}

				s.err = newPanicError(r)
			}
		}()

		// park before the first execution; creation runs nothing observable
		s.yield(false)

		c.result, s.err = body(ctx)
	}()

	return c
}

// Step resumes the coroutine and blocks until it suspends again or finishes.
// Calling Step after a terminal outcome is a defect and panics.
func (c *Coroutine[T]) Step() StepOutcome[T] {
	if c.terminal {
		panic(fmt.Errorf("%w: step after terminal outcome", ErrCoroutineAlreadyFinished))
	}

	c.state.execute()

	if c.state.Finished() {
		c.terminal = true

		if err := c.state.err; err != nil {
			return StepOutcome[T]{Status: StepFailed, Err: err}
		}

		return StepOutcome[T]{Status: StepCompleted, Value: c.result}
	}

	return StepOutcome[T]{Status: StepSuspended, On: c.state.awaited}
}

func (c *Coroutine[T]) Finished() bool {
	return c.state.Finished()
}

func (c *Coroutine[T]) Blocked() bool {
	return c.state.Blocked()
}

// Exit prevents a blocked coroutine from continuing and releases its
// goroutine. No-op if the coroutine already finished.
func (c *Coroutine[T]) Exit() {
	if c.state.Finished() {
		return
	}

	c.state.shouldExit.Store(true)
	c.state.execute()
	c.terminal = true
}

func newState() *coState {
	c := &coState{
		blocking:          make(chan bool, 1),
		unblock:           make(chan bool),
		deadlockDetection: DeadlockDetection,
	}

	// Start out as blocked
	c.blocked.Store(true)

	return c
}

func (s *coState) finish() {
	s.finished.Store(true)
	s.blocking <- true
}

func (s *coState) Finished() bool {
	return s.finished.Load()
}

func (s *coState) Blocked() bool {
	return s.blocked.Load()
}

// suspend records the awaitable the coroutine is pausing on and parks the
// goroutine until the next Step call.
func (s *coState) suspend(a Awaitable) {
	s.awaited = a
	s.yield(true)
	s.awaited = nil
}

func (s *coState) yield(markBlocking bool) {
	if markBlocking {
		if s.shouldExit.Load() {
			panic(ErrCoroutineAlreadyFinished)
		}

		s.blocked.Store(true)
		s.blocking <- true
	}

	// Wait for the next Step call
	<-s.unblock

	if s.shouldExit.Load() {
		// Goexit runs all deferred functions, which includes calling finish()
		// in the main execution function. That marks the coroutine as
		// finished and blocking.
		runtime.Goexit()
	}

	s.blocked.Store(false)
}

func (s *coState) execute() {
	if s.Finished() {
		return
	}

	t := time.NewTimer(s.deadlockDetection)
	defer t.Stop()

	s.unblock <- true

	runtime.Gosched()

	// Run until blocked (which is also true when finished)
	select {
	case <-s.blocking:
	case <-t.C:
		panic("coroutine: step timed out")
	}
}

func withCoState(ctx context.Context, s *coState) context.Context {
	return context.WithValue(ctx, coroutinesCtxKey, s)
}

func getCoState(ctx context.Context) *coState {
	s, ok := ctx.Value(coroutinesCtxKey).(*coState)
	if !ok {
		panic("sync: not running inside a coroutine")
	}

	return s
}
