package sync

import "context"

// Awaitable is something a coroutine can suspend on. The set is closed: every
// awaitable is a *Future. Timer completions and lock grants are
// Future[struct{}].
type Awaitable interface {
	// Settled reports whether the awaitable already has an outcome.
	Settled() bool

	// addWaiter registers a continuation to run once the awaitable settles.
	// Continuations go through the scheduler's ready queue, never inline, and
	// resume in FIFO registration order. Registering on a settled awaitable
	// enqueues immediately.
	addWaiter(c continuation)
}

type futureState int

const (
	futurePending futureState = iota
	futureResolved
	futureFailed
)

// Future is a one-shot container for a value or an error. A future is bound
// to the scheduler that resumes its waiters.
type Future[T any] struct {
	scheduler *Scheduler

	state futureState
	value T
	err   error

	// continuations to enqueue at settlement, in registration order
	waiters []continuation
}

func NewFuture[T any](s *Scheduler) *Future[T] {
	return &Future[T]{scheduler: s}
}

// Resolve settles the future with a value and hands every registered waiter
// to the scheduler's ready queue, in registration order. Settling a future
// twice is a defect and panics with ErrAlreadySettled.
func (f *Future[T]) Resolve(v T) {
	if f.state != futurePending {
		panic(ErrAlreadySettled)
	}

	f.state = futureResolved
	f.value = v
	f.notify()
}

// Fail settles the future with an error. Waiters are notified exactly like a
// successful resolution; the error reaches each of them once, in registration
// order.
func (f *Future[T]) Fail(err error) {
	if f.state != futurePending {
		panic(ErrAlreadySettled)
	}

	f.state = futureFailed
	f.err = err
	f.notify()
}

func (f *Future[T]) notify() {
	for _, w := range f.waiters {
		f.scheduler.enqueue(w)
	}
	f.waiters = nil
}

// Settled reports whether the future has been resolved or failed.
func (f *Future[T]) Settled() bool {
	return f.state != futurePending
}

func (f *Future[T]) addWaiter(c continuation) {
	if f.Settled() {
		f.scheduler.enqueue(c)
		return
	}

	f.waiters = append(f.waiters, c)
}

// Get returns the future's outcome, suspending the calling coroutine until it
// settles. This is the system's only suspension point. Get on a settled
// future returns without suspending.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	cr := getCoState(ctx)

	for !f.Settled() {
		cr.suspend(f)
	}

	return f.value, f.err
}

// Result reads the settled outcome from host code, outside any coroutine. It
// panics if the future is still pending; run the scheduler until idle first.
func (f *Future[T]) Result() (T, error) {
	if !f.Settled() {
		panic("future: result read while pending")
	}

	return f.value, f.err
}
