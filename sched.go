package eagerloop

import (
	"context"
	"time"

	"github.com/eagerloop/eagerloop/internal/sync"
)

type (
	Scheduler       = sync.Scheduler
	SchedulerOption = sync.SchedulerOption
	Lock            = sync.Lock
	PanicError      = sync.PanicError

	Future[T any]      = sync.Future[T]
	Task[T any]        = sync.Task[T]
	EagerHandle[T any] = sync.EagerHandle[T]

	// Body is a suspendable computation. It may only pause by awaiting a
	// future through its context.
	Body[T any] = sync.Body[T]
)

var (
	ErrAlreadySettled = sync.ErrAlreadySettled
	ErrNotHeld        = sync.ErrNotHeld
)

var (
	WithLogger         = sync.WithLogger
	WithClock          = sync.WithClock
	WithMetrics        = sync.WithMetrics
	WithTracerProvider = sync.WithTracerProvider
	WithRealDelays     = sync.WithRealDelays
)

func NewScheduler(opts ...SchedulerOption) *Scheduler {
	return sync.NewScheduler(opts...)
}

func NewLock(s *Scheduler) *Lock {
	return sync.NewLock(s)
}

func NewFuture[T any](s *Scheduler) *Future[T] {
	return sync.NewFuture[T](s)
}

// Go submits body as a lazy task: no body code runs until the scheduler
// processes the ready queue.
func Go[T any](ctx context.Context, s *Scheduler, body Body[T]) *Task[T] {
	return sync.Go(ctx, s, body)
}

// Invoke runs body eagerly up to its first suspension point before returning
// a handle that can be awaited for the rest.
func Invoke[T any](ctx context.Context, s *Scheduler, body Body[T]) *EagerHandle[T] {
	return sync.Invoke(ctx, s, body)
}

// Sleep pauses the calling coroutine for d on the scheduler's clock.
func Sleep(ctx context.Context, s *Scheduler, d time.Duration) error {
	return sync.Sleep(ctx, s, d)
}
