package sync

import (
	"context"

	im "github.com/eagerloop/eagerloop/internal/metrickeys"
	"github.com/eagerloop/eagerloop/metrics"
)

// Lock is a cooperative FIFO mutex. Grants are futures: awaiting the future
// returned by Acquire is the suspension point. At most one holder at a time;
// release hands off to the oldest waiter.
type Lock struct {
	scheduler *Scheduler

	held    bool
	waiters []*Future[struct{}]
}

func NewLock(s *Scheduler) *Lock {
	return &Lock{scheduler: s}
}

// Acquire returns a future that resolves once the caller holds the lock. If
// the lock is free the future is already resolved and awaiting it does not
// suspend.
func (l *Lock) Acquire() *Future[struct{}] {
	f := NewFuture[struct{}](l.scheduler)

	if !l.held {
		l.held = true
		f.Resolve(struct{}{})

		return f
	}

	l.scheduler.metrics.Counter(im.LockContention, metrics.Tags{}, 1)
	l.waiters = append(l.waiters, f)

	return f
}

// Release hands the lock to the oldest waiter, or clears it when none wait.
// Releasing an unheld lock is a defect and panics with ErrNotHeld.
func (l *Lock) Release() {
	if !l.held {
		panic(ErrNotHeld)
	}

	if len(l.waiters) > 0 {
		next := l.waiters[0]
		l.waiters[0] = nil
		l.waiters = l.waiters[1:]

		// Handoff: held stays true, the grantee resumes via the ready queue.
		next.Resolve(struct{}{})

		return
	}

	l.held = false
}

// Held reports whether the lock currently has a holder.
func (l *Lock) Held() bool {
	return l.held
}

// With runs fn while holding the lock.
func (l *Lock) With(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, err := l.Acquire().Get(ctx); err != nil {
		return err
	}
	defer l.Release()

	return fn(ctx)
}
