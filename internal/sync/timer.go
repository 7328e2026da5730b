package sync

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	im "github.com/eagerloop/eagerloop/internal/metrickeys"
	"github.com/eagerloop/eagerloop/metrics"
)

type timerEntry struct {
	deadline time.Time
	future   *Future[struct{}]
}

// timerQueue keeps pending timers ordered by deadline, ties broken by
// creation order.
type timerQueue struct {
	entries []*timerEntry
}

func (q *timerQueue) schedule(deadline time.Time, f *Future[struct{}]) {
	// Insert after any entry with the same deadline to keep ties in creation
	// order.
	i := sort.Search(len(q.entries), func(i int) bool {
		return q.entries[i].deadline.After(deadline)
	})

	q.entries = append(q.entries, nil)
	copy(q.entries[i+1:], q.entries[i:])
	q.entries[i] = &timerEntry{deadline: deadline, future: f}
}

func (q *timerQueue) empty() bool {
	return len(q.entries) == 0
}

func (q *timerQueue) nextDeadline() time.Time {
	return q.entries[0].deadline
}

// advanceTo resolves every timer with a deadline at or before now, in
// deadline order, and reports how many fired. Each resolution goes through
// Future.Resolve and therefore enqueues the timer's waiters.
func (q *timerQueue) advanceTo(now time.Time) int {
	fired := 0

	for len(q.entries) > 0 && !q.entries[0].deadline.After(now) {
		e := q.entries[0]
		q.entries[0] = nil
		q.entries = q.entries[1:]

		e.future.Resolve(struct{}{})
		fired++
	}

	return fired
}

// ScheduleTimer returns a future that resolves once delay has elapsed on the
// scheduler's clock.
func (s *Scheduler) ScheduleTimer(delay time.Duration) *Future[struct{}] {
	f := NewFuture[struct{}](s)
	s.timers.schedule(s.now.Add(delay), f)

	s.metrics.Counter(im.TimersScheduled, metrics.Tags{}, 1)

	return f
}

// Sleep suspends the calling coroutine until delay has elapsed on the
// scheduler's clock.
func Sleep(ctx context.Context, s *Scheduler, delay time.Duration) error {
	_, span := s.tracer.Start(ctx, "Sleep",
		trace.WithAttributes(attribute.Int64("duration_ms", delay.Milliseconds())))
	defer span.End()

	_, err := s.ScheduleTimer(delay).Get(ctx)

	return err
}
