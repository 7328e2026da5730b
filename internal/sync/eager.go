package sync

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	im "github.com/eagerloop/eagerloop/internal/metrickeys"
	"github.com/eagerloop/eagerloop/metrics"
)

// EagerHandle is a coroutine that was driven to its first suspension point at
// construction time. Unlike a Task, its creation has an observable side
// effect: the body's pre-suspension prefix runs synchronously in the caller's
// execution context. Awaiting the handle replays the captured suspension and
// continues driving lazily through the scheduler.
type EagerHandle[T any] struct {
	id        string
	scheduler *Scheduler
	co        *Coroutine[T]
	result    *Future[T]

	// suspension produced by the construction-time drive, replayed on the
	// first await
	pending Awaitable
	driving bool

	span trace.Span
}

// Invoke constructs a coroutine from body and drives it synchronously, before
// returning, up to its first suspension point or to completion. A body that
// completes or fails without suspending yields an already-settled handle; in
// particular a failure before the first suspension becomes a pre-failed
// handle rather than a synchronous error, uniform with the completed case.
//
// Mixing eager handles and lazy tasks in one call chain silently reintroduces
// deferred execution: a lazy caller does not run until driven, no matter how
// eager its callees are. Keep a chain uniformly eager when invoke-time side
// effects matter.
func Invoke[T any](ctx context.Context, s *Scheduler, body Body[T]) *EagerHandle[T] {
	h := &EagerHandle[T]{
		id:        uuid.NewString(),
		scheduler: s,
		result:    NewFuture[T](s),
	}

	_, h.span = s.tracer.Start(ctx, "task",
		trace.WithAttributes(
			attribute.String("task.id", h.id),
			attribute.String("task.kind", "eager"),
		))

	h.co = NewCoroutine(ctx, body)
	s.track(h.co)

	s.logger.Debug("eager handle invoked", "task_id", h.id)
	s.metrics.Counter(im.TasksSubmitted, metrics.Tags{im.TaskKind: "eager"}, 1)

	// The eager step: run the body in the caller's own execution context up
	// to its first suspension point.
	out := h.co.Step()
	if out.Status == StepSuspended {
		h.pending = out.On
		return h
	}

	h.settle(out)

	return h
}

func (h *EagerHandle[T]) settle(out StepOutcome[T]) {
	switch out.Status {
	case StepCompleted:
		h.span.End()
		h.scheduler.logger.Debug("eager handle completed", "task_id", h.id)
		h.scheduler.metrics.Counter(im.TasksCompleted, metrics.Tags{im.TaskKind: "eager"}, 1)
		h.result.Resolve(out.Value)

	case StepFailed:
		h.span.SetStatus(codes.Error, out.Err.Error())
		h.span.End()
		h.scheduler.logger.Debug("eager handle failed", "task_id", h.id, "error", out.Err)
		h.scheduler.metrics.Counter(im.TasksCompleted, metrics.Tags{im.TaskKind: "eager"}, 1)
		h.result.Fail(out.Err)
	}
}

// resume continues driving after an awaited suspension settled.
func (h *EagerHandle[T]) resume() {
	out := h.co.Step()
	if out.Status == StepSuspended {
		out.On.addWaiter(h.resume)
		return
	}

	h.settle(out)
}

// ensureDriving replays the suspension captured at construction time. From
// then on the coroutine is driven by the scheduler to settlement, whether or
// not anyone keeps awaiting.
func (h *EagerHandle[T]) ensureDriving() {
	if h.driving || h.result.Settled() {
		return
	}

	h.driving = true
	h.pending.addWaiter(h.resume)
	h.pending = nil
}

// Get awaits the handle's result. The first await starts lazy driving from
// the replayed suspension point.
func (h *EagerHandle[T]) Get(ctx context.Context) (T, error) {
	h.ensureDriving()

	return h.result.Get(ctx)
}

// Future returns the handle's result future, starting lazy driving if it has
// not started yet.
func (h *EagerHandle[T]) Future() *Future[T] {
	h.ensureDriving()

	return h.result
}

// Settled reports whether the handle's result is available.
func (h *EagerHandle[T]) Settled() bool {
	return h.result.Settled()
}

func (h *EagerHandle[T]) ID() string {
	return h.id
}
