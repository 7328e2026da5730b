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

// Task is a lazily driven coroutine. Submission runs nothing: the body's
// first instruction executes only once the scheduler drains the ready queue.
type Task[T any] struct {
	id        string
	scheduler *Scheduler
	co        *Coroutine[T]
	result    *Future[T]

	span trace.Span
}

// Go submits body for cooperative execution on s. The coroutine is created
// parked before its first instruction and its first step is enqueued on the
// ready queue; any side effect of the body is deferred until the scheduler
// processes it.
func Go[T any](ctx context.Context, s *Scheduler, body Body[T]) *Task[T] {
	t := &Task[T]{
		id:        uuid.NewString(),
		scheduler: s,
		result:    NewFuture[T](s),
	}

	_, t.span = s.tracer.Start(ctx, "task",
		trace.WithAttributes(
			attribute.String("task.id", t.id),
			attribute.String("task.kind", "lazy"),
		))

	t.co = NewCoroutine(ctx, body)
	s.track(t.co)
	s.enqueue(t.resume)

	s.logger.Debug("task submitted", "task_id", t.id)
	s.metrics.Counter(im.TasksSubmitted, metrics.Tags{im.TaskKind: "lazy"}, 1)

	return t
}

// resume drives the coroutine past one suspension point, then either re-arms
// it as a waiter on whatever it suspended on or settles the result future.
func (t *Task[T]) resume() {
	out := t.co.Step()

	switch out.Status {
	case StepSuspended:
		out.On.addWaiter(t.resume)

	case StepCompleted:
		t.span.End()
		t.scheduler.logger.Debug("task completed", "task_id", t.id)
		t.scheduler.metrics.Counter(im.TasksCompleted, metrics.Tags{im.TaskKind: "lazy"}, 1)
		t.result.Resolve(out.Value)

	case StepFailed:
		t.span.SetStatus(codes.Error, out.Err.Error())
		t.span.End()
		t.scheduler.logger.Debug("task failed", "task_id", t.id, "error", out.Err)
		t.scheduler.metrics.Counter(im.TasksCompleted, metrics.Tags{im.TaskKind: "lazy"}, 1)
		t.result.Fail(out.Err)
	}
}

// Future returns the task's result future.
func (t *Task[T]) Future() *Future[T] {
	return t.result
}

// Get awaits the task's result from inside another coroutine.
func (t *Task[T]) Get(ctx context.Context) (T, error) {
	return t.result.Get(ctx)
}

func (t *Task[T]) ID() string {
	return t.id
}
