package sync

import (
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	im "github.com/eagerloop/eagerloop/internal/metrickeys"
	imetrics "github.com/eagerloop/eagerloop/internal/metrics"
	"github.com/eagerloop/eagerloop/metrics"
)

// continuation resumes a suspended coroutine from where it left off. The
// value or error it resumes with travels inside the closure, read from the
// settled future.
type continuation func()

type stoppable interface {
	Exit()
	Finished() bool
}

type Options struct {
	Logger *slog.Logger

	// Clock seeds the scheduler's virtual time and, with RealDelays, sleeps
	// across timer gaps.
	Clock clock.Clock

	Metrics metrics.Client

	TracerProvider trace.TracerProvider

	// RealDelays makes RunUntilIdle sleep the wall-clock gap before firing a
	// timer instead of jumping virtual time.
	RealDelays bool
}

var DefaultOptions = Options{
	Logger:         slog.Default(),
	Clock:          clock.New(),
	Metrics:        imetrics.NewNoopMetricsClient(),
	TracerProvider: noop.NewTracerProvider(),
}

type SchedulerOption func(*Options)

func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(o *Options) {
		o.Logger = logger
	}
}

func WithClock(c clock.Clock) SchedulerOption {
	return func(o *Options) {
		o.Clock = c
	}
}

func WithMetrics(client metrics.Client) SchedulerOption {
	return func(o *Options) {
		o.Metrics = client
	}
}

func WithTracerProvider(tp trace.TracerProvider) SchedulerOption {
	return func(o *Options) {
		o.TracerProvider = tp
	}
}

func WithRealDelays() SchedulerOption {
	return func(o *Options) {
		o.RealDelays = true
	}
}

// Scheduler owns the ready queue, the timer queue and virtual time. It is an
// explicitly constructed context object: instances are independent, there is
// no ambient scheduler state.
//
// Execution is single-threaded and cooperative. Coroutines interleave only at
// suspension points; everything between two suspension points runs without
// interruption.
type Scheduler struct {
	logger  *slog.Logger
	clock   clock.Clock
	metrics metrics.Client
	tracer  trace.Tracer

	realDelays bool

	now        time.Time
	readyQueue []continuation
	timers     timerQueue

	coroutines []stoppable
}

func NewScheduler(opts ...SchedulerOption) *Scheduler {
	options := DefaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	return &Scheduler{
		logger:     options.Logger,
		clock:      options.Clock,
		metrics:    options.Metrics,
		tracer:     options.TracerProvider.Tracer("eagerloop"),
		realDelays: options.RealDelays,
		now:        options.Clock.Now(),
	}
}

// Now returns the scheduler's virtual time.
func (s *Scheduler) Now() time.Time {
	return s.now
}

func (s *Scheduler) enqueue(c continuation) {
	s.readyQueue = append(s.readyQueue, c)
}

// Elapse models an opaque synchronous operation occupying the thread of
// control for d. Virtual time moves forward; timers whose deadline passes
// during the operation fire at the next tick boundary, not during it.
func (s *Scheduler) Elapse(d time.Duration) {
	if s.realDelays {
		s.clock.Sleep(d)
	}

	s.now = s.now.Add(d)
	s.metrics.Timing(im.ElapsedBusy, metrics.Tags{}, d)
}

// RunUntilIdle drains ready work and fires due timers until both queues are
// empty. Continuations enqueued during a drain run in the same pass, so
// chains of ready work cascade within one tick. Calling RunUntilIdle again
// once idle returns immediately.
func (s *Scheduler) RunUntilIdle() {
	for {
		for len(s.readyQueue) > 0 {
			c := s.readyQueue[0]
			s.readyQueue[0] = nil
			s.readyQueue = s.readyQueue[1:]

			c()
		}

		if s.timers.empty() {
			return
		}

		// The only place the run loop moves time forward. Elapse may already
		// have pushed virtual time past the deadline; never move backward.
		next := s.timers.nextDeadline()
		if next.After(s.now) {
			if s.realDelays {
				s.clock.Sleep(next.Sub(s.now))
			}

			s.now = next
		}

		fired := s.timers.advanceTo(s.now)

		s.logger.Debug("fired due timers", "count", fired, "now", s.now)
		s.metrics.Counter(im.TimersFired, metrics.Tags{}, float64(fired))
	}
}

func (s *Scheduler) track(c stoppable) {
	s.coroutines = append(s.coroutines, c)
}

// Exit force-exits every coroutine that has not finished, releasing its
// goroutine. Hosts and tests that abandon a run early call this so nothing
// leaks.
func (s *Scheduler) Exit() {
	for _, c := range s.coroutines {
		if !c.Finished() {
			c.Exit()
		}
	}

	s.coroutines = nil
	s.readyQueue = nil
}
