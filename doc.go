// Package eagerloop is a single-threaded cooperative scheduler built to make
// the switching point between concurrent computations explicit and
// controllable.
//
// Computations are coroutines driven through an explicit step protocol: each
// step runs the body until it suspends on a future or finishes. Two
// submission modes exist:
//
//   - Go submits a lazy task. Nothing in the body runs until the scheduler
//     drains its ready queue.
//   - Invoke creates an eager handle. The body runs synchronously, in the
//     caller's own execution context, up to its first suspension point before
//     Invoke returns. Awaiting the handle later resumes driving from that
//     point.
//
// The difference is observable: with Invoke, "calling starts the work" - a
// timer backing a simulated write is already ticking when Invoke returns,
// letting it overlap the caller's subsequent synchronous work. With Go, the
// same write does not even start until the caller yields to the scheduler.
//
// Time is virtual. The scheduler advances its clock only between ticks (to
// the next timer deadline) and during Elapse, which models opaque synchronous
// work occupying the single thread of control.
package eagerloop
