package p

import (
	"context"
	"fmt"
	"time"

	eagerloop "fakeloop"
)

func ok(ctx context.Context, s *eagerloop.Scheduler) {
	eagerloop.Go(ctx, s, func(ctx context.Context) (int, error) {
		return 42, nil
	})
}

func usesGoroutine(ctx context.Context, s *eagerloop.Scheduler) {
	eagerloop.Go(ctx, s, func(ctx context.Context) (int, error) {
		go func() { // want "goroutines bypass the cooperative scheduler; submit another coroutine instead of `go`"
			fmt.Println("hello")
		}()

		return 0, nil
	})
}

func usesSleep(ctx context.Context, s *eagerloop.Scheduler) {
	eagerloop.Invoke(ctx, s, func(ctx context.Context) (int, error) {
		time.Sleep(time.Second) // want "time.Sleep blocks the scheduler thread; await scheduler.ScheduleTimer instead"

		return 0, nil
	})
}

func usesWallClock(ctx context.Context, s *eagerloop.Scheduler) {
	eagerloop.Go(ctx, s, func(ctx context.Context) (int, error) {
		t := time.Now() // want "time.Now ignores virtual time; use scheduler.Now instead"

		return t.Second(), nil
	})
}

func usesChannels(ctx context.Context, s *eagerloop.Scheduler) {
	c := make(chan int)

	eagerloop.Go(ctx, s, func(ctx context.Context) (int, error) {
		c <- 1 // want "channel send blocks the scheduler thread; use a future to hand a value to another coroutine"

		v := <-c // want "channel receive blocks the scheduler thread; use a future to wait for a value"

		select { // want "select blocks the scheduler thread; coroutines may only suspend by awaiting a future"
		case <-c: // want "channel receive blocks the scheduler thread; use a future to wait for a value"
		default:
		}

		return v, nil
	})
}

func outsideACoroutineIsFine() {
	time.Sleep(time.Millisecond)

	c := make(chan int)
	close(c)
	<-c
}
