package main

import (
	"context"
	"fmt"
	"time"

	"github.com/eagerloop/eagerloop"
)

// Minimal version of the compute/write overlap scenario: three rounds of
// 2s synchronous compute, each followed by a 1s write behind a single-writer
// lock. Eager writes overlap the next compute (7s total); lazy writes
// serialize (9s total).
func main() {
	fmt.Printf("eager: %v\n", run(true))
	fmt.Printf("lazy:  %v\n", run(false))
}

func run(eager bool) time.Duration {
	s := eagerloop.NewScheduler()
	l := eagerloop.NewLock(s)
	start := s.Now()

	write := func(ctx context.Context) (struct{}, error) {
		if _, err := l.Acquire().Get(ctx); err != nil {
			return struct{}{}, err
		}
		defer l.Release()

		if _, err := s.ScheduleTimer(time.Second).Get(ctx); err != nil {
			return struct{}{}, err
		}

		return struct{}{}, nil
	}

	pipeline := eagerloop.Go(context.Background(), s, func(ctx context.Context) (struct{}, error) {
		var prevEager *eagerloop.EagerHandle[struct{}]
		var prevLazy *eagerloop.Task[struct{}]

		for i := 0; i < 3; i++ {
			s.Elapse(2 * time.Second) // compute

			if prevEager != nil {
				if _, err := prevEager.Get(ctx); err != nil {
					return struct{}{}, err
				}
			}
			if prevLazy != nil {
				if _, err := prevLazy.Get(ctx); err != nil {
					return struct{}{}, err
				}
			}

			if eager {
				prevEager = eagerloop.Invoke(ctx, s, write)
			} else {
				prevLazy = eagerloop.Go(ctx, s, write)
			}
		}

		if prevEager != nil {
			_, err := prevEager.Get(ctx)
			return struct{}{}, err
		}

		_, err := prevLazy.Get(ctx)
		return struct{}{}, err
	})

	s.RunUntilIdle()

	if _, err := pipeline.Future().Result(); err != nil {
		panic(err)
	}

	return s.Now().Sub(start)
}
