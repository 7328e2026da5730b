package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/eagerloop/eagerloop"
)

var (
	mode       string
	rounds     int
	workCost   time.Duration
	writeCost  time.Duration
	traceTasks bool
	verbose    bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the compute/write overlap scenario",
	Long: `Runs a loop of synchronous compute rounds, each followed by a timed write
behind a single-writer lock. With --mode eager the write's timer starts at
invoke time and overlaps the next compute; with --mode lazy it only starts
once the loop awaits the write.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo()
	},
}

func init() {
	demoCmd.Flags().StringVar(&mode, "mode", "eager", "submission mode (eager|lazy)")
	demoCmd.Flags().IntVarP(&rounds, "rounds", "n", 3, "compute/write rounds")
	demoCmd.Flags().DurationVar(&workCost, "work", 2*time.Second, "synchronous compute cost per round")
	demoCmd.Flags().DurationVar(&writeCost, "write", time.Second, "write duration")
	demoCmd.Flags().BoolVar(&traceTasks, "trace", false, "print task spans to stdout")
	demoCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func runDemo() error {
	if mode != "eager" && mode != "lazy" {
		return fmt.Errorf("unknown mode %q", mode)
	}

	opts := []eagerloop.SchedulerOption{}

	if verbose {
		opts = append(opts, eagerloop.WithLogger(slog.New(slog.NewTextHandler(
			os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}

	if traceTasks {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("creating stdout exporter: %w", err)
		}

		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
		defer func() {
			_ = tp.Shutdown(context.Background())
		}()

		opts = append(opts, eagerloop.WithTracerProvider(tp))
	}

	s := eagerloop.NewScheduler(opts...)
	l := eagerloop.NewLock(s)
	start := s.Now()

	at := func() time.Duration { return s.Now().Sub(start) }

	write := func(round int) eagerloop.Body[struct{}] {
		return func(ctx context.Context) (struct{}, error) {
			if _, err := l.Acquire().Get(ctx); err != nil {
				return struct{}{}, err
			}
			defer l.Release()

			color.Cyan("t=%-4v write %d started", at(), round)

			if _, err := s.ScheduleTimer(writeCost).Get(ctx); err != nil {
				return struct{}{}, err
			}

			color.Cyan("t=%-4v write %d done", at(), round)

			return struct{}{}, nil
		}
	}

	await := func(ctx context.Context, h *eagerloop.EagerHandle[struct{}], t *eagerloop.Task[struct{}]) error {
		switch {
		case h != nil:
			_, err := h.Get(ctx)
			return err
		case t != nil:
			_, err := t.Get(ctx)
			return err
		}
		return nil
	}

	pipeline := eagerloop.Go(context.Background(), s, func(ctx context.Context) (struct{}, error) {
		var prevEager *eagerloop.EagerHandle[struct{}]
		var prevLazy *eagerloop.Task[struct{}]

		for i := 0; i < rounds; i++ {
			color.Yellow("t=%-4v compute %d started", at(), i)
			s.Elapse(workCost)
			color.Yellow("t=%-4v compute %d done", at(), i)

			if err := await(ctx, prevEager, prevLazy); err != nil {
				return struct{}{}, err
			}

			if mode == "eager" {
				prevEager = eagerloop.Invoke(ctx, s, write(i))
			} else {
				prevLazy = eagerloop.Go(ctx, s, write(i))
			}
		}

		return struct{}{}, await(ctx, prevEager, prevLazy)
	})

	s.RunUntilIdle()

	if _, err := pipeline.Future().Result(); err != nil {
		return err
	}

	color.Green("total elapsed: %v (%s)", at(), mode)

	return nil
}
