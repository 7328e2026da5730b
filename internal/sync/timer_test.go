package sync

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

func Test_Timer_FiresInDeadlineOrder(t *testing.T) {
	s := NewScheduler(WithClock(clock.NewMock()))

	var order []time.Duration

	for _, d := range []time.Duration{3 * time.Second, 1 * time.Second, 2 * time.Second} {
		d := d
		Go(context.Background(), s, func(ctx context.Context) (struct{}, error) {
			_, err := s.ScheduleTimer(d).Get(ctx)
			order = append(order, d)

			return struct{}{}, err
		})
	}

	s.RunUntilIdle()

	require.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 3 * time.Second}, order)
}

func Test_Timer_TiesFireInCreationOrder(t *testing.T) {
	s := NewScheduler(WithClock(clock.NewMock()))

	var order []int

	for i := 0; i < 3; i++ {
		i := i
		Go(context.Background(), s, func(ctx context.Context) (struct{}, error) {
			_, err := s.ScheduleTimer(time.Second).Get(ctx)
			order = append(order, i)

			return struct{}{}, err
		})
	}

	s.RunUntilIdle()

	require.Equal(t, []int{0, 1, 2}, order)
}

func Test_Timer_AdvancesToEachDeadline(t *testing.T) {
	s := NewScheduler(WithClock(clock.NewMock()))

	start := s.Now()

	var at []time.Duration

	for _, d := range []time.Duration{2 * time.Second, 5 * time.Second} {
		d := d
		Go(context.Background(), s, func(ctx context.Context) (struct{}, error) {
			_, err := s.ScheduleTimer(d).Get(ctx)
			at = append(at, s.Now().Sub(start))

			return struct{}{}, err
		})
	}

	s.RunUntilIdle()

	require.Equal(t, []time.Duration{2 * time.Second, 5 * time.Second}, at)
	require.Equal(t, 5*time.Second, s.Now().Sub(start))
}

func Test_Timer_ZeroDelayFiresOnNextTick(t *testing.T) {
	s := NewScheduler(WithClock(clock.NewMock()))

	f := s.ScheduleTimer(0)
	require.False(t, f.Settled())

	s.RunUntilIdle()

	require.True(t, f.Settled())
}
