package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Future_ResolveTwicePanics(t *testing.T) {
	s := NewScheduler()
	f := NewFuture[int](s)

	f.Resolve(42)

	require.PanicsWithValue(t, ErrAlreadySettled, func() {
		f.Resolve(42)
	})
}

func Test_Future_FailAfterResolvePanics(t *testing.T) {
	s := NewScheduler()
	f := NewFuture[int](s)

	f.Resolve(42)

	require.PanicsWithValue(t, ErrAlreadySettled, func() {
		f.Fail(errors.New("test"))
	})
}

func Test_Future_Settled(t *testing.T) {
	s := NewScheduler()
	f := NewFuture[int](s)

	require.False(t, f.Settled())

	f.Resolve(42)

	require.True(t, f.Settled())
}

func Test_Future_WaitersResumeInRegistrationOrder(t *testing.T) {
	s := NewScheduler()
	f := NewFuture[int](s)

	var order []int

	for i := 0; i < 3; i++ {
		i := i
		Go(context.Background(), s, func(ctx context.Context) (int, error) {
			v, err := f.Get(ctx)
			order = append(order, i)

			return v, err
		})
	}

	// All three suspend on f
	s.RunUntilIdle()
	require.Empty(t, order)

	f.Resolve(42)
	s.RunUntilIdle()

	require.Equal(t, []int{0, 1, 2}, order)
}

func Test_Future_FailureReachesEveryWaiterInOrder(t *testing.T) {
	s := NewScheduler()
	f := NewFuture[int](s)

	var order []int
	var errs []error

	for i := 0; i < 3; i++ {
		i := i
		Go(context.Background(), s, func(ctx context.Context) (int, error) {
			_, err := f.Get(ctx)
			order = append(order, i)
			errs = append(errs, err)

			return 0, nil
		})
	}

	s.RunUntilIdle()

	f.Fail(errors.New("test"))
	s.RunUntilIdle()

	require.Equal(t, []int{0, 1, 2}, order)
	for _, err := range errs {
		require.EqualError(t, err, "test")
	}
}

func Test_Future_GetOnSettledDoesNotSuspend(t *testing.T) {
	s := NewScheduler()
	f := NewFuture[int](s)
	f.Resolve(42)

	tk := Go(context.Background(), s, func(ctx context.Context) (int, error) {
		return f.Get(ctx)
	})

	s.RunUntilIdle()

	v, err := tk.Future().Result()
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func Test_Future_ResultPanicsWhilePending(t *testing.T) {
	s := NewScheduler()
	f := NewFuture[int](s)

	require.Panics(t, func() {
		f.Result()
	})

	f.Resolve(42)

	v, err := f.Result()
	require.NoError(t, err)
	require.Equal(t, 42, v)
}
