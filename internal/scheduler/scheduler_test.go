package scheduler

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifiscout/internal/logging"
)

func TestRunLoopStopsOnCancel(t *testing.T) {
	s := New(time.Millisecond, logging.NewDefault())

	var cycles atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	cycle := func(context.Context) error {
		if cycles.Add(1) >= 3 {
			cancel()
		}
		return nil
	}

	err := s.RunLoop(ctx, cycle)
	require.True(t, stderrors.Is(err, context.Canceled))
	assert.GreaterOrEqual(t, cycles.Load(), int32(3))
}

func TestRunLoopContinuesAfterCycleError(t *testing.T) {
	s := New(time.Millisecond, logging.NewDefault())

	var cycles atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	cycle := func(context.Context) error {
		n := cycles.Add(1)
		if n >= 3 {
			cancel()
		}
		return fmt.Errorf("cycle %d failed", n)
	}

	err := s.RunLoop(ctx, cycle)
	require.True(t, stderrors.Is(err, context.Canceled))
	assert.GreaterOrEqual(t, cycles.Load(), int32(3), "per-cycle failures never stop the loop")
}

func TestRunLoopCanceledBeforeStart(t *testing.T) {
	s := New(time.Minute, logging.NewDefault())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var cycles atomic.Int32
	err := s.RunLoop(ctx, func(context.Context) error {
		cycles.Add(1)
		return nil
	})
	require.True(t, stderrors.Is(err, context.Canceled))
	assert.Zero(t, cycles.Load())
}

func TestRunLoopCycleOutlivesCancellation(t *testing.T) {
	s := New(time.Millisecond, logging.NewDefault())

	ctx, cancel := context.WithCancel(context.Background())

	var sawLiveContext atomic.Bool
	cycle := func(cycleCtx context.Context) error {
		cancel()
		// The cycle's context must stay usable after outer cancellation so a
		// pass in flight can finish cleanly.
		sawLiveContext.Store(cycleCtx.Err() == nil)
		return nil
	}

	err := s.RunLoop(ctx, cycle)
	require.True(t, stderrors.Is(err, context.Canceled))
	assert.True(t, sawLiveContext.Load())
}

func TestSchedule(t *testing.T) {
	s := New(time.Second, logging.NewDefault())

	t.Run("invalid expression", func(t *testing.T) {
		_, err := s.Schedule("not a cron spec", func(context.Context) error { return nil })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid cron expression")
	})

	t.Run("valid expression registers an entry", func(t *testing.T) {
		id, err := s.Schedule("@hourly", func(context.Context) error { return nil })
		require.NoError(t, err)
		assert.NotZero(t, id)
		assert.NotEmpty(t, s.Entries())
	})
}

func TestStartStop(t *testing.T) {
	s := New(time.Second, logging.NewDefault())

	require.NoError(t, s.Start())
	assert.Error(t, s.Start(), "second start is rejected")

	s.Stop()
	s.Stop() // stop is idempotent

	require.NoError(t, s.Start())
	s.Stop()
}
