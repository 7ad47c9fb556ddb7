package periodic

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTask_FiresWhileRunning(t *testing.T) {
	req := require.New(t)
	var calls atomic.Int32
	task := New("counter", 5*time.Millisecond, func(context.Context) { calls.Add(1) }, quietLogger())

	req.Equal(Stopped, task.State())
	req.True(task.Start())
	req.False(task.Start(), "second start is a no-op")
	req.Equal(Running, task.State())

	req.Eventually(func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	task.Stop()
	req.Equal(Stopped, task.State())
}

func TestTask_NoFireAfterStop(t *testing.T) {
	req := require.New(t)
	var calls atomic.Int32
	task := New("counter", time.Millisecond, func(context.Context) { calls.Add(1) }, quietLogger())

	task.Start()
	req.Eventually(func() bool { return calls.Load() > 0 }, time.Second, time.Millisecond)
	task.Stop()

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	req.Equal(after, calls.Load())
}

func TestTask_StopWaitsForInFlightCall(t *testing.T) {
	req := require.New(t)
	entered := make(chan struct{})
	var finished atomic.Bool
	task := New("slow", time.Millisecond, func(ctx context.Context) {
		select {
		case entered <- struct{}{}:
		default:
		}
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
	}, quietLogger())

	task.Start()
	<-entered
	task.Stop()
	req.True(finished.Load())
}

func TestTask_StopOnStoppedIsSafe(t *testing.T) {
	task := New("idle", time.Hour, func(context.Context) {}, quietLogger())
	task.Stop()
	task.Stop()
	require.Equal(t, Stopped, task.State())
}

func TestTask_Restart(t *testing.T) {
	req := require.New(t)
	var calls atomic.Int32
	task := New("restart", time.Millisecond, func(context.Context) { calls.Add(1) }, quietLogger())

	task.Start()
	task.Stop()
	before := calls.Load()
	req.True(task.Start())
	req.Eventually(func() bool { return calls.Load() > before }, time.Second, time.Millisecond)
	task.Stop()
}

func TestTask_PanicDoesNotKillLoop(t *testing.T) {
	var calls atomic.Int32
	task := New("flaky", time.Millisecond, func(context.Context) {
		if calls.Add(1) == 1 {
			panic("boom")
		}
	}, quietLogger())

	task.Start()
	defer task.Stop()
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
}

func TestTask_ConcurrentStopsWaitForLoop(t *testing.T) {
	req := require.New(t)
	for round := 0; round < 200; round++ {
		var calls atomic.Int32
		task := New("racy", 50*time.Microsecond, func(context.Context) { calls.Add(1) }, quietLogger())
		task.Start()
		req.Eventually(func() bool { return calls.Load() > 0 }, time.Second, 10*time.Microsecond)

		var wg sync.WaitGroup
		seen := make([]int32, 2)
		for i := range seen {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				task.Stop()
				seen[i] = calls.Load()
			}(i)
		}
		wg.Wait()

		time.Sleep(200 * time.Microsecond)
		final := calls.Load()
		for _, n := range seen {
			req.Equal(final, n, "round %d: loop fired after Stop returned", round)
		}
	}
}
