// Package periodic runs a function on a fixed interval in a background
// goroutine with an explicit Stopped/Running lifecycle.
package periodic

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// State is the lifecycle stage of a Task.
type State int

// Task states.
const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Task calls fn every interval while running. Each wake-up checks for a stop
// request before calling fn, and Stop waits for an in-flight call, so fn never
// runs after Stop returns.
type Task struct {
	name     string
	interval time.Duration
	fn       func(context.Context)
	log      *slog.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a stopped Task.
func New(name string, interval time.Duration, fn func(context.Context), log *slog.Logger) *Task {
	if log == nil {
		log = slog.Default()
	}
	return &Task{name: name, interval: interval, fn: fn, log: log}
}

// Name returns the task name.
func (t *Task) Name() string { return t.name }

// Interval returns the wake-up period.
func (t *Task) Interval() time.Duration { return t.interval }

// State returns the current lifecycle stage.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Start launches the loop. It reports false if the task was already running.
func (t *Task) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Running {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.done = make(chan struct{})
	t.state = Running
	go t.loop(ctx, t.done)

	t.log.Info("Periodic task started", "task", t.name, "interval", t.interval)
	return true
}

// Stop halts the loop and waits for it to exit. Concurrent callers all wait
// for the same loop, and it is safe to call on a stopped task.
func (t *Task) Stop() {
	t.mu.Lock()
	if t.done == nil {
		t.mu.Unlock()
		return
	}
	wasRunning := t.state == Running
	t.state = Stopped
	cancel, done := t.cancel, t.done
	t.mu.Unlock()

	cancel()
	<-done
	if wasRunning {
		t.log.Info("Periodic task stopped", "task", t.name)
	}
}

func (t *Task) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			t.fire(ctx)
		}
	}
}

func (t *Task) fire(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Error("Periodic task panicked", "task", t.name, "panic", r)
		}
	}()
	t.fn(ctx)
}
