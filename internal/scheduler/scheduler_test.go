package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingTask struct {
	name string
	runs atomic.Int64
	fn   func() error
}

func (t *countingTask) Name() string {
	return t.name
}

func (t *countingTask) Run(ctx context.Context) error {
	t.runs.Add(1)
	if t.fn != nil {
		return t.fn()
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestScheduler_RunsImmediatelyAndOnTicker(t *testing.T) {
	task := &countingTask{name: "test"}

	s := New(nopLogger{}, nil)
	s.Register(task, 20*time.Millisecond)
	s.Start(context.Background())
	defer s.Stop()

	// Первый запуск происходит сразу, дальше по тикеру
	assert.Eventually(t, func() bool {
		return task.runs.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_TaskErrorDoesNotStopLoop(t *testing.T) {
	task := &countingTask{
		name: "failing",
		fn:   func() error { return errors.New("boom") },
	}

	s := New(nopLogger{}, nil)
	s.Register(task, 10*time.Millisecond)
	s.Start(context.Background())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return task.runs.Load() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_PanicIsIsolated(t *testing.T) {
	panicking := &countingTask{
		name: "panicking",
		fn:   func() error { panic("boom") },
	}
	healthy := &countingTask{name: "healthy"}

	s := New(nopLogger{}, nil)
	s.Register(panicking, 10*time.Millisecond)
	s.Register(healthy, 10*time.Millisecond)
	s.Start(context.Background())
	defer s.Stop()

	// Паника одной задачи не роняет процесс и не мешает другой
	assert.Eventually(t, func() bool {
		return panicking.runs.Load() >= 2 && healthy.runs.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_StopHaltsTasks(t *testing.T) {
	task := &countingTask{name: "stoppable"}

	s := New(nopLogger{}, nil)
	s.Register(task, 10*time.Millisecond)
	s.Start(context.Background())

	s.Stop()
	runsAfterStop := task.runs.Load()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, runsAfterStop, task.runs.Load())
}
