package scheduler

import (
	"context"
	"sync"
	"time"
)

// Task периодическая фоновая задача
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics интерфейс метрик запусков задач
type Metrics interface {
	ObserveSweepRun(task, status string, duration time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ObserveSweepRun(task, status string, duration time.Duration) {}

type entry struct {
	task     Task
	interval time.Duration
}

// Scheduler запускает зарегистрированные задачи по тикеру.
// Падение одной задачи не влияет на остальные
type Scheduler struct {
	logger  Logger
	metrics Metrics
	entries []entry

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New создает новый планировщик фоновых задач
func New(logger Logger, m Metrics) *Scheduler {
	if m == nil {
		m = nopMetrics{}
	}
	return &Scheduler{
		logger:  logger,
		metrics: m,
	}
}

// Register добавляет задачу с интервалом запуска.
// Вызывается до Start, потокобезопасность не требуется
func (s *Scheduler) Register(task Task, interval time.Duration) {
	s.entries = append(s.entries, entry{task: task, interval: interval})
}

// Start запускает все зарегистрированные задачи в отдельных горутинах.
// Каждая задача выполняется сразу при старте, затем по интервалу
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	for _, e := range s.entries {
		s.wg.Add(1)
		go s.runLoop(ctx, e)
	}

	s.logger.Info("[Scheduler] Started: tasks=%d", len(s.entries))
}

// Stop останавливает все задачи и дожидается их завершения
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("[Scheduler] Stopped")
}

func (s *Scheduler) runLoop(ctx context.Context, e entry) {
	defer s.wg.Done()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	s.runOnce(ctx, e.task)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, e.task)
		}
	}
}

// runOnce выполняет одну итерацию задачи с защитой от паники
func (s *Scheduler) runOnce(ctx context.Context, task Task) {
	start := time.Now()
	status := "success"

	defer func() {
		if r := recover(); r != nil {
			s.metrics.ObserveSweepRun(task.Name(), "panic", time.Since(start))
			s.logger.Error("[Scheduler] Task panicked: task=%s, panic=%v", task.Name(), r)
		}
	}()

	if err := task.Run(ctx); err != nil {
		status = "error"
		s.logger.Error("[Scheduler] Task failed: task=%s, error=%v", task.Name(), err)
	}

	s.metrics.ObserveSweepRun(task.Name(), status, time.Since(start))
}
