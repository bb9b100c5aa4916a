package sweeps

import (
	"context"
	"fmt"
)

// TaskBookingLifecycle имя задачи завершения и очистки бронирований
const TaskBookingLifecycle = "booking_lifecycle"

// BookingLifecycleSweep переводит прошедшие бронирования в completed
// и удаляет терминальные записи старше срока хранения
type BookingLifecycleSweep struct {
	repo            BookingRepository
	timeProvider    TimeProvider
	logger          Logger
	metrics         Metrics
	retentionMonths int
}

// NewBookingLifecycleSweep создает новый sweep жизненного цикла бронирований
func NewBookingLifecycleSweep(repo BookingRepository, timeProvider TimeProvider, logger Logger, m Metrics, retentionMonths int) *BookingLifecycleSweep {
	if m == nil {
		m = nopMetrics{}
	}
	return &BookingLifecycleSweep{
		repo:            repo,
		timeProvider:    timeProvider,
		logger:          logger,
		metrics:         m,
		retentionMonths: retentionMonths,
	}
}

// Name возвращает имя задачи
func (s *BookingLifecycleSweep) Name() string {
	return TaskBookingLifecycle
}

// Run выполняет один проход: завершение прошедших бронирований и очистка по сроку хранения.
// Проход идемпотентен: повторный запуск на тех же данных ничего не меняет.
func (s *BookingLifecycleSweep) Run(ctx context.Context) error {
	today := truncateToDay(s.timeProvider.Now())

	// Завершаем только бронирования с датой строго раньше сегодняшней
	completed, err := s.repo.CompletePastBookings(ctx, today)
	if err != nil {
		return fmt.Errorf("BookingLifecycleSweep.Run - complete past bookings: %w", err)
	}
	if completed > 0 {
		s.logger.Info("[BookingLifecycleSweep] Completed past bookings: count=%d", completed)
	}
	s.metrics.AddSweepRows(TaskBookingLifecycle, "completed", completed)

	cutoff := today.AddDate(0, -s.retentionMonths, 0)
	deleted, err := s.repo.DeleteAgedTerminal(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("BookingLifecycleSweep.Run - delete aged bookings: %w", err)
	}
	if deleted > 0 {
		s.logger.Info("[BookingLifecycleSweep] Deleted aged terminal bookings: count=%d, createdBefore=%s", deleted, cutoff.Format("2006-01-02"))
	}
	s.metrics.AddSweepRows(TaskBookingLifecycle, "deleted", deleted)

	return nil
}
