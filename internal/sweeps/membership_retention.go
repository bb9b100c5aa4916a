package sweeps

import (
	"context"
	"fmt"
)

// TaskMembershipRetention имя задачи очистки истекших абонементов
const TaskMembershipRetention = "membership_retention"

// MembershipRetentionSweep удаляет истекшие абонементы,
// период которых закончился раньше срока хранения
type MembershipRetentionSweep struct {
	repo            MembershipRepository
	timeProvider    TimeProvider
	logger          Logger
	metrics         Metrics
	retentionMonths int
}

// NewMembershipRetentionSweep создает новый sweep очистки абонементов
func NewMembershipRetentionSweep(repo MembershipRepository, timeProvider TimeProvider, logger Logger, m Metrics, retentionMonths int) *MembershipRetentionSweep {
	if m == nil {
		m = nopMetrics{}
	}
	return &MembershipRetentionSweep{
		repo:            repo,
		timeProvider:    timeProvider,
		logger:          logger,
		metrics:         m,
		retentionMonths: retentionMonths,
	}
}

// Name возвращает имя задачи
func (s *MembershipRetentionSweep) Name() string {
	return TaskMembershipRetention
}

// Run выполняет один проход очистки. Абонементы с включенным автопродлением
// сюда не попадают: они либо продлены, либо остались expired без expired_at
// в окне продления и будут удалены позже по той же границе end_date
func (s *MembershipRetentionSweep) Run(ctx context.Context) error {
	today := truncateToDay(s.timeProvider.Now())
	cutoff := today.AddDate(0, -s.retentionMonths, 0)

	deleted, err := s.repo.DeleteAgedExpired(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("MembershipRetentionSweep.Run - delete aged memberships: %w", err)
	}
	if deleted > 0 {
		s.logger.Info("[MembershipRetentionSweep] Deleted aged expired memberships: count=%d, endBefore=%s", deleted, cutoff.Format("2006-01-02"))
	}
	s.metrics.AddSweepRows(TaskMembershipRetention, "deleted", deleted)

	return nil
}
