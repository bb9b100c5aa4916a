package sweeps

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
	storage "github.com/m04kA/FitClub-BookingService/internal/infra/storage/catalog"
)

// TaskMembershipRenewal имя задачи истечения и автопродления абонементов
const TaskMembershipRenewal = "membership_renewal"

// MembershipRenewalSweep переводит просроченные абонементы в expired
// и автоматически продлевает те, у которых включена опция продления
type MembershipRenewalSweep struct {
	membershipRepo MembershipRepository
	catalogRepo    CatalogRepository
	timeProvider   TimeProvider
	logger         Logger
	metrics        Metrics
	windowDays     int
}

// NewMembershipRenewalSweep создает новый sweep автопродления абонементов
func NewMembershipRenewalSweep(membershipRepo MembershipRepository, catalogRepo CatalogRepository, timeProvider TimeProvider, logger Logger, m Metrics, windowDays int) *MembershipRenewalSweep {
	if m == nil {
		m = nopMetrics{}
	}
	return &MembershipRenewalSweep{
		membershipRepo: membershipRepo,
		catalogRepo:    catalogRepo,
		timeProvider:   timeProvider,
		logger:         logger,
		metrics:        m,
		windowDays:     windowDays,
	}
}

// Name возвращает имя задачи
func (s *MembershipRenewalSweep) Name() string {
	return TaskMembershipRenewal
}

// Run выполняет один проход: сначала истечение активных абонементов с
// закончившимся периодом, затем автопродление недавно истекших.
// Ошибка по отдельному абонементу не прерывает проход
func (s *MembershipRenewalSweep) Run(ctx context.Context) error {
	now := s.timeProvider.Now()
	today := truncateToDay(now)

	expired, err := s.membershipRepo.ExpireActives(ctx, today, now)
	if err != nil {
		return fmt.Errorf("MembershipRenewalSweep.Run - expire actives: %w", err)
	}
	if expired > 0 {
		s.logger.Info("[MembershipRenewalSweep] Expired memberships: count=%d", expired)
	}
	s.metrics.AddSweepRows(TaskMembershipRenewal, "expired", expired)

	// Кандидаты на продление: expired не раньше, чем windowDays назад
	windowStart := now.AddDate(0, 0, -s.windowDays)
	candidates, err := s.membershipRepo.GetRenewalCandidates(ctx, windowStart)
	if err != nil {
		return fmt.Errorf("MembershipRenewalSweep.Run - get renewal candidates: %w", err)
	}

	var renewed int64
	for _, m := range candidates {
		if err := s.renewOne(ctx, m); err != nil {
			s.logger.Warn("[MembershipRenewalSweep] Skipped renewal: membershipID=%s, userID=%s, error=%v", m.ID, m.UserID, err)
			continue
		}
		renewed++
	}
	if renewed > 0 {
		s.logger.Info("[MembershipRenewalSweep] Renewed memberships: count=%d", renewed)
	}
	s.metrics.AddSweepRows(TaskMembershipRenewal, "renewed", renewed)

	return nil
}

// renewOne продлевает один абонемент: проверяет пользователя и актуальный
// тариф, защищается от дубля активного периода и перезаписывает запись
func (s *MembershipRenewalSweep) renewOne(ctx context.Context, m *domain.Membership) error {
	// Пользователь мог быть удалён после истечения абонемента
	if _, err := s.catalogRepo.GetUser(ctx, m.UserID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return fmt.Errorf("user not found: %s", m.UserID)
		}
		return fmt.Errorf("get user %s: %w", m.UserID, err)
	}

	plan, err := s.catalogRepo.GetPlan(ctx, m.PlanID)
	if err != nil {
		if errors.Is(err, storage.ErrPlanNotFound) {
			return fmt.Errorf("plan not found: %s", m.PlanID)
		}
		return fmt.Errorf("get plan %s: %w", m.PlanID, err)
	}

	newStart, newEnd := m.RenewalPeriod(plan.DurationMonths)

	// Защита от дубля: пользователь мог купить новый абонемент вручную
	exists, err := s.membershipRepo.ExistsActiveForPeriod(ctx, m.UserID, m.PlanID, newStart)
	if err != nil {
		return fmt.Errorf("check active membership: %w", err)
	}
	if exists {
		return fmt.Errorf("active membership already exists for period starting %s", newStart.Format("2006-01-02"))
	}

	m.PlanName = plan.Name
	m.Price = plan.Price
	m.DurationMonths = plan.DurationMonths
	m.StartDate = newStart
	m.EndDate = newEnd
	m.Status = domain.MembershipStatusActive
	m.Active = true
	m.ExpiredAt = nil

	if err := s.membershipRepo.Renew(ctx, m); err != nil {
		return fmt.Errorf("renew membership: %w", err)
	}

	return nil
}
