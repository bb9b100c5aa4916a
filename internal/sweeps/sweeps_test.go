package sweeps

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
	catalogRepo "github.com/m04kA/FitClub-BookingService/internal/infra/storage/catalog"
)

// --- test doubles ---

type mockBookingRepo struct {
	completed       int64
	deleted         int64
	completeBefore  time.Time
	deleteCreatedBy time.Time
	completeErr     error
}

func (m *mockBookingRepo) CompletePastBookings(ctx context.Context, before time.Time) (int64, error) {
	m.completeBefore = before
	return m.completed, m.completeErr
}

func (m *mockBookingRepo) DeleteAgedTerminal(ctx context.Context, createdBefore time.Time) (int64, error) {
	m.deleteCreatedBy = createdBefore
	return m.deleted, nil
}

type mockMembershipRepo struct {
	expired      int64
	candidates   []*domain.Membership
	activeExists bool
	renewed      []*domain.Membership
	deletedAged  int64
	endBefore    time.Time
}

func (m *mockMembershipRepo) ExpireActives(ctx context.Context, before time.Time, now time.Time) (int64, error) {
	return m.expired, nil
}

func (m *mockMembershipRepo) GetRenewalCandidates(ctx context.Context, expiredAfter time.Time) ([]*domain.Membership, error) {
	var out []*domain.Membership
	for _, c := range m.candidates {
		if c.ExpiredAt != nil && !c.ExpiredAt.Before(expiredAfter) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockMembershipRepo) ExistsActiveForPeriod(ctx context.Context, userID, planID string, startDate time.Time) (bool, error) {
	return m.activeExists, nil
}

func (m *mockMembershipRepo) Renew(ctx context.Context, mem *domain.Membership) error {
	m.renewed = append(m.renewed, mem)
	return nil
}

func (m *mockMembershipRepo) DeleteAgedExpired(ctx context.Context, endBefore time.Time) (int64, error) {
	m.endBefore = endBefore
	return m.deletedAged, nil
}

type mockCatalogRepo struct {
	plans map[string]*domain.Plan
	users map[string]*domain.User
}

func (m *mockCatalogRepo) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	p, ok := m.plans[id]
	if !ok {
		return nil, catalogRepo.ErrPlanNotFound
	}
	return p, nil
}

func (m *mockCatalogRepo) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, catalogRepo.ErrUserNotFound
	}
	return u, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// --- booking lifecycle ---

func TestBookingLifecycleSweep(t *testing.T) {
	repo := &mockBookingRepo{completed: 3, deleted: 2}
	clock := &fixedTimeProvider{now: time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC)}
	sweep := NewBookingLifecycleSweep(repo, clock, nopLogger{}, nil, 12)

	require.NoError(t, sweep.Run(context.Background()))

	// Завершаются бронирования строго раньше сегодняшнего дня
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), repo.completeBefore)
	// Срок хранения - 12 месяцев от сегодня
	assert.Equal(t, time.Date(2023, 6, 10, 0, 0, 0, 0, time.UTC), repo.deleteCreatedBy)
}

func TestBookingLifecycleSweep_CompleteError(t *testing.T) {
	repo := &mockBookingRepo{completeErr: assert.AnError}
	clock := &fixedTimeProvider{now: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)}
	sweep := NewBookingLifecycleSweep(repo, clock, nopLogger{}, nil, 12)

	err := sweep.Run(context.Background())
	assert.Error(t, err)
	// При ошибке завершения очистка не запускается
	assert.True(t, repo.deleteCreatedBy.IsZero())
}

// --- membership renewal ---

func expiredMembership(id string) *domain.Membership {
	expiredAt := time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC)
	return &domain.Membership{
		ID:             id,
		UserID:         "U1",
		PlanID:         "PL000001",
		PlanName:       "Базовый (старая цена)",
		Price:          1500,
		DurationMonths: 1,
		StartDate:      time.Date(2023, 12, 2, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:         domain.MembershipStatusExpired,
		RenewalOption:  true,
		ExpiredAt:      &expiredAt,
	}
}

func renewalSweep(memberships *mockMembershipRepo, catalog *mockCatalogRepo) *MembershipRenewalSweep {
	clock := &fixedTimeProvider{now: time.Date(2024, 1, 3, 6, 0, 0, 0, time.UTC)}
	return NewMembershipRenewalSweep(memberships, catalog, clock, nopLogger{}, nil, 7)
}

func catalogWithPlan() *mockCatalogRepo {
	return &mockCatalogRepo{
		plans: map[string]*domain.Plan{
			"PL000001": {ID: "PL000001", Name: "Базовый", DurationMonths: 1, Price: 2000},
		},
		users: map[string]*domain.User{
			"U1": {ID: "U1", Name: "Иван"},
		},
	}
}

func TestMembershipRenewalSweep_Renews(t *testing.T) {
	memberships := &mockMembershipRepo{candidates: []*domain.Membership{expiredMembership("MS000001")}}
	sweep := renewalSweep(memberships, catalogWithPlan())

	require.NoError(t, sweep.Run(context.Background()))

	require.Len(t, memberships.renewed, 1)
	renewed := memberships.renewed[0]

	// Новый период начинается на следующий день после конца старого
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), renewed.StartDate)
	assert.Equal(t, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), renewed.EndDate)

	// Снапшот обновлён по актуальному тарифу
	assert.Equal(t, "Базовый", renewed.PlanName)
	assert.Equal(t, 2000.0, renewed.Price)

	assert.Equal(t, domain.MembershipStatusActive, renewed.Status)
	assert.True(t, renewed.Active)
	assert.Nil(t, renewed.ExpiredAt)
}

func TestMembershipRenewalSweep_DuplicateGuard(t *testing.T) {
	// Пользователь уже купил новый абонемент вручную
	memberships := &mockMembershipRepo{
		candidates:   []*domain.Membership{expiredMembership("MS000001")},
		activeExists: true,
	}
	sweep := renewalSweep(memberships, catalogWithPlan())

	require.NoError(t, sweep.Run(context.Background()))
	assert.Empty(t, memberships.renewed)
}

func TestMembershipRenewalSweep_SkipsMissingPlan(t *testing.T) {
	memberships := &mockMembershipRepo{candidates: []*domain.Membership{expiredMembership("MS000001")}}
	catalog := catalogWithPlan()
	delete(catalog.plans, "PL000001")
	sweep := renewalSweep(memberships, catalog)

	// Тариф удалён: абонемент пропускается, проход не падает
	require.NoError(t, sweep.Run(context.Background()))
	assert.Empty(t, memberships.renewed)
}

func TestMembershipRenewalSweep_SkipsMissingUser(t *testing.T) {
	memberships := &mockMembershipRepo{candidates: []*domain.Membership{expiredMembership("MS000001")}}
	catalog := catalogWithPlan()
	delete(catalog.users, "U1")
	sweep := renewalSweep(memberships, catalog)

	require.NoError(t, sweep.Run(context.Background()))
	assert.Empty(t, memberships.renewed)
}

func TestMembershipRenewalSweep_WindowExcludesOld(t *testing.T) {
	old := expiredMembership("MS000002")
	// expired 30 дней назад - вне окна продления
	expiredAt := time.Date(2023, 12, 4, 0, 0, 0, 0, time.UTC)
	old.ExpiredAt = &expiredAt

	memberships := &mockMembershipRepo{candidates: []*domain.Membership{old}}
	sweep := renewalSweep(memberships, catalogWithPlan())

	require.NoError(t, sweep.Run(context.Background()))
	assert.Empty(t, memberships.renewed)
}

func TestMembershipRenewalSweep_OneFailureDoesNotStopOthers(t *testing.T) {
	broken := expiredMembership("MS000001")
	broken.PlanID = "PL999999"
	ok := expiredMembership("MS000002")

	memberships := &mockMembershipRepo{candidates: []*domain.Membership{broken, ok}}
	sweep := renewalSweep(memberships, catalogWithPlan())

	require.NoError(t, sweep.Run(context.Background()))
	require.Len(t, memberships.renewed, 1)
	assert.Equal(t, "MS000002", memberships.renewed[0].ID)
}

// --- membership retention ---

func TestMembershipRetentionSweep(t *testing.T) {
	memberships := &mockMembershipRepo{deletedAged: 4}
	clock := &fixedTimeProvider{now: time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)}
	sweep := NewMembershipRetentionSweep(memberships, clock, nopLogger{}, nil, 6)

	require.NoError(t, sweep.Run(context.Background()))
	assert.Equal(t, time.Date(2023, 12, 10, 0, 0, 0, 0, time.UTC), memberships.endBefore)
}
