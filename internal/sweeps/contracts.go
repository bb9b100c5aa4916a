package sweeps

import (
	"context"
	"time"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований для sweep'ов
type BookingRepository interface {
	CompletePastBookings(ctx context.Context, before time.Time) (int64, error)
	DeleteAgedTerminal(ctx context.Context, createdBefore time.Time) (int64, error)
}

// MembershipRepository интерфейс репозитория абонементов для sweep'ов
type MembershipRepository interface {
	ExpireActives(ctx context.Context, before time.Time, now time.Time) (int64, error)
	GetRenewalCandidates(ctx context.Context, expiredAfter time.Time) ([]*domain.Membership, error)
	ExistsActiveForPeriod(ctx context.Context, userID, planID string, startDate time.Time) (bool, error)
	Renew(ctx context.Context, m *domain.Membership) error
	DeleteAgedExpired(ctx context.Context, endBefore time.Time) (int64, error)
}

// CatalogRepository интерфейс репозитория каталога для sweep'ов
type CatalogRepository interface {
	GetPlan(ctx context.Context, id string) (*domain.Plan, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics интерфейс метрик фоновых задач
type Metrics interface {
	AddSweepRows(task, action string, rows int64)
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// nopMetrics заглушка на случай отключённых метрик
type nopMetrics struct{}

func (nopMetrics) AddSweepRows(task, action string, rows int64) {}

// truncateToDay обнуляет время, оставляя календарный день
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
