package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
	"github.com/m04kA/FitClub-BookingService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	CountForClassSlot(ctx context.Context, classID string, date time.Time, startTime types.TimeString, excludeID *string) (int, error)
	ExistsTrainerConflict(ctx context.Context, trainerID string, date time.Time, startTime types.TimeString, excludeID *string) (bool, error)
	ExistsUserClassBooking(ctx context.Context, userID, classID string, date time.Time, startTime types.TimeString, excludeID *string) (bool, error)
	ExistsUserTrainerBooking(ctx context.Context, userID, trainerID string, date time.Time, startTime types.TimeString, excludeID *string) (bool, error)
}

// CatalogRepository интерфейс репозитория каталога (занятия, тренеры)
type CatalogRepository interface {
	GetClass(ctx context.Context, id string) (*domain.Class, error)
	GetTrainer(ctx context.Context, id string) (*domain.Trainer, error)
}

// SequenceRepository интерфейс счетчика последовательностей для генерации ID
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
