package create_booking

import (
	"time"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
	"github.com/m04kA/FitClub-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Actor     domain.Actor       // инициатор операции
	Type      domain.BookingType // class или personal
	ClassID   *string            // обязательно для class
	TrainerID *string            // обязательно для personal
	Date      time.Time          // дата бронирования (без времени)
	StartTime types.TimeString   // только для personal: время начала
	EndTime   types.TimeString   // только для personal: время конца
	Goal      *string            // только для personal: цель тренировки
	Confirmed bool               // создать сразу подтверждённым (только администратор)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              string
	Type            domain.BookingType
	UserID          string
	ClassID         *string
	TrainerID       string
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Goal            *string
	Status          string
	CreatedDate     time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FromDomainBooking конвертирует domain модель в ответ usecase
func FromDomainBooking(b *domain.Booking) *Response {
	return &Response{
		ID:              b.ID,
		Type:            b.Type,
		UserID:          b.UserID,
		ClassID:         b.ClassID,
		TrainerID:       b.TrainerID,
		Date:            b.Date,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		DurationMinutes: b.DurationMinutes,
		Goal:            b.Goal,
		Status:          string(b.Status),
		CreatedDate:     b.CreatedDate,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
