package update_booking

import (
	"time"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
	"github.com/m04kA/FitClub-BookingService/pkg/types"
)

// Request модель запроса на обновление бронирования
// nil-поля не изменяются
type Request struct {
	Actor     domain.Actor
	BookingID string

	ClassID   *string               // перенос на другое занятие (class)
	TrainerID *string               // смена тренера (personal)
	Date      *time.Time            // перенос даты
	StartTime *types.TimeString     // только для personal
	EndTime   *types.TimeString     // только для personal
	Goal      *string               // только для personal
	Status    *domain.BookingStatus // только администратор; pending/confirmed/cancelled
}

// Response модель ответа с обновлённым бронированием
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

// changesSlot возвращает true, если патч затрагивает поля,
// влияющие на разрешение слота или проверки конфликтов
func (r *Request) changesSlot() bool {
	return r.ClassID != nil || r.TrainerID != nil || r.Date != nil ||
		r.StartTime != nil || r.EndTime != nil
}
