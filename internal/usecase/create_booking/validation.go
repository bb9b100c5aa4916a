package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Actor.UserID == "" {
		return fmt.Errorf("%w: actor userID is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	switch req.Type {
	case domain.BookingTypeClass:
		if req.ClassID == nil || *req.ClassID == "" {
			return fmt.Errorf("%w: classID is required for class bookings", ErrInvalidInput)
		}
	case domain.BookingTypePersonal:
		if req.TrainerID == nil || *req.TrainerID == "" {
			return fmt.Errorf("%w: trainerID is required for personal bookings", ErrInvalidInput)
		}
		if req.StartTime.IsZero() || req.EndTime.IsZero() {
			return fmt.Errorf("%w: startTime and endTime are required for personal bookings", ErrInvalidInput)
		}
		if err := req.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
		}
		if err := req.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
		}
	default:
		return fmt.Errorf("%w: unknown booking type %q", ErrInvalidInput, req.Type)
	}

	return nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
