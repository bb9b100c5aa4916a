package delete_booking

import (
	"context"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
)

type BookingService interface {
	Delete(ctx context.Context, bookingID string, actor domain.Actor) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
