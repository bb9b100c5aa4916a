package update_booking_status

import (
	"context"

	"github.com/m04kA/FitClub-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	SetStatus(ctx context.Context, bookingID string, req *models.SetStatusRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
