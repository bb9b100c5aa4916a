package get_class_slots

import (
	"context"

	getClassSlots "github.com/m04kA/FitClub-BookingService/internal/usecase/get_class_slots"
)

type GetClassSlotsUseCase interface {
	Execute(ctx context.Context, req *getClassSlots.Request) (*getClassSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
