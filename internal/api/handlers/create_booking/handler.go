package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/FitClub-BookingService/internal/api/handlers"
	"github.com/m04kA/FitClub-BookingService/internal/api/middleware"
	createBooking "github.com/m04kA/FitClub-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgClassNotFound      = "занятие не найдено"
	msgTrainerNotFound    = "тренер не найден"
	msgNotScheduled       = "занятие не проводится в выбранный день"
	msgSlotCancelled      = "занятие отменено на выбранную дату"
	msgCapacityExceeded   = "все места на занятие заняты"
	msgTrainerUnavailable = "тренер занят в выбранное время"
	msgDuplicateBooking   = "бронирование этого слота уже существует"
	msgInvalidTimeRange   = "время окончания должно быть позже времени начала"
	msgPastDate           = "дата бронирования уже прошла"
	msgInvalidInput       = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrClassNotFound):
			h.logger.Warn("POST /bookings - Class not found: user_id=%s", actor.UserID)
			handlers.RespondNotFound(w, msgClassNotFound)

		case errors.Is(err, createBooking.ErrTrainerNotFound):
			h.logger.Warn("POST /bookings - Trainer not found: user_id=%s", actor.UserID)
			handlers.RespondNotFound(w, msgTrainerNotFound)

		case errors.Is(err, createBooking.ErrNotScheduled):
			h.logger.Warn("POST /bookings - Class not scheduled: user_id=%s, date=%s", actor.UserID, req.Date)
			handlers.RespondError(w, http.StatusConflict, msgNotScheduled)

		case errors.Is(err, createBooking.ErrSlotCancelled):
			h.logger.Warn("POST /bookings - Slot cancelled: user_id=%s, date=%s", actor.UserID, req.Date)
			handlers.RespondError(w, http.StatusConflict, msgSlotCancelled)

		case errors.Is(err, createBooking.ErrCapacityExceeded):
			h.logger.Warn("POST /bookings - Capacity exceeded: user_id=%s, date=%s", actor.UserID, req.Date)
			handlers.RespondError(w, http.StatusConflict, msgCapacityExceeded)

		case errors.Is(err, createBooking.ErrTrainerUnavailable):
			h.logger.Warn("POST /bookings - Trainer unavailable: user_id=%s, date=%s", actor.UserID, req.Date)
			handlers.RespondError(w, http.StatusConflict, msgTrainerUnavailable)

		case errors.Is(err, createBooking.ErrDuplicateBooking):
			h.logger.Warn("POST /bookings - Duplicate booking: user_id=%s, date=%s", actor.UserID, req.Date)
			handlers.RespondError(w, http.StatusConflict, msgDuplicateBooking)

		case errors.Is(err, createBooking.ErrInvalidTimeRange):
			h.logger.Warn("POST /bookings - Invalid time range: user_id=%s", actor.UserID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, createBooking.ErrPastDate):
			h.logger.Warn("POST /bookings - Past date: user_id=%s, date=%s", actor.UserID, req.Date)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%s, error=%v", actor.UserID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%s, error=%v", actor.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, user_id=%s, status=%s",
		result.ID, actor.UserID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
