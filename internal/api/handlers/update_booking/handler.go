package update_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/FitClub-BookingService/internal/api/handlers"
	"github.com/m04kA/FitClub-BookingService/internal/api/middleware"
	updateBooking "github.com/m04kA/FitClub-BookingService/internal/usecase/update_booking"
)

const (
	msgMissingBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgNotEditable        = "бронирование больше нельзя изменить"
	msgStatusNotAllowed   = "недопустимая смена статуса"
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
	useCase UpdateBookingUseCase
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID := vars["bookingId"]
	if bookingID == "" {
		h.logger.Warn("PATCH /bookings/{id} - Missing booking ID")
		handlers.RespondBadRequest(w, msgMissingBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, actor)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateBooking.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id} - Access denied: booking_id=%s, user_id=%s", bookingID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, updateBooking.ErrNotEditable):
			h.logger.Warn("PATCH /bookings/{id} - Booking not editable: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgNotEditable)

		case errors.Is(err, updateBooking.ErrStatusNotAllowed):
			h.logger.Warn("PATCH /bookings/{id} - Status not allowed: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgStatusNotAllowed)

		case errors.Is(err, updateBooking.ErrClassNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Class not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgClassNotFound)

		case errors.Is(err, updateBooking.ErrTrainerNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Trainer not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgTrainerNotFound)

		case errors.Is(err, updateBooking.ErrNotScheduled):
			h.logger.Warn("PATCH /bookings/{id} - Class not scheduled: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgNotScheduled)

		case errors.Is(err, updateBooking.ErrSlotCancelled):
			h.logger.Warn("PATCH /bookings/{id} - Slot cancelled: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgSlotCancelled)

		case errors.Is(err, updateBooking.ErrCapacityExceeded):
			h.logger.Warn("PATCH /bookings/{id} - Capacity exceeded: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgCapacityExceeded)

		case errors.Is(err, updateBooking.ErrTrainerUnavailable):
			h.logger.Warn("PATCH /bookings/{id} - Trainer unavailable: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgTrainerUnavailable)

		case errors.Is(err, updateBooking.ErrDuplicateBooking):
			h.logger.Warn("PATCH /bookings/{id} - Duplicate booking: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgDuplicateBooking)

		case errors.Is(err, updateBooking.ErrInvalidTimeRange):
			h.logger.Warn("PATCH /bookings/{id} - Invalid time range: booking_id=%s", bookingID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, updateBooking.ErrPastDate):
			h.logger.Warn("PATCH /bookings/{id} - Past date: booking_id=%s", bookingID)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, updateBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id} - Invalid input: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to update booking: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("PATCH /bookings/{id} - Booking updated successfully: booking_id=%s, user_id=%s",
		bookingID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
