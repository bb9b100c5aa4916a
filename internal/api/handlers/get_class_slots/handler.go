package get_class_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/FitClub-BookingService/internal/api/handlers"
	"github.com/m04kA/FitClub-BookingService/internal/domain"
	getClassSlots "github.com/m04kA/FitClub-BookingService/internal/usecase/get_class_slots"
)

const (
	msgMissingClassID = "некорректный ID занятия"
	msgInvalidFrom    = "некорректный формат даты from, ожидается YYYY-MM-DD"
	msgInvalidDays    = "некорректное значение days"
	msgClassNotFound  = "занятие не найдено"
	msgInvalidInput   = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetClassSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetClassSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/classes/{classId}/slots?from=&days=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	classID := vars["classId"]
	if classID == "" {
		h.logger.Warn("GET /classes/{id}/slots - Missing class ID")
		handlers.RespondBadRequest(w, msgMissingClassID)
		return
	}

	req := &getClassSlots.Request{
		ClassID: classID,
	}

	query := r.URL.Query()
	if v := query.Get("from"); v != "" {
		from, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			h.logger.Warn("GET /classes/{id}/slots - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
		req.From = from
	}
	if v := query.Get("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 1 {
			h.logger.Warn("GET /classes/{id}/slots - Invalid days value: %s", v)
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
		req.Days = days
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getClassSlots.ErrClassNotFound):
			h.logger.Warn("GET /classes/{id}/slots - Class not found: class_id=%s", classID)
			handlers.RespondNotFound(w, msgClassNotFound)

		case errors.Is(err, getClassSlots.ErrInvalidInput):
			h.logger.Warn("GET /classes/{id}/slots - Invalid input: class_id=%s, error=%v", classID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /classes/{id}/slots - Failed to get slots: class_id=%s, error=%v", classID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /classes/{id}/slots - Slots retrieved successfully: class_id=%s, occurrences=%d",
		classID, len(response.Occurrences))
	handlers.RespondJSON(w, http.StatusOK, response)
}
