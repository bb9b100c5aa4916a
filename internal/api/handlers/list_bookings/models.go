package list_bookings

import (
	"net/url"
	"time"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
	"github.com/m04kA/FitClub-BookingService/internal/service/bookings/models"
)

// parseQuery разбирает query-параметры административной выборки.
// Пустые параметры означают отсутствие фильтра
func parseQuery(query url.Values, actor domain.Actor) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{
		Actor: actor,
	}

	if v := query.Get("userId"); v != "" {
		req.UserID = &v
	}
	if v := query.Get("classId"); v != "" {
		req.ClassID = &v
	}
	if v := query.Get("trainerId"); v != "" {
		req.TrainerID = &v
	}
	if v := query.Get("status"); v != "" {
		req.Status = &v
	}
	if v := query.Get("startDate"); v != "" {
		startDate, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}
	if v := query.Get("endDate"); v != "" {
		endDate, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}
	if v := query.Get("includeInactive"); v == "true" {
		req.IncludeInactive = true
	}

	return req, nil
}
