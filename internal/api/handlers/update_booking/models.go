package update_booking

import (
	"time"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
	updateBooking "github.com/m04kA/FitClub-BookingService/internal/usecase/update_booking"
	"github.com/m04kA/FitClub-BookingService/pkg/types"
)

// UpdateBookingRequest HTTP request model (PATCH-семантика: nil-поля не меняются)
type UpdateBookingRequest struct {
	ClassID   *string `json:"classId,omitempty"`
	TrainerID *string `json:"trainerId,omitempty"`
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Goal      *string `json:"goal,omitempty"`
	Status    *string `json:"bookingStatus,omitempty"` // только администратор
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              string  `json:"id"`
	BookingType     string  `json:"bookingType"`
	UserID          string  `json:"userId"`
	ClassID         *string `json:"classId,omitempty"`
	TrainerID       string  `json:"trainerId"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Goal            *string `json:"goal,omitempty"`
	Status          string  `json:"bookingStatus"`
	CreatedDate     string  `json:"createdDate"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(bookingID string, actor domain.Actor) (*updateBooking.Request, error) {
	req := &updateBooking.Request{
		Actor:     actor,
		BookingID: bookingID,
		ClassID:   r.ClassID,
		TrainerID: r.TrainerID,
		Goal:      r.Goal,
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}
	if r.StartTime != nil {
		startTime, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = &startTime
	}
	if r.EndTime != nil {
		endTime, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return nil, err
		}
		req.EndTime = &endTime
	}
	if r.Status != nil {
		status := domain.BookingStatus(*r.Status)
		req.Status = &status
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		BookingType:     string(resp.Type),
		UserID:          resp.UserID,
		ClassID:         resp.ClassID,
		TrainerID:       resp.TrainerID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Goal:            resp.Goal,
		Status:          resp.Status,
		CreatedDate:     resp.CreatedDate.Format(domain.DateFormat),
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
