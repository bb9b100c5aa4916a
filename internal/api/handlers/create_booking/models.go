package create_booking

import (
	"time"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
	createBooking "github.com/m04kA/FitClub-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/FitClub-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BookingType string  `json:"bookingType"` // "class" | "personal"
	ClassID     *string `json:"classId,omitempty"`
	TrainerID   *string `json:"trainerId,omitempty"`
	Date        string  `json:"date"`                // "2024-06-10"
	StartTime   string  `json:"startTime,omitempty"` // "14:00", только для personal
	EndTime     string  `json:"endTime,omitempty"`   // "15:30", только для personal
	Goal        *string `json:"goal,omitempty"`
	Confirmed   bool    `json:"confirmed,omitempty"` // только для администратора
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
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	req := &createBooking.Request{
		Actor:     actor,
		Type:      domain.BookingType(r.BookingType),
		ClassID:   r.ClassID,
		TrainerID: r.TrainerID,
		Date:      bookingDate,
		Goal:      r.Goal,
		Confirmed: r.Confirmed,
	}

	// Время передается только для персональных тренировок
	if r.StartTime != "" {
		startTime, err := types.NewTimeStringFromString(r.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = startTime
	}
	if r.EndTime != "" {
		endTime, err := types.NewTimeStringFromString(r.EndTime)
		if err != nil {
			return nil, err
		}
		req.EndTime = endTime
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
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
