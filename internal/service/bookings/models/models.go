package models

import (
	"errors"
	"time"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetUserBookingsRequest запрос истории бронирований пользователя
type GetUserBookingsRequest struct {
	Actor  domain.Actor
	UserID string
	Status *string
}

// ListBookingsRequest административная выборка бронирований
type ListBookingsRequest struct {
	Actor           domain.Actor
	UserID          *string
	ClassID         *string
	TrainerID       *string
	Status          *string
	StartDate       *time.Time
	EndDate         *time.Time
	IncludeInactive bool
}

// SetStatusRequest запрос на смену статуса бронирования (админский endpoint)
type SetStatusRequest struct {
	Actor  domain.Actor
	Status string
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		UserID:          r.UserID,
		ClassID:         r.ClassID,
		TrainerID:       r.TrainerID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              string  `json:"id"`
	Type            string  `json:"bookingType"`
	UserID          string  `json:"userId"`
	ClassID         *string `json:"classId,omitempty"`
	TrainerID       string  `json:"trainerId"`
	Date            string  `json:"date"`      // "2024-06-10"
	StartTime       string  `json:"startTime"` // "07:00"
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Goal            *string `json:"goal,omitempty"`
	Status          string  `json:"bookingStatus"`
	CreatedDate     string  `json:"createdDate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:              b.ID,
		Type:            string(b.Type),
		UserID:          b.UserID,
		ClassID:         b.ClassID,
		TrainerID:       b.TrainerID,
		Date:            b.Date.Format(domain.DateFormat),
		StartTime:       b.StartTime.String(),
		EndTime:         b.EndTime.String(),
		DurationMinutes: b.DurationMinutes,
		Goal:            b.Goal,
		Status:          string(b.Status),
		CreatedDate:     b.CreatedDate.Format(domain.DateFormat),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !domain.IsValidStatus(s) {
		return "", ErrInvalidStatus
	}
	return s, nil
}
