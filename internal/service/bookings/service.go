package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/FitClub-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/FitClub-BookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только своё бронирование; администратор - любое
func (s *Service) GetByID(ctx context.Context, id string, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, actor.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !actor.IsAdmin() && !actor.Owns(booking.UserID) {
		s.logger.Warn("GetByID: access denied for user=%s to booking id=%s", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Пользователь видит только свою историю; администратор - любую
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%s, status=%v", req.UserID, req.Status)

	if !req.Actor.IsAdmin() && !req.Actor.Owns(req.UserID) {
		s.logger.Warn("GetUserBookings: access denied for user=%s to history of user=%s", req.Actor.UserID, req.UserID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%s", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// ListBookings административная выборка бронирований с фильтрацией
// по пользователю, занятию, тренеру, статусу и периоду
func (s *Service) ListBookings(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListBookings: requested by user=%s", req.Actor.UserID)

	if !req.Actor.IsAdmin() {
		s.logger.Warn("ListBookings: access denied for user=%s", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBookings: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Пользователь отменяет только своё; администратор - любое незавершённое.
// Повторная отмена - идемпотентная ошибка, состояние не меняется
func (s *Service) Cancel(ctx context.Context, bookingID string, actor domain.Actor) error {
	s.logger.Info("Cancel: cancelling booking id=%s by user=%s", bookingID, actor.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%s not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !actor.IsAdmin() && !actor.Owns(booking.UserID) {
		s.logger.Warn("Cancel: access denied for user=%s to booking id=%s", actor.UserID, bookingID)
		return ErrAccessDenied
	}

	if booking.Status == domain.BookingStatusCancelled {
		s.logger.Warn("Cancel: booking id=%s is already cancelled", bookingID)
		return ErrAlreadyCancelled
	}
	if booking.Status == domain.BookingStatusCompleted {
		s.logger.Warn("Cancel: booking id=%s is completed, cannot cancel", bookingID)
		return ErrCannotCancel
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.BookingStatusCancelled); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%s", bookingID)
	return nil
}

// SetStatus обновляет статус бронирования через выделенный административный endpoint
// Допустимы только confirmed и cancelled - набор уже, чем в общем пути
// обновления (там администратору доступен и pending); асимметрия намеренная
func (s *Service) SetStatus(ctx context.Context, bookingID string, req *models.SetStatusRequest) error {
	s.logger.Info("SetStatus: updating booking id=%s to status=%s by user=%s",
		bookingID, req.Status, req.Actor.UserID)

	if !req.Actor.IsAdmin() {
		s.logger.Warn("SetStatus: access denied for user=%s", req.Actor.UserID)
		return ErrAccessDenied
	}

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("SetStatus: invalid status=%s for booking id=%s", req.Status, bookingID)
		return fmt.Errorf("%w: invalid status", ErrInvalidStatus)
	}

	allowed := false
	for _, st := range domain.AdminSetStatusStatuses {
		if st == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		s.logger.Warn("SetStatus: status=%s not allowed for booking id=%s", newStatus, bookingID)
		return ErrStatusNotAllowed
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("SetStatus: booking id=%s not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("SetStatus: repository error for booking id=%s: %v", bookingID, err)
		return fmt.Errorf("%w: SetStatus - repository error: %v", ErrInternal, err)
	}

	// Завершённые бронирования не редактируются
	if !booking.CanBeModifiedByAdmin() {
		s.logger.Warn("SetStatus: booking id=%s is completed", bookingID)
		return ErrNotEditable
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("SetStatus: repository error for booking id=%s: %v", bookingID, err)
		return fmt.Errorf("%w: SetStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetStatus: successfully updated booking id=%s to status=%s", bookingID, newStatus)
	return nil
}

// Delete физически удаляет бронирование (административная операция)
func (s *Service) Delete(ctx context.Context, bookingID string, actor domain.Actor) error {
	s.logger.Info("Delete: deleting booking id=%s by user=%s", bookingID, actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("Delete: access denied for user=%s", actor.UserID)
		return ErrAccessDenied
	}

	if err := s.bookingRepo.Delete(ctx, bookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Delete: booking id=%s not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%s: %v", bookingID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted booking id=%s", bookingID)
	return nil
}
