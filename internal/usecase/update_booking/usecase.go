package update_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/FitClub-BookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/FitClub-BookingService/internal/infra/storage/catalog"
)

// UseCase use case для обновления бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case обновления бронирования
// Права: владелец меняет только своё бронирование и только до конечного статуса;
// администратор - любое, кроме завершённых, и дополнительно статус
// (pending/confirmed/cancelled; completed выставляет только sweep)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBooking: id=%s by user=%s role=%s", req.BookingID, req.Actor.UserID, req.Actor.Role)

	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("UpdateBooking: booking id=%s not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("UpdateBooking: repository error for id=%s: %v", req.BookingID, err)
			return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
		}

		if err := uc.checkPermissions(current, req); err != nil {
			return err
		}

		updated := *current
		uc.applyPatch(&updated, req)

		// Перенос на прошедшую дату запрещён
		if req.Date != nil && isDateInPast(*req.Date, uc.timeProvider.Now()) {
			uc.logger.Warn("UpdateBooking: past date %s for id=%s", req.Date.Format(domain.DateFormat), req.BookingID)
			return ErrPastDate
		}

		// Изменение слота требует повторного разрешения и проверок конфликтов,
		// исключая из подсчётов само обновляемое бронирование
		if req.changesSlot() {
			if err := uc.revalidateSlot(txCtx, &updated); err != nil {
				return err
			}
		}

		if err := uc.bookingRepo.Update(txCtx, &updated); err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrTrainerSlotTaken):
				uc.logger.Warn("UpdateBooking: lost race for trainer slot, id=%s", updated.ID)
				return ErrTrainerUnavailable
			case errors.Is(err, bookingRepo.ErrDuplicateBooking):
				uc.logger.Warn("UpdateBooking: lost race, duplicate booking id=%s", updated.ID)
				return ErrDuplicateBooking
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				return ErrBookingNotFound
			default:
				uc.logger.Error("UpdateBooking: failed to update id=%s: %v", updated.ID, err)
				return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
			}
		}

		result = &updated
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateBooking: successfully updated booking id=%s", result.ID)
	return FromDomainBooking(result), nil
}

// checkPermissions применяет гейт прав доступа и допустимости статуса
func (uc *UseCase) checkPermissions(current *domain.Booking, req *Request) error {
	if req.Actor.IsAdmin() {
		if !current.CanBeModifiedByAdmin() {
			uc.logger.Warn("UpdateBooking: booking id=%s is completed, admin edit denied", current.ID)
			return ErrNotEditable
		}
	} else {
		if !req.Actor.Owns(current.UserID) {
			uc.logger.Warn("UpdateBooking: access denied for user=%s to booking id=%s", req.Actor.UserID, current.ID)
			return ErrAccessDenied
		}
		if !current.CanBeModifiedByOwner() {
			uc.logger.Warn("UpdateBooking: booking id=%s in terminal status %s, owner edit denied", current.ID, current.Status)
			return ErrNotEditable
		}
		if req.Status != nil {
			uc.logger.Warn("UpdateBooking: user=%s attempted status change on id=%s", req.Actor.UserID, current.ID)
			return ErrAccessDenied
		}
	}

	if req.Status != nil {
		if !statusAllowed(*req.Status, domain.AdminUpdateStatuses) {
			uc.logger.Warn("UpdateBooking: status %s not allowed for id=%s", *req.Status, current.ID)
			return ErrStatusNotAllowed
		}
	}

	return nil
}

// applyPatch накладывает непустые поля запроса на копию бронирования
func (uc *UseCase) applyPatch(b *domain.Booking, req *Request) {
	if req.Date != nil {
		b.Date = *req.Date
	}
	if req.Goal != nil {
		b.Goal = req.Goal
	}
	if req.Status != nil {
		b.Status = *req.Status
	}

	switch b.Type {
	case domain.BookingTypeClass:
		if req.ClassID != nil {
			b.ClassID = req.ClassID
		}
	case domain.BookingTypePersonal:
		if req.TrainerID != nil {
			b.TrainerID = *req.TrainerID
		}
		if req.StartTime != nil {
			b.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			b.EndTime = *req.EndTime
		}
	}
}

// revalidateSlot повторяет разрешение слота и проверки конфликтов
// для обновлённого бронирования, исключая его собственный ID
func (uc *UseCase) revalidateSlot(ctx context.Context, b *domain.Booking) error {
	switch b.Type {
	case domain.BookingTypeClass:
		return uc.revalidateClassSlot(ctx, b)
	default:
		return uc.revalidatePersonalSlot(ctx, b)
	}
}

func (uc *UseCase) revalidateClassSlot(ctx context.Context, b *domain.Booking) error {
	class, err := uc.catalogRepo.GetClass(ctx, *b.ClassID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrClassNotFound) {
			uc.logger.Warn("UpdateBooking: class id=%s not found", *b.ClassID)
			return ErrClassNotFound
		}
		uc.logger.Error("UpdateBooking: failed to get class id=%s: %v", *b.ClassID, err)
		return fmt.Errorf("%w: failed to get class: %v", ErrInternal, err)
	}

	slot, err := class.ResolveSlot(b.Date)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotScheduled):
			return ErrNotScheduled
		case errors.Is(err, domain.ErrSlotCancelled):
			return ErrSlotCancelled
		default:
			return fmt.Errorf("%w: failed to resolve slot: %v", ErrInternal, err)
		}
	}

	// Время снова берётся из расписания, тренер - из занятия
	b.TrainerID = class.TrainerID
	b.StartTime = slot.StartTime
	b.EndTime = slot.EndTime
	b.DurationMinutes = slot.DurationMinutes

	if class.HasCapacityLimit() {
		count, err := uc.bookingRepo.CountForClassSlot(ctx, class.ID, b.Date, slot.StartTime, &b.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to count class slot bookings: %v", ErrInternal, err)
		}
		if count >= *class.Capacity {
			uc.logger.Warn("UpdateBooking: class id=%s slot full, %d/%d spots taken", class.ID, count, *class.Capacity)
			return ErrCapacityExceeded
		}
	}

	duplicate, err := uc.bookingRepo.ExistsUserClassBooking(ctx, b.UserID, class.ID, b.Date, slot.StartTime, &b.ID)
	if err != nil {
		return fmt.Errorf("%w: failed to check duplicate booking: %v", ErrInternal, err)
	}
	if duplicate {
		return ErrDuplicateBooking
	}

	return nil
}

func (uc *UseCase) revalidatePersonalSlot(ctx context.Context, b *domain.Booking) error {
	trainer, err := uc.catalogRepo.GetTrainer(ctx, b.TrainerID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTrainerNotFound) {
			uc.logger.Warn("UpdateBooking: trainer id=%s not found", b.TrainerID)
			return ErrTrainerNotFound
		}
		uc.logger.Error("UpdateBooking: failed to get trainer id=%s: %v", b.TrainerID, err)
		return fmt.Errorf("%w: failed to get trainer: %v", ErrInternal, err)
	}

	slot, err := domain.ResolvePersonalSlot(b.StartTime, b.EndTime)
	if err != nil {
		uc.logger.Warn("UpdateBooking: invalid time range %s-%s for id=%s", b.StartTime, b.EndTime, b.ID)
		return ErrInvalidTimeRange
	}
	b.DurationMinutes = slot.DurationMinutes

	conflict, err := uc.bookingRepo.ExistsTrainerConflict(ctx, trainer.ID, b.Date, slot.StartTime, &b.ID)
	if err != nil {
		return fmt.Errorf("%w: failed to check trainer conflict: %v", ErrInternal, err)
	}
	if conflict {
		return ErrTrainerUnavailable
	}

	duplicate, err := uc.bookingRepo.ExistsUserTrainerBooking(ctx, b.UserID, trainer.ID, b.Date, slot.StartTime, &b.ID)
	if err != nil {
		return fmt.Errorf("%w: failed to check duplicate booking: %v", ErrInternal, err)
	}
	if duplicate {
		return ErrDuplicateBooking
	}

	return nil
}

func statusAllowed(status domain.BookingStatus, allowed []domain.BookingStatus) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}
