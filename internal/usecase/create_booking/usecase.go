package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/FitClub-BookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/FitClub-BookingService/internal/infra/storage/catalog"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	sequenceRepo SequenceRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	sequenceRepo SequenceRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		sequenceRepo: sequenceRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверки конфликтов и вставка идут в сериализуемой транзакции;
// гонка, проскочившая мимо проверок, ловится уникальными индексами хранилища
// и возвращается как тот же конфликт
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%s, type=%s, date=%s",
		req.Actor.UserID, req.Type, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата не может быть в прошлом
	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("CreateBooking: past date %s for user=%s", req.Date.Format(domain.DateFormat), req.Actor.UserID)
		return nil, ErrPastDate
	}

	// 3. Статус по политике вызывающего: администратор может создать сразу confirmed
	status := domain.BookingStatusPending
	if req.Confirmed && req.Actor.IsAdmin() {
		status = domain.BookingStatusConfirmed
	}

	var result *domain.Booking

	// 4. Проверки и вставка в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.buildCandidate(txCtx, req, status)
		if err != nil {
			return err
		}

		// Дата создания - опорная точка retention sweep'а
		booking.CreatedDate = now

		// Выделяем человекочитаемый ID атомарным инкрементом счетчика
		seq, err := uc.sequenceRepo.Next(txCtx, domain.SequenceBooking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to allocate booking id: %v", err)
			return fmt.Errorf("%w: failed to allocate booking id: %v", ErrInternal, err)
		}
		booking.ID = domain.FormatBookingID(seq)

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return uc.translateStorageConflict(err, booking)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s status=%s", result.ID, result.Status)
	return FromDomainBooking(result), nil
}

// buildCandidate применяет правила конфликтов и вместимости в порядке:
// сущность существует -> слот разрешается -> вместимость -> занятость тренера -> дубликат.
// Первая сработавшая проверка выигрывает
func (uc *UseCase) buildCandidate(ctx context.Context, req *Request, status domain.BookingStatus) (*domain.Booking, error) {
	switch req.Type {
	case domain.BookingTypeClass:
		return uc.buildClassCandidate(ctx, req, status)
	default:
		return uc.buildPersonalCandidate(ctx, req, status)
	}
}

func (uc *UseCase) buildClassCandidate(ctx context.Context, req *Request, status domain.BookingStatus) (*domain.Booking, error) {
	class, err := uc.catalogRepo.GetClass(ctx, *req.ClassID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrClassNotFound) {
			uc.logger.Warn("CreateBooking: class id=%s not found", *req.ClassID)
			return nil, ErrClassNotFound
		}
		uc.logger.Error("CreateBooking: failed to get class id=%s: %v", *req.ClassID, err)
		return nil, fmt.Errorf("%w: failed to get class: %v", ErrInternal, err)
	}

	// Авторитетное время слота определяет расписание занятия, не запрос
	slot, err := class.ResolveSlot(req.Date)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotScheduled):
			uc.logger.Warn("CreateBooking: class id=%s not scheduled on %s", class.ID, req.Date.Format(domain.DateFormat))
			return nil, ErrNotScheduled
		case errors.Is(err, domain.ErrSlotCancelled):
			uc.logger.Warn("CreateBooking: class id=%s occurrence cancelled on %s", class.ID, req.Date.Format(domain.DateFormat))
			return nil, ErrSlotCancelled
		default:
			return nil, fmt.Errorf("%w: failed to resolve slot: %v", ErrInternal, err)
		}
	}

	if class.HasCapacityLimit() {
		count, err := uc.bookingRepo.CountForClassSlot(ctx, class.ID, req.Date, slot.StartTime, nil)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count class slot bookings: %v", err)
			return nil, fmt.Errorf("%w: failed to count class slot bookings: %v", ErrInternal, err)
		}
		if count >= *class.Capacity {
			uc.logger.Warn("CreateBooking: class id=%s slot full, %d/%d spots taken", class.ID, count, *class.Capacity)
			return nil, ErrCapacityExceeded
		}
	}

	duplicate, err := uc.bookingRepo.ExistsUserClassBooking(ctx, req.Actor.UserID, class.ID, req.Date, slot.StartTime, nil)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to check duplicate class booking: %v", err)
		return nil, fmt.Errorf("%w: failed to check duplicate booking: %v", ErrInternal, err)
	}
	if duplicate {
		uc.logger.Warn("CreateBooking: duplicate class booking, user=%s class=%s", req.Actor.UserID, class.ID)
		return nil, ErrDuplicateBooking
	}

	return &domain.Booking{
		Type:            domain.BookingTypeClass,
		UserID:          req.Actor.UserID,
		ClassID:         &class.ID,
		TrainerID:       class.TrainerID,
		Date:            req.Date,
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		DurationMinutes: slot.DurationMinutes,
		Status:          status,
	}, nil
}

func (uc *UseCase) buildPersonalCandidate(ctx context.Context, req *Request, status domain.BookingStatus) (*domain.Booking, error) {
	trainer, err := uc.catalogRepo.GetTrainer(ctx, *req.TrainerID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTrainerNotFound) {
			uc.logger.Warn("CreateBooking: trainer id=%s not found", *req.TrainerID)
			return nil, ErrTrainerNotFound
		}
		uc.logger.Error("CreateBooking: failed to get trainer id=%s: %v", *req.TrainerID, err)
		return nil, fmt.Errorf("%w: failed to get trainer: %v", ErrInternal, err)
	}

	// Длительность персональной тренировки задаёт сам пользователь
	slot, err := domain.ResolvePersonalSlot(req.StartTime, req.EndTime)
	if err != nil {
		uc.logger.Warn("CreateBooking: invalid time range %s-%s for user=%s", req.StartTime, req.EndTime, req.Actor.UserID)
		return nil, ErrInvalidTimeRange
	}

	conflict, err := uc.bookingRepo.ExistsTrainerConflict(ctx, trainer.ID, req.Date, slot.StartTime, nil)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to check trainer conflict: %v", err)
		return nil, fmt.Errorf("%w: failed to check trainer conflict: %v", ErrInternal, err)
	}
	if conflict {
		uc.logger.Warn("CreateBooking: trainer id=%s busy at %s %s", trainer.ID, req.Date.Format(domain.DateFormat), slot.StartTime)
		return nil, ErrTrainerUnavailable
	}

	duplicate, err := uc.bookingRepo.ExistsUserTrainerBooking(ctx, req.Actor.UserID, trainer.ID, req.Date, slot.StartTime, nil)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to check duplicate personal booking: %v", err)
		return nil, fmt.Errorf("%w: failed to check duplicate booking: %v", ErrInternal, err)
	}
	if duplicate {
		uc.logger.Warn("CreateBooking: duplicate personal booking, user=%s trainer=%s", req.Actor.UserID, trainer.ID)
		return nil, ErrDuplicateBooking
	}

	return &domain.Booking{
		Type:            domain.BookingTypePersonal,
		UserID:          req.Actor.UserID,
		TrainerID:       trainer.ID,
		Date:            req.Date,
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		DurationMinutes: slot.DurationMinutes,
		Goal:            req.Goal,
		Status:          status,
	}, nil
}

// translateStorageConflict мапит нарушение уникального индекса на пользовательский
// конфликт: проигравший гонку запрос получает тот же ответ, что и при
// обычной проверке, а не 500
func (uc *UseCase) translateStorageConflict(err error, b *domain.Booking) error {
	switch {
	case errors.Is(err, bookingRepo.ErrTrainerSlotTaken):
		uc.logger.Warn("CreateBooking: lost race for trainer slot, user=%s trainer=%s", b.UserID, b.TrainerID)
		return ErrTrainerUnavailable
	case errors.Is(err, bookingRepo.ErrDuplicateBooking):
		uc.logger.Warn("CreateBooking: lost race, duplicate booking user=%s", b.UserID)
		return ErrDuplicateBooking
	default:
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}
}
