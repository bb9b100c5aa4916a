package get_class_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
	catalogRepo "github.com/m04kA/FitClub-BookingService/internal/infra/storage/catalog"
)

// UseCase use case для получения доступных вхождений слотов занятия
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает вхождения слотов занятия на период вперёд
// Отменённые вхождения не включаются; для занятий с ограничением мест
// считается остаток по неотменённым бронированиям
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetClassSlots: class=%s, days=%d", req.ClassID, req.Days)

	if req.ClassID == "" {
		return nil, fmt.Errorf("%w: classID is required", ErrInvalidInput)
	}

	days := req.Days
	if days <= 0 {
		days = 7
	}
	if days > MaxDays {
		return nil, fmt.Errorf("%w: days must not exceed %d", ErrInvalidInput, MaxDays)
	}

	from := req.From
	if from.IsZero() {
		from = uc.timeProvider.Now()
	}
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())

	class, err := uc.catalogRepo.GetClass(ctx, req.ClassID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrClassNotFound) {
			uc.logger.Warn("GetClassSlots: class id=%s not found", req.ClassID)
			return nil, ErrClassNotFound
		}
		uc.logger.Error("GetClassSlots: failed to get class id=%s: %v", req.ClassID, err)
		return nil, fmt.Errorf("%w: failed to get class: %v", ErrInternal, err)
	}

	occurrences := make([]Occurrence, 0)

	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i)

		slot, err := class.ResolveSlot(date)
		if err != nil {
			// Нет расписания на этот день недели или вхождение отменено
			if errors.Is(err, domain.ErrNotScheduled) || errors.Is(err, domain.ErrSlotCancelled) {
				continue
			}
			uc.logger.Error("GetClassSlots: failed to resolve slot for %s: %v", date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: failed to resolve slot: %v", ErrInternal, err)
		}

		occurrence := Occurrence{
			Date:            date,
			StartTime:       slot.StartTime,
			EndTime:         slot.EndTime,
			DurationMinutes: slot.DurationMinutes,
		}

		if class.HasCapacityLimit() {
			count, err := uc.bookingRepo.CountForClassSlot(ctx, class.ID, date, slot.StartTime, nil)
			if err != nil {
				uc.logger.Error("GetClassSlots: failed to count bookings for %s: %v", date.Format(domain.DateFormat), err)
				return nil, fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
			}

			available := *class.Capacity - count
			if available < 0 {
				available = 0
			}
			occurrence.AvailableSpots = &available
			occurrence.TotalSpots = class.Capacity
		}

		occurrences = append(occurrences, occurrence)
	}

	uc.logger.Info("GetClassSlots: class=%s, %d occurrences found", class.ID, len(occurrences))

	return &Response{
		ClassID:     class.ID,
		ClassName:   class.Name,
		Occurrences: occurrences,
	}, nil
}
