package domain

import (
	"time"

	"github.com/m04kA/FitClub-BookingService/pkg/types"
)

// BookingType тип бронирования: групповое занятие или персональная тренировка
type BookingType string

const (
	BookingTypeClass    BookingType = "class"
	BookingTypePersonal BookingType = "personal"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking бронирование занятия или персональной тренировки
type Booking struct {
	ID        string
	Type      BookingType
	UserID    string
	ClassID   *string // только для групповых занятий
	TrainerID string  // для class - тренер занятия, для personal - выбранный тренер
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	DurationMinutes int
	Goal      *string // цель тренировки, только для personal
	Status    BookingStatus

	CreatedDate time.Time // календарный день создания, опорная точка retention
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive возвращает true, если бронирование занимает слот
// (учитывается при проверках вместимости и конфликтов)
func (b *Booking) IsActive() bool {
	return b.Status != BookingStatusCancelled
}

// IsTerminal возвращает true, если бронирование в конечном статусе
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusCompleted
}

// CanBeModifiedByOwner возвращает true, если владелец ещё может менять бронирование
func (b *Booking) CanBeModifiedByOwner() bool {
	return !b.IsTerminal()
}

// CanBeModifiedByAdmin возвращает true, если администратор ещё может менять бронирование
// Завершённые бронирования не редактируются никем
func (b *Booking) CanBeModifiedByAdmin() bool {
	return b.Status != BookingStatusCompleted
}

// CanBeCancelled возвращает true, если бронирование можно отменить
func (b *Booking) CanBeCancelled() bool {
	return !b.IsTerminal()
}

// IsValidStatus проверяет, что строка является допустимым статусом бронирования
func IsValidStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// BookingsFilter фильтр для административной выборки бронирований
type BookingsFilter struct {
	UserID    *string
	ClassID   *string
	TrainerID *string
	Status    *BookingStatus
	StartDate *time.Time // начало периода (опционально)
	EndDate   *time.Time // конец периода (опционально)
	IncludeInactive bool // включать ли отменённые бронирования
}

// SlotKey ключ конкретного вхождения слота: сущность + дата + время начала
// По нему считаются вместимость и конфликты
type SlotKey struct {
	Date      time.Time
	StartTime types.TimeString
}
