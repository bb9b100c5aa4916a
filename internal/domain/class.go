package domain

import (
	"errors"
	"time"

	"github.com/m04kA/FitClub-BookingService/pkg/types"
)

var (
	// ErrNotScheduled возвращается, когда занятие не проводится в указанный день недели
	ErrNotScheduled = errors.New("domain: class is not scheduled on this day")

	// ErrSlotCancelled возвращается, когда конкретное вхождение слота отменено
	ErrSlotCancelled = errors.New("domain: class occurrence is cancelled on this date")

	// ErrInvalidTimeRange возвращается при неположительной длительности слота
	ErrInvalidTimeRange = errors.New("domain: end time must be after start time")
)

// ScheduleEntry запись недельного расписания: день недели + интервал времени
type ScheduleEntry struct {
	Day             string // название дня недели: "Monday", "Tuesday", ...
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}

// ClassCancellation отмена конкретного вхождения слота занятия
type ClassCancellation struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Class групповое занятие из каталога
// Принадлежит административной части платформы; ядро читает его без изменений
type Class struct {
	ID            string
	Name          string
	TrainerID     string
	Capacity      *int // nil = без ограничения мест
	Schedule      []ScheduleEntry
	Cancellations []ClassCancellation
}

// ResolvedSlot авторитетное время конкретного вхождения слота
type ResolvedSlot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}

// ResolveSlot возвращает время проведения занятия в указанную дату
// Ищет запись расписания по дню недели (первое совпадение выигрывает),
// затем проверяет отмену этого вхождения по дате и времени начала
func (c *Class) ResolveSlot(date time.Time) (*ResolvedSlot, error) {
	weekday := date.Weekday().String()

	var entry *ScheduleEntry
	for i := range c.Schedule {
		if c.Schedule[i].Day == weekday {
			entry = &c.Schedule[i]
			break
		}
	}
	if entry == nil {
		return nil, ErrNotScheduled
	}

	for _, cancellation := range c.Cancellations {
		if sameDay(cancellation.Date, date) && cancellation.StartTime == entry.StartTime {
			return nil, ErrSlotCancelled
		}
	}

	duration := entry.DurationMinutes
	if duration == 0 {
		minutes, err := entry.StartTime.MinutesUntil(entry.EndTime)
		if err != nil {
			return nil, err
		}
		duration = minutes
	}

	return &ResolvedSlot{
		StartTime:       entry.StartTime,
		EndTime:         entry.EndTime,
		DurationMinutes: duration,
	}, nil
}

// HasCapacityLimit возвращает true, если у занятия ограничено число мест
func (c *Class) HasCapacityLimit() bool {
	return c.Capacity != nil
}

// ResolvePersonalSlot вычисляет слот персональной тренировки
// из времени начала и конца, заданных пользователем
func ResolvePersonalSlot(startTime, endTime types.TimeString) (*ResolvedSlot, error) {
	duration, err := startTime.MinutesUntil(endTime)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, ErrInvalidTimeRange
	}
	return &ResolvedSlot{
		StartTime:       startTime,
		EndTime:         endTime,
		DurationMinutes: duration,
	}, nil
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
