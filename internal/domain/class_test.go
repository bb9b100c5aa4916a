package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/FitClub-BookingService/pkg/types"
)

func yogaClass() *Class {
	return &Class{
		ID:        "CL000001",
		Name:      "Утренняя йога",
		TrainerID: "TR000001",
		Schedule: []ScheduleEntry{
			{Day: "Monday", StartTime: "07:00", EndTime: "09:00", DurationMinutes: 120},
			{Day: "Thursday", StartTime: "18:00", EndTime: "19:00", DurationMinutes: 60},
		},
		Cancellations: []ClassCancellation{
			{Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), StartTime: "07:00"},
		},
	}
}

func TestClass_ResolveSlot(t *testing.T) {
	class := yogaClass()

	// 2024-06-10 - понедельник, обычное вхождение
	slot, err := class.ResolveSlot(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("07:00"), slot.StartTime)
	assert.Equal(t, types.TimeString("09:00"), slot.EndTime)
	assert.Equal(t, 120, slot.DurationMinutes)
}

func TestClass_ResolveSlot_Cancelled(t *testing.T) {
	class := yogaClass()

	// 2024-06-03 - понедельник, но это вхождение точечно отменено
	_, err := class.ResolveSlot(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrSlotCancelled)

	// Отмена не задевает другие понедельники
	_, err = class.ResolveSlot(time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
}

func TestClass_ResolveSlot_NotScheduled(t *testing.T) {
	class := yogaClass()

	// 2024-06-11 - вторник, занятия нет
	_, err := class.ResolveSlot(time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNotScheduled)
}

func TestClass_ResolveSlot_FirstMatchWins(t *testing.T) {
	class := &Class{
		ID: "CL000002",
		Schedule: []ScheduleEntry{
			{Day: "Monday", StartTime: "07:00", EndTime: "08:00", DurationMinutes: 60},
			{Day: "Monday", StartTime: "19:00", EndTime: "20:00", DurationMinutes: 60},
		},
	}

	slot, err := class.ResolveSlot(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("07:00"), slot.StartTime)
}

func TestClass_ResolveSlot_DurationFallback(t *testing.T) {
	class := &Class{
		ID: "CL000003",
		Schedule: []ScheduleEntry{
			{Day: "Wednesday", StartTime: "10:00", EndTime: "11:30"},
		},
	}

	// 2024-06-12 - среда; длительность не задана и считается из интервала
	slot, err := class.ResolveSlot(time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 90, slot.DurationMinutes)
}

func TestClass_HasCapacityLimit(t *testing.T) {
	capacity := 15
	assert.True(t, (&Class{Capacity: &capacity}).HasCapacityLimit())
	assert.False(t, (&Class{}).HasCapacityLimit())
}

func TestResolvePersonalSlot(t *testing.T) {
	slot, err := ResolvePersonalSlot("14:00", "15:30")
	require.NoError(t, err)
	assert.Equal(t, 90, slot.DurationMinutes)

	_, err = ResolvePersonalSlot("15:00", "14:00")
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = ResolvePersonalSlot("14:00", "14:00")
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}
