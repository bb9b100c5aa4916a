package get_class_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
	catalogRepo "github.com/m04kA/FitClub-BookingService/internal/infra/storage/catalog"
	"github.com/m04kA/FitClub-BookingService/pkg/ptr"
	"github.com/m04kA/FitClub-BookingService/pkg/types"
)

type mockBookingRepo struct {
	counts map[string]int // ключ - дата YYYY-MM-DD
}

func (m *mockBookingRepo) CountForClassSlot(ctx context.Context, classID string, date time.Time, startTime types.TimeString, excludeID *string) (int, error) {
	return m.counts[date.Format(domain.DateFormat)], nil
}

type mockCatalogRepo struct {
	class *domain.Class
}

func (m *mockCatalogRepo) GetClass(ctx context.Context, id string) (*domain.Class, error) {
	if m.class == nil || m.class.ID != id {
		return nil, catalogRepo.ErrClassNotFound
	}
	return m.class, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testClass() *domain.Class {
	return &domain.Class{
		ID:        "CL000001",
		Name:      "Утренняя йога",
		TrainerID: "TR000001",
		Capacity:  ptr.Ptr(15),
		Schedule: []domain.ScheduleEntry{
			{Day: "Monday", StartTime: "07:00", EndTime: "09:00", DurationMinutes: 120},
			{Day: "Thursday", StartTime: "18:00", EndTime: "19:00", DurationMinutes: 60},
		},
		Cancellations: []domain.ClassCancellation{
			{Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), StartTime: "07:00"},
		},
	}
}

func newTestUseCase(bookings *mockBookingRepo, catalog *mockCatalogRepo) *UseCase {
	uc := NewUseCase(bookings, catalog, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
	return uc
}

func TestExecute_WeekOfOccurrences(t *testing.T) {
	bookings := &mockBookingRepo{counts: map[string]int{"2024-06-06": 12}}
	uc := newTestUseCase(bookings, &mockCatalogRepo{class: testClass()})

	// 2024-06-03 (понедельник) отменён, остаётся четверг 06.06
	resp, err := uc.Execute(context.Background(), &Request{
		ClassID: "CL000001",
		From:    time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Days:    7,
	})
	require.NoError(t, err)

	require.Len(t, resp.Occurrences, 1)
	occ := resp.Occurrences[0]
	assert.Equal(t, "2024-06-06", occ.Date.Format(domain.DateFormat))
	assert.Equal(t, types.TimeString("18:00"), occ.StartTime)
	require.NotNil(t, occ.AvailableSpots)
	assert.Equal(t, 3, *occ.AvailableSpots)
	assert.Equal(t, 15, *occ.TotalSpots)
}

func TestExecute_TwoWeeks(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockCatalogRepo{class: testClass()})

	resp, err := uc.Execute(context.Background(), &Request{
		ClassID: "CL000001",
		From:    time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Days:    14,
	})
	require.NoError(t, err)

	// Пн 03.06 отменён: чт 06.06, пн 10.06, чт 13.06
	require.Len(t, resp.Occurrences, 3)
	assert.Equal(t, "2024-06-06", resp.Occurrences[0].Date.Format(domain.DateFormat))
	assert.Equal(t, "2024-06-10", resp.Occurrences[1].Date.Format(domain.DateFormat))
	assert.Equal(t, "2024-06-13", resp.Occurrences[2].Date.Format(domain.DateFormat))
}

func TestExecute_NoCapacityLimit(t *testing.T) {
	class := testClass()
	class.Capacity = nil
	uc := newTestUseCase(&mockBookingRepo{}, &mockCatalogRepo{class: class})

	resp, err := uc.Execute(context.Background(), &Request{
		ClassID: "CL000001",
		From:    time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Days:    1,
	})
	require.NoError(t, err)

	require.Len(t, resp.Occurrences, 1)
	assert.Nil(t, resp.Occurrences[0].AvailableSpots)
	assert.Nil(t, resp.Occurrences[0].TotalSpots)
}

func TestExecute_OverbookedClampsToZero(t *testing.T) {
	bookings := &mockBookingRepo{counts: map[string]int{"2024-06-10": 20}}
	uc := newTestUseCase(bookings, &mockCatalogRepo{class: testClass()})

	resp, err := uc.Execute(context.Background(), &Request{
		ClassID: "CL000001",
		From:    time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Days:    1,
	})
	require.NoError(t, err)

	require.Len(t, resp.Occurrences, 1)
	assert.Equal(t, 0, *resp.Occurrences[0].AvailableSpots)
}

func TestExecute_Defaults(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockCatalogRepo{class: testClass()})

	// Без from и days: 7 дней от сегодня (2024-06-01, суббота)
	resp, err := uc.Execute(context.Background(), &Request{ClassID: "CL000001"})
	require.NoError(t, err)

	// Пн 03.06 отменён, чт 06.06 попадает в окно 01.06-07.06
	require.Len(t, resp.Occurrences, 1)
	assert.Equal(t, "2024-06-06", resp.Occurrences[0].Date.Format(domain.DateFormat))
}

func TestExecute_Errors(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockCatalogRepo{class: testClass()})

	_, err := uc.Execute(context.Background(), &Request{ClassID: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ClassID: "CL000001", Days: MaxDays + 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ClassID: "CL999999"})
	assert.ErrorIs(t, err, ErrClassNotFound)
}
