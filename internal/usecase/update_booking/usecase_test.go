package update_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/FitClub-BookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/FitClub-BookingService/internal/infra/storage/catalog"
	"github.com/m04kA/FitClub-BookingService/pkg/ptr"
	"github.com/m04kA/FitClub-BookingService/pkg/types"
)

// --- test doubles ---

type mockBookingRepo struct {
	booking            *domain.Booking
	updateErr          error
	updated            *domain.Booking
	countForClassSlot  int
	trainerConflict    bool
	userClassBooking   bool
	userTrainerBooking bool
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.booking == nil || m.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	b := *m.booking
	return &b, nil
}

func (m *mockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = b
	return nil
}

func (m *mockBookingRepo) CountForClassSlot(ctx context.Context, classID string, date time.Time, startTime types.TimeString, excludeID *string) (int, error) {
	return m.countForClassSlot, nil
}

func (m *mockBookingRepo) ExistsTrainerConflict(ctx context.Context, trainerID string, date time.Time, startTime types.TimeString, excludeID *string) (bool, error) {
	return m.trainerConflict, nil
}

func (m *mockBookingRepo) ExistsUserClassBooking(ctx context.Context, userID, classID string, date time.Time, startTime types.TimeString, excludeID *string) (bool, error) {
	return m.userClassBooking, nil
}

func (m *mockBookingRepo) ExistsUserTrainerBooking(ctx context.Context, userID, trainerID string, date time.Time, startTime types.TimeString, excludeID *string) (bool, error) {
	return m.userTrainerBooking, nil
}

type mockCatalogRepo struct {
	class   *domain.Class
	trainer *domain.Trainer
}

func (m *mockCatalogRepo) GetClass(ctx context.Context, id string) (*domain.Class, error) {
	if m.class == nil || m.class.ID != id {
		return nil, catalogRepo.ErrClassNotFound
	}
	return m.class, nil
}

func (m *mockCatalogRepo) GetTrainer(ctx context.Context, id string) (*domain.Trainer, error) {
	if m.trainer == nil || m.trainer.ID != id {
		return nil, catalogRepo.ErrTrainerNotFound
	}
	return m.trainer, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

// --- fixtures ---

var testNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func testClass() *domain.Class {
	return &domain.Class{
		ID:        "CL000001",
		Name:      "Утренняя йога",
		TrainerID: "TR000001",
		Capacity:  ptr.Ptr(10),
		Schedule: []domain.ScheduleEntry{
			{Day: "Monday", StartTime: "07:00", EndTime: "09:00", DurationMinutes: 120},
		},
	}
}

func personalBooking() *domain.Booking {
	return &domain.Booking{
		ID:              "BI000001",
		Type:            domain.BookingTypePersonal,
		UserID:          "U1",
		TrainerID:       "TR000001",
		Date:            time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		StartTime:       "14:00",
		EndTime:         "15:30",
		DurationMinutes: 90,
		Status:          domain.BookingStatusPending,
	}
}

func classBooking() *domain.Booking {
	return &domain.Booking{
		ID:              "BI000002",
		Type:            domain.BookingTypeClass,
		UserID:          "U1",
		ClassID:         ptr.Ptr("CL000001"),
		TrainerID:       "TR000001",
		Date:            time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		StartTime:       "07:00",
		EndTime:         "09:00",
		DurationMinutes: 120,
		Status:          domain.BookingStatusConfirmed,
	}
}

func newTestUseCase(bookings *mockBookingRepo, catalog *mockCatalogRepo) *UseCase {
	uc := NewUseCase(bookings, catalog, fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func owner() domain.Actor {
	return domain.Actor{UserID: "U1", Role: domain.RoleUser}
}

func admin() domain.Actor {
	return domain.Actor{UserID: "A1", Role: domain.RoleAdmin}
}

// --- tests ---

func TestExecute_NotFound(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockCatalogRepo{})

	_, err := uc.Execute(context.Background(), &Request{Actor: owner(), BookingID: "BI999999"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_OwnerUpdatesGoal(t *testing.T) {
	bookings := &mockBookingRepo{booking: personalBooking()}
	uc := newTestUseCase(bookings, &mockCatalogRepo{})

	resp, err := uc.Execute(context.Background(), &Request{
		Actor:     owner(),
		BookingID: "BI000001",
		Goal:      ptr.Ptr("похудение"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Goal)
	assert.Equal(t, "похудение", *resp.Goal)
	// Слот не менялся - проверки конфликтов не запускались, время прежнее
	assert.Equal(t, types.TimeString("14:00"), resp.StartTime)
}

func TestExecute_StrangerDenied(t *testing.T) {
	bookings := &mockBookingRepo{booking: personalBooking()}
	uc := newTestUseCase(bookings, &mockCatalogRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		Actor:     domain.Actor{UserID: "U2", Role: domain.RoleUser},
		BookingID: "BI000001",
		Goal:      ptr.Ptr("чужая цель"),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_OwnerCannotChangeStatus(t *testing.T) {
	bookings := &mockBookingRepo{booking: personalBooking()}
	uc := newTestUseCase(bookings, &mockCatalogRepo{})

	status := domain.BookingStatusConfirmed
	_, err := uc.Execute(context.Background(), &Request{
		Actor:     owner(),
		BookingID: "BI000001",
		Status:    &status,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_OwnerCannotEditTerminal(t *testing.T) {
	b := personalBooking()
	b.Status = domain.BookingStatusCancelled
	uc := newTestUseCase(&mockBookingRepo{booking: b}, &mockCatalogRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		Actor:     owner(),
		BookingID: "BI000001",
		Goal:      ptr.Ptr("поздно"),
	})
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestExecute_AdminCanEditCancelled(t *testing.T) {
	b := personalBooking()
	b.Status = domain.BookingStatusCancelled
	bookings := &mockBookingRepo{booking: b}
	uc := newTestUseCase(bookings, &mockCatalogRepo{})

	// Администратор может реанимировать отменённое бронирование
	status := domain.BookingStatusPending
	resp, err := uc.Execute(context.Background(), &Request{
		Actor:     admin(),
		BookingID: "BI000001",
		Status:    &status,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusPending), resp.Status)
}

func TestExecute_NobodyEditsCompleted(t *testing.T) {
	b := personalBooking()
	b.Status = domain.BookingStatusCompleted
	uc := newTestUseCase(&mockBookingRepo{booking: b}, &mockCatalogRepo{})

	status := domain.BookingStatusCancelled
	_, err := uc.Execute(context.Background(), &Request{
		Actor:     admin(),
		BookingID: "BI000001",
		Status:    &status,
	})
	assert.ErrorIs(t, err, ErrNotEditable)
}

func TestExecute_AdminCannotSetCompleted(t *testing.T) {
	bookings := &mockBookingRepo{booking: personalBooking()}
	uc := newTestUseCase(bookings, &mockCatalogRepo{})

	// completed выставляет только фоновая задача
	status := domain.BookingStatusCompleted
	_, err := uc.Execute(context.Background(), &Request{
		Actor:     admin(),
		BookingID: "BI000001",
		Status:    &status,
	})
	assert.ErrorIs(t, err, ErrStatusNotAllowed)
}

func TestExecute_PastDateRejected(t *testing.T) {
	bookings := &mockBookingRepo{booking: personalBooking()}
	uc := newTestUseCase(bookings, &mockCatalogRepo{trainer: &domain.Trainer{ID: "TR000001"}})

	past := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	_, err := uc.Execute(context.Background(), &Request{
		Actor:     owner(),
		BookingID: "BI000001",
		Date:      &past,
	})
	assert.ErrorIs(t, err, ErrPastDate)
}

func TestExecute_PersonalReschedule(t *testing.T) {
	bookings := &mockBookingRepo{booking: personalBooking()}
	uc := newTestUseCase(bookings, &mockCatalogRepo{trainer: &domain.Trainer{ID: "TR000001"}})

	start := types.TimeString("16:00")
	end := types.TimeString("17:00")
	resp, err := uc.Execute(context.Background(), &Request{
		Actor:     owner(),
		BookingID: "BI000001",
		StartTime: &start,
		EndTime:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("16:00"), resp.StartTime)
	// Длительность пересчитана из нового интервала
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestExecute_PersonalReschedule_TrainerBusy(t *testing.T) {
	bookings := &mockBookingRepo{booking: personalBooking(), trainerConflict: true}
	uc := newTestUseCase(bookings, &mockCatalogRepo{trainer: &domain.Trainer{ID: "TR000001"}})

	start := types.TimeString("16:00")
	end := types.TimeString("17:00")
	_, err := uc.Execute(context.Background(), &Request{
		Actor:     owner(),
		BookingID: "BI000001",
		StartTime: &start,
		EndTime:   &end,
	})
	assert.ErrorIs(t, err, ErrTrainerUnavailable)
}

func TestExecute_ClassReschedule_SlotRederived(t *testing.T) {
	bookings := &mockBookingRepo{booking: classBooking()}
	uc := newTestUseCase(bookings, &mockCatalogRepo{class: testClass()})

	// Перенос на следующий понедельник: время и тренер заново берутся из расписания
	newDate := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{
		Actor:     owner(),
		BookingID: "BI000002",
		Date:      &newDate,
	})
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("07:00"), resp.StartTime)
	assert.Equal(t, "TR000001", resp.TrainerID)
	assert.Equal(t, 120, resp.DurationMinutes)
}

func TestExecute_ClassReschedule_NotScheduled(t *testing.T) {
	bookings := &mockBookingRepo{booking: classBooking()}
	uc := newTestUseCase(bookings, &mockCatalogRepo{class: testClass()})

	newDate := time.Date(2024, 6, 18, 0, 0, 0, 0, time.UTC) // вторник
	_, err := uc.Execute(context.Background(), &Request{
		Actor:     owner(),
		BookingID: "BI000002",
		Date:      &newDate,
	})
	assert.ErrorIs(t, err, ErrNotScheduled)
}

func TestExecute_ClassReschedule_CapacityExceeded(t *testing.T) {
	bookings := &mockBookingRepo{booking: classBooking(), countForClassSlot: 10}
	uc := newTestUseCase(bookings, &mockCatalogRepo{class: testClass()})

	newDate := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	_, err := uc.Execute(context.Background(), &Request{
		Actor:     owner(),
		BookingID: "BI000002",
		Date:      &newDate,
	})
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestExecute_UpdateRaceTranslated(t *testing.T) {
	bookings := &mockBookingRepo{
		booking:   personalBooking(),
		updateErr: bookingRepo.ErrTrainerSlotTaken,
	}
	uc := newTestUseCase(bookings, &mockCatalogRepo{trainer: &domain.Trainer{ID: "TR000001"}})

	start := types.TimeString("16:00")
	end := types.TimeString("17:00")
	_, err := uc.Execute(context.Background(), &Request{
		Actor:     owner(),
		BookingID: "BI000001",
		StartTime: &start,
		EndTime:   &end,
	})
	assert.ErrorIs(t, err, ErrTrainerUnavailable)
}
