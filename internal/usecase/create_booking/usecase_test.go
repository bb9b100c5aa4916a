package create_booking

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
	createFn           func(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	countForClassSlot  int
	countErr           error
	trainerConflict    bool
	userClassBooking   bool
	userTrainerBooking bool
	created            *domain.Booking
}

func (m *mockBookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	m.created = b
	if m.createFn != nil {
		return m.createFn(ctx, b)
	}
	out := *b
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	return &out, nil
}

func (m *mockBookingRepo) CountForClassSlot(ctx context.Context, classID string, date time.Time, startTime types.TimeString, excludeID *string) (int, error) {
	return m.countForClassSlot, m.countErr
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

type mockSequenceRepo struct {
	next int64
}

func (m *mockSequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	m.next++
	return m.next, nil
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

func newTestUseCase(bookings *mockBookingRepo, catalog *mockCatalogRepo) *UseCase {
	uc := NewUseCase(bookings, catalog, &mockSequenceRepo{}, fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func testClass() *domain.Class {
	return &domain.Class{
		ID:        "CL000001",
		Name:      "Утренняя йога",
		TrainerID: "TR000001",
		Capacity:  ptr.Ptr(2),
		Schedule: []domain.ScheduleEntry{
			{Day: "Monday", StartTime: "07:00", EndTime: "09:00", DurationMinutes: 120},
		},
		Cancellations: []domain.ClassCancellation{
			{Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), StartTime: "07:00"},
		},
	}
}

func classRequest() *Request {
	return &Request{
		Actor:   domain.Actor{UserID: "U1", Role: domain.RoleUser},
		Type:    domain.BookingTypeClass,
		ClassID: ptr.Ptr("CL000001"),
		Date:    time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	}
}

func personalRequest() *Request {
	return &Request{
		Actor:     domain.Actor{UserID: "U1", Role: domain.RoleUser},
		Type:      domain.BookingTypePersonal,
		TrainerID: ptr.Ptr("TR000001"),
		Date:      time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "14:00",
		EndTime:   "15:30",
		Goal:      ptr.Ptr("набор массы"),
	}
}

// --- class bookings ---

func TestExecute_ClassBooking_Success(t *testing.T) {
	bookings := &mockBookingRepo{}
	uc := newTestUseCase(bookings, &mockCatalogRepo{class: testClass()})

	resp, err := uc.Execute(context.Background(), classRequest())
	require.NoError(t, err)

	assert.Equal(t, "BI000001", resp.ID)
	assert.Equal(t, domain.BookingTypeClass, resp.Type)
	// Время слота берётся из расписания, не из запроса
	assert.Equal(t, types.TimeString("07:00"), resp.StartTime)
	assert.Equal(t, types.TimeString("09:00"), resp.EndTime)
	assert.Equal(t, 120, resp.DurationMinutes)
	assert.Equal(t, "TR000001", resp.TrainerID)
	assert.Equal(t, string(domain.BookingStatusPending), resp.Status)
	assert.Equal(t, testNow, bookings.created.CreatedDate)
}

func TestExecute_ClassBooking_ClassNotFound(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockCatalogRepo{})

	_, err := uc.Execute(context.Background(), classRequest())
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestExecute_ClassBooking_NotScheduled(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockCatalogRepo{class: testClass()})

	req := classRequest()
	req.Date = time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC) // вторник

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrNotScheduled)
}

func TestExecute_ClassBooking_SlotCancelled(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockCatalogRepo{class: testClass()})

	req := classRequest()
	req.Date = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotCancelled)
}

func TestExecute_ClassBooking_CapacityExceeded(t *testing.T) {
	// Вместимость 2, оба места заняты
	bookings := &mockBookingRepo{countForClassSlot: 2}
	uc := newTestUseCase(bookings, &mockCatalogRepo{class: testClass()})

	_, err := uc.Execute(context.Background(), classRequest())
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestExecute_ClassBooking_LastSpot(t *testing.T) {
	bookings := &mockBookingRepo{countForClassSlot: 1}
	uc := newTestUseCase(bookings, &mockCatalogRepo{class: testClass()})

	_, err := uc.Execute(context.Background(), classRequest())
	assert.NoError(t, err)
}

func TestExecute_ClassBooking_NoCapacityLimit(t *testing.T) {
	class := testClass()
	class.Capacity = nil
	// Счётчик вернул бы ошибку, но для занятий без лимита он не вызывается
	bookings := &mockBookingRepo{countErr: assert.AnError}
	uc := newTestUseCase(bookings, &mockCatalogRepo{class: class})

	_, err := uc.Execute(context.Background(), classRequest())
	assert.NoError(t, err)
}

func TestExecute_ClassBooking_Duplicate(t *testing.T) {
	bookings := &mockBookingRepo{userClassBooking: true}
	uc := newTestUseCase(bookings, &mockCatalogRepo{class: testClass()})

	_, err := uc.Execute(context.Background(), classRequest())
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

// Проверки идут в фиксированном порядке: вместимость раньше дубликата
func TestExecute_ClassBooking_CapacityBeforeDuplicate(t *testing.T) {
	bookings := &mockBookingRepo{countForClassSlot: 2, userClassBooking: true}
	uc := newTestUseCase(bookings, &mockCatalogRepo{class: testClass()})

	_, err := uc.Execute(context.Background(), classRequest())
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestExecute_PastDate(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockCatalogRepo{class: testClass()})

	req := classRequest()
	req.Date = time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPastDate)
}

func TestExecute_TodayIsAllowed(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockCatalogRepo{class: testClass()})

	req := classRequest()
	req.Date = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2024, 6, 3, 23, 0, 0, 0, time.UTC)}

	// Сегодняшняя дата проходит проверку прошлого (но вхождение отменено)
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotCancelled)
}

// --- personal bookings ---

func TestExecute_PersonalBooking_Success(t *testing.T) {
	bookings := &mockBookingRepo{}
	uc := newTestUseCase(bookings, &mockCatalogRepo{trainer: &domain.Trainer{ID: "TR000001", Name: "Анна"}})

	resp, err := uc.Execute(context.Background(), personalRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.BookingTypePersonal, resp.Type)
	assert.Equal(t, 90, resp.DurationMinutes)
	assert.Equal(t, "TR000001", resp.TrainerID)
	assert.Nil(t, resp.ClassID)
	require.NotNil(t, resp.Goal)
	assert.Equal(t, "набор массы", *resp.Goal)
}

func TestExecute_PersonalBooking_TrainerNotFound(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockCatalogRepo{})

	_, err := uc.Execute(context.Background(), personalRequest())
	assert.ErrorIs(t, err, ErrTrainerNotFound)
}

func TestExecute_PersonalBooking_InvalidTimeRange(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockCatalogRepo{trainer: &domain.Trainer{ID: "TR000001"}})

	req := personalRequest()
	req.StartTime = "15:00"
	req.EndTime = "14:00"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestExecute_PersonalBooking_TrainerUnavailable(t *testing.T) {
	bookings := &mockBookingRepo{trainerConflict: true}
	uc := newTestUseCase(bookings, &mockCatalogRepo{trainer: &domain.Trainer{ID: "TR000001"}})

	_, err := uc.Execute(context.Background(), personalRequest())
	assert.ErrorIs(t, err, ErrTrainerUnavailable)
}

func TestExecute_PersonalBooking_Duplicate(t *testing.T) {
	bookings := &mockBookingRepo{userTrainerBooking: true}
	uc := newTestUseCase(bookings, &mockCatalogRepo{trainer: &domain.Trainer{ID: "TR000001"}})

	_, err := uc.Execute(context.Background(), personalRequest())
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

// --- validation and policies ---

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockCatalogRepo{class: testClass()})

	req := classRequest()
	req.ClassID = nil
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = personalRequest()
	req.TrainerID = nil
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = personalRequest()
	req.StartTime = ""
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = classRequest()
	req.Type = "group"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ConfirmedFlag(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockCatalogRepo{class: testClass()})

	// Обычный пользователь не может создать сразу подтверждённое бронирование
	req := classRequest()
	req.Confirmed = true
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusPending), resp.Status)

	// Администратор - может
	req = classRequest()
	req.Actor = domain.Actor{UserID: "A1", Role: domain.RoleAdmin}
	req.Confirmed = true
	resp, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusConfirmed), resp.Status)
}

func TestExecute_SequentialIDs(t *testing.T) {
	bookings := &mockBookingRepo{}
	catalog := &mockCatalogRepo{class: testClass()}
	uc := newTestUseCase(bookings, catalog)

	first, err := uc.Execute(context.Background(), classRequest())
	require.NoError(t, err)

	req := classRequest()
	req.Actor.UserID = "U2"
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "BI000001", first.ID)
	assert.Equal(t, "BI000002", second.ID)
}

// Проигравший гонку запрос получает пользовательский конфликт, а не 500
func TestExecute_StorageRaceTranslated(t *testing.T) {
	bookings := &mockBookingRepo{
		createFn: func(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
			return nil, bookingRepo.ErrTrainerSlotTaken
		},
	}
	uc := newTestUseCase(bookings, &mockCatalogRepo{trainer: &domain.Trainer{ID: "TR000001"}})

	_, err := uc.Execute(context.Background(), personalRequest())
	assert.ErrorIs(t, err, ErrTrainerUnavailable)

	bookings.createFn = func(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
		return nil, bookingRepo.ErrDuplicateBooking
	}
	_, err = uc.Execute(context.Background(), personalRequest())
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}
