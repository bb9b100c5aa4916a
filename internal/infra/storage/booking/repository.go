package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
	"github.com/m04kA/FitClub-BookingService/pkg/dbmetrics"
	"github.com/m04kA/FitClub-BookingService/pkg/psqlbuilder"
	"github.com/m04kA/FitClub-BookingService/pkg/types"
)

// Имена частичных уникальных индексов из миграций
// По ним нарушение 23505 транслируется в конкретную конфликтную ошибку
const (
	constraintUserClassSlot   = "uq_bookings_user_class_slot"
	constraintUserTrainerSlot = "uq_bookings_user_trainer_slot"
	constraintTrainerSlot     = "uq_bookings_trainer_slot"
)

var bookingColumns = []string{
	"id",
	"booking_type",
	"user_id",
	"class_id",
	"trainer_id",
	"booking_date",
	"start_time",
	"end_time",
	"duration_minutes",
	"goal",
	"status",
	"created_date",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
//
// Нарушение частичного уникального индекса транслируется в ErrDuplicateBooking
// или ErrTrainerSlotTaken: гонка двух конкурентных созданий одного слота
// должна выглядеть для вызывающего как обычный конфликт, а не как сбой БД
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"booking_type",
			"user_id",
			"class_id",
			"trainer_id",
			"booking_date",
			"start_time",
			"end_time",
			"duration_minutes",
			"goal",
			"status",
			"created_date",
		).
		Values(
			b.ID,
			b.Type,
			b.UserID,
			b.ClassID,
			b.TrainerID,
			b.Date,
			b.StartTime,
			b.EndTime,
			b.DurationMinutes,
			b.Goal,
			b.Status,
			b.CreatedDate,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		if conflictErr := translateUniqueViolation(err); conflictErr != nil {
			return nil, conflictErr
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := r.scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}

	return bookings[0], nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("booking_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetWithFilter получает бронирования с гибкой фильтрацией (админская выборка)
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings")

	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.ClassID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"class_id": *filter.ClassID})
	}
	if filter.TrainerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"trainer_id": *filter.TrainerID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.BookingStatusCancelled})
	}

	selectBuilder = selectBuilder.OrderBy("booking_date DESC, start_time DESC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// CountForClassSlot считает неотменённые бронирования на вхождение слота занятия
// excludeID исключает из подсчёта само обновляемое бронирование
// Индексная выборка по (class_id, booking_date, start_time), не линейный скан
func (r *Repository) CountForClassSlot(ctx context.Context, classID string, date time.Time, startTime types.TimeString, excludeID *string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"class_id": classID}).
		Where(squirrel.Eq{"booking_date": date}).
		Where(squirrel.Eq{"start_time": startTime}).
		Where(squirrel.NotEq{"status": domain.BookingStatusCancelled})

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	// Внутри транзакции блокируем строки слота, чтобы проверка вместимости
	// и вставка шли над одним снимком
	if dbmetrics.IsInTransaction(ctx) {
		return r.countLocked(ctx, executor, classID, date, startTime, excludeID)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountForClassSlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountForClassSlot - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// countLocked считает бронирования слота с блокировкой строк (FOR UPDATE)
// COUNT(*) с FOR UPDATE напрямую не работает, поэтому выбираем id
func (r *Repository) countLocked(ctx context.Context, executor DBExecutor, classID string, date time.Time, startTime types.TimeString, excludeID *string) (int, error) {
	selectBuilder := psqlbuilder.Select("id").
		From("bookings").
		Where(squirrel.Eq{"class_id": classID}).
		Where(squirrel.Eq{"booking_date": date}).
		Where(squirrel.Eq{"start_time": startTime}).
		Where(squirrel.NotEq{"status": domain.BookingStatusCancelled}).
		Suffix("FOR UPDATE")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: countLocked - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: countLocked - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("%w: countLocked - scan id: %v", ErrScanRow, err)
		}
		if excludeID != nil && id == *excludeID {
			continue
		}
		count++
	}

	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%w: countLocked - rows error: %v", ErrScanRow, err)
	}

	return count, nil
}

// ExistsTrainerConflict проверяет, занят ли тренер в указанный слот
// другим неотменённым бронированием
func (r *Repository) ExistsTrainerConflict(ctx context.Context, trainerID string, date time.Time, startTime types.TimeString, excludeID *string) (bool, error) {
	conditions := []squirrel.Sqlizer{
		squirrel.Eq{"trainer_id": trainerID},
		squirrel.Eq{"booking_date": date},
		squirrel.Eq{"start_time": startTime},
		squirrel.NotEq{"status": domain.BookingStatusCancelled},
	}
	return r.exists(ctx, conditions, excludeID, "ExistsTrainerConflict")
}

// ExistsUserClassBooking проверяет наличие неотменённого бронирования
// пользователя на тот же слот занятия
func (r *Repository) ExistsUserClassBooking(ctx context.Context, userID, classID string, date time.Time, startTime types.TimeString, excludeID *string) (bool, error) {
	conditions := []squirrel.Sqlizer{
		squirrel.Eq{"user_id": userID},
		squirrel.Eq{"class_id": classID},
		squirrel.Eq{"booking_date": date},
		squirrel.Eq{"start_time": startTime},
		squirrel.NotEq{"status": domain.BookingStatusCancelled},
	}
	return r.exists(ctx, conditions, excludeID, "ExistsUserClassBooking")
}

// ExistsUserTrainerBooking проверяет наличие неотменённого бронирования
// пользователя у того же тренера на тот же слот
func (r *Repository) ExistsUserTrainerBooking(ctx context.Context, userID, trainerID string, date time.Time, startTime types.TimeString, excludeID *string) (bool, error) {
	conditions := []squirrel.Sqlizer{
		squirrel.Eq{"user_id": userID},
		squirrel.Eq{"trainer_id": trainerID},
		squirrel.Eq{"booking_date": date},
		squirrel.Eq{"start_time": startTime},
		squirrel.NotEq{"status": domain.BookingStatusCancelled},
	}
	return r.exists(ctx, conditions, excludeID, "ExistsUserTrainerBooking")
}

// Update перезаписывает изменяемые поля бронирования
// Нарушение уникального индекса транслируется так же, как в Create
func (r *Repository) Update(ctx context.Context, b *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("booking_type", b.Type).
		Set("class_id", b.ClassID).
		Set("trainer_id", b.TrainerID).
		Set("booking_date", b.Date).
		Set("start_time", b.StartTime).
		Set("end_time", b.EndTime).
		Set("duration_minutes", b.DurationMinutes).
		Set("goal", b.Goal).
		Set("status", b.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if conflictErr := translateUniqueViolation(err); conflictErr != nil {
			return conflictErr
		}
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Delete удаляет бронирование (физическое удаление)
// Вызывается администратором и retention sweep'ом
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// CompletePastBookings массово переводит в completed все бронирования,
// чья дата строго раньше before и статус не конечный
// Идемпотентна: повторный запуск не находит строк для обновления
func (r *Repository) CompletePastBookings(ctx context.Context, before time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.BookingStatusCompleted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Lt{"booking_date": before}).
		Where(squirrel.NotEq{"status": []string{
			string(domain.BookingStatusCompleted),
			string(domain.BookingStatusCancelled),
		}}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CompletePastBookings - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CompletePastBookings - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CompletePastBookings - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// DeleteAgedTerminal удаляет отменённые и завершённые бронирования,
// созданные раньше createdBefore (retention)
func (r *Repository) DeleteAgedTerminal(ctx context.Context, createdBefore time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"status": []string{
			string(domain.BookingStatusCancelled),
			string(domain.BookingStatusCompleted),
		}}).
		Where(squirrel.Lt{"created_date": createdBefore}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteAgedTerminal - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteAgedTerminal - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteAgedTerminal - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

func (r *Repository) exists(ctx context.Context, conditions []squirrel.Sqlizer, excludeID *string, method string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("1").
		From("bookings").
		Limit(1)

	for _, cond := range conditions {
		selectBuilder = selectBuilder.Where(cond)
	}
	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
	}

	return true, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var b domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&b.ID,
			&b.Type,
			&b.UserID,
			&b.ClassID,
			&b.TrainerID,
			&b.Date,
			&b.StartTime,
			&b.EndTime,
			&b.DurationMinutes,
			&b.Goal,
			&b.Status,
			&b.CreatedDate,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// translateUniqueViolation мапит нарушение уникального индекса (23505)
// на конфликтную ошибку по имени индекса; nil, если ошибка не 23505
func translateUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return nil
	}

	switch {
	case strings.Contains(pqErr.Constraint, constraintTrainerSlot):
		return ErrTrainerSlotTaken
	case strings.Contains(pqErr.Constraint, constraintUserClassSlot),
		strings.Contains(pqErr.Constraint, constraintUserTrainerSlot):
		return ErrDuplicateBooking
	default:
		return ErrDuplicateBooking
	}
}
