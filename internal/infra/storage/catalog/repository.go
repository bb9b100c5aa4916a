package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
	"github.com/m04kA/FitClub-BookingService/pkg/dbmetrics"
	"github.com/m04kA/FitClub-BookingService/pkg/psqlbuilder"
	"github.com/m04kA/FitClub-BookingService/pkg/types"
)

// Repository read-only репозиторий каталога: занятия, тренеры, тарифы, пользователи
// Таблицы принадлежат административной части платформы; ядро их не изменяет
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// scheduleEntryJSON запись расписания в JSONB колонке
type scheduleEntryJSON struct {
	Day             string `json:"day"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
}

// cancellationJSON отмена вхождения слота в JSONB колонке
type cancellationJSON struct {
	Date      string `json:"date"` // YYYY-MM-DD
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// GetClass получает занятие по ID вместе с расписанием и отменами
func (r *Repository) GetClass(ctx context.Context, id string) (*domain.Class, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"trainer_id",
		"capacity",
		"schedule",
		"cancellations",
	).
		From("classes").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetClass - build select query: %v", ErrBuildQuery, err)
	}

	var (
		class             domain.Class
		capacity          sql.NullInt64
		scheduleRaw       []byte
		cancellationsRaw  []byte
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&class.ID,
		&class.Name,
		&class.TrainerID,
		&capacity,
		&scheduleRaw,
		&cancellationsRaw,
	)

	if err == sql.ErrNoRows {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetClass - scan class: %v", ErrScanRow, err)
	}

	if capacity.Valid {
		c := int(capacity.Int64)
		class.Capacity = &c
	}

	class.Schedule, err = parseSchedule(scheduleRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: GetClass - parse schedule: %v", ErrScanRow, err)
	}

	class.Cancellations, err = parseCancellations(cancellationsRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: GetClass - parse cancellations: %v", ErrScanRow, err)
	}

	return &class, nil
}

// GetTrainer получает тренера по ID
func (r *Repository) GetTrainer(ctx context.Context, id string) (*domain.Trainer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"specialization",
		"schedule",
	).
		From("trainers").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetTrainer - build select query: %v", ErrBuildQuery, err)
	}

	var (
		trainer     domain.Trainer
		scheduleRaw []byte
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&trainer.ID,
		&trainer.Name,
		&trainer.Specialization,
		&scheduleRaw,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTrainerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTrainer - scan trainer: %v", ErrScanRow, err)
	}

	trainer.Schedule, err = parseSchedule(scheduleRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: GetTrainer - parse schedule: %v", ErrScanRow, err)
	}

	return &trainer, nil
}

// GetPlan получает тариф по ID
func (r *Repository) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"duration_months",
		"price",
		"description",
	).
		From("plans").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPlan - build select query: %v", ErrBuildQuery, err)
	}

	var plan domain.Plan

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&plan.ID,
		&plan.Name,
		&plan.DurationMonths,
		&plan.Price,
		&plan.Description,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPlan - scan plan: %v", ErrScanRow, err)
	}

	return &plan, nil
}

// GetUser получает пользователя по ID
func (r *Repository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
	).
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetUser - build select query: %v", ErrBuildQuery, err)
	}

	var user domain.User

	err = executor.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.Name)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetUser - scan user: %v", ErrScanRow, err)
	}

	return &user, nil
}

func parseSchedule(raw []byte) ([]domain.ScheduleEntry, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var entries []scheduleEntryJSON
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}

	result := make([]domain.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, domain.ScheduleEntry{
			Day:             e.Day,
			StartTime:       types.TimeString(e.StartTime),
			EndTime:         types.TimeString(e.EndTime),
			DurationMinutes: e.DurationMinutes,
		})
	}

	return result, nil
}

func parseCancellations(raw []byte) ([]domain.ClassCancellation, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var entries []cancellationJSON
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}

	result := make([]domain.ClassCancellation, 0, len(entries))
	for _, e := range entries {
		date, err := time.Parse(domain.DateFormat, e.Date)
		if err != nil {
			return nil, err
		}
		result = append(result, domain.ClassCancellation{
			Date:      date,
			StartTime: types.TimeString(e.StartTime),
			EndTime:   types.TimeString(e.EndTime),
		})
	}

	return result, nil
}
