package membership

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/FitClub-BookingService/internal/domain"
	"github.com/m04kA/FitClub-BookingService/pkg/dbmetrics"
	"github.com/m04kA/FitClub-BookingService/pkg/psqlbuilder"
)

var membershipColumns = []string{
	"id",
	"user_id",
	"plan_id",
	"plan_name",
	"price",
	"duration_months",
	"start_date",
	"end_date",
	"status",
	"active",
	"renewal_option",
	"expired_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с абонементами
// Создание абонементов принадлежит флоу одобрения заявок; ядро читает,
// истекает, продлевает и чистит записи
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория абонементов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает абонемент по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Membership, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(membershipColumns...).
		From("memberships").
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

	memberships, err := r.scanMemberships(rows)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, ErrMembershipNotFound
	}

	return memberships[0], nil
}

// ExpireActives массово истекает активные абонементы, чей период закончился
// строго раньше before; active сбрасывается вместе со статусом,
// expired_at фиксирует момент истечения (от него отсчитывается окно автопродления)
// Идемпотентна: уже истёкшие строки не попадают под предикат
func (r *Repository) ExpireActives(ctx context.Context, before time.Time, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("memberships").
		Set("status", domain.MembershipStatusExpired).
		Set("active", false).
		Set("expired_at", now).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.MembershipStatusActive}).
		Where(squirrel.Lt{"end_date": before}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: ExpireActives - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ExpireActives - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ExpireActives - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// GetRenewalCandidates возвращает истёкшие абонементы с включённым автопродлением,
// истекшие не раньше expiredAfter (окно продления отсекает давно умершие записи)
func (r *Repository) GetRenewalCandidates(ctx context.Context, expiredAfter time.Time) ([]*domain.Membership, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(membershipColumns...).
		From("memberships").
		Where(squirrel.Eq{"status": domain.MembershipStatusExpired}).
		Where(squirrel.Eq{"renewal_option": true}).
		Where(squirrel.GtOrEq{"expired_at": expiredAfter}).
		OrderBy("end_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRenewalCandidates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRenewalCandidates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanMemberships(rows)
}

// ExistsActiveForPeriod проверяет, есть ли у пользователя активный абонемент
// того же тарифа с тем же началом периода (защита от повторного продления)
func (r *Repository) ExistsActiveForPeriod(ctx context.Context, userID, planID string, startDate time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("memberships").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"plan_id": planID}).
		Where(squirrel.Eq{"start_date": startDate}).
		Where(squirrel.Eq{"status": domain.MembershipStatusActive}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsActiveForPeriod - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsActiveForPeriod - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}

// Renew перезаписывает период абонемента на месте: новый период, статус active,
// обновлённый снапшот тарифа. Новая строка не создается - истории периодов нет
func (r *Repository) Renew(ctx context.Context, m *domain.Membership) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("memberships").
		Set("plan_name", m.PlanName).
		Set("price", m.Price).
		Set("duration_months", m.DurationMonths).
		Set("start_date", m.StartDate).
		Set("end_date", m.EndDate).
		Set("status", domain.MembershipStatusActive).
		Set("active", true).
		Set("expired_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Renew - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Renew - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Renew - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

// DeleteAgedExpired удаляет истёкшие абонементы, чей период закончился
// строго раньше endBefore (retention)
func (r *Repository) DeleteAgedExpired(ctx context.Context, endBefore time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("memberships").
		Where(squirrel.Eq{"status": domain.MembershipStatusExpired}).
		Where(squirrel.Lt{"end_date": endBefore}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteAgedExpired - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteAgedExpired - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteAgedExpired - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// scanMemberships сканирует результаты запроса в слайс абонементов
func (r *Repository) scanMemberships(rows *sql.Rows) ([]*domain.Membership, error) {
	memberships := make([]*domain.Membership, 0)

	for rows.Next() {
		var m domain.Membership
		var expiredAt sql.NullTime
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.PlanID,
			&m.PlanName,
			&m.Price,
			&m.DurationMonths,
			&m.StartDate,
			&m.EndDate,
			&m.Status,
			&m.Active,
			&m.RenewalOption,
			&expiredAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanMemberships - scan row: %v", ErrScanRow, err)
		}

		if expiredAt.Valid {
			m.ExpiredAt = &expiredAt.Time
		}
		m.CreatedAt = createdAt.Time
		m.UpdatedAt = updatedAt.Time

		memberships = append(memberships, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanMemberships - rows error: %v", ErrScanRow, err)
	}

	return memberships, nil
}
