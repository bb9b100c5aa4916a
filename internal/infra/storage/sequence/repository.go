package sequence

import (
	"context"
	"fmt"

	"github.com/m04kA/FitClub-BookingService/pkg/dbmetrics"
)

// Repository репозиторий счетчиков последовательностей
// Выдает монотонно растущие номера для генерации человекочитаемых ID
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория последовательностей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Запрос - единственная атомарная операция read-modify-write:
// первый вызов для имени создает счетчик со значением 1, последующие инкрементируют.
// Двухшаговое чтение-затем-запись здесь недопустимо - два конкурентных
// создания получили бы один и тот же номер.
const nextQuery = `
INSERT INTO sequence_counters (name, value)
VALUES ($1, 1)
ON CONFLICT (name) DO UPDATE SET value = sequence_counters.value + 1
RETURNING value`

// Next атомарно инкрементирует счетчик и возвращает его новое значение
// Форматирование (префикс, ширина нулей) - ответственность вызывающего
func (r *Repository) Next(ctx context.Context, name string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var value int64
	if err := executor.QueryRowContext(ctx, nextQuery, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("%w: Next - execute increment for %q: %v", ErrExecQuery, name, err)
	}

	return value, nil
}
