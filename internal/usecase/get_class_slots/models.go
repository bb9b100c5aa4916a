package get_class_slots

import (
	"time"

	"github.com/m04kA/FitClub-BookingService/pkg/types"
)

// Максимальная глубина просмотра расписания
const MaxDays = 60

// Request модель запроса доступных вхождений слотов занятия
type Request struct {
	ClassID string
	From    time.Time // начало периода; нулевое значение = сегодня
	Days    int       // глубина просмотра в днях; 0 = 7 дней
}

// Occurrence конкретное вхождение слота занятия с остатком мест
type Occurrence struct {
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	AvailableSpots  *int // nil = без ограничения мест
	TotalSpots      *int
}

// Response модель ответа со списком вхождений
type Response struct {
	ClassID     string
	ClassName   string
	Occurrences []Occurrence
}
