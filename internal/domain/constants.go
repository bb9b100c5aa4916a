package domain

import "fmt"

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Имена последовательностей для генерации ID
const (
	SequenceBooking    = "bookingID"
	SequenceMembership = "membershipID"
)

// FormatBookingID форматирует номер последовательности в ID бронирования (BI000123)
func FormatBookingID(n int64) string {
	return fmt.Sprintf("BI%06d", n)
}

// FormatMembershipID форматирует номер последовательности в ID абонемента (MS000123)
func FormatMembershipID(n int64) string {
	return fmt.Sprintf("MS%06d", n)
}

// AdminUpdateStatuses статусы, которые администратор может выставить
// через общий путь обновления бронирования
var AdminUpdateStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCancelled,
}

// AdminSetStatusStatuses статусы, доступные в выделенном endpoint'е смены статуса
// Набор уже, чем в общем пути обновления: pending выставить нельзя.
// Асимметрия сохранена намеренно - см. DESIGN.md
var AdminSetStatusStatuses = []BookingStatus{
	BookingStatusConfirmed,
	BookingStatusCancelled,
}

// TerminalStatuses статусы, из которых бронирование больше не переходит
var TerminalStatuses = []BookingStatus{
	BookingStatusCancelled,
	BookingStatusCompleted,
}
