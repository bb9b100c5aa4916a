package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrDuplicateBooking возвращается, когда уникальный индекс
	// (user, class/trainer, date, start_time) отклонил вставку.
	// Это штатный исход гонки между проверкой и записью
	ErrDuplicateBooking = errors.New("booking.repository: duplicate booking for this slot")

	// ErrTrainerSlotTaken возвращается, когда уникальный индекс
	// (trainer, date, start_time) отклонил вставку персональной тренировки
	ErrTrainerSlotTaken = errors.New("booking.repository: trainer slot already taken")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
