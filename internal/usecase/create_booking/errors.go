package create_booking

import "errors"

var (
	// ErrClassNotFound возвращается, когда занятие не найдено
	ErrClassNotFound = errors.New("create_booking: class not found")

	// ErrTrainerNotFound возвращается, когда тренер не найден
	ErrTrainerNotFound = errors.New("create_booking: trainer not found")

	// ErrNotScheduled возвращается, когда занятие не проводится в выбранный день
	ErrNotScheduled = errors.New("create_booking: class is not scheduled on this day")

	// ErrSlotCancelled возвращается, когда вхождение слота отменено на выбранную дату
	ErrSlotCancelled = errors.New("create_booking: class occurrence is cancelled on this date")

	// ErrCapacityExceeded возвращается, когда все места на слот заняты
	ErrCapacityExceeded = errors.New("create_booking: class capacity exceeded")

	// ErrTrainerUnavailable возвращается, когда тренер занят в выбранный слот
	ErrTrainerUnavailable = errors.New("create_booking: trainer is unavailable at this time")

	// ErrDuplicateBooking возвращается, когда у пользователя уже есть
	// неотменённое бронирование этого слота
	ErrDuplicateBooking = errors.New("create_booking: duplicate booking for this slot")

	// ErrInvalidTimeRange возвращается при неположительной длительности тренировки
	ErrInvalidTimeRange = errors.New("create_booking: end time must be after start time")

	// ErrPastDate возвращается при попытке бронирования на прошедшую дату
	ErrPastDate = errors.New("create_booking: booking date is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
