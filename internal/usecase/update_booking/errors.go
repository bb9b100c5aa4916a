package update_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrAccessDenied возвращается, когда инициатор не владелец и не администратор
	ErrAccessDenied = errors.New("update_booking: access denied")

	// ErrNotEditable возвращается, когда бронирование уже в конечном статусе
	// (для владельца - cancelled/completed, для администратора - completed)
	ErrNotEditable = errors.New("update_booking: booking can no longer be edited")

	// ErrStatusNotAllowed возвращается при попытке выставить статус
	// вне разрешённого набора (completed выставляется только sweep'ом)
	ErrStatusNotAllowed = errors.New("update_booking: status change not allowed")

	// ErrClassNotFound возвращается, когда занятие не найдено
	ErrClassNotFound = errors.New("update_booking: class not found")

	// ErrTrainerNotFound возвращается, когда тренер не найден
	ErrTrainerNotFound = errors.New("update_booking: trainer not found")

	// ErrNotScheduled возвращается, когда занятие не проводится в выбранный день
	ErrNotScheduled = errors.New("update_booking: class is not scheduled on this day")

	// ErrSlotCancelled возвращается, когда вхождение слота отменено на выбранную дату
	ErrSlotCancelled = errors.New("update_booking: class occurrence is cancelled on this date")

	// ErrCapacityExceeded возвращается, когда все места на слот заняты
	ErrCapacityExceeded = errors.New("update_booking: class capacity exceeded")

	// ErrTrainerUnavailable возвращается, когда тренер занят в выбранный слот
	ErrTrainerUnavailable = errors.New("update_booking: trainer is unavailable at this time")

	// ErrDuplicateBooking возвращается, когда у пользователя уже есть
	// неотменённое бронирование этого слота
	ErrDuplicateBooking = errors.New("update_booking: duplicate booking for this slot")

	// ErrInvalidTimeRange возвращается при неположительной длительности тренировки
	ErrInvalidTimeRange = errors.New("update_booking: end time must be after start time")

	// ErrPastDate возвращается при попытке перенести бронирование на прошедшую дату
	ErrPastDate = errors.New("update_booking: booking date is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)
