package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyCancelled возвращается при повторной отмене бронирования
	// Гарантия идемпотентности: состояние не меняется
	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено
	// (completed - конечный статус)
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrInvalidStatus возвращается при попытке установить недопустимый статус
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrStatusNotAllowed возвращается, когда статус вне набора,
	// разрешённого для выделенного endpoint'а смены статуса
	ErrStatusNotAllowed = errors.New("status not allowed in this operation")

	// ErrNotEditable возвращается, когда бронирование уже завершено
	ErrNotEditable = errors.New("booking can no longer be edited")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
