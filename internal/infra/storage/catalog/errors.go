package catalog

import "errors"

var (
	// ErrClassNotFound возвращается, когда занятие не найдено
	ErrClassNotFound = errors.New("catalog.repository: class not found")

	// ErrTrainerNotFound возвращается, когда тренер не найден
	ErrTrainerNotFound = errors.New("catalog.repository: trainer not found")

	// ErrPlanNotFound возвращается, когда тариф не найден
	ErrPlanNotFound = errors.New("catalog.repository: plan not found")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("catalog.repository: user not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
