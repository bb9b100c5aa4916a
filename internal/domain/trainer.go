package domain

// Trainer тренер из каталога
// Расписание тренера информационное: конфликты проверяются по бронированиям,
// а не по расписанию
type Trainer struct {
	ID             string
	Name           string
	Specialization string
	Schedule       []ScheduleEntry
}

// User пользователь платформы
// Принадлежит сервису аутентификации; ядру нужны только существование и роль
type User struct {
	ID   string
	Name string
}
