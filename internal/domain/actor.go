package domain

// Role роль действующего пользователя
// Выдается внешним сервисом аутентификации и приходит в заголовках запроса
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Actor аутентифицированный инициатор операции
type Actor struct {
	UserID string
	Role   Role
}

// IsAdmin возвращает true, если инициатор - администратор
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns возвращает true, если инициатор владеет ресурсом с указанным userID
func (a Actor) Owns(userID string) bool {
	return a.UserID == userID
}
