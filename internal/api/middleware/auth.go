package middleware

import (
	"context"
	"net/http"

	"github.com/m04kA/FitClub-BookingService/internal/api/handlers"
	"github.com/m04kA/FitClub-BookingService/internal/domain"
)

// HeaderUserID заголовок с ID аутентифицированного пользователя
const HeaderUserID = "X-User-ID"

// HeaderUserRole заголовок с ролью пользователя (user/admin)
const HeaderUserRole = "X-User-Role"

type contextKey string

const actorContextKey contextKey = "actor"

// Auth middleware аутентификации: извлекает пользователя из заголовков,
// проставленных API gateway, и кладет Actor в контекст запроса.
// Неизвестная роль понижается до user
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(HeaderUserID)
		if userID == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок X-User-ID")
			return
		}

		role := domain.Role(r.Header.Get(HeaderUserRole))
		if role != domain.RoleAdmin {
			role = domain.RoleUser
		}

		actor := domain.Actor{
			UserID: userID,
			Role:   role,
		}

		ctx := context.WithValue(r.Context(), actorContextKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActor извлекает инициатора операции из контекста запроса
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(domain.Actor)
	return actor, ok
}
