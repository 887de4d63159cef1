// Package middlewarectx содержит HTTP middleware для проверки сессий
// провайдера идентификации, ограничения частоты запросов и применения
// политики маршрутизации страниц.
//
// SessionMiddleware проверяет сессионный токен из заголовка Authorization
// либо из cookie __session, определяет роль пользователя и добавляет в
// контекст запроса идентификатор и роль для дальнейшего использования
// в обработчиках.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/freemium-todo/internal/http/response"
	"github.com/magabrotheeeer/freemium-todo/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для идентификатора пользователя в контексте
	UserUID Key = "user_uid"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
)

// SessionCookieName имя cookie с сессионным токеном провайдера идентификации.
const SessionCookieName = "__session"

// IdentityService описывает интерфейс проверки сессии и определения роли.
type IdentityService interface {
	VerifySession(ctx context.Context, token string) (string, error)
	GetRole(ctx context.Context, userUID string) (string, error)
}

// sessionToken извлекает сессионный токен из заголовка Authorization
// или из cookie __session. Возвращает пустую строку, если токена нет.
func sessionToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// SessionMiddleware возвращает HTTP middleware, который проверяет сессионный токен.
//
// Если токен валиден, добавляет идентификатор пользователя и роль в контекст
// запроса, иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func SessionMiddleware(identity IdentityService, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr := sessionToken(r)
			if tokenStr == "" {
				log.Error("missing session token")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing session token"))
				return
			}

			userUID, err := identity.VerifySession(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired session", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired session"))
				return
			}

			role, err := identity.GetRole(r.Context(), userUID)
			if err != nil {
				log.Error("failed to resolve user role", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("failed to resolve user role"))
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, userUID)
			ctx = context.WithValue(ctx, Role, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
