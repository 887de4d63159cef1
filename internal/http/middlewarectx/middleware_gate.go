package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/freemium-todo/internal/lib/sl"
	"github.com/magabrotheeeer/freemium-todo/internal/routegate"
)

// RouteGateMiddleware применяет политику маршрутизации страниц.
//
// Для анонимных запросов к закрытым страницам выполняется перенаправление
// на страницу входа, для аутентифицированных — перенаправление на панель,
// соответствующую роли. Запросы с токеном, который не удалось проверить
// у провайдера идентификации, перенаправляются на страницу ошибки.
func RouteGateMiddleware(identity IdentityService, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RouteGateMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("path", r.URL.Path),
			)

			var (
				authenticated bool
				role          string
			)

			if tokenStr := sessionToken(r); tokenStr != "" {
				userUID, err := identity.VerifySession(r.Context(), tokenStr)
				if err == nil {
					role, err = identity.GetRole(r.Context(), userUID)
					if err != nil {
						log.Error("failed to resolve user role", sl.Err(err))
						http.Redirect(w, r, routegate.FailClosed().RedirectTo, http.StatusFound)
						return
					}
					authenticated = true
				}
			}

			decision := routegate.Evaluate(authenticated, role, r.URL.Path)
			if !decision.Allow {
				http.Redirect(w, r, decision.RedirectTo, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
