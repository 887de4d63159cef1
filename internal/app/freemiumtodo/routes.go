// Package freemiumtodo предоставляет маршруты для основного приложения.
package freemiumtodo

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/freemium-todo/internal/http/handlers/admin/listall"
	"github.com/magabrotheeeer/freemium-todo/internal/http/handlers/health"
	subactivate "github.com/magabrotheeeer/freemium-todo/internal/http/handlers/subscription/activate"
	substatus "github.com/magabrotheeeer/freemium-todo/internal/http/handlers/subscription/status"
	taskcreate "github.com/magabrotheeeer/freemium-todo/internal/http/handlers/task/create"
	tasklist "github.com/magabrotheeeer/freemium-todo/internal/http/handlers/task/list"
	taskremove "github.com/magabrotheeeer/freemium-todo/internal/http/handlers/task/remove"
	taskupdate "github.com/magabrotheeeer/freemium-todo/internal/http/handlers/task/update"
	"github.com/magabrotheeeer/freemium-todo/internal/http/handlers/webhook/register"
	"github.com/magabrotheeeer/freemium-todo/internal/http/middlewarectx"
	"github.com/magabrotheeeer/freemium-todo/internal/http/response"
	"github.com/magabrotheeeer/freemium-todo/internal/identity"
	"github.com/magabrotheeeer/freemium-todo/internal/lib/webhook"
	subscriptionservice "github.com/magabrotheeeer/freemium-todo/internal/services/subscription"
	taskservice "github.com/magabrotheeeer/freemium-todo/internal/services/task"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	taskService *taskservice.Service,
	subscriptionService *subscriptionservice.Service,
	identityClient *identity.Client,
	verifier *webhook.Verifier,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api", func(r chi.Router) {
		// Вебхук провайдера идентификации (без аутентификации, подпись
		// проверяется в обработчике)
		r.Post("/webhook/register", register.New(logger, subscriptionService, verifier).ServeHTTP)

		// Группа с проверкой сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(identityClient, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/todos", tasklist.New(logger, taskService).ServeHTTP)
			r.Post("/todos", taskcreate.New(logger, taskService).ServeHTTP)
			r.Put("/todos/{id}", taskupdate.New(logger, taskService).ServeHTTP)
			r.Delete("/todos/{id}", taskremove.New(logger, taskService).ServeHTTP)
			r.Get("/subscription", substatus.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscription", subactivate.New(logger, subscriptionService).ServeHTTP)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.RequireAdminMiddleware(logger))
				r.Get("/todos", listall.New(logger, taskService).ServeHTTP)
			})
		})
	})

	// Страницы с политикой маршрутизации
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RouteGateMiddleware(identityClient, logger))
		r.Get("/", pageHandler("home"))
		r.Get("/sign-in", pageHandler("sign-in"))
		r.Get("/sign-up", pageHandler("sign-up"))
		r.Get("/dashboard", pageHandler("dashboard"))
		r.Get("/admin/dashboard", pageHandler("admin-dashboard"))
		r.Get("/error", pageHandler("error"))
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

// pageHandler возвращает заглушку страницы: рендеринг выполняет фронтенд,
// серверу достаточно отдать имя страницы после применения политики маршрутизации.
func pageHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.OKWithData(map[string]any{
			"page": name,
		}))
	}
}
