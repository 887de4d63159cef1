// Package activate реализует HTTP-обработчик для активации подписки
// текущего пользователя на один календарный месяц.
package activate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/freemium-todo/internal/http/middlewarectx"
	"github.com/magabrotheeeer/freemium-todo/internal/http/response"
	"github.com/magabrotheeeer/freemium-todo/internal/lib/sl"
	"github.com/magabrotheeeer/freemium-todo/internal/models"
)

// Handler управляет HTTP-запросами на активацию подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики активации подписки.
type Service interface {
	Activate(ctx context.Context, uid string) (*models.SubscriptionStatus, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Активировать подписку
// @Description Включает подписку текущего пользователя на один календарный месяц. Повторная активация продлевает срок заново.
// @Tags Subscription
// @Produce  json
// @Success 200 {object} response.Response "Новый статус подписки"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при активации подписки"
// @Security BearerAuth
// @Router /api/subscription [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.activate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	result, err := h.service.Activate(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Error("user not found", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to activate subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not activate subscription"))
		return
	}

	log.Info("success to activate subscription", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OKWithData(result))
}
