// Package remove реализует HTTP-обработчик для удаления задачи пользователя.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/freemium-todo/internal/http/middlewarectx"
	"github.com/magabrotheeeer/freemium-todo/internal/http/response"
	"github.com/magabrotheeeer/freemium-todo/internal/lib/sl"
	"github.com/magabrotheeeer/freemium-todo/internal/models"
)

// Handler управляет HTTP-запросами на удаление задачи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления задачи.
type Service interface {
	Delete(ctx context.Context, callerUID, id string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить задачу
// @Description Удаляет задачу текущего пользователя. Чужие задачи недоступны.
// @Tags Tasks
// @Produce  json
// @Param id path string true "ID задачи"
// @Success 200 {object} response.Response "Задача удалена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Задача принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Задача не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при удалении задачи"
// @Security BearerAuth
// @Router /api/todos/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Delete(r.Context(), userUID, id); err != nil {
		switch {
		case errors.Is(err, models.ErrTaskNotFound):
			log.Error("task not found", slog.String("task_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("task not found"))
		case errors.Is(err, models.ErrForbidden):
			log.Error("task belongs to another user", slog.String("task_id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		default:
			log.Error("failed to remove task", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not remove task"))
		}
		return
	}

	log.Info("success to remove task", slog.String("task_id", id))
	render.JSON(w, r, response.OKWithMessage("task deleted"))
}
