// Package list реализует HTTP-обработчик для получения списка задач пользователя
// с пагинацией и поиском по заголовку.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/freemium-todo/internal/http/middlewarectx"
	"github.com/magabrotheeeer/freemium-todo/internal/http/response"
	"github.com/magabrotheeeer/freemium-todo/internal/lib/sl"
	"github.com/magabrotheeeer/freemium-todo/internal/models"
)

// Handler управляет HTTP-запросами на получение списка задач.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка задач.
type Service interface {
	List(ctx context.Context, userUID, search string, page int) (*models.TaskPage, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список задач пользователя
// @Description Возвращает страницу задач текущего пользователя, отсортированных от новых к старым. Поддерживает поиск по подстроке заголовка без учета регистра.
// @Tags Tasks
// @Produce  json
// @Param page query int false "Номер страницы, начиная с 1"
// @Param search query string false "Подстрока для поиска в заголовке"
// @Success 200 {object} response.Response "Страница задач"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при получении списка"
// @Security BearerAuth
// @Router /api/todos [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	search := r.URL.Query().Get("search")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	result, err := h.service.List(r.Context(), userUID, search, page)
	if err != nil {
		log.Error("failed to list tasks", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list tasks"))
		return
	}

	log.Info("success to list tasks",
		slog.Int("count", len(result.Tasks)),
		slog.Int("page", result.CurrentPage))
	render.JSON(w, r, response.OKWithData(result))
}
