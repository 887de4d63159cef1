// Package listall реализует HTTP-обработчик для получения задач всех
// пользователей. Доступен только администраторам.
package listall

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/freemium-todo/internal/http/response"
	"github.com/magabrotheeeer/freemium-todo/internal/lib/sl"
	"github.com/magabrotheeeer/freemium-todo/internal/models"
)

// Handler управляет HTTP-запросами на получение задач всех пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка задач всех пользователей.
type Service interface {
	ListAll(ctx context.Context, page int) (*models.TaskPage, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список задач всех пользователей
// @Description Возвращает страницу задач всех пользователей. Требуется роль admin.
// @Tags Admin
// @Produce  json
// @Param page query int false "Номер страницы, начиная с 1"
// @Success 200 {object} response.Response "Страница задач"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при получении списка"
// @Security BearerAuth
// @Router /api/admin/todos [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.listall"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	result, err := h.service.ListAll(r.Context(), page)
	if err != nil {
		log.Error("failed to list all tasks", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list tasks"))
		return
	}

	log.Info("success to list all tasks",
		slog.Int("count", len(result.Tasks)),
		slog.Int("page", result.CurrentPage))
	render.JSON(w, r, response.OKWithData(result))
}
