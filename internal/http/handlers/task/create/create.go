// Package create реализует HTTP-обработчик для создания новых задач пользователя.
//
// Handler принимает JSON-запрос с заголовком задачи, валидирует его, извлекает
// идентификатор пользователя из контекста, вызывает бизнес-логику создания задачи
// через сервис и возвращает созданную задачу в JSON-формате.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/freemium-todo/internal/http/middlewarectx"
	"github.com/magabrotheeeer/freemium-todo/internal/http/response"
	"github.com/magabrotheeeer/freemium-todo/internal/lib/sl"
	"github.com/magabrotheeeer/freemium-todo/internal/models"
)

// Handler управляет HTTP-запросами на создание новых задач.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания задачи.
type Service interface {
	Create(ctx context.Context, userUID, title string) (*models.Task, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать новую задачу
// @Description Создает задачу для текущего пользователя. На бесплатном тарифе действует лимит в три задачи.
// @Tags Tasks
// @Accept  json
// @Produce  json
// @Param request body models.DummyCreateTask true "Данные новой задачи"
// @Success 201 {object} response.Response "Созданная задача"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или пустой заголовок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Превышен лимит бесплатного тарифа"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании задачи"
// @Security BearerAuth
// @Router /api/todos [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCreateTask
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	task, err := h.service.Create(r.Context(), userUID, req.Title)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyTitle):
			log.Error("empty task title")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("title is required"))
		case errors.Is(err, models.ErrQuotaExceeded):
			log.Info("free tier task limit reached", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("free tier task limit reached, subscribe to add more"))
		case errors.Is(err, models.ErrUserNotFound):
			log.Error("user not found", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to create task", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create task"))
		}
		return
	}

	log.Info("success to create task", slog.String("task_id", task.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(task))
}
