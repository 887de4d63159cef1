// Package register реализует HTTP-обработчик вебхука провайдера идентификации.
//
// Обработчик проверяет подпись запроса до разбора тела, создает пользователя
// по событию user.created и подтверждает остальные типы событий без действий.
// Повторная доставка одного события не приводит к ошибке.
package register

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/freemium-todo/internal/http/response"
	"github.com/magabrotheeeer/freemium-todo/internal/lib/sl"
	"github.com/magabrotheeeer/freemium-todo/internal/lib/webhook"
)

// Handler управляет HTTP-запросами вебхука регистрации пользователей.
type Handler struct {
	log      *slog.Logger
	service  Service
	verifier *webhook.Verifier
}

// Service описывает интерфейс бизнес-логики регистрации пользователя.
type Service interface {
	RegisterUser(ctx context.Context, uid, email string) error
}

// New создает новый Handler с переданными логгером, сервисом и верификатором подписи.
func New(log *slog.Logger, service Service, verifier *webhook.Verifier) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		verifier: verifier,
	}
}

// event формат события провайдера идентификации.
type event struct {
	Type string `json:"type"`
	Data struct {
		ID                    string `json:"id"`
		PrimaryEmailAddressID string `json:"primary_email_address_id"`
		EmailAddresses        []struct {
			ID           string `json:"id"`
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// primaryEmail возвращает адрес, отмеченный провайдером как основной.
func (e *event) primaryEmail() string {
	for _, addr := range e.Data.EmailAddresses {
		if addr.ID == e.Data.PrimaryEmailAddressID {
			return addr.EmailAddress
		}
	}
	return ""
}

// ServeHTTP godoc
// @Summary Вебхук регистрации пользователей
// @Description Принимает подписанные события провайдера идентификации и создает пользователя по событию user.created.
// @Tags Webhook
// @Accept  json
// @Produce  json
// @Param webhook-id header string true "ID доставки"
// @Param webhook-timestamp header string true "Метка времени доставки"
// @Param webhook-signature header string true "Подписи доставки"
// @Success 200 {object} response.Response "Событие обработано"
// @Failure 400 {object} response.ErrorResponse "Неверная подпись или некорректное событие"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании пользователя"
// @Router /api/webhook/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.webhook.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	err = h.verifier.Verify(body,
		r.Header.Get("svix-id"),
		r.Header.Get("svix-timestamp"),
		r.Header.Get("svix-signature"),
		time.Now())
	if err != nil {
		log.Error("webhook signature verification failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid webhook signature"))
		return
	}

	var evt event
	if err := json.Unmarshal(body, &evt); err != nil {
		log.Error("failed to decode webhook event", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid webhook payload"))
		return
	}

	if evt.Type != "user.created" {
		log.Info("ignoring webhook event", slog.String("type", evt.Type))
		render.JSON(w, r, response.OKWithMessage("event ignored"))
		return
	}

	email := evt.primaryEmail()
	if evt.Data.ID == "" || email == "" {
		log.Error("webhook event missing user id or primary email")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("no primary email found"))
		return
	}

	if err := h.service.RegisterUser(r.Context(), evt.Data.ID, email); err != nil {
		log.Error("failed to register user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register user"))
		return
	}

	log.Info("success to register user", slog.String("user_uid", evt.Data.ID))
	render.JSON(w, r, response.OKWithMessage("user created"))
}
