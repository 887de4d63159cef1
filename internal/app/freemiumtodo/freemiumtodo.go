// Package freemiumtodo собирает приложение: хранилище, миграции, кеш,
// клиент провайдера идентификации, издатель событий, сервисы и HTTP-сервер.
package freemiumtodo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/freemium-todo/internal/cache"
	"github.com/magabrotheeeer/freemium-todo/internal/config"
	"github.com/magabrotheeeer/freemium-todo/internal/events"
	"github.com/magabrotheeeer/freemium-todo/internal/identity"
	"github.com/magabrotheeeer/freemium-todo/internal/lib/webhook"
	"github.com/magabrotheeeer/freemium-todo/internal/migrations"
	subscriptionservice "github.com/magabrotheeeer/freemium-todo/internal/services/subscription"
	taskservice "github.com/magabrotheeeer/freemium-todo/internal/services/task"
	"github.com/magabrotheeeer/freemium-todo/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и ресурсы приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New инициализирует все зависимости приложения и готовит HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	identityClient := identity.NewClient(cfg.IdentityProvider, cacheRedis, logger)

	verifier, err := webhook.NewVerifier(cfg.WebhookSecret)
	if err != nil {
		return nil, err
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			return nil, err
		}
		publisher = amqpPublisher
	} else {
		logger.Warn("amqp url is not configured, events will not be published")
	}

	taskService := taskservice.New(db, publisher, logger)
	subscriptionService := subscriptionservice.New(db, publisher, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, taskService, subscriptionService, identityClient, verifier)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
