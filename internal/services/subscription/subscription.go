// Package subscription содержит бизнес-логику подписки: чтение статуса
// с ленивым сбросом истекшей подписки, активацию на один календарный месяц
// и регистрацию пользователей по вебхуку провайдера идентификации.
package subscription

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/freemium-todo/internal/events"
	"github.com/magabrotheeeer/freemium-todo/internal/lib/month"
	"github.com/magabrotheeeer/freemium-todo/internal/metrics"
	"github.com/magabrotheeeer/freemium-todo/internal/models"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// CreateUser добавляет пользователя; повторная вставка того же uid не ошибка.
	CreateUser(ctx context.Context, user models.User) error
	// GetUser возвращает пользователя по uid.
	GetUser(ctx context.Context, uid string) (*models.User, error)
	// SetSubscription включает подписку до указанной даты.
	SetSubscription(ctx context.Context, uid string, ends time.Time) error
	// ClearSubscription выключает подписку и очищает дату окончания.
	ClearSubscription(ctx context.Context, uid string) error
}

// Service реализует бизнес-логику подписки.
type Service struct {
	repo      UserRepository
	publisher events.Publisher
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo UserRepository, publisher events.Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Status возвращает текущий статус подписки пользователя. Если дата окончания
// уже в прошлом, подписка сбрасывается в хранилище и возвращается неактивный
// статус. Срок проверяется только при чтении, фоновых проверок нет.
func (s *Service) Status(ctx context.Context, uid string) (*models.SubscriptionStatus, error) {
	user, err := s.repo.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	if user.IsSubscribed && month.Expired(user.SubscriptionEnds, time.Now()) {
		if err := s.repo.ClearSubscription(ctx, uid); err != nil {
			return nil, err
		}
		s.log.Info("subscription expired, cleared", slog.String("user_uid", uid))
		return &models.SubscriptionStatus{IsSubscribed: false}, nil
	}

	return &models.SubscriptionStatus{
		IsSubscribed:     user.IsSubscribed,
		SubscriptionEnds: user.SubscriptionEnds,
	}, nil
}

// Activate включает подписку на один календарный месяц от текущего момента.
// Повторная активация продлевает срок заново от текущего момента.
func (s *Service) Activate(ctx context.Context, uid string) (*models.SubscriptionStatus, error) {
	if _, err := s.repo.GetUser(ctx, uid); err != nil {
		return nil, err
	}

	ends := month.AddMonths(time.Now().UTC(), 1)
	if err := s.repo.SetSubscription(ctx, uid, ends); err != nil {
		return nil, err
	}

	s.log.Info("subscription activated",
		slog.String("user_uid", uid),
		slog.Time("subscription_ends", ends))
	metrics.SubscriptionsActivated.Inc()

	s.publish(events.Event{
		Type:       events.SubscriptionActivated,
		UserUID:    uid,
		OccurredAt: time.Now().UTC(),
	})

	return &models.SubscriptionStatus{
		IsSubscribed:     true,
		SubscriptionEnds: &ends,
	}, nil
}

// RegisterUser создает пользователя по событию вебхука провайдера
// идентификации. Повторная доставка того же события не приводит к ошибке.
func (s *Service) RegisterUser(ctx context.Context, uid, email string) error {
	user := models.User{
		UID:   uid,
		Email: email,
		Role:  "user",
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return err
	}

	s.log.Info("registered new user", slog.String("user_uid", uid))
	metrics.UsersRegistered.Inc()

	s.publish(events.Event{
		Type:       events.UserCreated,
		UserUID:    uid,
		OccurredAt: time.Now().UTC(),
	})

	return nil
}

func (s *Service) publish(event events.Event) {
	if err := s.publisher.Publish(event); err != nil {
		s.log.Warn("failed to publish event",
			slog.String("type", event.Type), slog.Any("err", err))
	}
}
