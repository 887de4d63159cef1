package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/freemium-todo/internal/models"
)

// CreateUser сохраняет пользователя, созданного провайдером идентификации.
// Повторная доставка webhook-события не является ошибкой: вставка с уже
// существующим uid ничего не меняет.
func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (uid, email, role, is_subscribed)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (uid) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query,
		user.UID, user.Email, user.Role, user.IsSubscribed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, role, is_subscribed, subscription_ends, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var subscriptionEnds sql.NullTime
	err := row.Scan(&u.UID, &u.Email, &u.Role, &u.IsSubscribed,
		&subscriptionEnds, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if subscriptionEnds.Valid {
		u.SubscriptionEnds = &subscriptionEnds.Time
	}
	return u, nil
}

// SetSubscription включает подписку пользователя до указанной даты.
func (s *Storage) SetSubscription(ctx context.Context, userUID string, ends time.Time) error {
	const op = "storage.SetSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_subscribed = TRUE,
			      subscription_ends = $2
			  WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, userUID, ends)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// ClearSubscription снимает признак подписки и очищает дату окончания.
// Используется ленивой проверкой истечения при чтении статуса.
func (s *Storage) ClearSubscription(ctx context.Context, userUID string) error {
	const op = "storage.ClearSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_subscribed = FALSE,
			      subscription_ends = NULL
			  WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}
