package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/freemium-todo/internal/lib/quota"
	"github.com/magabrotheeeer/freemium-todo/internal/models"
)

// CreateTask вставляет новую задачу, атомарно проверяя лимит бесплатного
// тарифа. Строка пользователя блокируется на время транзакции
// (SELECT ... FOR UPDATE), поэтому конкурентные создания одного владельца
// сериализуются и лимит не может быть превышен.
func (s *Storage) CreateTask(ctx context.Context, userUID, title string) (*models.Task, error) {
	const op = "storage.CreateTask"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var isSubscribed bool
	err = tx.QueryRowContext(ctx,
		`SELECT is_subscribed FROM users WHERE uid = $1 FOR UPDATE`,
		userUID).Scan(&isSubscribed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE user_uid = $1`,
		userUID).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !quota.CanCreate(isSubscribed, count) {
		return nil, models.ErrQuotaExceeded
	}

	task := models.Task{
		ID:      uuid.NewString(),
		Title:   title,
		UserUID: userUID,
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO tasks (id, title, user_uid)
		 VALUES ($1, $2, $3)
		 RETURNING completed, created_at`,
		task.ID, task.Title, task.UserUID).Scan(&task.Completed, &task.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &task, nil
}

// ReadTask возвращает задачу по её идентификатору.
func (s *Storage) ReadTask(ctx context.Context, id string) (*models.Task, error) {
	const op = "storage.ReadTask"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, completed, user_uid, created_at
			  FROM tasks WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Task
	err := row.Scan(&result.ID, &result.Title, &result.Completed,
		&result.UserUID, &result.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateTaskCompleted обновляет признак выполнения задачи и возвращает
// обновлённую запись. Заголовок и владелец через эту операцию не меняются.
func (s *Storage) UpdateTaskCompleted(ctx context.Context, id string, completed bool) (*models.Task, error) {
	const op = "storage.UpdateTaskCompleted"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE tasks SET completed = $2
			  WHERE id = $1
			  RETURNING id, title, completed, user_uid, created_at`
	row := s.DB.QueryRowContext(ctx, query, id, completed)

	var result models.Task
	err := row.Scan(&result.ID, &result.Title, &result.Completed,
		&result.UserUID, &result.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// RemoveTask удаляет задачу по идентификатору.
func (s *Storage) RemoveTask(ctx context.Context, id string) error {
	const op = "storage.RemoveTask"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return models.ErrTaskNotFound
	}
	return nil
}

// escapeLike экранирует метасимволы шаблона LIKE, чтобы строка поиска
// сравнивалась с заголовком буквально.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ListTasks возвращает страницу задач владельца, отфильтрованных по
// подстроке заголовка без учёта регистра, новые задачи первыми. Равные
// метки времени упорядочиваются по id, чтобы пагинация была детерминированной.
func (s *Storage) ListTasks(ctx context.Context, userUID, search string, limit, offset int) ([]*models.Task, error) {
	const op = "storage.ListTasks"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, completed, user_uid, created_at
			  FROM tasks
			  WHERE user_uid = $1 AND title ILIKE '%' || $2 || '%' ESCAPE '\'
			  ORDER BY created_at DESC, id DESC
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, userUID, escapeLike(search), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Task
	for rows.Next() {
		var item models.Task
		if err := rows.Scan(&item.ID, &item.Title, &item.Completed,
			&item.UserUID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountTasks считает задачи владельца под тем же фильтром, что и ListTasks.
func (s *Storage) CountTasks(ctx context.Context, userUID, search string) (int, error) {
	const op = "storage.CountTasks"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM tasks
			  WHERE user_uid = $1 AND title ILIKE '%' || $2 || '%' ESCAPE '\'`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, userUID, escapeLike(search)).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListAllTasks возвращает страницу задач всех пользователей (админский обзор).
func (s *Storage) ListAllTasks(ctx context.Context, limit, offset int) ([]*models.Task, error) {
	const op = "storage.ListAllTasks"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, completed, user_uid, created_at
			  FROM tasks
			  ORDER BY created_at DESC, id DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Task
	for rows.Next() {
		var item models.Task
		if err := rows.Scan(&item.ID, &item.Title, &item.Completed,
			&item.UserUID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountAllTasks считает задачи всех пользователей.
func (s *Storage) CountAllTasks(ctx context.Context) (int, error) {
	const op = "storage.CountAllTasks"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
