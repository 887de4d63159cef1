// Package task содержит бизнес-логику работы с задачами: списки с пагинацией
// и поиском, создание с учетом лимита бесплатного тарифа, обновление и
// удаление с проверкой владельца.
package task

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/freemium-todo/internal/events"
	"github.com/magabrotheeeer/freemium-todo/internal/metrics"
	"github.com/magabrotheeeer/freemium-todo/internal/models"
)

// PageSize количество задач на странице списка.
const PageSize = 10

// TaskRepository определяет методы для работы с задачами в хранилище.
type TaskRepository interface {
	// CreateTask добавляет задачу, проверяя лимит бесплатного тарифа владельца.
	CreateTask(ctx context.Context, userUID, title string) (*models.Task, error)
	// ReadTask возвращает задачу по ID.
	ReadTask(ctx context.Context, id string) (*models.Task, error)
	// UpdateTaskCompleted обновляет отметку выполнения задачи.
	UpdateTaskCompleted(ctx context.Context, id string, completed bool) (*models.Task, error)
	// RemoveTask удаляет задачу по ID.
	RemoveTask(ctx context.Context, id string) error
	// ListTasks возвращает страницу задач пользователя с фильтром по заголовку.
	ListTasks(ctx context.Context, userUID, search string, limit, offset int) ([]*models.Task, error)
	// CountTasks подсчитывает задачи пользователя с учетом фильтра.
	CountTasks(ctx context.Context, userUID, search string) (int, error)
	// ListAllTasks возвращает страницу задач всех пользователей.
	ListAllTasks(ctx context.Context, limit, offset int) ([]*models.Task, error)
	// CountAllTasks подсчитывает задачи всех пользователей.
	CountAllTasks(ctx context.Context) (int, error)
}

// Service реализует бизнес-логику работы с задачами.
type Service struct {
	repo      TaskRepository
	publisher events.Publisher
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo TaskRepository, publisher events.Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// List возвращает страницу задач пользователя, отсортированных от новых к старым.
// Номера страниц начинаются с 1, значения меньше 1 приводятся к 1.
// Пустой результат не является ошибкой.
func (s *Service) List(ctx context.Context, userUID, search string, page int) (*models.TaskPage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	tasks, err := s.repo.ListTasks(ctx, userUID, search, PageSize, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountTasks(ctx, userUID, search)
	if err != nil {
		return nil, err
	}

	return &models.TaskPage{
		Tasks:       tasks,
		CurrentPage: page,
		TotalPages:  totalPages(total),
		TotalItems:  total,
	}, nil
}

// ListAll возвращает страницу задач всех пользователей без фильтров.
func (s *Service) ListAll(ctx context.Context, page int) (*models.TaskPage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	tasks, err := s.repo.ListAllTasks(ctx, PageSize, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountAllTasks(ctx)
	if err != nil {
		return nil, err
	}

	return &models.TaskPage{
		Tasks:       tasks,
		CurrentPage: page,
		TotalPages:  totalPages(total),
		TotalItems:  total,
	}, nil
}

// Create создает задачу для пользователя. Заголовок обязателен, лимит
// бесплатного тарифа проверяется в хранилище в одной транзакции со вставкой.
func (s *Service) Create(ctx context.Context, userUID, title string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, models.ErrEmptyTitle
	}

	task, err := s.repo.CreateTask(ctx, userUID, title)
	if err != nil {
		if errors.Is(err, models.ErrQuotaExceeded) {
			metrics.QuotaRejections.Inc()
		}
		return nil, err
	}

	s.log.Info("created new task",
		slog.String("task_id", task.ID),
		slog.String("user_uid", userUID))
	metrics.TasksCreated.Inc()

	s.publish(events.Event{
		Type:       events.TaskCreated,
		UserUID:    userUID,
		TaskID:     task.ID,
		OccurredAt: time.Now().UTC(),
	})

	return task, nil
}

// Update меняет отметку выполнения задачи. Возвращает models.ErrTaskNotFound,
// если задачи нет, и models.ErrForbidden, если задача принадлежит другому
// пользователю. Заголовок и владелец задачи при обновлении не меняются.
func (s *Service) Update(ctx context.Context, callerUID, id string, completed bool) (*models.Task, error) {
	task, err := s.repo.ReadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.UserUID != callerUID {
		return nil, models.ErrForbidden
	}

	return s.repo.UpdateTaskCompleted(ctx, id, completed)
}

// Delete удаляет задачу с теми же проверками существования и владельца,
// что и Update.
func (s *Service) Delete(ctx context.Context, callerUID, id string) error {
	task, err := s.repo.ReadTask(ctx, id)
	if err != nil {
		return err
	}
	if task.UserUID != callerUID {
		return models.ErrForbidden
	}

	if err := s.repo.RemoveTask(ctx, id); err != nil {
		return err
	}

	s.log.Info("removed task",
		slog.String("task_id", id),
		slog.String("user_uid", callerUID))
	metrics.TasksDeleted.Inc()

	s.publish(events.Event{
		Type:       events.TaskDeleted,
		UserUID:    callerUID,
		TaskID:     id,
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

func totalPages(total int) int {
	return (total + PageSize - 1) / PageSize
}
