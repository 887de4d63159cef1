package models

import "errors"

// Ошибки доменного уровня. Обработчики сопоставляют их с HTTP-статусами:
// NotFound → 404, Forbidden и QuotaExceeded → 403, EmptyTitle → 400.
var (
	// ErrTaskNotFound задача с указанным идентификатором не существует.
	ErrTaskNotFound = errors.New("task not found")
	// ErrUserNotFound запись пользователя не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrForbidden вызывающий не является владельцем задачи.
	ErrForbidden = errors.New("forbidden")
	// ErrQuotaExceeded лимит бесплатного тарифа исчерпан.
	ErrQuotaExceeded = errors.New("free tier task limit reached")
	// ErrEmptyTitle заголовок задачи пуст или состоит из пробелов.
	ErrEmptyTitle = errors.New("title must not be empty")
)
