package models

import "time"

// Task представляет задачу пользователя. Задача принадлежит ровно одному
// владельцу и видна только ему; через операцию обновления меняется только
// поле Completed.
type Task struct {
	ID        string    `json:"id"`        // Идентификатор задачи (uuid, генерируется хранилищем)
	Title     string    `json:"title"`     // Заголовок задачи
	Completed bool      `json:"completed"` // Признак выполнения
	UserUID   string    `json:"userId"`    // Идентификатор владельца
	CreatedAt time.Time `json:"createdAt"` // Дата создания
}

// DummyCreateTask используется для приёма данных из JSON-запроса на создание задачи.
type DummyCreateTask struct {
	Title string `json:"title" validate:"required"` // Заголовок новой задачи
}

// DummyUpdateTask используется для приёма данных из JSON-запроса на обновление задачи.
// Указатель нужен, чтобы отличать отсутствие поля от явного false.
type DummyUpdateTask struct {
	Completed *bool `json:"completed" validate:"required"` // Новое значение признака выполнения
}

// TaskPage представляет страницу списка задач с данными пагинации.
type TaskPage struct {
	Tasks       []*Task `json:"todos"`
	CurrentPage int     `json:"currentPage"`
	TotalPages  int     `json:"totalPages"`
	TotalItems  int     `json:"totalItems"`
}
