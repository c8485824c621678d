package models

import (
	"time"

	"github.com/google/uuid"
)

// Task — задача пользователя.
//
// OwnerID — создатель задачи; SharedWith — пользователи, которым задача
// расшарена (видят её в своём списке, но не могут менять/удалять).
// Position задаёт порядок отображения в списке владельца.
type Task struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Completed   bool        `json:"completed"`
	Position    int64       `json:"position"`
	OwnerID     uuid.UUID   `json:"owner_id"`
	SharedWith  []uuid.UUID `json:"shared_with"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TaskStatusFilter — фильтр списка задач по состоянию.
type TaskStatusFilter string

const (
	// TaskStatusAny — без фильтра по состоянию.
	TaskStatusAny TaskStatusFilter = ""
	// TaskStatusActive — только незавершённые задачи.
	TaskStatusActive TaskStatusFilter = "active"
	// TaskStatusCompleted — только завершённые задачи.
	TaskStatusCompleted TaskStatusFilter = "completed"
)

// TaskPage — страница списка задач с метаданными пагинации.
type TaskPage struct {
	Tasks []Task `json:"tasks"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
}
