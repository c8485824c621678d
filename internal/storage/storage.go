package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-task-manager/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь/задача).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email).
	ErrAlreadyExists = errors.New("already exists")
)

// TaskFilter — параметры выборки списка задач.
type TaskFilter struct {
	Status models.TaskStatusFilter
	Page   int
	Limit  int
}

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создает нового пользователя в БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email (включая хэш пароля).
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// UpdateUserRole меняет роль пользователя.
	UpdateUserRole(ctx context.Context, id uuid.UUID, role models.Role) error
	// UsersByRole возвращает всех пользователей с заданной ролью.
	UsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
}

// TaskStorage выполняет операции над задачами.
type TaskStorage interface {
	// SaveTask создает новую задачу.
	SaveTask(ctx context.Context, task *models.Task) error
	// TaskByID находит задачу по ID.
	TaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	// TasksByUser возвращает страницу задач, где пользователь — владелец
	// или входит в shared_with. Сортировка: position ASC, created_at DESC.
	TasksByUser(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]models.Task, int64, error)
	// UpdateTask обновляет задачу владельца; ErrNotFound, если задача
	// не существует или принадлежит другому пользователю.
	UpdateTask(ctx context.Context, task *models.Task) error
	// DeleteTask удаляет задачу владельца.
	DeleteTask(ctx context.Context, id, ownerID uuid.UUID) error
	// ShareTask добавляет пользователя в shared_with задачи владельца.
	ShareTask(ctx context.Context, taskID, ownerID, userID uuid.UUID) error
	// ReorderTasks массово обновляет позиции задач владельца.
	ReorderTasks(ctx context.Context, ownerID uuid.UUID, positions map[uuid.UUID]int64) error
}

//go:generate mockgen -source=storage.go -destination=../../mocks/mock_storage.go -package=mocks

// Storage задает контракт работы с БД.
type Storage interface {
	UserStorage
	TaskStorage
	Close()
}
