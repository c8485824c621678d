package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-task-manager/internal/models"
	"github.com/pribylovaa/go-task-manager/internal/storage"
)

// CreateTask создает новую задачу от имени владельца.
func (s *Service) CreateTask(ctx context.Context, ownerID uuid.UUID, title, description string, position int64) (*models.Task, error) {
	const op = "service.tasks.CreateTask"

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyTitle)
	}

	now := time.Now().UTC()
	task := &models.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Position:    position,
		OwnerID:     ownerID,
		SharedWith:  []uuid.UUID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return task, nil
}

// ListTasks возвращает страницу задач пользователя (своих и расшаренных ему).
func (s *Service) ListTasks(ctx context.Context, userID uuid.UUID, filter storage.TaskFilter) (*models.TaskPage, error) {
	const op = "service.tasks.ListTasks"

	tasks, total, err := s.storage.TasksByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	pages := int((total + int64(limit) - 1) / int64(limit))

	if tasks == nil {
		tasks = []models.Task{}
	}

	return &models.TaskPage{
		Tasks: tasks,
		Total: total,
		Page:  page,
		Pages: pages,
	}, nil
}

// UpdateTask обновляет задачу; менять задачу может только владелец.
func (s *Service) UpdateTask(ctx context.Context, ownerID, taskID uuid.UUID, title, description string, completed bool, position int64) (*models.Task, error) {
	const op = "service.tasks.UpdateTask"

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyTitle)
	}

	task := &models.Task{
		ID:          taskID,
		Title:       title,
		Description: description,
		Completed:   completed,
		Position:    position,
		OwnerID:     ownerID,
	}

	if err := s.storage.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTaskNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.taskByID(ctx, op, taskID)
}

// DeleteTask удаляет задачу владельца.
func (s *Service) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	const op = "service.tasks.DeleteTask"

	if err := s.storage.DeleteTask(ctx, taskID, ownerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrTaskNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ShareTask расшаривает задачу владельца другому пользователю.
func (s *Service) ShareTask(ctx context.Context, ownerID, taskID, userID uuid.UUID) error {
	const op = "service.tasks.ShareTask"

	// Получатель должен существовать: ошибка до изменения task_shares.
	if _, err := s.storage.UserByID(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.ShareTask(ctx, taskID, ownerID, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrTaskNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ReorderTasks массово обновляет позиции задач владельца.
func (s *Service) ReorderTasks(ctx context.Context, ownerID uuid.UUID, positions map[uuid.UUID]int64) error {
	const op = "service.tasks.ReorderTasks"

	if err := s.storage.ReorderTasks(ctx, ownerID, positions); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) taskByID(ctx context.Context, op string, id uuid.UUID) (*models.Task, error) {
	task, err := s.storage.TaskByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTaskNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return task, nil
}
