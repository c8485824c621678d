package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pribylovaa/go-task-manager/internal/models"
	"github.com/pribylovaa/go-task-manager/internal/storage"
)

// selectTask — базовая выборка задачи вместе с агрегированным списком
// пользователей из task_shares.
const selectTask = `
	SELECT t.id, t.title, t.description, t.completed, t.position,
	       t.owner_id, t.created_at, t.updated_at,
	       COALESCE(array_agg(s.user_id) FILTER (WHERE s.user_id IS NOT NULL), '{}')
	FROM tasks t
	LEFT JOIN task_shares s ON s.task_id = t.id
`

// SaveTask создает новую задачу.
func (s *Storage) SaveTask(ctx context.Context, task *models.Task) error {
	const op = "storage.postgres.SaveTask"

	query := `
		INSERT INTO tasks(id, title, description, completed, position, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Completed,
		task.Position,
		task.OwnerID,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// TaskByID находит задачу по ID.
func (s *Storage) TaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	const op = "storage.postgres.TaskByID"

	query := selectTask + `
		WHERE t.id = $1
		GROUP BY t.id
	`

	var task models.Task
	err := s.db.QueryRow(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.Position,
		&task.OwnerID,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.SharedWith,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &task, nil
}

// TasksByUser возвращает страницу задач, где пользователь — владелец
// или входит в shared_with.
func (s *Storage) TasksByUser(ctx context.Context, userID uuid.UUID, filter storage.TaskFilter) ([]models.Task, int64, error) {
	const op = "storage.postgres.TasksByUser"

	where := `
		WHERE (t.owner_id = $1 OR EXISTS (
			SELECT 1 FROM task_shares ts WHERE ts.task_id = t.id AND ts.user_id = $1
		))
	`

	args := []any{userID}
	switch filter.Status {
	case models.TaskStatusActive:
		where += " AND t.completed = false"
	case models.TaskStatusCompleted:
		where += " AND t.completed = true"
	}

	var total int64
	countQuery := "SELECT count(*) FROM tasks t " + where
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := selectTask + where + `
		GROUP BY t.id
		ORDER BY t.position ASC, t.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.Query(ctx, query, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Completed, &t.Position,
			&t.OwnerID, &t.CreatedAt, &t.UpdatedAt, &t.SharedWith,
		); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return tasks, total, nil
}

// UpdateTask обновляет задачу владельца.
func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	const op = "storage.postgres.UpdateTask"

	query := `
		UPDATE tasks
		SET title = $3, description = $4, completed = $5, position = $6, updated_at = now()
		WHERE id = $1 AND owner_id = $2
	`

	tag, err := s.db.Exec(ctx, query,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.Completed,
		task.Position,
	)

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DeleteTask удаляет задачу владельца.
func (s *Storage) DeleteTask(ctx context.Context, id, ownerID uuid.UUID) error {
	const op = "storage.postgres.DeleteTask"

	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// ShareTask добавляет пользователя в shared_with задачи владельца.
// Повторный share того же пользователя — no-op (ON CONFLICT DO NOTHING).
func (s *Storage) ShareTask(ctx context.Context, taskID, ownerID, userID uuid.UUID) error {
	const op = "storage.postgres.ShareTask"

	query := `
		INSERT INTO task_shares(task_id, user_id)
		SELECT t.id, $3 FROM tasks t
		WHERE t.id = $1 AND t.owner_id = $2
		ON CONFLICT DO NOTHING
	`

	tag, err := s.db.Exec(ctx, query, taskID, ownerID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	// 0 строк: либо задачи нет/чужая, либо конфликт (уже расшарена).
	// Отличаем по наличию самой задачи.
	if tag.RowsAffected() == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1 AND owner_id = $2)`
		if err := s.db.QueryRow(ctx, checkQuery, taskID, ownerID).Scan(&exists); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
	}

	return nil
}

// ReorderTasks массово обновляет позиции задач владельца в одной транзакции.
func (s *Storage) ReorderTasks(ctx context.Context, ownerID uuid.UUID, positions map[uuid.UUID]int64) error {
	const op = "storage.postgres.ReorderTasks"

	if len(positions) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE tasks
		SET position = $3, updated_at = now()
		WHERE id = $1 AND owner_id = $2
	`

	for id, pos := range positions {
		if _, err := tx.Exec(ctx, query, id, ownerID, pos); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
