package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-task-manager/internal/models"
	"github.com/pribylovaa/go-task-manager/internal/storage"
)

// Интеграционные тесты репозитория задач: CRUD, выборка с фильтром и
// пагинацией (свои + расшаренные), шаринг и массовая смена позиций.
// Инфраструктура контейнера общая с user_test.go (startPostgres).

func seedUser(t *testing.T, st *Storage, email string) *models.User {
	t.Helper()
	u := newTestUser(email, models.RoleCollaborator)
	require.NoError(t, st.SaveUser(context.Background(), u))
	return u
}

func seedTask(t *testing.T, st *Storage, ownerID uuid.UUID, title string, position int64, completed bool) *models.Task {
	t.Helper()
	now := time.Now().UTC()
	task := &models.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: "d",
		Completed:   completed,
		Position:    position,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, st.SaveTask(context.Background(), task))
	return task
}

// TestIntegration_SaveTask_And_TaskByID_OK — happy-path: сохранение и чтение,
// пустой shared_with агрегируется в пустой срез, не в NULL.
func TestIntegration_SaveTask_And_TaskByID_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	owner := seedUser(t, st, "owner@example.com")
	task := seedTask(t, st, owner.ID, "Plan", 1, false)

	got, err := st.TaskByID(context.Background(), task.ID)
	require.NoError(t, err)
	require.Equal(t, task.ID, got.ID)
	require.Equal(t, "Plan", got.Title)
	require.Equal(t, owner.ID, got.OwnerID)
	require.Empty(t, got.SharedWith)
}

// TestIntegration_TasksByUser_FilterAndPagination — фильтр по состоянию
// и постраничная выборка с общим количеством.
func TestIntegration_TasksByUser_FilterAndPagination(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, st, "pager@example.com")

	for i := int64(1); i <= 3; i++ {
		seedTask(t, st, owner.ID, "active", i, false)
	}
	seedTask(t, st, owner.ID, "done", 4, true)

	tasks, total, err := st.TasksByUser(ctx, owner.ID, storage.TaskFilter{Status: models.TaskStatusActive})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, tasks, 3)

	tasks, total, err = st.TasksByUser(ctx, owner.ID, storage.TaskFilter{Status: models.TaskStatusCompleted})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "done", tasks[0].Title)

	// Страница 2 при limit=2: всего 4 задачи, на второй странице две.
	tasks, total, err = st.TasksByUser(ctx, owner.ID, storage.TaskFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, int64(4), total)
	require.Len(t, tasks, 2)

	// Сортировка по position ASC.
	first, _, err := st.TasksByUser(ctx, owner.ID, storage.TaskFilter{Limit: 1})
	require.NoError(t, err)
	require.Equal(t, int64(1), first[0].Position)
}

// TestIntegration_ShareTask — задача появляется в выборке получателя,
// повторный share — no-op, share чужой задачи — storage.ErrNotFound.
func TestIntegration_ShareTask(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, st, "sharer@example.com")
	friend := seedUser(t, st, "friend@example.com")
	task := seedTask(t, st, owner.ID, "Shared", 1, false)

	require.NoError(t, st.ShareTask(ctx, task.ID, owner.ID, friend.ID))
	require.NoError(t, st.ShareTask(ctx, task.ID, owner.ID, friend.ID)) // идемпотентно

	tasks, total, err := st.TasksByUser(ctx, friend.ID, storage.TaskFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, []uuid.UUID{friend.ID}, tasks[0].SharedWith)

	// Не владелец не может шарить.
	err = st.ShareTask(ctx, task.ID, friend.ID, owner.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	err = st.ShareTask(ctx, uuid.New(), owner.ID, friend.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_UpdateTask_OwnerScoped — обновление чужой задачи невозможно.
func TestIntegration_UpdateTask_OwnerScoped(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, st, "editor@example.com")
	stranger := seedUser(t, st, "stranger@example.com")
	task := seedTask(t, st, owner.ID, "Before", 1, false)

	task.Title = "After"
	task.Completed = true
	require.NoError(t, st.UpdateTask(ctx, task))

	got, err := st.TaskByID(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, "After", got.Title)
	require.True(t, got.Completed)

	hijack := *task
	hijack.OwnerID = stranger.ID
	err = st.UpdateTask(ctx, &hijack)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_DeleteTask — удаление каскадно чистит task_shares;
// чужую задачу удалить нельзя.
func TestIntegration_DeleteTask(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, st, "remover@example.com")
	friend := seedUser(t, st, "viewer@example.com")
	task := seedTask(t, st, owner.ID, "Doomed", 1, false)
	require.NoError(t, st.ShareTask(ctx, task.ID, owner.ID, friend.ID))

	err := st.DeleteTask(ctx, task.ID, friend.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, st.DeleteTask(ctx, task.ID, owner.ID))

	_, err = st.TaskByID(ctx, task.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, total, err := st.TasksByUser(ctx, friend.ID, storage.TaskFilter{})
	require.NoError(t, err)
	require.Zero(t, total)
}

// TestIntegration_ReorderTasks — позиции меняются транзакционно и только
// у задач владельца.
func TestIntegration_ReorderTasks(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	owner := seedUser(t, st, "sorter@example.com")
	stranger := seedUser(t, st, "other@example.com")

	a := seedTask(t, st, owner.ID, "A", 1, false)
	b := seedTask(t, st, owner.ID, "B", 2, false)
	foreign := seedTask(t, st, stranger.ID, "X", 1, false)

	require.NoError(t, st.ReorderTasks(ctx, owner.ID, map[uuid.UUID]int64{
		a.ID:       10,
		b.ID:       5,
		foreign.ID: 99, // чужая, должна остаться нетронутой
	}))

	gotA, err := st.TaskByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, int64(10), gotA.Position)

	gotB, err := st.TaskByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, int64(5), gotB.Position)

	gotForeign, err := st.TaskByID(ctx, foreign.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), gotForeign.Position)

	require.NoError(t, st.ReorderTasks(ctx, owner.ID, nil))
}
