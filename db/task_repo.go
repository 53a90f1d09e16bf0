package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/portal-it/portal/domain"
)

var _ domain.TaskRepository = (*Repository)(nil)

// dbTask represents a task as stored in the database.
type dbTask struct {
	ID        int64      `db:"id"`
	Title     string     `db:"title"`
	Completed int64      `db:"completed"`  // 0 or 1.
	CreatedAt sqliteTime `db:"created_at"` // CURRENT_TIMESTAMP text on current stores.
}

// toDomainTask converts a dbTask to a domain.Task.
func toDomainTask(dbTask *dbTask) *domain.Task {
	return &domain.Task{
		ID:        dbTask.ID,
		Title:     dbTask.Title,
		Completed: dbTask.Completed != 0,
		CreatedAt: dbTask.CreatedAt.Time,
	}
}

// ListTasks retrieves all tasks, newest first.
func (repo *Repository) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	var dbTasks []*dbTask
	query := `SELECT id, title, completed, created_at FROM tasks ORDER BY created_at DESC, id DESC`

	err := repo.guard.acquire(ctx, func(ctx context.Context, conn *sqlx.DB) error {
		return conn.SelectContext(ctx, &dbTasks, query)
	})
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	tasks := make([]*domain.Task, len(dbTasks))
	for i, dbTask := range dbTasks {
		tasks[i] = toDomainTask(dbTask)
	}
	return tasks, nil
}

// CreateTask inserts a new task. Completion and creation time come from the column defaults.
func (repo *Repository) CreateTask(ctx context.Context, title string) error {
	query := `INSERT INTO tasks (title) VALUES (?)`

	err := repo.guard.acquire(ctx, func(ctx context.Context, conn *sqlx.DB) error {
		_, err := conn.ExecContext(ctx, query, title)
		return err
	})
	if err != nil {
		return fmt.Errorf("creating task %q: %w", title, err)
	}
	return nil
}

// ToggleTask updates only the completed flag of a task.
func (repo *Repository) ToggleTask(ctx context.Context, id int64, completed bool) error {
	query := `UPDATE tasks SET completed = ? WHERE id = ?`

	err := repo.guard.acquire(ctx, func(ctx context.Context, conn *sqlx.DB) error {
		_, err := conn.ExecContext(ctx, query, boolToInt(completed), id)
		return err
	})
	if err != nil {
		return fmt.Errorf("toggling task %d: %w", id, err)
	}
	return nil
}

// DeleteTask removes a task by ID.
func (repo *Repository) DeleteTask(ctx context.Context, id int64) error {
	query := `DELETE FROM tasks WHERE id = ?`

	err := repo.guard.acquire(ctx, func(ctx context.Context, conn *sqlx.DB) error {
		_, err := conn.ExecContext(ctx, query, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
