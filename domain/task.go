package domain

import (
	"context"
	"time"
)

// TaskRepository defines the interface for managing the to-do list.
type TaskRepository interface {
	// ListTasks returns every task, newest first.
	ListTasks(ctx context.Context) ([]*Task, error)

	// CreateTask stores a new, not yet completed task with the given title.
	// The creation time is assigned by the store.
	CreateTask(ctx context.Context, title string) error

	// ToggleTask sets the completed flag of a task. The creation time is left untouched.
	// Toggling an unknown task is not an error.
	ToggleTask(ctx context.Context, id int64, completed bool) error

	// DeleteTask removes a task. Deleting an unknown task is not an error.
	DeleteTask(ctx context.Context, id int64) error
}

// Task is a single to-do item.
type Task struct {
	ID        int64     `json:"id"`         // Identity assigned by the store.
	Title     string    `json:"title"`      // Free text shown in the list.
	Completed bool      `json:"completed"`  // Stored as 0/1.
	CreatedAt time.Time `json:"created_at"` // Set once on insert, in UTC.
}
