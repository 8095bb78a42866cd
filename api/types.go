package api

import (
	"context"

	"tasktrack-api/domain"
)

// Storage abstracts persistence for handlers.
type Storage interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	InsertTask(ctx context.Context, t domain.Task) error
	UpdateTask(ctx context.Context, id string, upd domain.TaskUpdate) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// NotFoundError is implemented by storage errors that target a task id
// with no stored record.
type NotFoundError interface {
	error
	NotFound()
}
