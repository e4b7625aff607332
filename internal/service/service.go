// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when the store has no task with the given ID.
	ErrNotFound = errors.New("not found")

	// ErrEmptyText is returned when a task text is empty after trimming.
	ErrEmptyText = errors.New("task text is empty")
)

// Store defines the interface for the remote task collection.
// The TaskListView core and all commands go through this interface;
// nothing else imports a backend SDK directly.
type Store interface {
	// List returns the full task collection in store order.
	List(ctx context.Context) ([]Task, error)

	// Create stores a new task and returns the store's representation,
	// which carries the generated ID.
	Create(ctx context.Context, text string) (Task, error)

	// SetCompleted sets the completed flag of a task.
	SetCompleted(ctx context.Context, id ID, completed bool) error

	// Rename replaces the text of a task.
	Rename(ctx context.Context, id ID, text string) error

	// Delete removes a task.
	Delete(ctx context.Context, id ID) error
}
