// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strconv"
	"sync"

	"todo/internal/service"
)

// Call records one store call made against a FakeStore.
type Call struct {
	Op        string
	ID        service.ID
	Text      string
	Completed bool
}

// FakeStore is an in-memory implementation of service.Store for testing.
type FakeStore struct {
	mu     sync.Mutex
	tasks  []service.Task
	nextID int
	calls  []Call

	// Error injection for testing
	ListErr         error
	CreateErr       error
	SetCompletedErr error
	RenameErr       error
	DeleteErr       error
}

// NewFakeStore creates an empty FakeStore. Generated IDs start at 1.
func NewFakeStore() *FakeStore {
	return &FakeStore{nextID: 1}
}

// AddTask seeds a task and returns its generated ID.
func (f *FakeStore) AddTask(text string, completed bool) service.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.newID()
	f.tasks = append(f.tasks, service.Task{ID: id, Text: text, Completed: service.Flag(completed)})
	return id
}

// Tasks returns the stored tasks.
func (f *FakeStore) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns the recorded calls in order.
func (f *FakeStore) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// ResetCalls forgets the recorded calls.
func (f *FakeStore) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *FakeStore) newID() service.ID {
	id := service.ID(strconv.Itoa(f.nextID))
	f.nextID++
	return id
}

func (f *FakeStore) record(c Call) {
	f.calls = append(f.calls, c)
}

func (f *FakeStore) index(id service.ID) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// List implements service.Store.
func (f *FakeStore) List(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Op: "list"})
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// Create implements service.Store.
func (f *FakeStore) Create(ctx context.Context, text string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Op: "create", Text: text})
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}
	t := service.Task{ID: f.newID(), Text: text}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// SetCompleted implements service.Store.
func (f *FakeStore) SetCompleted(ctx context.Context, id service.ID, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Op: "set_completed", ID: id, Completed: completed})
	if f.SetCompletedErr != nil {
		return f.SetCompletedErr
	}
	i := f.index(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks[i].Completed = service.Flag(completed)
	return nil
}

// Rename implements service.Store.
func (f *FakeStore) Rename(ctx context.Context, id service.ID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Op: "rename", ID: id, Text: text})
	if f.RenameErr != nil {
		return f.RenameErr
	}
	i := f.index(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks[i].Text = text
	return nil
}

// Delete implements service.Store.
func (f *FakeStore) Delete(ctx context.Context, id service.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Op: "delete", ID: id})
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	i := f.index(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}
