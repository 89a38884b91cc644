package task

import (
	"context"

	domain "github.com/example/task-tracker/domain/task"
)

// TaskService forwards every call to the Store unchanged. It decouples the
// transports from persistence and carries no rules of its own.
type TaskService struct {
	store Store
}

// NewTaskService creates a new TaskService.
func NewTaskService(store Store) *TaskService {
	return &TaskService{store: store}
}

// GetTasks lists the owner's tasks matching filter.
func (s *TaskService) GetTasks(ctx context.Context, filter domain.Filter, ownerID string) ([]domain.Task, error) {
	return s.store.FindAll(ctx, filter, ownerID)
}

// GetTaskByID returns one of the owner's tasks.
func (s *TaskService) GetTaskByID(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	return s.store.FindByID(ctx, id, ownerID)
}

// CreateTask creates an OPEN task for the owner.
func (s *TaskService) CreateTask(ctx context.Context, input domain.CreateInput, ownerID string) (*domain.Task, error) {
	return s.store.Create(ctx, input, ownerID)
}

// DeleteTask deletes one of the owner's tasks.
func (s *TaskService) DeleteTask(ctx context.Context, id, ownerID string) error {
	return s.store.Delete(ctx, id, ownerID)
}

// UpdateTaskTitle changes a task title.
func (s *TaskService) UpdateTaskTitle(ctx context.Context, id, title, ownerID string) (*domain.Task, error) {
	return s.store.UpdateTitle(ctx, id, title, ownerID)
}

// UpdateTaskDescription changes a task description.
func (s *TaskService) UpdateTaskDescription(ctx context.Context, id, description, ownerID string) (*domain.Task, error) {
	return s.store.UpdateDescription(ctx, id, description, ownerID)
}

// UpdateTaskStatus changes a task status.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, id string, status domain.Status, ownerID string) (*domain.Task, error) {
	return s.store.UpdateStatus(ctx, id, status, ownerID)
}
