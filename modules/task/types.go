package task

import (
	"time"

	"github.com/example/task-tracker/domain/apperror"
	domain "github.com/example/task-tracker/domain/task"
)

// TaskData is the wire form of a task between modules. The owner is implied by the request.
type TaskData struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      domain.Status `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func toTaskData(t *domain.Task) *TaskData {
	return &TaskData{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ListTasksRequest represents a filtered listing request.
type ListTasksRequest struct {
	OwnerID string        `json:"owner_id"`
	Filter  domain.Filter `json:"filter"`
}

// ListTasksResponse represents a listing response.
type ListTasksResponse struct {
	Tasks []TaskData        `json:"tasks"`
	Error *apperror.Payload `json:"error,omitempty"`
}

// GetTaskRequest identifies one task of an owner.
type GetTaskRequest struct {
	TaskID  string `json:"task_id"`
	OwnerID string `json:"owner_id"`
}

// CreateTaskRequest represents a create request.
type CreateTaskRequest struct {
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTaskFieldRequest carries the new value for a single task field.
type UpdateTaskFieldRequest struct {
	TaskID  string `json:"task_id"`
	OwnerID string `json:"owner_id"`
	Value   string `json:"value"`
}

// TaskResponse represents a single-task response.
type TaskResponse struct {
	Task  *TaskData         `json:"task,omitempty"`
	Error *apperror.Payload `json:"error,omitempty"`
}

// DeleteTaskResponse represents a delete response.
type DeleteTaskResponse struct {
	Deleted bool              `json:"deleted"`
	Error   *apperror.Payload `json:"error,omitempty"`
}
