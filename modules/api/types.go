package api

import (
	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/task"
)

// CredentialsRequest is the body of signup and signin.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse is returned by signup and signin.
type SessionResponse struct {
	AccessToken string `json:"access_token"`
}

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTitleRequest is the body of PATCH /api/tasks/:id/title.
type UpdateTitleRequest struct {
	Title string `json:"title"`
}

// UpdateDescriptionRequest is the body of PATCH /api/tasks/:id/description.
type UpdateDescriptionRequest struct {
	Description string `json:"description"`
}

// UpdateStatusRequest is the body of PATCH /api/tasks/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// TaskResponse is the client view of a task. The owner is never serialized.
type TaskResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      domain.Status `json:"status"`
}

func toTaskResponse(t *task.TaskData) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
