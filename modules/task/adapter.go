package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort is what other modules use to reach task functionality.
// Every method takes the requesting owner explicitly.
type TaskPort interface {
	GetTasks(ctx context.Context, filter domain.Filter, ownerID string) ([]TaskData, error)
	GetTaskByID(ctx context.Context, id, ownerID string) (*TaskData, error)
	CreateTask(ctx context.Context, input domain.CreateInput, ownerID string) (*TaskData, error)
	DeleteTask(ctx context.Context, id, ownerID string) error
	UpdateTaskTitle(ctx context.Context, id, title, ownerID string) (*TaskData, error)
	UpdateTaskDescription(ctx context.Context, id, description, ownerID string) (*TaskData, error)
	UpdateTaskStatus(ctx context.Context, id string, status domain.Status, ownerID string) (*TaskData, error)
}

// taskAdapter wraps ServiceContainer for type-safe cross-module communication.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

// callService invokes a request-reply service with typed request and response values.
func callService[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}

// GetTasks lists tasks via the list-tasks service.
func (a *taskAdapter) GetTasks(ctx context.Context, filter domain.Filter, ownerID string) ([]TaskData, error) {
	req := ListTasksRequest{OwnerID: ownerID, Filter: filter}
	var resp ListTasksResponse
	if err := callService(ctx, a.container, "list-tasks", &req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Error.Err(); err != nil {
		return nil, err
	}
	if resp.Tasks == nil {
		resp.Tasks = []TaskData{}
	}
	return resp.Tasks, nil
}

// GetTaskByID retrieves a task via the get-task service.
func (a *taskAdapter) GetTaskByID(ctx context.Context, id, ownerID string) (*TaskData, error) {
	req := GetTaskRequest{TaskID: id, OwnerID: ownerID}
	return a.single(ctx, "get-task", &req)
}

// CreateTask creates a task via the create-task service.
func (a *taskAdapter) CreateTask(ctx context.Context, input domain.CreateInput, ownerID string) (*TaskData, error) {
	req := CreateTaskRequest{OwnerID: ownerID, Title: input.Title, Description: input.Description}
	return a.single(ctx, "create-task", &req)
}

// DeleteTask deletes a task via the delete-task service.
func (a *taskAdapter) DeleteTask(ctx context.Context, id, ownerID string) error {
	req := GetTaskRequest{TaskID: id, OwnerID: ownerID}
	var resp DeleteTaskResponse
	if err := callService(ctx, a.container, "delete-task", &req, &resp); err != nil {
		return err
	}
	return resp.Error.Err()
}

// UpdateTaskTitle updates a title via the update-task-title service.
func (a *taskAdapter) UpdateTaskTitle(ctx context.Context, id, title, ownerID string) (*TaskData, error) {
	req := UpdateTaskFieldRequest{TaskID: id, OwnerID: ownerID, Value: title}
	return a.single(ctx, "update-task-title", &req)
}

// UpdateTaskDescription updates a description via the update-task-description service.
func (a *taskAdapter) UpdateTaskDescription(ctx context.Context, id, description, ownerID string) (*TaskData, error) {
	req := UpdateTaskFieldRequest{TaskID: id, OwnerID: ownerID, Value: description}
	return a.single(ctx, "update-task-description", &req)
}

// UpdateTaskStatus updates a status via the update-task-status service.
func (a *taskAdapter) UpdateTaskStatus(ctx context.Context, id string, status domain.Status, ownerID string) (*TaskData, error) {
	req := UpdateTaskFieldRequest{TaskID: id, OwnerID: ownerID, Value: string(status)}
	return a.single(ctx, "update-task-status", &req)
}

func (a *taskAdapter) single(ctx context.Context, service string, req any) (*TaskData, error) {
	var resp TaskResponse
	if err := callService(ctx, a.container, service, req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Error.Err(); err != nil {
		return nil, err
	}
	if resp.Task == nil {
		return nil, fmt.Errorf("%s returned no task", service)
	}
	return resp.Task, nil
}
