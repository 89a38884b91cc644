package task

import (
	"context"
	"time"

	"github.com/example/task-tracker/domain/apperror"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono"
)

// Handlers reply with classified failures in the envelope and a nil error,
// so the caller can rebuild the error kind on its side.

func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	m.logger.Debug("Retrieving tasks", "userID", req.OwnerID, "status", req.Filter.Status, "search", req.Filter.Search)

	tasks, err := m.service.GetTasks(ctx, req.Filter, req.OwnerID)
	if err != nil {
		return ListTasksResponse{Error: apperror.ToPayload(err)}, nil
	}

	data := make([]TaskData, 0, len(tasks))
	for i := range tasks {
		data = append(data, *toTaskData(&tasks[i]))
	}
	return ListTasksResponse{Tasks: data}, nil
}

func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.GetTaskByID(ctx, req.TaskID, req.OwnerID)
	if err != nil {
		return TaskResponse{Error: apperror.ToPayload(err)}, nil
	}
	return TaskResponse{Task: toTaskData(task)}, nil
}

func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	m.logger.Debug("Creating task", "userID", req.OwnerID, "title", req.Title)

	task, err := m.service.CreateTask(ctx, domain.CreateInput{
		Title:       req.Title,
		Description: req.Description,
	}, req.OwnerID)
	if err != nil {
		return TaskResponse{Error: apperror.ToPayload(err)}, nil
	}

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:      task.ID,
			Title:       task.Title,
			Description: task.Description,
			UserID:      task.UserID,
			CreatedAt:   task.CreatedAt,
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("Failed to publish TaskCreated event", "taskID", task.ID, "error", err)
		}
	}

	return TaskResponse{Task: toTaskData(task)}, nil
}

func (m *TaskModule) deleteTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.DeleteTask(ctx, req.TaskID, req.OwnerID); err != nil {
		return DeleteTaskResponse{Error: apperror.ToPayload(err)}, nil
	}

	if m.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    req.TaskID,
			UserID:    req.OwnerID,
			DeletedAt: time.Now(),
		}
		if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("Failed to publish TaskDeleted event", "taskID", req.TaskID, "error", err)
		}
	}

	return DeleteTaskResponse{Deleted: true}, nil
}

func (m *TaskModule) updateTaskTitle(ctx context.Context, req UpdateTaskFieldRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.UpdateTaskTitle(ctx, req.TaskID, req.Value, req.OwnerID)
	return m.updated(task, err, "title")
}

func (m *TaskModule) updateTaskDescription(ctx context.Context, req UpdateTaskFieldRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.UpdateTaskDescription(ctx, req.TaskID, req.Value, req.OwnerID)
	return m.updated(task, err, "description")
}

func (m *TaskModule) updateTaskStatus(ctx context.Context, req UpdateTaskFieldRequest, _ *mono.Msg) (TaskResponse, error) {
	status, err := domain.ParseStatus(req.Value)
	if err != nil {
		return TaskResponse{Error: apperror.ToPayload(apperror.Validation("status must be one of OPEN, IN_PROGRESS, DONE"))}, nil
	}
	task, err := m.service.UpdateTaskStatus(ctx, req.TaskID, status, req.OwnerID)
	return m.updated(task, err, "status")
}

// updated builds the reply for a single-field update and publishes TaskUpdated.
func (m *TaskModule) updated(task *domain.Task, err error, field string) (TaskResponse, error) {
	if err != nil {
		return TaskResponse{Error: apperror.ToPayload(err)}, nil
	}

	if m.eventBus != nil {
		event := events.TaskUpdatedEvent{
			TaskID:    task.ID,
			UserID:    task.UserID,
			Field:     field,
			Value:     fieldValue(task, field),
			UpdatedAt: task.UpdatedAt,
		}
		if err := events.TaskUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("Failed to publish TaskUpdated event", "taskID", task.ID, "error", err)
		}
	}

	return TaskResponse{Task: toTaskData(task)}, nil
}

func fieldValue(task *domain.Task, field string) string {
	switch field {
	case "title":
		return task.Title
	case "description":
		return task.Description
	case "status":
		return string(task.Status)
	}
	return ""
}
