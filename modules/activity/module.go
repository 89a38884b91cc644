package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// ActivityModule consumes task events and serves a per-owner activity feed.
type ActivityModule struct {
	log    *Log
	logger types.Logger
}

var (
	_ mono.Module                = (*ActivityModule)(nil)
	_ mono.EventConsumerModule   = (*ActivityModule)(nil)
	_ mono.ServiceProviderModule = (*ActivityModule)(nil)
)

// NewModule creates a new ActivityModule.
func NewModule(logger types.Logger) *ActivityModule {
	return &ActivityModule{
		log:    NewLog(DefaultLimit),
		logger: logger.WithModule("activity"),
	}
}

// Name returns the module name.
func (m *ActivityModule) Name() string {
	return "activity"
}

// RegisterEventConsumers subscribes to every task event.
func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", "TaskCreated.v1, TaskUpdated.v1, TaskDeleted.v1")
	return nil
}

func (m *ActivityModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.logger.Debug("Task created", "taskID", event.TaskID, "userID", event.UserID)
	m.log.Record(event.UserID, Entry{
		TaskID:     event.TaskID,
		Action:     ActionCreated,
		Field:      "title",
		Value:      event.Title,
		OccurredAt: event.CreatedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.logger.Debug("Task updated", "taskID", event.TaskID, "userID", event.UserID, "field", event.Field)
	m.log.Record(event.UserID, Entry{
		TaskID:     event.TaskID,
		Action:     ActionUpdated,
		Field:      event.Field,
		Value:      event.Value,
		OccurredAt: event.UpdatedAt,
	})
	return nil
}

func (m *ActivityModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.logger.Debug("Task deleted", "taskID", event.TaskID, "userID", event.UserID)
	m.log.Record(event.UserID, Entry{
		TaskID:     event.TaskID,
		Action:     ActionDeleted,
		OccurredAt: event.DeletedAt,
	})
	return nil
}

// RegisterServices registers the list-activity service.
func (m *ActivityModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-activity", json.Unmarshal, json.Marshal, m.listActivity,
	); err != nil {
		return fmt.Errorf("failed to register list-activity service: %w", err)
	}

	m.logger.Info("Registered services", "services", "list-activity")
	return nil
}

func (m *ActivityModule) listActivity(_ context.Context, req ListActivityRequest, _ *mono.Msg) (ListActivityResponse, error) {
	return ListActivityResponse{Entries: m.log.List(req.OwnerID)}, nil
}

// Start starts the module.
func (m *ActivityModule) Start(_ context.Context) error {
	m.logger.Info("Module started", "limit", m.log.limit)
	return nil
}

// Stop stops the module.
func (m *ActivityModule) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}
