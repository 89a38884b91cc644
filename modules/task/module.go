package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/task-tracker/database"
	"github.com/example/task-tracker/events"
	"github.com/example/task-tracker/modules/cache"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/gorm"
)

// CacheHealth is implemented by task caches that report reachability and counters.
type CacheHealth interface {
	Ping(ctx context.Context) error
	Stats() cache.Stats
}

var _ CacheHealth = (*cache.Cache)(nil)

// TaskModule provides owner-scoped task services and emits task events.
type TaskModule struct {
	db       *gorm.DB
	cache    TaskCache
	logger   types.Logger
	eventBus mono.EventBus
	service  *TaskService
}

var (
	_ mono.Module                = (*TaskModule)(nil)
	_ mono.ServiceProviderModule = (*TaskModule)(nil)
	_ mono.EventBusAwareModule   = (*TaskModule)(nil)
	_ mono.EventEmitterModule    = (*TaskModule)(nil)
	_ mono.HealthCheckableModule = (*TaskModule)(nil)
)

// NewModule creates a new TaskModule. A nil cache disables cache-aside reads.
func NewModule(db *gorm.DB, cache TaskCache, logger types.Logger) *TaskModule {
	return &TaskModule{
		db:     db,
		cache:  cache,
		logger: logger.WithModule("task"),
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// SetEventBus receives the EventBus from the framework.
func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

// Start wires the store, the optional cache and the service.
func (m *TaskModule) Start(_ context.Context) error {
	if m.db == nil {
		return fmt.Errorf("database not configured")
	}

	var store Store = NewTaskRepository(m.db, m.logger)
	if m.cache != nil {
		store = NewCachedRepository(store, m.cache, m.logger)
	}
	m.service = NewTaskService(store)

	if m.eventBus == nil {
		m.logger.Warn("EventBus not set, task events will not be published")
	}
	m.logger.Info("Module started", "cache", m.cache != nil)
	return nil
}

// Stop shuts down the module.
func (m *TaskModule) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

// Health reports database reachability and, when the cache supports it, cache
// reachability and counters. An unreachable cache does not make the module
// unhealthy since reads fall through to the database.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{Healthy: false, Message: "database not initialized"}
	}
	if err := database.Ping(ctx, m.db); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	details := map[string]any{
		"cache": m.cache != nil,
	}
	if monitor, ok := m.cache.(CacheHealth); ok {
		reachable := true
		if err := monitor.Ping(ctx); err != nil {
			m.logger.Warn("Cache ping failed", "error", err)
			reachable = false
		}
		details["cache_reachable"] = reachable
		details["cache_stats"] = monitor.Stats()
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-task", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task-title", json.Unmarshal, json.Marshal, m.updateTaskTitle,
	); err != nil {
		return fmt.Errorf("failed to register update-task-title service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task-description", json.Unmarshal, json.Marshal, m.updateTaskDescription,
	); err != nil {
		return fmt.Errorf("failed to register update-task-description service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task-status", json.Unmarshal, json.Marshal, m.updateTaskStatus,
	); err != nil {
		return fmt.Errorf("failed to register update-task-status service: %w", err)
	}

	m.logger.Info("Registered services",
		"services", "list-tasks, get-task, create-task, delete-task, update-task-title, update-task-description, update-task-status")
	return nil
}
