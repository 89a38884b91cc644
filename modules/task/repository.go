package task

import (
	"context"
	"encoding/json"
	"errors"
	"runtime/debug"
	"strings"
	"time"

	"github.com/example/task-tracker/domain/apperror"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is owner-scoped task persistence. Every method filters by ownerID,
// so a task owned by someone else behaves exactly like a missing one.
type Store interface {
	FindAll(ctx context.Context, filter domain.Filter, ownerID string) ([]domain.Task, error)
	FindByID(ctx context.Context, id, ownerID string) (*domain.Task, error)
	Create(ctx context.Context, input domain.CreateInput, ownerID string) (*domain.Task, error)
	Delete(ctx context.Context, id, ownerID string) error
	UpdateTitle(ctx context.Context, id, title, ownerID string) (*domain.Task, error)
	UpdateDescription(ctx context.Context, id, description, ownerID string) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status, ownerID string) (*domain.Task, error)
}

// likeEscaper escapes LIKE wildcards so search terms match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// TaskRepository implements Store with GORM.
type TaskRepository struct {
	db     *gorm.DB
	logger types.Logger
}

var _ Store = (*TaskRepository)(nil)

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB, logger types.Logger) *TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
	}
}

// FindAll returns the owner's tasks, narrowed by exact status and a
// case-insensitive search over title or description.
func (r *TaskRepository) FindAll(ctx context.Context, filter domain.Filter, ownerID string) ([]domain.Task, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", ownerID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.Search != "" {
		clause, pattern := r.searchClause(filter.Search)
		query = query.Where(clause, pattern, pattern)
	}

	tasks := make([]domain.Task, 0)
	if err := query.Order("created_at ASC").Find(&tasks).Error; err != nil {
		filters, _ := json.Marshal(filter)
		r.logger.Error("Failed to get tasks for user",
			"userID", ownerID,
			"filters", string(filters),
			"error", err,
			"stack", string(debug.Stack()))
		return nil, apperror.Internal(err)
	}

	return tasks, nil
}

// searchClause matches search as a literal, case-insensitive substring of the
// title or the description. Both sides are folded with the same Unicode-aware
// function: ILIKE on postgres, unicode_lower (registered by database.Open) on sqlite.
func (r *TaskRepository) searchClause(search string) (string, string) {
	pattern := "%" + likeEscaper.Replace(search) + "%"
	if r.db.Dialector.Name() == "postgres" {
		return `(title ILIKE ? OR description ILIKE ?)`, pattern
	}
	return `(unicode_lower(title) LIKE ? ESCAPE '\' OR unicode_lower(description) LIKE ? ESCAPE '\')`, strings.ToLower(pattern)
}

// FindByID returns the task only when it exists and belongs to ownerID.
func (r *TaskRepository) FindByID(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	var task domain.Task
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&task)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			r.logger.Debug("Task not found", "taskID", id, "userID", ownerID)
			return nil, apperror.TaskNotFound(id)
		}
		r.logger.Error("Failed to get task", "taskID", id, "userID", ownerID, "error", result.Error)
		return nil, apperror.Internal(result.Error)
	}
	return &task, nil
}

// Create stores a new OPEN task owned by ownerID.
func (r *TaskRepository) Create(ctx context.Context, input domain.CreateInput, ownerID string) (*domain.Task, error) {
	now := time.Now()
	task := &domain.Task{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.StatusOpen,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		r.logger.Error("Failed to create task",
			"userID", ownerID,
			"error", err,
			"stack", string(debug.Stack()))
		return nil, apperror.Internal(err)
	}

	return task, nil
}

// Delete removes the task matching (id, ownerID).
func (r *TaskRepository) Delete(ctx context.Context, id, ownerID string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&domain.Task{})
	if result.Error != nil {
		r.logger.Error("Failed to delete task", "taskID", id, "userID", ownerID, "error", result.Error)
		return apperror.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.TaskNotFound(id)
	}
	return nil
}

// UpdateTitle changes only the title.
func (r *TaskRepository) UpdateTitle(ctx context.Context, id, title, ownerID string) (*domain.Task, error) {
	return r.updateField(ctx, id, ownerID, "title", title, func(t *domain.Task) { t.Title = title })
}

// UpdateDescription changes only the description.
func (r *TaskRepository) UpdateDescription(ctx context.Context, id, description, ownerID string) (*domain.Task, error) {
	return r.updateField(ctx, id, ownerID, "description", description, func(t *domain.Task) { t.Description = description })
}

// UpdateStatus changes only the status.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status domain.Status, ownerID string) (*domain.Task, error) {
	return r.updateField(ctx, id, ownerID, "status", status, func(t *domain.Task) { t.Status = status })
}

// updateField re-resolves the task through FindByID, then writes a single column.
func (r *TaskRepository) updateField(ctx context.Context, id, ownerID, column string, value any, apply func(*domain.Task)) (*domain.Task, error) {
	task, err := r.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Model(task).Where("user_id = ?", ownerID).Update(column, value)
	if result.Error != nil {
		r.logger.Error("Failed to update task",
			"taskID", id,
			"userID", ownerID,
			"field", column,
			"error", result.Error)
		return nil, apperror.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		// Deleted between the lookup and the write.
		return nil, apperror.TaskNotFound(id)
	}

	apply(task)
	return task, nil
}
