package task

import (
	"context"
	"errors"
	"testing"

	"github.com/example/task-tracker/domain/apperror"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerA = "11111111-1111-4111-8111-111111111111"
	ownerB = "22222222-2222-4222-8222-222222222222"
)

func mustCreate(t *testing.T, store Store, title, description, owner string) *domain.Task {
	t.Helper()

	task, err := store.Create(context.Background(), domain.CreateInput{Title: title, Description: description}, owner)
	require.NoError(t, err)
	return task
}

func TestTaskRepository_Create(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t), newMockLogger())

	task := mustCreate(t, repo, "Task 1", "first task", ownerA)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Task 1", task.Title)
	assert.Equal(t, "first task", task.Description)
	assert.Equal(t, domain.StatusOpen, task.Status)
	assert.Equal(t, ownerA, task.UserID)
}

func TestTaskRepository_FindByID_OwnerScoped(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t), newMockLogger())
	ctx := context.Background()
	task := mustCreate(t, repo, "Task 1", "first task", ownerA)

	got, err := repo.FindByID(ctx, task.ID, ownerA)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	_, err = repo.FindByID(ctx, task.ID, ownerB)
	require.True(t, errors.Is(err, apperror.ErrNotFound), "foreign task: got %v", err)

	missing := "33333333-3333-4333-8333-333333333333"
	_, missingErr := repo.FindByID(ctx, missing, ownerA)
	require.True(t, errors.Is(missingErr, apperror.ErrNotFound))

	// Foreign and missing tasks are indistinguishable apart from the echoed id.
	assert.Equal(t, `Task with ID "`+task.ID+`" not found`, err.Error())
	assert.Equal(t, `Task with ID "`+missing+`" not found`, missingErr.Error())
}

func TestTaskRepository_Delete_OwnerScoped(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db, newMockLogger())
	ctx := context.Background()
	task := mustCreate(t, repo, "Task 1", "first task", ownerA)

	err := repo.Delete(ctx, task.ID, ownerB)
	require.True(t, errors.Is(err, apperror.ErrNotFound), "got %v", err)

	var count int64
	require.NoError(t, db.Model(&domain.Task{}).Where("id = ?", task.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "foreign delete must not remove the row")

	require.NoError(t, repo.Delete(ctx, task.ID, ownerA))

	err = repo.Delete(ctx, task.ID, ownerA)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestTaskRepository_UpdatesTouchOneField(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t), newMockLogger())
	ctx := context.Background()

	tests := []struct {
		name   string
		update func(id string) (*domain.Task, error)
		want   func(before domain.Task) domain.Task
	}{
		{
			name: "title",
			update: func(id string) (*domain.Task, error) {
				return repo.UpdateTitle(ctx, id, "Renamed", ownerA)
			},
			want: func(before domain.Task) domain.Task { before.Title = "Renamed"; return before },
		},
		{
			name: "description",
			update: func(id string) (*domain.Task, error) {
				return repo.UpdateDescription(ctx, id, "new description", ownerA)
			},
			want: func(before domain.Task) domain.Task { before.Description = "new description"; return before },
		},
		{
			name: "status",
			update: func(id string) (*domain.Task, error) {
				return repo.UpdateStatus(ctx, id, domain.StatusInProgress, ownerA)
			},
			want: func(before domain.Task) domain.Task { before.Status = domain.StatusInProgress; return before },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := *mustCreate(t, repo, "Original", "original description", ownerA)

			got, err := tt.update(before.ID)
			require.NoError(t, err)

			want := tt.want(before)
			assert.Equal(t, want.ID, got.ID)
			assert.Equal(t, want.Title, got.Title)
			assert.Equal(t, want.Description, got.Description)
			assert.Equal(t, want.Status, got.Status)
			assert.Equal(t, want.UserID, got.UserID)

			stored, err := repo.FindByID(ctx, before.ID, ownerA)
			require.NoError(t, err)
			assert.Equal(t, want.Title, stored.Title)
			assert.Equal(t, want.Description, stored.Description)
			assert.Equal(t, want.Status, stored.Status)
		})
	}
}

func TestTaskRepository_Update_ForeignOwner(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t), newMockLogger())
	ctx := context.Background()
	task := mustCreate(t, repo, "Task 1", "first task", ownerA)

	_, err := repo.UpdateTitle(ctx, task.ID, "Hijacked", ownerB)
	require.True(t, errors.Is(err, apperror.ErrNotFound))

	_, err = repo.UpdateStatus(ctx, task.ID, domain.StatusDone, ownerB)
	require.True(t, errors.Is(err, apperror.ErrNotFound))

	stored, err := repo.FindByID(ctx, task.ID, ownerA)
	require.NoError(t, err)
	assert.Equal(t, "Task 1", stored.Title)
	assert.Equal(t, domain.StatusOpen, stored.Status)
}

func TestTaskRepository_FindAll(t *testing.T) {
	repo := NewTaskRepository(setupTestDB(t), newMockLogger())
	ctx := context.Background()

	first := mustCreate(t, repo, "Buy milk", "from the store", ownerA)
	second := mustCreate(t, repo, "Write report", "quarterly TASK review", ownerA)
	third := mustCreate(t, repo, "My Task", "something", ownerA)
	foreign := mustCreate(t, repo, "Foreign task", "other owner", ownerB)
	accented := mustCreate(t, repo, "ÉCOLE run", "Ärger bei Über", ownerA)

	_, err := repo.UpdateStatus(ctx, second.ID, domain.StatusDone, ownerA)
	require.NoError(t, err)

	ids := func(tasks []domain.Task) []string {
		out := make([]string, 0, len(tasks))
		for _, task := range tasks {
			out = append(out, task.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter domain.Filter
		owner  string
		want   []string
	}{
		{name: "no filter", filter: domain.Filter{}, owner: ownerA, want: []string{first.ID, second.ID, third.ID, accented.ID}},
		{name: "status OPEN", filter: domain.Filter{Status: domain.StatusOpen}, owner: ownerA, want: []string{first.ID, third.ID, accented.ID}},
		{name: "status DONE", filter: domain.Filter{Status: domain.StatusDone}, owner: ownerA, want: []string{second.ID}},
		{name: "status IN_PROGRESS", filter: domain.Filter{Status: domain.StatusInProgress}, owner: ownerA, want: []string{}},
		{name: "search matches title or description case-insensitively", filter: domain.Filter{Search: "task"}, owner: ownerA, want: []string{second.ID, third.ID}},
		{name: "search upper case", filter: domain.Filter{Search: "MILK"}, owner: ownerA, want: []string{first.ID}},
		{name: "search and status", filter: domain.Filter{Search: "task", Status: domain.StatusOpen}, owner: ownerA, want: []string{third.ID}},
		{name: "search never escapes owner scope", filter: domain.Filter{Search: "foreign"}, owner: ownerA, want: []string{}},
		{name: "search non-ASCII lower case in title", filter: domain.Filter{Search: "école"}, owner: ownerA, want: []string{accented.ID}},
		{name: "search non-ASCII exact case in title", filter: domain.Filter{Search: "ÉCOLE"}, owner: ownerA, want: []string{accented.ID}},
		{name: "search non-ASCII lower case in description", filter: domain.Filter{Search: "über"}, owner: ownerA, want: []string{accented.ID}},
		{name: "search non-ASCII upper case in description", filter: domain.Filter{Search: "ÜBER"}, owner: ownerA, want: []string{accented.ID}},
		{name: "search folds case but not accents", filter: domain.Filter{Search: "ecole"}, owner: ownerA, want: []string{}},
		{name: "search treats wildcards literally", filter: domain.Filter{Search: "%"}, owner: ownerA, want: []string{}},
		{name: "other owner", filter: domain.Filter{}, owner: ownerB, want: []string{foreign.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindAll(ctx, tt.filter, tt.owner)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, ids(got))
		})
	}
}

func TestTaskRepository_FindAll_Failure(t *testing.T) {
	db := setupTestDB(t)
	logger := newMockLogger()
	repo := NewTaskRepository(db, logger)
	require.NoError(t, db.Migrator().DropTable(&domain.Task{}))

	tasks, err := repo.FindAll(context.Background(), domain.Filter{Search: "x"}, ownerA)

	assert.Nil(t, tasks)
	assert.True(t, errors.Is(err, apperror.ErrInternal), "got %v", err)
	assert.Equal(t, "Internal Server Error", apperror.As(err).Message)
	assert.Contains(t, logger.errorMessages(), "Failed to get tasks for user")
}
