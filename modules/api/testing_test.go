package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	userdomain "github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/activity"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/task"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

// mockAuthPort implements auth.AuthPort for testing
type mockAuthPort struct {
	signUpFunc func(ctx context.Context, username, password string) (*userdomain.Session, error)
	signInFunc func(ctx context.Context, username, password string) (*userdomain.Session, error)
}

func (m *mockAuthPort) SignUp(ctx context.Context, username, password string) (*userdomain.Session, error) {
	if m.signUpFunc != nil {
		return m.signUpFunc(ctx, username, password)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthPort) SignIn(ctx context.Context, username, password string) (*userdomain.Session, error) {
	if m.signInFunc != nil {
		return m.signInFunc(ctx, username, password)
	}
	return nil, errors.New("not implemented")
}

// mockTaskPort implements task.TaskPort for testing
type mockTaskPort struct {
	getTasksFunc    func(ctx context.Context, filter domain.Filter, ownerID string) ([]task.TaskData, error)
	getTaskFunc     func(ctx context.Context, id, ownerID string) (*task.TaskData, error)
	createTaskFunc  func(ctx context.Context, input domain.CreateInput, ownerID string) (*task.TaskData, error)
	deleteTaskFunc  func(ctx context.Context, id, ownerID string) error
	updateFieldFunc func(ctx context.Context, field, id, value, ownerID string) (*task.TaskData, error)
}

func (m *mockTaskPort) GetTasks(ctx context.Context, filter domain.Filter, ownerID string) ([]task.TaskData, error) {
	if m.getTasksFunc != nil {
		return m.getTasksFunc(ctx, filter, ownerID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) GetTaskByID(ctx context.Context, id, ownerID string) (*task.TaskData, error) {
	if m.getTaskFunc != nil {
		return m.getTaskFunc(ctx, id, ownerID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) CreateTask(ctx context.Context, input domain.CreateInput, ownerID string) (*task.TaskData, error) {
	if m.createTaskFunc != nil {
		return m.createTaskFunc(ctx, input, ownerID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) DeleteTask(ctx context.Context, id, ownerID string) error {
	if m.deleteTaskFunc != nil {
		return m.deleteTaskFunc(ctx, id, ownerID)
	}
	return errors.New("not implemented")
}

func (m *mockTaskPort) UpdateTaskTitle(ctx context.Context, id, title, ownerID string) (*task.TaskData, error) {
	return m.updateField(ctx, "title", id, title, ownerID)
}

func (m *mockTaskPort) UpdateTaskDescription(ctx context.Context, id, description, ownerID string) (*task.TaskData, error) {
	return m.updateField(ctx, "description", id, description, ownerID)
}

func (m *mockTaskPort) UpdateTaskStatus(ctx context.Context, id string, status domain.Status, ownerID string) (*task.TaskData, error) {
	return m.updateField(ctx, "status", id, string(status), ownerID)
}

func (m *mockTaskPort) updateField(ctx context.Context, field, id, value, ownerID string) (*task.TaskData, error) {
	if m.updateFieldFunc != nil {
		return m.updateFieldFunc(ctx, field, id, value, ownerID)
	}
	return nil, errors.New("not implemented")
}

// mockActivityPort implements activity.ActivityPort for testing
type mockActivityPort struct {
	entries map[string][]activity.Entry
}

func (m *mockActivityPort) ListActivity(_ context.Context, ownerID string) ([]activity.Entry, error) {
	entries := m.entries[ownerID]
	if entries == nil {
		entries = []activity.Entry{}
	}
	return entries, nil
}

const (
	testUserID   = "11111111-1111-4111-8111-111111111111"
	testUsername = "a@x.com"
)

func testTokens() *auth.JWTManager {
	return auth.NewJWTManager(auth.JWTConfig{
		SecretKey: "test-secret",
		TokenTTL:  time.Hour,
		Issuer:    "task-tracker-test",
	})
}

func issueToken(t *testing.T, tokens *auth.JWTManager, userID string) string {
	t.Helper()

	token, err := tokens.Issue(userdomain.Identity{ID: userID, Username: testUsername})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return token
}

func newTestApp(t *testing.T, deps Deps) *fiber.App {
	t.Helper()

	if deps.Auth == nil {
		deps.Auth = &mockAuthPort{}
	}
	if deps.Tasks == nil {
		deps.Tasks = &mockTaskPort{}
	}
	if deps.Activity == nil {
		deps.Activity = &mockActivityPort{}
	}
	if deps.Tokens == nil {
		deps.Tokens = testTokens()
	}
	if deps.Logger == nil {
		deps.Logger = &mockLogger{}
	}

	app, err := NewApp(deps)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	return app
}

// doRequest sends a JSON request and returns the status and raw body.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json.Marshal() error = %v", err)
		}
		reader = strings.NewReader(string(data))
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("io.ReadAll() error = %v", err)
	}
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("json.Unmarshal(%s) error = %v", data, err)
	}
	return v
}
