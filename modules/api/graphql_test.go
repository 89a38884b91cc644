package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/task-tracker/domain/apperror"
	domain "github.com/example/task-tracker/domain/task"
	userdomain "github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type graphQLError struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions"`
}

type graphQLResponse struct {
	Data   map[string]any `json:"data"`
	Errors []graphQLError `json:"errors"`
}

func TestNewSchema(t *testing.T) {
	_, err := NewSchema(&mockAuthPort{}, &mockTaskPort{}, &mockLogger{})
	require.NoError(t, err)
}

func TestGraphQL_UnauthenticatedTaskOperations(t *testing.T) {
	app := newTestApp(t, Deps{})

	queries := map[string]string{
		"getTasks":    `{ getTasks { id } }`,
		"getTaskById": `{ getTaskById(id: "` + testTaskID + `") { id } }`,
		"createTask":  `mutation { createTask(createTaskInput: {title: "Task 1", description: "first task"}) { id } }`,
		"deleteTask":  `mutation { deleteTask(id: "` + testTaskID + `") }`,
		"updateTaskStatus": `mutation { updateTaskStatus(updateTaskStatusInput: {id: "` + testTaskID + `", status: DONE}) { id } }`,
	}

	for name, query := range queries {
		t.Run(name, func(t *testing.T) {
			status, body := doRequest(t, app, http.MethodPost, "/graphql", "", GraphQLRequest{Query: query})
			require.Equal(t, http.StatusOK, status)

			resp := decode[graphQLResponse](t, body)
			require.Len(t, resp.Errors, 1, string(body))
			assert.Equal(t, "Unauthorized", resp.Errors[0].Message)
			assert.Equal(t, "unauthorized", resp.Errors[0].Extensions["code"])
			assert.Equal(t, float64(401), resp.Errors[0].Extensions["status"])
		})
	}
}

func TestGraphQL_MalformedBody(t *testing.T) {
	app := newTestApp(t, Deps{})

	tests := []struct {
		name string
		body string
	}{
		{name: "truncated json", body: `{"query": "{ getTasks { id } }"`},
		{name: "not an object", body: `"{ getTasks { id } }"`},
		{name: "wrong field type", body: `{"query": 42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			res, err := app.Test(req, -1)
			require.NoError(t, err)
			defer res.Body.Close()
			body, err := io.ReadAll(res.Body)
			require.NoError(t, err)

			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			resp := decode[graphQLResponse](t, body)
			assert.Nil(t, resp.Data)
			require.Len(t, resp.Errors, 1, string(body))
			assert.Equal(t, "invalid request body", resp.Errors[0].Message)
			assert.Equal(t, "validation_error", resp.Errors[0].Extensions["code"])
			assert.Equal(t, float64(400), resp.Errors[0].Extensions["status"])
			assert.NotContains(t, string(body), `"error":`)
		})
	}
}

func TestGraphQL_InvalidTokenIsAnonymous(t *testing.T) {
	app := newTestApp(t, Deps{})

	status, body := doRequest(t, app, http.MethodPost, "/graphql", "not-a-token", GraphQLRequest{Query: `{ getTasks { id } }`})
	require.Equal(t, http.StatusOK, status)

	resp := decode[graphQLResponse](t, body)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Unauthorized", resp.Errors[0].Message)
}

func TestGraphQL_SignInAndSignUp(t *testing.T) {
	authPort := &mockAuthPort{
		signUpFunc: func(_ context.Context, _, _ string) (*userdomain.Session, error) {
			return &userdomain.Session{AccessToken: "signup-token"}, nil
		},
		signInFunc: func(_ context.Context, _, password string) (*userdomain.Session, error) {
			if password != "Str0ng!Pass" {
				return nil, apperror.Unauthorized()
			}
			return &userdomain.Session{AccessToken: "signin-token"}, nil
		},
	}
	app := newTestApp(t, Deps{Auth: authPort})

	signUp := `mutation($u: String!, $p: String!) { signUp(authCredentialsInput: {username: $u, password: $p}) { access_token } }`
	_, body := doRequest(t, app, http.MethodPost, "/graphql", "", GraphQLRequest{
		Query:     signUp,
		Variables: map[string]any{"u": "a@x.com", "p": "Str0ng!Pass"},
	})
	resp := decode[graphQLResponse](t, body)
	require.Empty(t, resp.Errors, string(body))
	assert.Equal(t, "signup-token", resp.Data["signUp"].(map[string]any)["access_token"])

	_, body = doRequest(t, app, http.MethodPost, "/graphql", "", GraphQLRequest{
		Query:     signUp,
		Variables: map[string]any{"u": "not-an-email", "p": "weak"},
	})
	resp = decode[graphQLResponse](t, body)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "validation_error", resp.Errors[0].Extensions["code"])
	assert.Len(t, resp.Errors[0].Extensions["details"], 2)

	signIn := `mutation { signIn(authCredentialsInput: {username: "a@x.com", password: "wrong"}) { access_token } }`
	_, body = doRequest(t, app, http.MethodPost, "/graphql", "", GraphQLRequest{Query: signIn})
	resp = decode[graphQLResponse](t, body)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Unauthorized", resp.Errors[0].Message)
}

func TestGraphQL_TaskOperations(t *testing.T) {
	tokens := testTokens()
	token := issueToken(t, tokens, testUserID)

	var gotFilter domain.Filter
	var gotStatus string
	tasks := &mockTaskPort{
		getTasksFunc: func(_ context.Context, filter domain.Filter, ownerID string) ([]task.TaskData, error) {
			gotFilter = filter
			return []task.TaskData{*sampleTask()}, nil
		},
		getTaskFunc: func(_ context.Context, id, _ string) (*task.TaskData, error) {
			return nil, apperror.TaskNotFound(id)
		},
		updateFieldFunc: func(_ context.Context, field, _, value, _ string) (*task.TaskData, error) {
			gotStatus = value
			updated := sampleTask()
			updated.Status = domain.Status(value)
			return updated, nil
		},
	}
	app := newTestApp(t, Deps{Tasks: tasks, Tokens: tokens})

	_, body := doRequest(t, app, http.MethodPost, "/graphql", token, GraphQLRequest{
		Query: `{ getTasks(getTasksFilterInput: {status: OPEN, search: "first"}) { id title status } }`,
	})
	resp := decode[graphQLResponse](t, body)
	require.Empty(t, resp.Errors, string(body))
	list := resp.Data["getTasks"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "OPEN", list[0].(map[string]any)["status"])
	assert.Equal(t, domain.Filter{Status: domain.StatusOpen, Search: "first"}, gotFilter)

	_, body = doRequest(t, app, http.MethodPost, "/graphql", token, GraphQLRequest{
		Query: `{ getTaskById(id: "` + testTaskID + `") { id } }`,
	})
	resp = decode[graphQLResponse](t, body)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "not_found", resp.Errors[0].Extensions["code"])
	assert.Equal(t, float64(404), resp.Errors[0].Extensions["status"])

	_, body = doRequest(t, app, http.MethodPost, "/graphql", token, GraphQLRequest{
		Query: `mutation { updateTaskStatus(updateTaskStatusInput: {id: "not-a-uuid", status: DONE}) { id } }`,
	})
	resp = decode[graphQLResponse](t, body)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "validation_error", resp.Errors[0].Extensions["code"])
	assert.Empty(t, gotStatus, "invalid id must not reach the task port")

	_, body = doRequest(t, app, http.MethodPost, "/graphql", token, GraphQLRequest{
		Query: `mutation { updateTaskStatus(updateTaskStatusInput: {id: "` + testTaskID + `", status: DONE}) { id status } }`,
	})
	resp = decode[graphQLResponse](t, body)
	require.Empty(t, resp.Errors, string(body))
	assert.Equal(t, "DONE", resp.Data["updateTaskStatus"].(map[string]any)["status"])
	assert.Equal(t, "DONE", gotStatus)
}
