package api

import (
	"github.com/example/task-tracker/domain/apperror"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/task"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
)

// GraphQLRequest is the body of POST /graphql.
type GraphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// gqlError carries the error kind into the response extensions.
type gqlError struct {
	message string
	kind    apperror.Kind
	details []string
}

func (e *gqlError) Error() string {
	return e.message
}

// Extensions implements gqlerrors.ExtendedError.
func (e *gqlError) Extensions() map[string]any {
	ext := map[string]any{
		"code":   string(e.kind),
		"status": e.kind.Status(),
	}
	if len(e.details) > 0 {
		ext["details"] = e.details
	}
	return ext
}

// graphQLResolvers resolves GraphQL fields against the module ports.
type graphQLResolvers struct {
	auth   auth.AuthPort
	tasks  task.TaskPort
	logger types.Logger
}

// fail converts err into a GraphQL error. Internal causes are logged, not exposed.
func (r *graphQLResolvers) fail(p graphql.ResolveParams, err error) error {
	appErr := apperror.As(err)
	message := appErr.Message
	if appErr.Kind == apperror.KindInternal {
		r.logger.Error("GraphQL resolver failed", "field", p.Info.FieldName, "error", err)
		message = internalErrorMessage
	}
	return &gqlError{message: message, kind: appErr.Kind, details: appErr.Details}
}

// owner returns the caller id or the Unauthorized error.
func (r *graphQLResolvers) owner(p graphql.ResolveParams) (string, error) {
	identity, ok := identityFromContext(p.Context)
	if !ok {
		return "", r.fail(p, apperror.Unauthorized())
	}
	return identity.ID, nil
}

// NewSchema builds the GraphQL schema over the auth and task ports.
func NewSchema(authPort auth.AuthPort, taskPort task.TaskPort, logger types.Logger) (graphql.Schema, error) {
	r := &graphQLResolvers{auth: authPort, tasks: taskPort, logger: logger}

	statusEnum := graphql.NewEnum(graphql.EnumConfig{
		Name: "TaskStatus",
		Values: graphql.EnumValueConfigMap{
			"OPEN":        &graphql.EnumValueConfig{Value: domain.StatusOpen},
			"IN_PROGRESS": &graphql.EnumValueConfig{Value: domain.StatusInProgress},
			"DONE":        &graphql.EnumValueConfig{Value: domain.StatusDone},
		},
	})

	taskType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Task",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"status":      &graphql.Field{Type: graphql.NewNonNull(statusEnum)},
		},
	})

	sessionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SignInSucceeded",
		Fields: graphql.Fields{
			"access_token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	credentialsInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "AuthCredentialsInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"username": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	filterInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "GetTasksFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"status": &graphql.InputObjectFieldConfig{Type: statusEnum},
			"search": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	createInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateTaskInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	updateInput := func(name, field string, fieldType graphql.Input) *graphql.InputObject {
		return graphql.NewInputObject(graphql.InputObjectConfig{
			Name: name,
			Fields: graphql.InputObjectConfigFieldMap{
				"id":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
				field: &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(fieldType)},
			},
		})
	}

	idArgs := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"getTasks": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(taskType))),
				Args: graphql.FieldConfigArgument{
					"getTasksFilterInput": &graphql.ArgumentConfig{Type: filterInput},
				},
				Resolve: r.getTasks,
			},
			"getTaskById": &graphql.Field{
				Type:    graphql.NewNonNull(taskType),
				Args:    idArgs,
				Resolve: r.getTaskByID,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"signUp": &graphql.Field{
				Type: sessionType,
				Args: graphql.FieldConfigArgument{
					"authCredentialsInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(credentialsInput)},
				},
				Resolve: r.signUp,
			},
			"signIn": &graphql.Field{
				Type: graphql.NewNonNull(sessionType),
				Args: graphql.FieldConfigArgument{
					"authCredentialsInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(credentialsInput)},
				},
				Resolve: r.signIn,
			},
			"createTask": &graphql.Field{
				Type: graphql.NewNonNull(taskType),
				Args: graphql.FieldConfigArgument{
					"createTaskInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createInput)},
				},
				Resolve: r.createTask,
			},
			"deleteTask": &graphql.Field{
				Type:    graphql.Boolean,
				Args:    idArgs,
				Resolve: r.deleteTask,
			},
			"updateTaskTitle": &graphql.Field{
				Type: graphql.NewNonNull(taskType),
				Args: graphql.FieldConfigArgument{
					"updateTaskTitleInput": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(updateInput("UpdateTaskTitleInput", "title", graphql.String)),
					},
				},
				Resolve: r.updateTaskTitle,
			},
			"updateTaskDescription": &graphql.Field{
				Type: graphql.NewNonNull(taskType),
				Args: graphql.FieldConfigArgument{
					"updateTaskDescriptionInput": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(updateInput("UpdateTaskDescriptionInput", "description", graphql.String)),
					},
				},
				Resolve: r.updateTaskDescription,
			},
			"updateTaskStatus": &graphql.Field{
				Type: graphql.NewNonNull(taskType),
				Args: graphql.FieldConfigArgument{
					"updateTaskStatusInput": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(updateInput("UpdateTaskStatusInput", "status", statusEnum)),
					},
				},
				Resolve: r.updateTaskStatus,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

func (r *graphQLResolvers) signUp(p graphql.ResolveParams) (any, error) {
	username, password := credentialsArg(p)
	if err := ValidateSignUp(username, password); err != nil {
		return nil, r.fail(p, err)
	}

	session, err := r.auth.SignUp(p.Context, username, password)
	if err != nil {
		return nil, r.fail(p, err)
	}
	return SessionResponse{AccessToken: session.AccessToken}, nil
}

func (r *graphQLResolvers) signIn(p graphql.ResolveParams) (any, error) {
	username, password := credentialsArg(p)
	session, err := r.auth.SignIn(p.Context, username, password)
	if err != nil {
		return nil, r.fail(p, err)
	}
	return SessionResponse{AccessToken: session.AccessToken}, nil
}

func (r *graphQLResolvers) getTasks(p graphql.ResolveParams) (any, error) {
	ownerID, err := r.owner(p)
	if err != nil {
		return nil, err
	}

	input, _ := p.Args["getTasksFilterInput"].(map[string]any)
	status, _ := input["status"].(domain.Status)
	search, _ := input["search"].(string)

	filter, err := ValidateFilter(string(status), search)
	if err != nil {
		return nil, r.fail(p, err)
	}

	tasks, err := r.tasks.GetTasks(p.Context, filter, ownerID)
	if err != nil {
		return nil, r.fail(p, err)
	}

	resp := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, toTaskResponse(&tasks[i]))
	}
	return resp, nil
}

func (r *graphQLResolvers) getTaskByID(p graphql.ResolveParams) (any, error) {
	ownerID, err := r.owner(p)
	if err != nil {
		return nil, err
	}

	id, _ := p.Args["id"].(string)
	if err := ValidateID(id); err != nil {
		return nil, r.fail(p, err)
	}

	t, err := r.tasks.GetTaskByID(p.Context, id, ownerID)
	return r.taskResult(p, t, err)
}

func (r *graphQLResolvers) createTask(p graphql.ResolveParams) (any, error) {
	ownerID, err := r.owner(p)
	if err != nil {
		return nil, err
	}

	input, _ := p.Args["createTaskInput"].(map[string]any)
	title, _ := input["title"].(string)
	description, _ := input["description"].(string)
	if err := ValidateCreateTask(title, description); err != nil {
		return nil, r.fail(p, err)
	}

	t, err := r.tasks.CreateTask(p.Context, domain.CreateInput{Title: title, Description: description}, ownerID)
	return r.taskResult(p, t, err)
}

// deleteTask resolves to null on success.
func (r *graphQLResolvers) deleteTask(p graphql.ResolveParams) (any, error) {
	ownerID, err := r.owner(p)
	if err != nil {
		return nil, err
	}

	id, _ := p.Args["id"].(string)
	if err := ValidateID(id); err != nil {
		return nil, r.fail(p, err)
	}

	if err := r.tasks.DeleteTask(p.Context, id, ownerID); err != nil {
		return nil, r.fail(p, err)
	}
	return nil, nil
}

func (r *graphQLResolvers) updateTaskTitle(p graphql.ResolveParams) (any, error) {
	ownerID, id, input, err := r.updateArgs(p, "updateTaskTitleInput")
	if err != nil {
		return nil, err
	}

	title, _ := input["title"].(string)
	if err := ValidateTitle(title); err != nil {
		return nil, r.fail(p, err)
	}

	t, err := r.tasks.UpdateTaskTitle(p.Context, id, title, ownerID)
	return r.taskResult(p, t, err)
}

func (r *graphQLResolvers) updateTaskDescription(p graphql.ResolveParams) (any, error) {
	ownerID, id, input, err := r.updateArgs(p, "updateTaskDescriptionInput")
	if err != nil {
		return nil, err
	}

	description, _ := input["description"].(string)
	if err := ValidateDescription(description); err != nil {
		return nil, r.fail(p, err)
	}

	t, err := r.tasks.UpdateTaskDescription(p.Context, id, description, ownerID)
	return r.taskResult(p, t, err)
}

func (r *graphQLResolvers) updateTaskStatus(p graphql.ResolveParams) (any, error) {
	ownerID, id, input, err := r.updateArgs(p, "updateTaskStatusInput")
	if err != nil {
		return nil, err
	}

	raw, _ := input["status"].(domain.Status)
	status, err := ValidateStatus(string(raw))
	if err != nil {
		return nil, r.fail(p, err)
	}

	t, err := r.tasks.UpdateTaskStatus(p.Context, id, status, ownerID)
	return r.taskResult(p, t, err)
}

// updateArgs resolves the caller and the validated id of an update input.
func (r *graphQLResolvers) updateArgs(p graphql.ResolveParams, arg string) (string, string, map[string]any, error) {
	ownerID, err := r.owner(p)
	if err != nil {
		return "", "", nil, err
	}

	input, _ := p.Args[arg].(map[string]any)
	id, _ := input["id"].(string)
	if err := ValidateID(id); err != nil {
		return "", "", nil, r.fail(p, err)
	}
	return ownerID, id, input, nil
}

func (r *graphQLResolvers) taskResult(p graphql.ResolveParams, t *task.TaskData, err error) (any, error) {
	if err != nil {
		return nil, r.fail(p, err)
	}
	return toTaskResponse(t), nil
}

func credentialsArg(p graphql.ResolveParams) (string, string) {
	input, _ := p.Args["authCredentialsInput"].(map[string]any)
	username, _ := input["username"].(string)
	password, _ := input["password"].(string)
	return username, password
}

// GraphQL executes a GraphQL request. The caller identity, when present, was
// stored by OptionalIdentity.
func (h *Handlers) GraphQL(schema graphql.Schema) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req GraphQLRequest
		if err := c.BodyParser(&req); err != nil {
			return writeGraphQLError(c, &gqlError{message: "invalid request body", kind: apperror.KindValidation})
		}

		ctx := c.UserContext()
		if identity, ok := IdentityFrom(c); ok {
			ctx = withIdentity(ctx, identity)
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        ctx,
		})

		return c.Status(fiber.StatusOK).JSON(result)
	}
}

// writeGraphQLError answers a request that never reached execution with a
// GraphQL errors envelope.
func writeGraphQLError(c *fiber.Ctx, e *gqlError) error {
	return c.Status(e.kind.Status()).JSON(graphql.Result{
		Errors: []gqlerrors.FormattedError{{
			Message:    e.message,
			Extensions: e.Extensions(),
		}},
	})
}
