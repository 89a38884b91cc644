package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/task-tracker/modules/activity"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Deps are the collaborators of the HTTP application.
type Deps struct {
	Auth     auth.AuthPort
	Tasks    task.TaskPort
	Activity activity.ActivityPort
	Tokens   TokenDecoder
	Logger   types.Logger

	// AccessLog enables fiber's request logger.
	AccessLog bool
}

// APIModule is the HTTP API module.
type APIModule struct {
	app      *fiber.App
	port     int
	tokens   TokenDecoder
	logger   types.Logger
	auth     auth.AuthPort
	tasks    task.TaskPort
	activity activity.ActivityPort
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*APIModule)(nil)
	_ mono.DependentModule       = (*APIModule)(nil)
	_ mono.HealthCheckableModule = (*APIModule)(nil)
)

// NewModule creates a new APIModule listening on port. Tokens are decoded locally.
func NewModule(tokens TokenDecoder, port int, logger types.Logger) *APIModule {
	return &APIModule{
		port:   port,
		tokens: tokens,
		logger: logger.WithModule("api"),
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "task", "activity"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.auth = auth.NewAuthAdapter(container)
	case "task":
		m.tasks = task.NewTaskAdapter(container)
	case "activity":
		m.activity = activity.NewActivityAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.auth == nil || m.tasks == nil || m.activity == nil {
		return fmt.Errorf("api dependencies not set")
	}
	if m.tokens == nil {
		return fmt.Errorf("token decoder not set")
	}

	app, err := NewApp(Deps{
		Auth:      m.auth,
		Tasks:     m.tasks,
		Activity:  m.activity,
		Tokens:    m.tokens,
		Logger:    m.logger,
		AccessLog: true,
	})
	if err != nil {
		return err
	}
	m.app = app

	addr := fmt.Sprintf(":%d", m.port)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	m.logger.Info("HTTP server started", "addr", addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// NewApp builds the fiber application with every route and middleware.
func NewApp(deps Deps) (*fiber.App, error) {
	handlers := NewHandlers(deps.Auth, deps.Tasks, deps.Activity, deps.Logger)

	schema, err := NewSchema(deps.Auth, deps.Tasks, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL schema: %w", err)
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(deps.Logger),
	})

	app.Use(recover.New())
	if deps.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	app.Post("/graphql", OptionalIdentity(deps.Tokens), handlers.GraphQL(schema))

	api := app.Group("/api", AuthMiddleware(AuthConfig{
		Tokens: deps.Tokens,
		Next:   isPublicRoute,
	}))

	api.Post("/auth/signup", handlers.SignUp)
	api.Post("/auth/signin", handlers.SignIn)

	api.Get("/tasks", handlers.GetTasks)
	api.Post("/tasks", handlers.CreateTask)
	api.Get("/tasks/:id", handlers.GetTaskByID)
	api.Delete("/tasks/:id", handlers.DeleteTask)
	api.Patch("/tasks/:id/title", handlers.UpdateTaskTitle)
	api.Patch("/tasks/:id/description", handlers.UpdateTaskDescription)
	api.Patch("/tasks/:id/status", handlers.UpdateTaskStatus)

	api.Get("/activity", handlers.GetActivity)

	return app, nil
}

// isPublicRoute marks the auth endpoints as public.
func isPublicRoute(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/auth/")
}
