package api

import (
	"github.com/example/task-tracker/domain/apperror"
	"github.com/example/task-tracker/modules/activity"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/task"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth     auth.AuthPort
	tasks    task.TaskPort
	activity activity.ActivityPort
	logger   types.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.AuthPort, taskPort task.TaskPort, activityPort activity.ActivityPort, logger types.Logger) *Handlers {
	return &Handlers{
		auth:     authPort,
		tasks:    taskPort,
		activity: activityPort,
		logger:   logger,
	}
}

// SignUp handles user registration and answers with a session.
func (h *Handlers) SignUp(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, badRequest("invalid request body"))
	}

	if err := ValidateSignUp(req.Username, req.Password); err != nil {
		return writeError(c, h.logger, err)
	}

	session, err := h.auth.SignUp(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(SessionResponse{AccessToken: session.AccessToken})
}

// SignIn runs the credential check. Any failure, including missing
// credentials, is a plain 401.
func (h *Handlers) SignIn(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, apperror.Unauthorized())
	}

	session, err := h.auth.SignIn(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.Status(fiber.StatusOK).JSON(SessionResponse{AccessToken: session.AccessToken})
}

// GetActivity returns the caller's recent task activity, newest first.
func (h *Handlers) GetActivity(c *fiber.Ctx) error {
	identity, ok := IdentityFrom(c)
	if !ok {
		return writeError(c, h.logger, apperror.Unauthorized())
	}

	entries, err := h.activity.ListActivity(c.UserContext(), identity.ID)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.Status(fiber.StatusOK).JSON(entries)
}
