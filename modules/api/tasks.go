package api

import (
	"github.com/example/task-tracker/domain/apperror"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/task"
	"github.com/gofiber/fiber/v2"
)

// Task routes. The owner always comes from the verified identity, never
// from the request.

// GetTasks lists the caller's tasks, optionally filtered by status and search.
func (h *Handlers) GetTasks(c *fiber.Ctx) error {
	identity, ok := IdentityFrom(c)
	if !ok {
		return writeError(c, h.logger, apperror.Unauthorized())
	}

	filter, err := ValidateFilter(c.Query("status"), c.Query("search"))
	if err != nil {
		return writeError(c, h.logger, err)
	}

	h.logger.Debug("Listing tasks", "userID", identity.ID, "status", filter.Status, "search", filter.Search)

	tasks, err := h.tasks.GetTasks(c.UserContext(), filter, identity.ID)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	resp := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, toTaskResponse(&tasks[i]))
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetTaskByID returns one of the caller's tasks.
func (h *Handlers) GetTaskByID(c *fiber.Ctx) error {
	identity, ok := IdentityFrom(c)
	if !ok {
		return writeError(c, h.logger, apperror.Unauthorized())
	}

	t, err := h.tasks.GetTaskByID(c.UserContext(), c.Params("id"), identity.ID)
	return h.taskResult(c, fiber.StatusOK, t, err)
}

// CreateTask creates a task owned by the caller.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	identity, ok := IdentityFrom(c)
	if !ok {
		return writeError(c, h.logger, apperror.Unauthorized())
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, badRequest("invalid request body"))
	}
	if err := ValidateCreateTask(req.Title, req.Description); err != nil {
		return writeError(c, h.logger, err)
	}

	t, err := h.tasks.CreateTask(c.UserContext(), domain.CreateInput{
		Title:       req.Title,
		Description: req.Description,
	}, identity.ID)
	return h.taskResult(c, fiber.StatusCreated, t, err)
}

// DeleteTask deletes one of the caller's tasks and answers 200 with no body.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	identity, ok := IdentityFrom(c)
	if !ok {
		return writeError(c, h.logger, apperror.Unauthorized())
	}

	if err := h.tasks.DeleteTask(c.UserContext(), c.Params("id"), identity.ID); err != nil {
		return writeError(c, h.logger, err)
	}
	c.Status(fiber.StatusOK)
	return nil
}

// UpdateTaskTitle changes the title of one of the caller's tasks.
func (h *Handlers) UpdateTaskTitle(c *fiber.Ctx) error {
	identity, ok := IdentityFrom(c)
	if !ok {
		return writeError(c, h.logger, apperror.Unauthorized())
	}

	var req UpdateTitleRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, badRequest("invalid request body"))
	}
	if err := ValidateTitle(req.Title); err != nil {
		return writeError(c, h.logger, err)
	}

	t, err := h.tasks.UpdateTaskTitle(c.UserContext(), c.Params("id"), req.Title, identity.ID)
	return h.taskResult(c, fiber.StatusOK, t, err)
}

// UpdateTaskDescription changes the description of one of the caller's tasks.
func (h *Handlers) UpdateTaskDescription(c *fiber.Ctx) error {
	identity, ok := IdentityFrom(c)
	if !ok {
		return writeError(c, h.logger, apperror.Unauthorized())
	}

	var req UpdateDescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, badRequest("invalid request body"))
	}
	if err := ValidateDescription(req.Description); err != nil {
		return writeError(c, h.logger, err)
	}

	t, err := h.tasks.UpdateTaskDescription(c.UserContext(), c.Params("id"), req.Description, identity.ID)
	return h.taskResult(c, fiber.StatusOK, t, err)
}

// UpdateTaskStatus changes the status of one of the caller's tasks.
func (h *Handlers) UpdateTaskStatus(c *fiber.Ctx) error {
	identity, ok := IdentityFrom(c)
	if !ok {
		return writeError(c, h.logger, apperror.Unauthorized())
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.logger, badRequest("invalid request body"))
	}
	status, err := ValidateStatus(req.Status)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	t, err := h.tasks.UpdateTaskStatus(c.UserContext(), c.Params("id"), status, identity.ID)
	return h.taskResult(c, fiber.StatusOK, t, err)
}

func (h *Handlers) taskResult(c *fiber.Ctx, status int, t *task.TaskData, err error) error {
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(status).JSON(toTaskResponse(t))
}
