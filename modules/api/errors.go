package api

import (
	"errors"

	"github.com/example/task-tracker/domain/apperror"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

const internalErrorMessage = "An internal error occurred"

// writeError renders err with the status of its kind. Internal failures are
// logged and answered with a generic message.
func writeError(c *fiber.Ctx, logger types.Logger, err error) error {
	appErr := apperror.As(err)

	message := appErr.Message
	if appErr.Kind == apperror.KindInternal {
		logger.Error("Request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err)
		message = internalErrorMessage
	}

	return c.Status(appErr.Kind.Status()).JSON(ErrorResponse{
		Error:   string(appErr.Kind),
		Message: message,
		Details: appErr.Details,
	})
}

// errorHandler handles errors that escape route handlers, such as unknown routes.
func errorHandler(logger types.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Error:   kindForStatus(fiberErr.Code),
				Message: fiberErr.Message,
			})
		}
		return writeError(c, logger, err)
	}
}

func kindForStatus(code int) string {
	switch code {
	case fiber.StatusBadRequest:
		return string(apperror.KindValidation)
	case fiber.StatusUnauthorized:
		return string(apperror.KindUnauthorized)
	case fiber.StatusNotFound:
		return string(apperror.KindNotFound)
	case fiber.StatusConflict:
		return string(apperror.KindConflict)
	case fiber.StatusInternalServerError:
		return string(apperror.KindInternal)
	default:
		return "server_error"
	}
}

func badRequest(message string) error {
	return apperror.Validation(message)
}
