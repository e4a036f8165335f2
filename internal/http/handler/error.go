package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/http/middleware"
	"docvault/internal/logging"
	"docvault/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Status    int           `json:"status"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "BAD_REQUEST", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Status:    status,
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

var statusCodes = map[int]struct{ code, message string }{
	fiber.StatusBadRequest:            {"BAD_REQUEST", "bad request"},
	fiber.StatusUnauthorized:          {"UNAUTHORIZED", "unauthorized"},
	fiber.StatusNotFound:              {"NOT_FOUND", "resource not found"},
	fiber.StatusMethodNotAllowed:      {"METHOD_NOT_ALLOWED", "method not allowed"},
	fiber.StatusRequestEntityTooLarge: {"PAYLOAD_TOO_LARGE", "request body too large"},
	fiber.StatusTooManyRequests:       {"TOO_MANY_REQUESTS", "too many requests"},
	fiber.StatusServiceUnavailable:    {"SERVICE_UNAVAILABLE", "dependency unavailable"},
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
// Service errors map to their status; anything unrecognized is logged and
// reported as a generic 500.
func ErrorHandler(log *logging.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logging.Discard()
	}
	log = log.With("http")

	return func(c *fiber.Ctx, err error) error {
		var (
			verr *service.ValidationError
			ferr *fiber.Error
		)
		switch {
		case errors.As(err, &verr):
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", verr.Error())
		case errors.Is(err, service.ErrNotFound):
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
		case errors.Is(err, service.ErrUnauthorized):
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", service.ErrUnauthorized.Error())
		case errors.As(err, &ferr):
			if sc, ok := statusCodes[ferr.Code]; ok {
				msg := sc.message
				if ferr.Code < fiber.StatusInternalServerError && ferr.Message != "" {
					msg = ferr.Message
				}
				return writeError(c, ferr.Code, sc.code, msg)
			}
			if ferr.Code < fiber.StatusInternalServerError {
				return writeError(c, ferr.Code, "REQUEST_ERROR", ferr.Message)
			}
		}

		log.Error("request_failed", err, logging.Fields{
			"status":     "error",
			"request_id": middleware.RequestIDFrom(c),
			"method":     c.Method(),
			"path":       c.Path(),
		})
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
