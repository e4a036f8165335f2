package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the standard header name used to propagate request IDs.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the key used to store the request ID in Fiber's context locals.
	RequestIDLocalKey = "request_id"
)

// RequestID ensures every request has a request ID.
//
// Behavior:
// - Reads X-Request-ID from the incoming request header.
// - If missing, generates a new UUID.
// - Stores the value in Fiber context locals under RequestIDLocalKey.
// - Adds X-Request-ID to the response header with the same value.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}

// RequestIDFrom returns the request ID stored by RequestID, or "".
func RequestIDFrom(c *fiber.Ctx) string {
	rid, _ := c.Locals(RequestIDLocalKey).(string)
	return rid
}
