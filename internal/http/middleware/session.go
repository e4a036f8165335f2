package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the cookie carrying the admin session token.
const SessionCookie = "auth"

// SessionValidator checks a session token.
type SessionValidator interface {
	Validate(token string) error
}

// RequireSession rejects requests without a valid session token in the auth
// cookie or an Authorization: Bearer header.
func RequireSession(v SessionValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			}
		}
		if token == "" || v.Validate(token) != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "session required")
		}
		return c.Next()
	}
}
