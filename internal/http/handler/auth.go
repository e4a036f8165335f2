package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

// SessionIssuer mints admin session tokens.
type SessionIssuer interface {
	Issue() (string, time.Time, error)
}

// VerifyPassword godoc
// @Summary Verify the admin password
// @Description On success issues a session token in the auth cookie and the body.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body verifyRequest true "password"
// @Success 200 {object} verifyResponse
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Failure 429 {object} errorPayload
// @Router /api/auth/verify [post]
func VerifyPassword(gate service.AdminGate, sessions SessionIssuer, secureCookie bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req verifyRequest
		if err := c.BodyParser(&req); err != nil {
			return &service.ValidationError{Field: "body", Reason: "invalid JSON"}
		}
		if strings.TrimSpace(req.Password) == "" {
			return &service.ValidationError{Field: "password", Reason: "is required"}
		}

		ok, err := gate.VerifyPassword(c.UserContext(), req.Password)
		if err != nil {
			return err
		}
		if !ok {
			return service.ErrUnauthorized
		}

		token, expiresAt, err := sessions.Issue()
		if err != nil {
			return err
		}
		c.Cookie(&fiber.Cookie{
			Name:     middleware.SessionCookie,
			Value:    token,
			Path:     "/",
			Expires:  expiresAt,
			HTTPOnly: true,
			Secure:   secureCookie,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.JSON(verifyResponse{Success: true, Token: token, ExpiresAt: expiresAt})
	}
}
