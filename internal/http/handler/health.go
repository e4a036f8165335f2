package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports database reachability. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Status godoc
// @Summary Service status
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/status [get]
func Status() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "operational",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// HealthCheck godoc
// @Summary Dependency health
// @Description Pings the database. A nil pinger reports the in-memory store.
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /api/health [get]
func HealthCheck(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db == nil {
			return c.JSON(fiber.Map{"status": "healthy", "database": "memory"})
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.JSON(fiber.Map{"status": "healthy", "database": "connected"})
	}
}

// LivenessProbe answers 200 while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
