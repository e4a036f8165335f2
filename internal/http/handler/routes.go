package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

// SessionManager issues and validates admin session tokens.
type SessionManager interface {
	SessionIssuer
	middleware.SessionValidator
}

// Deps carries everything RegisterRoutes wires into handlers.
type Deps struct {
	DB        Pinger
	Documents service.DocumentService
	Shares    service.ShareService
	Gate      service.AdminGate
	Sessions  SessionManager

	RequireSession bool
	SecureCookie   bool
	AuthRateLimit  int
	AuthRateWindow time.Duration
	RateLimitStore fiber.Storage
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	api.Get("/status", Status())
	api.Get("/health", HealthCheck(d.DB))

	api.Post("/auth/verify",
		middleware.RateLimit(middleware.RateLimitConfig{
			Max:     d.AuthRateLimit,
			Window:  d.AuthRateWindow,
			Storage: d.RateLimitStore,
		}),
		VerifyPassword(d.Gate, d.Sessions, d.SecureCookie),
	)

	api.Get("/shared/:token", GetSharedDocument(d.Shares))

	docs := api.Group("/documents")
	if d.RequireSession {
		docs.Use(middleware.RequireSession(d.Sessions))
	}
	docs.Get("/", ListDocuments(d.Documents))
	docs.Post("/", UploadDocument(d.Documents))
	docs.Post("/transfer", TransferDocuments(d.Documents))
	docs.Get("/:id/download", DownloadDocument(d.Documents))
	docs.Get("/:id/preview", PreviewDocument(d.Documents))
	docs.Delete("/:id", DeleteDocument(d.Documents))
	docs.Post("/:id/share", ShareDocument(d.Shares))
	docs.Delete("/:id/share", RevokeShare(d.Shares))
}
