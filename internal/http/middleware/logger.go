package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"

	"docvault/internal/logging"
)

// LoggerWithWriter logs each HTTP request as one JSON line on w.
// Fields: ts, request_id, trace_id (when a span is active), method, path,
// status and latency in milliseconds.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	log := logging.New(w, loc).With("http")

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := handleError(c, c.Next())

		fields := logging.Fields{
			"request_id": RequestIDFrom(c),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		}
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			fields["trace_id"] = sc.TraceID().String()
		}
		log.Info("http_request", fields)

		return err
	}
}

// handleError renders a chain error through the app ErrorHandler so the final
// status is visible to the middleware that called it.
func handleError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}
	if hErr := c.App().ErrorHandler(c, err); hErr != nil {
		_ = c.SendStatus(fiber.StatusInternalServerError)
	}
	return nil
}
