package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMiddleware records request counts and latencies.
type PrometheusMiddleware struct {
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewPrometheusMiddleware creates a PrometheusMiddleware registered on reg.
func NewPrometheusMiddleware(reg prometheus.Registerer) (*PrometheusMiddleware, error) {
	m := &PrometheusMiddleware{
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	for _, c := range []prometheus.Collector{m.requestCount, m.requestDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Handler returns the fiber middleware handler.
func (m *PrometheusMiddleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		err := handleError(c, c.Next())

		// Route pattern (/api/documents/:id) keeps label cardinality bounded.
		path := c.Route().Path
		if path == "" || path == "/" && c.Path() != "/" {
			path = "unmatched"
		}

		// Label values outlive the request; fasthttp reuses the method buffer.
		method := utils.CopyString(c.Method())
		m.requestCount.WithLabelValues(
			method,
			path,
			strconv.Itoa(c.Response().StatusCode()),
		).Inc()
		m.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		return err
	}
}
