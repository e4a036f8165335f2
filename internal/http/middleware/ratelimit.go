package middleware

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis/v3"
)

// RateLimitConfig bounds requests per client IP.
type RateLimitConfig struct {
	Max    int
	Window time.Duration
	// Storage holds counters. Nil keeps them in process memory.
	Storage fiber.Storage
}

// RateLimit limits requests per client IP with Fiber's limiter.
func RateLimit(cfg RateLimitConfig) fiber.Handler {
	if cfg.Max <= 0 {
		cfg.Max = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "auth:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many attempts, try again later")
		},
		Storage: cfg.Storage,
	})
}

// NewRedisStorage connects limiter counters to Redis at addr (host:port).
func NewRedisStorage(addr string) *redis.Storage {
	host, port := parseRedisAddr(addr)
	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		PoolSize: 10,
	})
}

func parseRedisAddr(addr string) (string, int) {
	const defaultHost = "127.0.0.1"
	const defaultPort = 6379

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return defaultHost, defaultPort
	}
	if host == "" {
		host = defaultHost
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = defaultPort
	}
	return host, port
}
