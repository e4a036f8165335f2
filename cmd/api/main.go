package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docvault/docs"
	"docvault/internal/auth"
	"docvault/internal/config"
	"docvault/internal/database"
	"docvault/internal/database/migration"
	handlers "docvault/internal/http/handler"
	"docvault/internal/http/middleware"
	"docvault/internal/logging"
	"docvault/internal/otel"
	"docvault/internal/repository"
	"docvault/internal/repository/memory"
	"docvault/internal/repository/postgres"
	"docvault/internal/service"
	"docvault/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// @title DocVault API
// @version 1.0
// @description Family document store with expiring share links.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.Location()).With("main")
	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Critical("tracing_setup_failed", err, nil)
		os.Exit(1)
	}

	var (
		db        *sql.DB
		pinger    handlers.Pinger
		docRepo   repository.DocumentRepository
		adminRepo repository.AdminRepository
	)
	switch cfg.Store {
	case config.StoreMemory:
		docRepo = memory.NewDocumentMemory()
		adminRepo = memory.NewAdminMemory()
		log.Info("store_selected", logging.Fields{"backend": string(cfg.Store)})
	default:
		db, err = database.NewConnector(cfg.Database, database.PolicyFromConfig(cfg.Database), log).Connect(ctx)
		if err != nil {
			log.Critical("db_connect_failed", err, nil)
			os.Exit(1)
		}
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			log.Critical("db_migration_failed", err, nil)
			os.Exit(1)
		}
		pinger = db
		docRepo = postgres.NewDocumentPostgres(db, log)
		adminRepo = postgres.NewAdminPostgres(db)
		log.Info("store_selected", logging.Fields{"backend": string(config.StorePostgres)})
	}

	// Object storage is optional; without it content stays inline in the database
	var objStore storage.Storage
	if cfg.MinIO.Enabled() {
		objStore, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			log.Critical("object_storage_init_failed", err, logging.Fields{"endpoint": cfg.MinIO.Endpoint})
			os.Exit(1)
		}
		log.Info("object_storage_ready", logging.Fields{"endpoint": cfg.MinIO.Endpoint, "bucket": cfg.MinIO.Bucket})
	}

	sessions, err := auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)
	if err != nil {
		log.Critical("session_manager_init_failed", err, nil)
		os.Exit(1)
	}
	if cfg.Auth.SessionSecret == "" {
		log.Info("session_secret_generated", logging.Fields{"msg": "sessions do not survive a restart"})
	}

	docSvc := service.NewDocumentService(objStore, docRepo, log)
	shareSvc := service.NewShareService(objStore, docRepo, log)
	gate := service.NewAdminGate(adminRepo, auth.NewPasswordHasher(cfg.Auth.BcryptCost), log)
	if err := gate.EnsureInitialized(ctx, cfg.Auth.AdminSeedPassword); err != nil && !errors.Is(err, service.ErrGateUnconfigured) {
		log.Critical("admin_gate_init_failed", err, nil)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log),
		BodyLimit:    cfg.HTTP.MaxBodyBytes,
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Critical("metrics_init_failed", err, nil)
		os.Exit(1)
	}

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.LoggerWithWriter(os.Stdout, cfg.Location()))
	app.Use(promMiddleware.Handler())
	app.Use(recover.New())
	app.Use(cors.New(corsConfig(cfg.HTTP.AllowedOrigins)))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	deps := handlers.Deps{
		DB:             pinger,
		Documents:      docSvc,
		Shares:         shareSvc,
		Gate:           gate,
		Sessions:       sessions,
		RequireSession: cfg.Auth.RequireSession,
		SecureCookie:   cfg.Auth.SecureCookie,
		AuthRateLimit:  cfg.Auth.RateLimitMax,
		AuthRateWindow: cfg.Auth.RateLimitWindow,
	}
	if cfg.HTTP.RedisAddr != "" {
		deps.RateLimitStore = middleware.NewRedisStorage(cfg.HTTP.RedisAddr)
		log.Info("rate_limit_store", logging.Fields{"backend": "redis", "addr": cfg.HTTP.RedisAddr})
	}
	handlers.RegisterRoutes(app, deps)

	addr := ":" + cfg.Port
	go func() {
		log.Info("server_started", logging.Fields{"addr": addr, "store": string(cfg.Store)})
		if err := app.Listen(addr); err != nil {
			log.Critical("server_failed", err, logging.Fields{"addr": addr})
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		ctx,
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			// In-flight requests drain before the pool closes
			"http-server": func(ctx context.Context) error {
				if err := app.ShutdownWithContext(ctx); err != nil {
					return err
				}
				if db == nil {
					return nil
				}
				return db.Close()
			},
			"tracing": func(ctx context.Context) error {
				return shutdownTracing(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Info("server_stopped", logging.Fields{"exit_code": exitCode})
	os.Exit(exitCode)
}

// corsConfig allows credentials only for explicit origins; Fiber rejects
// credentials combined with a wildcard.
func corsConfig(origins []string) cors.Config {
	allowCredentials := true
	for _, o := range origins {
		if o == "*" {
			allowCredentials = false
		}
	}
	return cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With,X-Request-ID",
		AllowCredentials: allowCredentials,
	}
}
