package main

import (
	"database/sql"
	"log/slog"

	"github.com/phrazzld/tasker-api/internal/api"
	"github.com/phrazzld/tasker-api/internal/api/middleware"
	"github.com/phrazzld/tasker-api/internal/config"
	"github.com/phrazzld/tasker-api/internal/platform/metrics"
	"github.com/phrazzld/tasker-api/internal/platform/postgres"
	"github.com/phrazzld/tasker-api/internal/service"
	"github.com/phrazzld/tasker-api/internal/service/auth"
)

// application bundles the configured dependencies so that router setup
// and server startup can share them without global state.
type application struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB

	userHandler    *api.UserHandler
	taskHandler    *api.TaskHandler
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
	metrics        *metrics.Collector
}

// newApplication wires stores, services, and handlers together from the
// loaded configuration and an open database handle.
func newApplication(cfg *config.Config, appLogger *slog.Logger, db *sql.DB) (*application, error) {
	userStore := postgres.NewPostgresUserStore(db, appLogger)
	taskStore := postgres.NewPostgresTaskStore(db, appLogger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, err
	}
	passwordService := auth.NewBcryptPasswordService()
	sessionManager := auth.NewSessionManager(jwtService, userStore, appLogger)

	userService := service.NewUserService(userStore, taskStore, passwordService, passwordService, db, appLogger)
	taskService := service.NewTaskService(taskStore, appLogger)

	return &application{
		cfg:    cfg,
		logger: appLogger,
		db:     db,
		userHandler: api.NewUserHandler(
			userService, sessionManager, cfg.Upload.MaxAvatarBytes, appLogger),
		taskHandler:    api.NewTaskHandler(taskService, appLogger),
		authMiddleware: middleware.NewAuthMiddleware(jwtService, userStore),
		rateLimiter:    middleware.NewRateLimiter(cfg.Server.RateLimitPerMinute),
		metrics:        metrics.NewCollector(),
	}, nil
}

// cleanup stops background work owned by the application. The database
// handle is closed by the caller that opened it.
func (app *application) cleanup() {
	app.rateLimiter.Stop()
}
