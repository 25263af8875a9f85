package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/nmang004/proxapeople-sub003/internal/app"
	"github.com/nmang004/proxapeople-sub003/internal/audit"
	"github.com/nmang004/proxapeople-sub003/internal/authz"
	"github.com/nmang004/proxapeople-sub003/internal/observability"
	"github.com/nmang004/proxapeople-sub003/internal/platform/cache"
	"github.com/nmang004/proxapeople-sub003/internal/platform/db"
	"github.com/nmang004/proxapeople-sub003/internal/rbac/overrides"
	"github.com/nmang004/proxapeople-sub003/internal/rbac/permissions"
	"github.com/nmang004/proxapeople-sub003/internal/rbac/resources"
	"github.com/nmang004/proxapeople-sub003/internal/rbac/rolegrants"
	"github.com/nmang004/proxapeople-sub003/internal/shared"
	"github.com/nmang004/proxapeople-sub003/internal/users"
	"github.com/nmang004/proxapeople-sub003/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns, cfg.PGMinConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionStore := shared.NewSessionStore(redisClient, cfg.SessionPrefix, cfg.SessionTTL)
	metrics := observability.NewMetrics()

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	auditor := audit.NewRecorder(audit.NewRepository(pool), logger)

	evaluator := authz.NewService(authz.NewStore(pool), metrics)
	decisionCache := authz.NewCache(evaluator, metrics)
	guard := authz.Middleware{Cache: decisionCache, Logger: logger}

	resourcesService := resources.NewService(resources.NewRepository(pool), auditor, decisionCache)
	permissionsService := permissions.NewService(permissions.NewRepository(pool), auditor)
	roleGrantsService := rolegrants.NewService(rolegrants.NewRepository(pool), auditor, decisionCache, jobsClient, logger)
	overridesService := overrides.NewService(overrides.NewRepository(pool), auditor, decisionCache)
	usersService := users.NewService(users.NewRepository(pool))

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionStore:       sessionStore,
		Guard:              guard,
		ResourcesHandler:   resources.NewHandler(logger, resourcesService),
		PermissionsHandler: permissions.NewHandler(logger, permissionsService),
		RoleGrantsHandler:  rolegrants.NewHandler(logger, roleGrantsService),
		OverridesHandler:   overrides.NewHandler(logger, overridesService),
		AuthzHandler:       authz.NewHandler(logger, evaluator, decisionCache),
		UsersHandler:       users.NewHandler(logger, usersService),
		AuditHandler:       audit.NewHandler(logger, auditor),
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
}
