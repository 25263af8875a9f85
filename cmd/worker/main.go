package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/nmang004/proxapeople-sub003/internal/app"
	"github.com/nmang004/proxapeople-sub003/internal/audit"
	jobmetrics "github.com/nmang004/proxapeople-sub003/internal/jobs"
	"github.com/nmang004/proxapeople-sub003/internal/observability"
	"github.com/nmang004/proxapeople-sub003/internal/platform/cache"
	"github.com/nmang004/proxapeople-sub003/internal/platform/db"
	"github.com/nmang004/proxapeople-sub003/internal/rbac/overrides"
	"github.com/nmang004/proxapeople-sub003/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	metrics := observability.NewMetrics()
	jm := jobmetrics.NewMetrics(metrics.Registerer())

	auditor := audit.NewRecorder(audit.NewRepository(pool), logger)
	overridesService := overrides.NewService(overrides.NewRepository(pool), auditor, nil)

	warmupTask, err := jobs.NewRoleWarmupTask(jobs.RoleWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskOverridePurge, Handler: jobs.NewOverridePurgeHandler(overridesService, metrics, jm, logger)},
			{Type: jobs.TaskRoleWarmup, Handler: jobs.NewRoleWarmupHandler(pool, redisClient, jm, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "@hourly", Task: jobs.NewOverridePurgeTask()},
			{Spec: "@daily", Task: warmupTask},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker", slog.Any("error", err))
		os.Exit(1)
	}
}
