package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/nmang004/proxapeople-sub003/internal/jobs"
	"github.com/nmang004/proxapeople-sub003/internal/observability"
	"github.com/nmang004/proxapeople-sub003/internal/rbac/overrides"
)

// OverridePurger deletes lapsed overrides.
type OverridePurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// NewOverridePurgeHandler returns the asynq handler for TaskOverridePurge.
//
// The evaluator treats expired overrides as absent regardless; the purge only
// keeps the table from accumulating dead rows.
func NewOverridePurgeHandler(service OverridePurger, metrics *observability.Metrics, jm *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := jm.Track(TaskOverridePurge)
		purged, err := service.PurgeExpired(ctx)
		tracker.Done(err)
		if err != nil {
			if logger != nil {
				logger.Error("override purge", slog.Any("error", err))
			}
			return err
		}
		metrics.ObserveOverridesPurged(purged)
		if logger != nil && purged > 0 {
			logger.Info("override purge", slog.Int64("purged", purged))
		}
		return nil
	}
}

var _ OverridePurger = (*overrides.Service)(nil)
