package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	jobmetrics "github.com/nmang004/proxapeople-sub003/internal/jobs"
	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

// roleWarmupTTL bounds staleness for consumers that miss an invalidation.
const roleWarmupTTL = 24 * time.Hour

// NewRoleWarmupHandler returns the asynq handler for TaskRoleWarmup. It
// recomputes the "resource:action" key set of each requested role into Redis
// for UI bootstrap payloads and other read-side consumers.
func NewRoleWarmupHandler(pool *pgxpool.Pool, client *redis.Client, jm *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload RoleWarmupPayload
		if len(t.Payload()) > 0 {
			if err := json.Unmarshal(t.Payload(), &payload); err != nil {
				return asynq.SkipRetry
			}
		}

		roles := rbac.Roles()
		if payload.Role != "" {
			role, err := rbac.ParseRole(payload.Role)
			if err != nil {
				return asynq.SkipRetry
			}
			roles = []rbac.Role{role}
		}

		tracker := jm.Track(TaskRoleWarmup)
		var err error
		for _, role := range roles {
			if err = warmRole(ctx, pool, client, role); err != nil {
				break
			}
		}
		tracker.Done(err)
		if err != nil {
			if logger != nil {
				logger.Error("role warmup", slog.Any("error", err))
			}
			return err
		}
		return nil
	}
}

func warmRole(ctx context.Context, pool *pgxpool.Pool, client *redis.Client, role rbac.Role) error {
	rows, err := pool.Query(ctx, `
		SELECT r.name, p.action
		FROM role_permissions rp
		JOIN permissions p ON p.id = rp.permission_id
		JOIN resources r ON r.id = p.resource_id
		WHERE rp.role = $1
		ORDER BY r.name, p.action
	`, string(role))
	if err != nil {
		return fmt.Errorf("warmup query role %s: %w", role, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var resource, action string
		if err := rows.Scan(&resource, &action); err != nil {
			return err
		}
		keys = append(keys, rbac.PermissionKey(resource, rbac.Action(action)))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	key := WarmupKey(role)
	if err := client.Set(ctx, key, payload, roleWarmupTTL).Err(); err != nil {
		return fmt.Errorf("warmup store %s: %w", key, err)
	}
	return nil
}

// WarmupKey names the Redis key holding a role's warmed permission set.
func WarmupKey(role rbac.Role) string {
	return "rbac:roleperms:" + string(role)
}
