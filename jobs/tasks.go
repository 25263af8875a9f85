// Package jobs defines the background tasks of the access control service.
package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOverridePurge removes expired user permission overrides.
	TaskOverridePurge = "rbac:override_purge"
	// TaskRoleWarmup recomputes the warmed permission set of one role.
	TaskRoleWarmup = "rbac:role_warmup"
)

// RoleWarmupPayload names the role to recompute. An empty role means all.
type RoleWarmupPayload struct {
	Role string `json:"role"`
}

// NewOverridePurgeTask constructs the purge task.
func NewOverridePurgeTask() *asynq.Task {
	return asynq.NewTask(TaskOverridePurge, nil)
}

// NewRoleWarmupTask constructs a warmup task.
func NewRoleWarmupTask(payload RoleWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRoleWarmup, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueRoleWarmup schedules a warmup for one role.
func (c *Client) EnqueueRoleWarmup(ctx context.Context, role string) error {
	task, err := NewRoleWarmupTask(RoleWarmupPayload{Role: role})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// EnqueueOverridePurge schedules an immediate purge run.
func (c *Client) EnqueueOverridePurge(ctx context.Context) error {
	_, err := c.client.EnqueueContext(ctx, NewOverridePurgeTask(), asynq.Queue(QueueDefault))
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
