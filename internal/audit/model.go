// Package audit records who changed the authorization policy, and when.
package audit

import "time"

// Detail carries structured context for an audit entry, stored as JSONB.
type Detail map[string]any

// Entry is one recorded policy mutation.
type Entry struct {
	ID        int64     `json:"id"`
	ActorID   int64     `json:"actor_id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  int64     `json:"entity_id"`
	Detail    Detail    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
