package overrides

import "context"

// Repository provides persistence for user permission overrides.
type Repository interface {
	Get(ctx context.Context, id int64) (*Override, error)
	ListByUser(ctx context.Context, userID int64) ([]Override, error)
	// Upsert keeps at most one override per (user, permission); an existing
	// row is replaced (last write wins). Returns the row id.
	Upsert(ctx context.Context, ov Override) (int64, error)
	Delete(ctx context.Context, id int64) error
	// PurgeExpired deletes overrides whose expiry lies in the past and
	// returns how many rows went away.
	PurgeExpired(ctx context.Context) (int64, error)
}
