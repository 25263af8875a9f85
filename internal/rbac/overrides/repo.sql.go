package overrides

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nmang004/proxapeople-sub003/internal/platform/httpx"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const selectOverride = `
	SELECT up.id, up.user_id, up.permission_id, up.granted, up.granted_by,
	       up.granted_at, up.expires_at, r.name, p.action
	FROM user_permissions up
	JOIN permissions p ON p.id = up.permission_id
	JOIN resources r ON r.id = p.resource_id
`

func (r *repository) Get(ctx context.Context, id int64) (*Override, error) {
	row := r.pool.QueryRow(ctx, selectOverride+` WHERE up.id = $1`, id)
	var ov Override
	err := row.Scan(&ov.ID, &ov.UserID, &ov.PermissionID, &ov.Granted, &ov.GrantedBy,
		&ov.GrantedAt, &ov.ExpiresAt, &ov.ResourceName, &ov.Action)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user permission %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return &ov, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]Override, error) {
	rows, err := r.pool.Query(ctx, selectOverride+` WHERE up.user_id = $1 ORDER BY r.name, p.action`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Override
	for rows.Next() {
		var ov Override
		if err := rows.Scan(&ov.ID, &ov.UserID, &ov.PermissionID, &ov.Granted, &ov.GrantedBy,
			&ov.GrantedAt, &ov.ExpiresAt, &ov.ResourceName, &ov.Action); err != nil {
			return nil, err
		}
		out = append(out, ov)
	}
	return out, rows.Err()
}

func (r *repository) Upsert(ctx context.Context, ov Override) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO user_permissions (user_id, permission_id, granted, granted_by, granted_at, expires_at)
		VALUES ($1, $2, $3, $4, NOW(), $5)
		ON CONFLICT (user_id, permission_id) DO UPDATE
		SET granted = EXCLUDED.granted,
		    granted_by = EXCLUDED.granted_by,
		    granted_at = EXCLUDED.granted_at,
		    expires_at = EXCLUDED.expires_at
		RETURNING id
	`, ov.UserID, ov.PermissionID, ov.Granted, ov.GrantedBy, ov.ExpiresAt).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return 0, fmt.Errorf("%w: user %d or permission %d", httpx.ErrNotFound, ov.UserID, ov.PermissionID)
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_permissions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user permission %d", httpx.ErrNotFound, id)
	}
	return nil
}

func (r *repository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_permissions WHERE expires_at IS NOT NULL AND expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
