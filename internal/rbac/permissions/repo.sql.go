package permissions

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

const selectPermission = `
	SELECT p.id, p.resource_id, r.name, p.action, p.description, p.created_at
	FROM permissions p
	JOIN resources r ON r.id = p.resource_id
`

func (r *repository) Get(ctx context.Context, id int64) (*Permission, error) {
	row := r.pool.QueryRow(ctx, selectPermission+` WHERE p.id = $1`, id)
	var perm Permission
	err := row.Scan(&perm.ID, &perm.ResourceID, &perm.ResourceName, &perm.Action, &perm.Description, &perm.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: permission %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return &perm, nil
}

func (r *repository) List(ctx context.Context) ([]Permission, error) {
	rows, err := r.pool.Query(ctx, selectPermission+` ORDER BY r.name, p.action`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *repository) ListByResource(ctx context.Context, resourceID int64) ([]Permission, error) {
	rows, err := r.pool.Query(ctx, selectPermission+` WHERE p.resource_id = $1 ORDER BY p.action`, resourceID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *repository) Create(ctx context.Context, perm Permission) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO permissions (resource_id, action, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`, perm.ResourceID, string(perm.Action), perm.Description).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return 0, fmt.Errorf("%w: permission already cataloged for this resource and action", httpx.ErrDuplicate)
			case "23503":
				return 0, fmt.Errorf("%w: resource %d", httpx.ErrNotFound, perm.ResourceID)
			}
		}
		return 0, err
	}
	return id, nil
}

func collect(rows pgx.Rows) ([]Permission, error) {
	defer rows.Close()
	var out []Permission
	for rows.Next() {
		var perm Permission
		if err := rows.Scan(&perm.ID, &perm.ResourceID, &perm.ResourceName, &perm.Action, &perm.Description, &perm.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, perm)
	}
	return out, rows.Err()
}
