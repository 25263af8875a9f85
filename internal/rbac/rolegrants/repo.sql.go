package rolegrants

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nmang004/proxapeople-sub003/internal/platform/httpx"
	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const selectGrant = `
	SELECT rp.id, rp.role, rp.permission_id, rp.created_at, r.name, p.action
	FROM role_permissions rp
	JOIN permissions p ON p.id = rp.permission_id
	JOIN resources r ON r.id = p.resource_id
`

func (r *repository) Get(ctx context.Context, id int64) (*Grant, error) {
	row := r.pool.QueryRow(ctx, selectGrant+` WHERE rp.id = $1`, id)
	var grant Grant
	err := row.Scan(&grant.ID, &grant.Role, &grant.PermissionID, &grant.CreatedAt, &grant.ResourceName, &grant.Action)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: role permission %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return &grant, nil
}

func (r *repository) ListByRole(ctx context.Context, role rbac.Role) ([]Grant, error) {
	rows, err := r.pool.Query(ctx, selectGrant+` WHERE rp.role = $1 ORDER BY r.name, p.action`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Grant
	for rows.Next() {
		var grant Grant
		if err := rows.Scan(&grant.ID, &grant.Role, &grant.PermissionID, &grant.CreatedAt, &grant.ResourceName, &grant.Action); err != nil {
			return nil, err
		}
		out = append(out, grant)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, grant Grant) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO role_permissions (role, permission_id)
		VALUES ($1, $2)
		RETURNING id
	`, string(grant.Role), grant.PermissionID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return 0, fmt.Errorf("%w: role %s already holds this permission", httpx.ErrDuplicate, grant.Role)
			case "23503":
				return 0, fmt.Errorf("%w: permission %d", httpx.ErrNotFound, grant.PermissionID)
			}
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM role_permissions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: role permission %d", httpx.ErrNotFound, id)
	}
	return nil
}
