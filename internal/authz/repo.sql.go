package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nmang004/proxapeople-sub003/internal/platform/httpx"
	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

type store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a PostgreSQL backed Store.
func NewStore(pool *pgxpool.Pool) Store {
	return &store{pool: pool}
}

func (s *store) UserRole(ctx context.Context, userID int64) (rbac.Role, error) {
	var raw string
	err := s.pool.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: user %d", httpx.ErrNotFound, userID)
		}
		return "", err
	}
	return rbac.ParseRole(raw)
}

// Grants is a single round trip: resolve the permission, pick up the user's
// unexpired override and probe the role grant together.
func (s *store) Grants(ctx context.Context, resource string, action rbac.Action, userID int64, role rbac.Role) (Lookup, error) {
	const query = `
		SELECT p.id,
		       up.granted,
		       EXISTS (
		           SELECT 1 FROM role_permissions rp
		           WHERE rp.role = $4 AND rp.permission_id = p.id
		       ) AS role_granted
		FROM resources r
		JOIN permissions p ON p.resource_id = r.id AND p.action = $2
		LEFT JOIN user_permissions up
		       ON up.permission_id = p.id
		      AND up.user_id = $3
		      AND (up.expires_at IS NULL OR up.expires_at > NOW())
		WHERE r.name = $1
	`
	var result Lookup
	err := s.pool.QueryRow(ctx, query, resource, string(action), userID, string(role)).
		Scan(&result.PermissionID, &result.Override, &result.RoleGranted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lookup{}, nil
		}
		return Lookup{}, err
	}
	result.Found = true
	return result, nil
}
