package resources

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nmang004/proxapeople-sub003/internal/platform/db"
	"github.com/nmang004/proxapeople-sub003/internal/platform/httpx"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const resourceColumns = `id, name, display_name, description, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Resource, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id = $1`, id)
	return scanResource(row)
}

func (r *repository) GetByName(ctx context.Context, name string) (*Resource, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+resourceColumns+` FROM resources WHERE name = $1`, name)
	return scanResource(row)
}

func (r *repository) List(ctx context.Context) ([]Resource, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+resourceColumns+` FROM resources ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Resource
	for rows.Next() {
		var res Resource
		if err := rows.Scan(&res.ID, &res.Name, &res.DisplayName, &res.Description, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, res Resource) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO resources (name, display_name, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`, res.Name, res.DisplayName, res.Description).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: resource %q already registered", httpx.ErrDuplicate, res.Name)
		}
		return 0, err
	}
	return id, nil
}

// Delete re-checks the permission reference count inside the transaction so
// a concurrent permission create cannot slip past the service's check.
func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM permissions WHERE resource_id = $1`, id).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: resource %d is referenced by %d permission(s)", httpx.ErrConflict, id, count)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: resource %d", httpx.ErrNotFound, id)
		}
		return nil
	})
}

func (r *repository) PermissionCount(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM permissions WHERE resource_id = $1`, id).Scan(&count)
	return count, err
}

func scanResource(row pgx.Row) (*Resource, error) {
	var res Resource
	err := row.Scan(&res.ID, &res.Name, &res.DisplayName, &res.Description, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
