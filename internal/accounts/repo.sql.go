package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements RepositoryPort against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Insert(ctx context.Context, a *Account) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO accounts (house_id, owner_id, is_shared, name, balance_cents, limit_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		a.HouseID, a.OwnerID, a.IsShared, a.Name, a.Balance, a.Limit,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *Repository) Get(ctx context.Context, houseID, id int64) (*Account, error) {
	var a Account
	err := r.pool.QueryRow(ctx, `
		SELECT id, house_id, owner_id, is_shared, name, balance_cents, limit_cents, created_at
		FROM accounts WHERE id = $1 AND house_id = $2`,
		id, houseID,
	).Scan(&a.ID, &a.HouseID, &a.OwnerID, &a.IsShared, &a.Name, &a.Balance, &a.Limit, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) List(ctx context.Context, houseID int64) ([]Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, house_id, owner_id, is_shared, name, balance_cents, limit_cents, created_at
		FROM accounts WHERE house_id = $1 ORDER BY name`,
		houseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.HouseID, &a.OwnerID, &a.IsShared, &a.Name, &a.Balance, &a.Limit, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, a *Account) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts SET name = $1, limit_cents = $2, is_shared = $3
		WHERE id = $4 AND house_id = $5`,
		a.Name, a.Limit, a.IsShared, a.ID, a.HouseID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, houseID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1 AND house_id = $2`, id, houseID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
