package recurring

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements RepositoryPort against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func mapUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (r *Repository) Insert(ctx context.Context, b *Bill) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO recurring_bills (house_id, name, base_value_cents, due_day, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		b.HouseID, b.Name, b.BaseValue, b.DueDay, b.IsActive,
	).Scan(&b.ID, &b.CreatedAt)
	return mapUnique(err)
}

func (r *Repository) Get(ctx context.Context, houseID, id int64) (*Bill, error) {
	var b Bill
	err := r.pool.QueryRow(ctx, `
		SELECT id, house_id, name, base_value_cents, due_day, is_active, created_at
		FROM recurring_bills WHERE id = $1 AND house_id = $2`,
		id, houseID,
	).Scan(&b.ID, &b.HouseID, &b.Name, &b.BaseValue, &b.DueDay, &b.IsActive, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) List(ctx context.Context, houseID int64) ([]Bill, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, house_id, name, base_value_cents, due_day, is_active, created_at
		FROM recurring_bills WHERE house_id = $1 ORDER BY name`,
		houseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bill
	for rows.Next() {
		var b Bill
		if err := rows.Scan(&b.ID, &b.HouseID, &b.Name, &b.BaseValue, &b.DueDay, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, b *Bill) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE recurring_bills SET name = $1, base_value_cents = $2, due_day = $3, is_active = $4
		WHERE id = $5 AND house_id = $6`,
		b.Name, b.BaseValue, b.DueDay, b.IsActive, b.ID, b.HouseID,
	)
	if err != nil {
		return mapUnique(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, houseID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM recurring_bills WHERE id = $1 AND house_id = $2`, id, houseID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
