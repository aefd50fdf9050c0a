package inventory

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

func (r *Repository) Upsert(ctx context.Context, item *Item) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO inventory_items (house_id, product_id, quantity, min_quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (house_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, min_quantity = EXCLUDED.min_quantity
		RETURNING id`,
		item.HouseID, item.ProductID, item.Quantity, item.MinQuantity,
	).Scan(&item.ID)
}

func (r *Repository) Get(ctx context.Context, houseID, id int64) (*Item, error) {
	var item Item
	err := r.pool.QueryRow(ctx, `
		SELECT i.id, i.house_id, i.product_id, p.name, i.quantity, i.min_quantity
		FROM inventory_items i JOIN products p ON p.id = i.product_id
		WHERE i.id = $1 AND i.house_id = $2`,
		id, houseID,
	).Scan(&item.ID, &item.HouseID, &item.ProductID, &item.ProductName, &item.Quantity, &item.MinQuantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) GetByProduct(ctx context.Context, houseID, productID int64) (*Item, error) {
	var item Item
	err := r.pool.QueryRow(ctx, `
		SELECT i.id, i.house_id, i.product_id, p.name, i.quantity, i.min_quantity
		FROM inventory_items i JOIN products p ON p.id = i.product_id
		WHERE i.house_id = $1 AND i.product_id = $2`,
		houseID, productID,
	).Scan(&item.ID, &item.HouseID, &item.ProductID, &item.ProductName, &item.Quantity, &item.MinQuantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) List(ctx context.Context, houseID int64) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.house_id, i.product_id, p.name, i.quantity, i.min_quantity
		FROM inventory_items i JOIN products p ON p.id = i.product_id
		WHERE i.house_id = $1
		ORDER BY p.name`,
		houseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.HouseID, &item.ProductID, &item.ProductName, &item.Quantity, &item.MinQuantity); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, item *Item) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE inventory_items SET quantity = $1, min_quantity = $2
		WHERE id = $3 AND house_id = $4`,
		item.Quantity, item.MinQuantity, item.ID, item.HouseID,
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1 AND house_id = $2`, id, houseID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ProductDefaults(ctx context.Context, houseID, productID int64) (float64, error) {
	var minQuantity float64
	err := r.pool.QueryRow(ctx, `
		SELECT min_quantity FROM products WHERE id = $1 AND house_id = $2`,
		productID, houseID,
	).Scan(&minQuantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return minQuantity, err
}
