package catalog

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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *Repository) InsertCategory(ctx context.Context, c *Category) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (house_id, name, type) VALUES ($1, $2, $3) RETURNING id`,
		c.HouseID, c.Name, c.Type,
	).Scan(&c.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateCategory
	}
	return err
}

func (r *Repository) GetCategory(ctx context.Context, houseID, id int64) (*Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `
		SELECT id, house_id, name, type FROM categories WHERE id = $1 AND house_id = $2`,
		id, houseID,
	).Scan(&c.ID, &c.HouseID, &c.Name, &c.Type)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) GetCategoryByName(ctx context.Context, houseID int64, name string) (*Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `
		SELECT id, house_id, name, type FROM categories WHERE house_id = $1 AND name = $2`,
		houseID, name,
	).Scan(&c.ID, &c.HouseID, &c.Name, &c.Type)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ListCategories(ctx context.Context, houseID int64) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, house_id, name, type FROM categories WHERE house_id = $1 ORDER BY name`,
		houseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.HouseID, &c.Name, &c.Type); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateCategory(ctx context.Context, c *Category) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE categories SET name = $1, type = $2 WHERE id = $3 AND house_id = $4`,
		c.Name, c.Type, c.ID, c.HouseID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateCategory
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *Repository) DeleteCategory(ctx context.Context, houseID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND house_id = $2`, id, houseID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *Repository) InsertProduct(ctx context.Context, p *Product) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO products (house_id, name, estimated_price_cents, min_quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		p.HouseID, p.Name, p.EstimatedPrice, p.MinQuantity,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *Repository) GetProduct(ctx context.Context, houseID, id int64) (*Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx, `
		SELECT id, house_id, name, estimated_price_cents, min_quantity, created_at
		FROM products WHERE id = $1 AND house_id = $2`,
		id, houseID,
	).Scan(&p.ID, &p.HouseID, &p.Name, &p.EstimatedPrice, &p.MinQuantity, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) ListProducts(ctx context.Context, houseID int64) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, house_id, name, estimated_price_cents, min_quantity, created_at
		FROM products WHERE house_id = $1 ORDER BY name`,
		houseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.HouseID, &p.Name, &p.EstimatedPrice, &p.MinQuantity, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateProduct(ctx context.Context, p *Product) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products SET name = $1, estimated_price_cents = $2, min_quantity = $3
		WHERE id = $4 AND house_id = $5`,
		p.Name, p.EstimatedPrice, p.MinQuantity, p.ID, p.HouseID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repository) DeleteProduct(ctx context.Context, houseID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1 AND house_id = $2`, id, houseID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
