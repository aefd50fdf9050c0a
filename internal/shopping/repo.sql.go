package shopping

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rogerioalves7/domo-1/internal/ledger"
	"github.com/rogerioalves7/domo-1/internal/platform/db"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

// Repository implements RepositoryPort against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{TxRepository: ledger.NewTxRepository(tx), tx: tx})
	})
}

const entryColumns = `e.id, e.house_id, e.product_id, p.name, p.estimated_price_cents,
e.quantity_to_buy, e.real_unit_price_cents, e.discount_unit_price_cents, e.is_purchased`

func scanEntry(row interface{ Scan(...any) error }) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.HouseID, &e.ProductID, &e.ProductName, &e.EstimatedPrice,
		&e.QuantityToBuy, &e.RealUnitPrice, &e.DiscountUnitPrice, &e.IsPurchased)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) ListEntries(ctx context.Context, houseID int64) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM shopping_list_entries e JOIN products p ON p.id = e.product_id
		WHERE e.house_id = $1
		ORDER BY e.is_purchased, p.name`,
		houseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *Repository) GetEntry(ctx context.Context, houseID, id int64) (*Entry, error) {
	e, err := scanEntry(r.pool.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM shopping_list_entries e JOIN products p ON p.id = e.product_id
		WHERE e.id = $1 AND e.house_id = $2`,
		id, houseID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	return e, err
}

func (r *Repository) UpdateEntry(ctx context.Context, e *Entry) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE shopping_list_entries
		SET quantity_to_buy = $1, real_unit_price_cents = $2, discount_unit_price_cents = $3, is_purchased = $4
		WHERE id = $5 AND house_id = $6`,
		e.QuantityToBuy, e.RealUnitPrice, e.DiscountUnitPrice, e.IsPurchased, e.ID, e.HouseID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *Repository) DeleteEntry(ctx context.Context, houseID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM shopping_list_entries WHERE id = $1 AND house_id = $2`, id, houseID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *Repository) ListStock(ctx context.Context, houseID int64) ([]StockLevel, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.product_id, p.name, p.estimated_price_cents, i.quantity, i.min_quantity
		FROM inventory_items i JOIN products p ON p.id = i.product_id
		WHERE i.house_id = $1`,
		houseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StockLevel
	for rows.Next() {
		var s StockLevel
		if err := rows.Scan(&s.ProductID, &s.ProductName, &s.EstimatedPrice, &s.Quantity, &s.MinQuantity); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) InsertEntryIfAbsent(ctx context.Context, e Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO shopping_list_entries
			(house_id, product_id, quantity_to_buy, real_unit_price_cents, discount_unit_price_cents, is_purchased)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		ON CONFLICT (house_id, product_id) DO NOTHING`,
		e.HouseID, e.ProductID, e.QuantityToBuy, e.RealUnitPrice, e.DiscountUnitPrice,
	)
	return err
}

func (r *Repository) DeleteUnpurchasedByProduct(ctx context.Context, houseID, productID int64) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM shopping_list_entries
		WHERE house_id = $1 AND product_id = $2 AND NOT is_purchased`,
		houseID, productID,
	)
	return err
}

type txRepository struct {
	ledger.TxRepository
	tx pgx.Tx
}

func (r *txRepository) ListPurchasedForUpdate(ctx context.Context, houseID int64) ([]Entry, error) {
	rows, err := r.tx.Query(ctx, `
		SELECT `+entryColumns+`
		FROM shopping_list_entries e JOIN products p ON p.id = e.product_id
		WHERE e.house_id = $1 AND e.is_purchased
		ORDER BY p.name
		FOR UPDATE OF e`,
		houseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *txRepository) SourceName(ctx context.Context, houseID int64, method ledger.PaymentMethod, sourceID int64) (string, error) {
	table := "accounts"
	notFound := ledger.ErrAccountNotFound
	if method == ledger.MethodCreditCard {
		table = "credit_cards"
		notFound = ledger.ErrCardNotFound
	}
	var name string
	err := r.tx.QueryRow(ctx, `SELECT name FROM `+table+` WHERE id = $1 AND house_id = $2`, sourceID, houseID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", notFound
	}
	return name, err
}

func (r *txRepository) GetOrCreateCategory(ctx context.Context, houseID int64, name string) (int64, error) {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO categories (house_id, name, type) VALUES ($1, $2, 'EXPENSE')
		ON CONFLICT (house_id, name) DO NOTHING`,
		houseID, name,
	)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.tx.QueryRow(ctx, `SELECT id FROM categories WHERE house_id = $1 AND name = $2`, houseID, name).Scan(&id)
	return id, err
}

func (r *txRepository) AddInventoryQuantity(ctx context.Context, houseID, productID int64, delta float64) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO inventory_items (house_id, product_id, quantity, min_quantity)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (house_id, product_id)
		DO UPDATE SET quantity = inventory_items.quantity + EXCLUDED.quantity`,
		houseID, productID, delta,
	)
	return err
}

func (r *txRepository) UpdateProductPrice(ctx context.Context, productID int64, price shared.Cents) error {
	_, err := r.tx.Exec(ctx, `UPDATE products SET estimated_price_cents = $2 WHERE id = $1`, productID, int64(price))
	return err
}

func (r *txRepository) DeletePurchased(ctx context.Context, houseID int64) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM shopping_list_entries WHERE house_id = $1 AND is_purchased`, houseID)
	return err
}
