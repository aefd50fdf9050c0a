package history

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rogerioalves7/domo-1/internal/ledger"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

// Repository implements RepositoryPort against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListSince(ctx context.Context, houseID, userID int64, since time.Time) ([]ledger.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.house_id, t.description, t.value_cents, t.type, t.date,
		       t.account_id, t.invoice_id, t.category_id, t.recurring_bill_id, t.created_at
		FROM transactions t
		LEFT JOIN accounts a ON a.id = t.account_id
		LEFT JOIN invoices i ON i.id = t.invoice_id
		LEFT JOIN credit_cards c ON c.id = i.card_id
		WHERE t.house_id = $1 AND t.date >= $2
		  AND (t.account_id IS NULL OR a.is_shared OR a.owner_id = $3)
		  AND (t.invoice_id IS NULL OR c.is_shared OR c.owner_id = $3)
		ORDER BY t.date DESC, t.id DESC`,
		houseID, since, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Transaction
	for rows.Next() {
		var t ledger.Transaction
		var accountID, invoiceID, categoryID, billID *int64
		if err := rows.Scan(&t.ID, &t.HouseID, &t.Description, &t.Value, &t.Type, &t.Date,
			&accountID, &invoiceID, &categoryID, &billID, &t.CreatedAt); err != nil {
			return nil, err
		}
		if accountID != nil {
			t.AccountID = *accountID
		}
		if invoiceID != nil {
			t.InvoiceID = *invoiceID
		}
		if categoryID != nil {
			t.CategoryID = *categoryID
		}
		if billID != nil {
			t.RecurringBillID = *billID
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) CategoryNames(ctx context.Context, houseID int64) (map[int64]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories WHERE house_id = $1`, houseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := map[int64]string{}
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

func (r *Repository) ActiveBillsTotal(ctx context.Context, houseID int64) (shared.Cents, error) {
	var total shared.Cents
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(base_value_cents), 0) FROM recurring_bills
		WHERE house_id = $1 AND is_active`,
		houseID,
	).Scan(&total)
	return total, err
}
