package cards

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rogerioalves7/domo-1/internal/ledger"
	"github.com/rogerioalves7/domo-1/internal/platform/db"
)

// Repository implements RepositoryPort against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, ledger.TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, ledger.NewTxRepository(tx))
	})
}

func (r *Repository) Insert(ctx context.Context, c *CreditCard) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO credit_cards (house_id, owner_id, is_shared, name, limit_total_cents, limit_available_cents, closing_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		c.HouseID, c.OwnerID, c.IsShared, c.Name, c.LimitTotal, c.LimitAvailable, c.ClosingDay,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *Repository) Get(ctx context.Context, houseID, id int64) (*CreditCard, error) {
	var c CreditCard
	err := r.pool.QueryRow(ctx, `
		SELECT id, house_id, owner_id, is_shared, name, limit_total_cents, limit_available_cents, closing_day, created_at
		FROM credit_cards WHERE id = $1 AND house_id = $2`,
		id, houseID,
	).Scan(&c.ID, &c.HouseID, &c.OwnerID, &c.IsShared, &c.Name, &c.LimitTotal, &c.LimitAvailable, &c.ClosingDay, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) List(ctx context.Context, houseID int64) ([]CreditCard, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, house_id, owner_id, is_shared, name, limit_total_cents, limit_available_cents, closing_day, created_at
		FROM credit_cards WHERE house_id = $1 ORDER BY name`,
		houseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CreditCard
	for rows.Next() {
		var c CreditCard
		if err := rows.Scan(&c.ID, &c.HouseID, &c.OwnerID, &c.IsShared, &c.Name, &c.LimitTotal, &c.LimitAvailable, &c.ClosingDay, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, c *CreditCard) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE credit_cards
		SET name = $1, limit_total_cents = $2, limit_available_cents = $3, closing_day = $4, is_shared = $5
		WHERE id = $6 AND house_id = $7`,
		c.Name, c.LimitTotal, c.LimitAvailable, c.ClosingDay, c.IsShared, c.ID, c.HouseID,
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM credit_cards WHERE id = $1 AND house_id = $2`, id, houseID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) GetInvoice(ctx context.Context, houseID, invoiceID int64) (*Invoice, error) {
	var inv Invoice
	err := r.pool.QueryRow(ctx, `
		SELECT i.id, i.card_id, i.reference_date, i.value_cents, i.amount_paid_cents, i.status, i.created_at
		FROM invoices i JOIN credit_cards c ON c.id = i.card_id
		WHERE i.id = $1 AND c.house_id = $2`,
		invoiceID, houseID,
	).Scan(&inv.ID, &inv.CardID, &inv.ReferenceDate, &inv.Value, &inv.AmountPaid, &inv.Status, &inv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *Repository) ListInvoices(ctx context.Context, houseID, cardID int64) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.card_id, i.reference_date, i.value_cents, i.amount_paid_cents, i.status, i.created_at
		FROM invoices i JOIN credit_cards c ON c.id = i.card_id
		WHERE i.card_id = $1 AND c.house_id = $2
		ORDER BY i.reference_date DESC`,
		cardID, houseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.CardID, &inv.ReferenceDate, &inv.Value, &inv.AmountPaid, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *Repository) ListInvoiceTransactions(ctx context.Context, invoiceID int64) ([]ledger.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, house_id, description, value_cents, type, date, account_id, invoice_id, category_id, recurring_bill_id, created_at
		FROM transactions WHERE invoice_id = $1
		ORDER BY date, id`,
		invoiceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Transaction
	for rows.Next() {
		var t ledger.Transaction
		var accountID, invID, categoryID, billID *int64
		if err := rows.Scan(&t.ID, &t.HouseID, &t.Description, &t.Value, &t.Type, &t.Date,
			&accountID, &invID, &categoryID, &billID, &t.CreatedAt); err != nil {
			return nil, err
		}
		if accountID != nil {
			t.AccountID = *accountID
		}
		if invID != nil {
			t.InvoiceID = *invID
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
