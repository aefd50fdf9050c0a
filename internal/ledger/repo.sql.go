package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rogerioalves7/domo-1/internal/platform/db"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

// Repository persists the ledger in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// WithTx executes the callback inside a RepeatableRead transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r == nil {
		return errors.New("ledger repository not initialised")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, NewTxRepository(tx))
	})
}

// NewTxRepository wraps an open pgx transaction with the ledger row
// operations. Exported so the checkout and payment units can compose their
// own writes with the recorder inside one transaction.
func NewTxRepository(tx pgx.Tx) TxRepository {
	return &txRepository{tx: tx}
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) GetAccountForUpdate(ctx context.Context, houseID, accountID int64) (AccountRef, error) {
	var account AccountRef
	err := r.tx.QueryRow(ctx, `SELECT id, house_id, name, balance_cents, limit_cents
FROM accounts WHERE id=$1 AND house_id=$2 FOR UPDATE`, accountID, houseID).
		Scan(&account.ID, &account.HouseID, &account.Name, &account.Balance, &account.Limit)
	if errors.Is(err, pgx.ErrNoRows) {
		return AccountRef{}, ErrAccountNotFound
	}
	return account, err
}

func (r *txRepository) UpdateAccountBalance(ctx context.Context, accountID int64, balance shared.Cents) error {
	_, err := r.tx.Exec(ctx, `UPDATE accounts SET balance_cents=$2 WHERE id=$1`, accountID, int64(balance))
	return err
}

func (r *txRepository) GetCardForUpdate(ctx context.Context, houseID, cardID int64) (CardRef, error) {
	var card CardRef
	err := r.tx.QueryRow(ctx, `SELECT id, house_id, name, limit_total_cents, limit_available_cents, closing_day
FROM credit_cards WHERE id=$1 AND house_id=$2 FOR UPDATE`, cardID, houseID).
		Scan(&card.ID, &card.HouseID, &card.Name, &card.LimitTotal, &card.LimitAvailable, &card.ClosingDay)
	if errors.Is(err, pgx.ErrNoRows) {
		return CardRef{}, ErrCardNotFound
	}
	return card, err
}

func (r *txRepository) UpdateCardLimit(ctx context.Context, cardID int64, limitAvailable shared.Cents) error {
	_, err := r.tx.Exec(ctx, `UPDATE credit_cards SET limit_available_cents=$2 WHERE id=$1`, cardID, int64(limitAvailable))
	return err
}

func (r *txRepository) GetInvoice(ctx context.Context, houseID, invoiceID int64) (InvoiceRef, error) {
	var invoice InvoiceRef
	err := r.tx.QueryRow(ctx, `SELECT i.id, i.card_id, i.reference_date, i.value_cents, i.amount_paid_cents, i.status
FROM invoices i JOIN credit_cards c ON c.id = i.card_id
WHERE i.id=$1 AND c.house_id=$2`, invoiceID, houseID).
		Scan(&invoice.ID, &invoice.CardID, &invoice.ReferenceDate, &invoice.Value, &invoice.AmountPaid, &invoice.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return InvoiceRef{}, ErrInvoiceNotFound
	}
	return invoice, err
}

func (r *txRepository) GetOrCreateInvoiceForUpdate(ctx context.Context, cardID int64, reference time.Time) (InvoiceRef, error) {
	// Atomic find-or-insert: the unique (card_id, reference_date) key makes
	// concurrent get-or-create race-free.
	_, err := r.tx.Exec(ctx, `INSERT INTO invoices (card_id, reference_date, value_cents, amount_paid_cents, status)
VALUES ($1, $2, 0, 0, 'OPEN') ON CONFLICT (card_id, reference_date) DO NOTHING`, cardID, reference)
	if err != nil {
		return InvoiceRef{}, err
	}
	var invoice InvoiceRef
	err = r.tx.QueryRow(ctx, `SELECT id, card_id, reference_date, value_cents, amount_paid_cents, status
FROM invoices WHERE card_id=$1 AND reference_date=$2 FOR UPDATE`, cardID, reference).
		Scan(&invoice.ID, &invoice.CardID, &invoice.ReferenceDate, &invoice.Value, &invoice.AmountPaid, &invoice.Status)
	return invoice, err
}

func (r *txRepository) GetInvoiceForUpdate(ctx context.Context, houseID, invoiceID int64) (InvoiceRef, error) {
	var invoice InvoiceRef
	err := r.tx.QueryRow(ctx, `SELECT i.id, i.card_id, i.reference_date, i.value_cents, i.amount_paid_cents, i.status
FROM invoices i JOIN credit_cards c ON c.id = i.card_id
WHERE i.id=$1 AND c.house_id=$2 FOR UPDATE OF i`, invoiceID, houseID).
		Scan(&invoice.ID, &invoice.CardID, &invoice.ReferenceDate, &invoice.Value, &invoice.AmountPaid, &invoice.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return InvoiceRef{}, ErrInvoiceNotFound
	}
	return invoice, err
}

func (r *txRepository) AddInvoiceValue(ctx context.Context, invoiceID int64, delta shared.Cents) error {
	_, err := r.tx.Exec(ctx, `UPDATE invoices SET value_cents = value_cents + $2 WHERE id=$1`, invoiceID, int64(delta))
	return err
}

func (r *txRepository) UpdateInvoicePayment(ctx context.Context, invoiceID int64, amountPaid shared.Cents, status string) error {
	_, err := r.tx.Exec(ctx, `UPDATE invoices SET amount_paid_cents=$2, status=$3 WHERE id=$1`, invoiceID, int64(amountPaid), status)
	return err
}

func (r *txRepository) InsertTransaction(ctx context.Context, t Transaction) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO transactions
(house_id, description, value_cents, type, date, account_id, invoice_id, category_id, recurring_bill_id, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW()) RETURNING id`,
		t.HouseID, t.Description, int64(t.Value), string(t.Type), t.Date,
		nullID(t.AccountID), nullID(t.InvoiceID), nullID(t.CategoryID), nullID(t.RecurringBillID)).Scan(&id)
	return id, err
}

func (r *txRepository) InsertItems(ctx context.Context, transactionID int64, items []ItemInput) error {
	for _, item := range items {
		if _, err := r.tx.Exec(ctx, `INSERT INTO transaction_items (transaction_id, description, value_cents, quantity)
VALUES ($1,$2,$3,$4)`, transactionID, item.Description, int64(item.Value), item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) GetTransactionForUpdate(ctx context.Context, houseID, id int64) (*Transaction, error) {
	t, err := scanTransaction(r.tx.QueryRow(ctx, `SELECT id, house_id, description, value_cents, type, date,
account_id, invoice_id, category_id, recurring_bill_id, created_at
FROM transactions WHERE id=$1 AND house_id=$2 FOR UPDATE`, id, houseID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	return t, err
}

func (r *txRepository) UpdateTransaction(ctx context.Context, t Transaction) error {
	_, err := r.tx.Exec(ctx, `UPDATE transactions SET description=$2, value_cents=$3, date=$4, category_id=$5 WHERE id=$1`,
		t.ID, t.Description, int64(t.Value), t.Date, nullID(t.CategoryID))
	return err
}

func (r *txRepository) DeleteTransaction(ctx context.Context, id int64) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM transactions WHERE id=$1`, id)
	return err
}

// GetTransaction loads one transaction with its items.
func (r *Repository) GetTransaction(ctx context.Context, houseID, id int64) (*Transaction, error) {
	t, err := scanTransaction(r.pool.QueryRow(ctx, `SELECT id, house_id, description, value_cents, type, date,
account_id, invoice_id, category_id, recurring_bill_id, created_at
FROM transactions WHERE id=$1 AND house_id=$2`, id, houseID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, `SELECT id, transaction_id, description, value_cents, quantity
FROM transaction_items WHERE transaction_id=$1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.TransactionID, &item.Description, &item.Value, &item.Quantity); err != nil {
			return nil, err
		}
		t.Items = append(t.Items, item)
	}
	return t, rows.Err()
}

// ListTransactions returns the house's history visible to the acting member:
// movements funded by shared sources, the member's own sources, or nothing.
func (r *Repository) ListTransactions(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.pool.Query(ctx, `SELECT t.id, t.house_id, t.description, t.value_cents, t.type, t.date,
t.account_id, t.invoice_id, t.category_id, t.recurring_bill_id, t.created_at
FROM transactions t
LEFT JOIN accounts a ON a.id = t.account_id
LEFT JOIN invoices i ON i.id = t.invoice_id
LEFT JOIN credit_cards c ON c.id = i.card_id
WHERE t.house_id = $1
  AND (t.account_id IS NULL OR a.is_shared OR a.owner_id = $2)
  AND (t.invoice_id IS NULL OR c.is_shared OR c.owner_id = $2)
ORDER BY t.date DESC, t.id DESC
LIMIT $3`, filter.HouseID, filter.UserID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	transactions := []Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*Transaction, error) {
	var t Transaction
	var accountID, invoiceID, categoryID, billID *int64
	err := row.Scan(&t.ID, &t.HouseID, &t.Description, &t.Value, &t.Type, &t.Date,
		&accountID, &invoiceID, &categoryID, &billID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.AccountID = deref(accountID)
	t.InvoiceID = deref(invoiceID)
	t.CategoryID = deref(categoryID)
	t.RecurringBillID = deref(billID)
	return &t, nil
}

func nullID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func deref(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
