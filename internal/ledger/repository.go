package ledger

import (
	"context"
	"time"

	"github.com/rogerioalves7/domo-1/internal/shared"
)

// RepositoryPort abstracts repository usage for the recorder service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetTransaction(ctx context.Context, houseID, id int64) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]Transaction, error)
}

// TxRepository exposes the row operations a money-moving unit needs. All
// ...ForUpdate reads take a row lock for the duration of the transaction so
// concurrent balance checks cannot race.
type TxRepository interface {
	GetAccountForUpdate(ctx context.Context, houseID, accountID int64) (AccountRef, error)
	UpdateAccountBalance(ctx context.Context, accountID int64, balance shared.Cents) error

	GetCardForUpdate(ctx context.Context, houseID, cardID int64) (CardRef, error)
	UpdateCardLimit(ctx context.Context, cardID int64, limitAvailable shared.Cents) error

	GetInvoice(ctx context.Context, houseID, invoiceID int64) (InvoiceRef, error)
	GetOrCreateInvoiceForUpdate(ctx context.Context, cardID int64, reference time.Time) (InvoiceRef, error)
	GetInvoiceForUpdate(ctx context.Context, houseID, invoiceID int64) (InvoiceRef, error)
	AddInvoiceValue(ctx context.Context, invoiceID int64, delta shared.Cents) error
	UpdateInvoicePayment(ctx context.Context, invoiceID int64, amountPaid shared.Cents, status string) error

	InsertTransaction(ctx context.Context, t Transaction) (int64, error)
	InsertItems(ctx context.Context, transactionID int64, items []ItemInput) error
	GetTransactionForUpdate(ctx context.Context, houseID, id int64) (*Transaction, error)
	UpdateTransaction(ctx context.Context, t Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
}
