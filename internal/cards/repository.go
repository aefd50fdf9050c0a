package cards

import (
	"context"

	"github.com/rogerioalves7/domo-1/internal/ledger"
)

// RepositoryPort abstracts card and invoice persistence. Money-moving work
// happens through WithTx so invoice payments share one database transaction
// with the recorded payment expense.
type RepositoryPort interface {
	Insert(ctx context.Context, c *CreditCard) error
	Get(ctx context.Context, houseID, id int64) (*CreditCard, error)
	List(ctx context.Context, houseID int64) ([]CreditCard, error)
	Update(ctx context.Context, c *CreditCard) error
	Delete(ctx context.Context, houseID, id int64) error

	GetInvoice(ctx context.Context, houseID, invoiceID int64) (*Invoice, error)
	ListInvoices(ctx context.Context, houseID, cardID int64) ([]Invoice, error)
	ListInvoiceTransactions(ctx context.Context, invoiceID int64) ([]ledger.Transaction, error)

	WithTx(ctx context.Context, fn func(context.Context, ledger.TxRepository) error) error
}
