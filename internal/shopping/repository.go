package shopping

import (
	"context"

	"github.com/rogerioalves7/domo-1/internal/ledger"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

// RepositoryPort abstracts shopping list persistence. The derivation reads
// inventory through it so the list stays a materialized view of stock state.
type RepositoryPort interface {
	ListEntries(ctx context.Context, houseID int64) ([]Entry, error)
	GetEntry(ctx context.Context, houseID, id int64) (*Entry, error)
	UpdateEntry(ctx context.Context, e *Entry) error
	DeleteEntry(ctx context.Context, houseID, id int64) error

	ListStock(ctx context.Context, houseID int64) ([]StockLevel, error)
	InsertEntryIfAbsent(ctx context.Context, e Entry) error
	DeleteUnpurchasedByProduct(ctx context.Context, houseID, productID int64) error

	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository extends the ledger's transactional surface with the checkout
// writes, so the whole checkout commits or rolls back as one unit.
type TxRepository interface {
	ledger.TxRepository

	ListPurchasedForUpdate(ctx context.Context, houseID int64) ([]Entry, error)
	SourceName(ctx context.Context, houseID int64, method ledger.PaymentMethod, sourceID int64) (string, error)
	GetOrCreateCategory(ctx context.Context, houseID int64, name string) (int64, error)
	AddInventoryQuantity(ctx context.Context, houseID, productID int64, delta float64) error
	UpdateProductPrice(ctx context.Context, productID int64, price shared.Cents) error
	DeletePurchased(ctx context.Context, houseID int64) error
}
