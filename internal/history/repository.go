package history

import (
	"context"
	"time"

	"github.com/rogerioalves7/domo-1/internal/ledger"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

// RepositoryPort reads the inputs of the monthly analysis.
type RepositoryPort interface {
	// ListSince returns the house's transactions on or after the cutoff,
	// restricted to what the acting member may see.
	ListSince(ctx context.Context, houseID, userID int64, since time.Time) ([]ledger.Transaction, error)
	CategoryNames(ctx context.Context, houseID int64) (map[int64]string, error)
	ActiveBillsTotal(ctx context.Context, houseID int64) (shared.Cents, error)
}
