package shopping

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/rogerioalves7/domo-1/internal/ledger"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

// GroceryCategory is the expense category checkouts are booked under.
const GroceryCategory = "Compras"

// Recorder writes a movement into an open ledger transaction. Satisfied by
// the ledger service.
type Recorder interface {
	Record(ctx context.Context, tx ledger.TxRepository, houseID int64, input ledger.CreateInput) (*ledger.Transaction, error)
}

// Service derives the shopping list from inventory and turns purchased
// entries into one recorded market transaction.
type Service struct {
	repo     RepositoryPort
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo RepositoryPort, recorder Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger, now: time.Now}
}

// List reconciles the shopping list with inventory and returns it. The
// reconciliation is idempotent: products at or below their restock threshold
// get (or keep) an unpurchased entry, products above it lose theirs.
// Purchased entries are never touched here.
func (s *Service) List(ctx context.Context, houseID int64) ([]Entry, error) {
	stock, err := s.repo.ListStock(ctx, houseID)
	if err != nil {
		return nil, err
	}
	for _, level := range stock {
		if level.Quantity <= level.MinQuantity {
			err = s.repo.InsertEntryIfAbsent(ctx, Entry{
				HouseID:           houseID,
				ProductID:         level.ProductID,
				QuantityToBuy:     level.MinQuantity,
				RealUnitPrice:     level.EstimatedPrice,
				DiscountUnitPrice: level.EstimatedPrice,
			})
		} else {
			err = s.repo.DeleteUnpurchasedByProduct(ctx, houseID, level.ProductID)
		}
		if err != nil {
			return nil, err
		}
	}
	return s.repo.ListEntries(ctx, houseID)
}

// UpdateEntry edits quantities, observed prices and the purchased flag.
func (s *Service) UpdateEntry(ctx context.Context, houseID, id int64, input EntryInput) (*Entry, error) {
	if input.QuantityToBuy < 0 || input.RealUnitPrice < 0 || input.DiscountUnitPrice < 0 {
		return nil, ErrInvalidEntry
	}
	e, err := s.repo.GetEntry(ctx, houseID, id)
	if err != nil {
		return nil, err
	}
	if input.QuantityToBuy > 0 {
		e.QuantityToBuy = input.QuantityToBuy
	}
	e.RealUnitPrice = input.RealUnitPrice
	e.DiscountUnitPrice = input.DiscountUnitPrice
	e.IsPurchased = input.IsPurchased
	if err := s.repo.UpdateEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) DeleteEntry(ctx context.Context, houseID, id int64) error {
	return s.repo.DeleteEntry(ctx, houseID, id)
}

// Finish checks out every purchased entry: one expense transaction for the
// total with a line item per entry, stock raised by the bought quantities,
// product price estimates refreshed, cart consumed. All of it commits in the
// same database transaction as the ledger mutation.
func (s *Service) Finish(ctx context.Context, houseID int64, input FinishInput) (*Summary, error) {
	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	var summary *Summary
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		entries, err := tx.ListPurchasedForUpdate(ctx, houseID)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return ErrEmptyCart
		}

		sourceName, err := tx.SourceName(ctx, houseID, input.Method, input.SourceID)
		if err != nil {
			return err
		}
		categoryID, err := tx.GetOrCreateCategory(ctx, houseID, GroceryCategory)
		if err != nil {
			return err
		}

		items := make([]ledger.ItemInput, 0, len(entries))
		for _, e := range entries {
			items = append(items, ledger.ItemInput{
				Description: e.ProductName,
				Value:       lineValue(e.UnitPrice(), e.QuantityToBuy),
				Quantity:    e.QuantityToBuy,
			})
		}

		create := ledger.CreateInput{
			Description: fmt.Sprintf("Mercado (%s)", sourceName),
			Value:       input.Total,
			Type:        ledger.TypeExpense,
			Method:      input.Method,
			Date:        date,
			CategoryID:  categoryID,
			Items:       items,
		}
		if input.Method == ledger.MethodCreditCard {
			create.CardID = input.SourceID
			// The whole cart books on today's invoice even when the
			// checkout is backdated; the transaction keeps its date.
			create.ReferenceDate = s.now()
		} else {
			create.Method = ledger.MethodAccount
			create.AccountID = input.SourceID
		}
		transaction, err := s.recorder.Record(ctx, tx, houseID, create)
		if err != nil {
			return err
		}

		for _, e := range entries {
			if err := tx.AddInventoryQuantity(ctx, houseID, e.ProductID, e.QuantityToBuy); err != nil {
				return err
			}
			if unit := e.UnitPrice(); unit > 0 && unit != e.EstimatedPrice {
				if err := tx.UpdateProductPrice(ctx, e.ProductID, unit); err != nil {
					return err
				}
			}
		}
		if err := tx.DeletePurchased(ctx, houseID); err != nil {
			return err
		}

		summary = &Summary{TransactionID: transaction.ID, Total: input.Total, ItemCount: len(entries)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "shopping checkout",
			"house_id", houseID, "transaction_id", summary.TransactionID, "items", summary.ItemCount)
	}
	return summary, nil
}

func lineValue(unit shared.Cents, quantity float64) shared.Cents {
	return shared.Cents(math.Round(float64(unit) * quantity))
}
