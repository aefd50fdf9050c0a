package inventory

import "context"

// RepositoryPort abstracts inventory persistence. Upsert keys on the unique
// (house, product) pair.
type RepositoryPort interface {
	Upsert(ctx context.Context, item *Item) error
	Get(ctx context.Context, houseID, id int64) (*Item, error)
	GetByProduct(ctx context.Context, houseID, productID int64) (*Item, error)
	List(ctx context.Context, houseID int64) ([]Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, houseID, id int64) error

	// ProductDefaults returns the product's restock threshold, used when an
	// item is created without one.
	ProductDefaults(ctx context.Context, houseID, productID int64) (float64, error)
}
