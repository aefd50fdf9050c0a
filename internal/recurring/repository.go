package recurring

import "context"

// RepositoryPort abstracts bill persistence. Name uniqueness is enforced
// case-insensitively per house by the storage layer.
type RepositoryPort interface {
	Insert(ctx context.Context, b *Bill) error
	Get(ctx context.Context, houseID, id int64) (*Bill, error)
	List(ctx context.Context, houseID int64) ([]Bill, error)
	Update(ctx context.Context, b *Bill) error
	Delete(ctx context.Context, houseID, id int64) error
}
