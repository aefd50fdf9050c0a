package accounts

import "context"

// RepositoryPort abstracts account persistence.
type RepositoryPort interface {
	Insert(ctx context.Context, a *Account) error
	Get(ctx context.Context, houseID, id int64) (*Account, error)
	List(ctx context.Context, houseID int64) ([]Account, error)
	Update(ctx context.Context, a *Account) error
	Delete(ctx context.Context, houseID, id int64) error
}
