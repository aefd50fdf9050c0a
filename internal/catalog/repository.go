package catalog

import "context"

// RepositoryPort abstracts category and product persistence.
type RepositoryPort interface {
	InsertCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, houseID, id int64) (*Category, error)
	GetCategoryByName(ctx context.Context, houseID int64, name string) (*Category, error)
	ListCategories(ctx context.Context, houseID int64) ([]Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, houseID, id int64) error

	InsertProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, houseID, id int64) (*Product, error)
	ListProducts(ctx context.Context, houseID int64) ([]Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, houseID, id int64) error
}
