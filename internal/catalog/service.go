package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Service owns the house's categories and product catalog.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateCategory(ctx context.Context, houseID int64, input CategoryInput) (*Category, error) {
	name := strings.TrimSpace(input.Name)
	kind := input.Type
	if kind == "" {
		kind = CategoryExpense
	}
	if name == "" || (kind != CategoryExpense && kind != CategoryIncome) {
		return nil, ErrInvalidCategory
	}
	c := &Category{HouseID: houseID, Name: name, Type: kind}
	if err := s.repo.InsertCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetOrCreateCategory returns the named category, creating it as an expense
// category when missing. The checkout uses it for the grocery category.
func (s *Service) GetOrCreateCategory(ctx context.Context, houseID int64, name string) (*Category, error) {
	c, err := s.repo.GetCategoryByName(ctx, houseID, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}
	created, err := s.CreateCategory(ctx, houseID, CategoryInput{Name: name, Type: CategoryExpense})
	if errors.Is(err, ErrDuplicateCategory) {
		// Lost a create race; the winner's row is what we want.
		return s.repo.GetCategoryByName(ctx, houseID, name)
	}
	return created, err
}

func (s *Service) GetCategory(ctx context.Context, houseID, id int64) (*Category, error) {
	return s.repo.GetCategory(ctx, houseID, id)
}

func (s *Service) ListCategories(ctx context.Context, houseID int64) ([]Category, error) {
	return s.repo.ListCategories(ctx, houseID)
}

func (s *Service) UpdateCategory(ctx context.Context, houseID, id int64, input CategoryInput) (*Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || (input.Type != CategoryExpense && input.Type != CategoryIncome) {
		return nil, ErrInvalidCategory
	}
	c, err := s.repo.GetCategory(ctx, houseID, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	c.Type = input.Type
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, houseID, id int64) error {
	return s.repo.DeleteCategory(ctx, houseID, id)
}

func (s *Service) CreateProduct(ctx context.Context, houseID int64, input ProductInput) (*Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.EstimatedPrice < 0 || input.MinQuantity < 0 {
		return nil, ErrInvalidProduct
	}
	minQuantity := input.MinQuantity
	if minQuantity == 0 {
		minQuantity = 1
	}
	p := &Product{HouseID: houseID, Name: name, EstimatedPrice: input.EstimatedPrice, MinQuantity: minQuantity}
	if err := s.repo.InsertProduct(ctx, p); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "product created", "product_id", p.ID, "house_id", houseID)
	}
	return p, nil
}

func (s *Service) GetProduct(ctx context.Context, houseID, id int64) (*Product, error) {
	return s.repo.GetProduct(ctx, houseID, id)
}

func (s *Service) ListProducts(ctx context.Context, houseID int64) ([]Product, error) {
	return s.repo.ListProducts(ctx, houseID)
}

func (s *Service) UpdateProduct(ctx context.Context, houseID, id int64, input ProductInput) (*Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.EstimatedPrice < 0 || input.MinQuantity < 0 {
		return nil, ErrInvalidProduct
	}
	p, err := s.repo.GetProduct(ctx, houseID, id)
	if err != nil {
		return nil, err
	}
	p.Name = name
	p.EstimatedPrice = input.EstimatedPrice
	if input.MinQuantity > 0 {
		p.MinQuantity = input.MinQuantity
	}
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, houseID, id int64) error {
	return s.repo.DeleteProduct(ctx, houseID, id)
}
