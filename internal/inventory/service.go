package inventory

import (
	"context"
	"log/slog"
)

// Service owns the house's stock levels.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Set creates or replaces the stock entry for a product. A zero restock
// threshold inherits the product's default.
func (s *Service) Set(ctx context.Context, houseID int64, input Input) (*Item, error) {
	if input.ProductID == 0 || input.Quantity < 0 || input.MinQuantity < 0 {
		return nil, ErrInvalidInput
	}
	minQuantity := input.MinQuantity
	if minQuantity == 0 {
		var err error
		minQuantity, err = s.repo.ProductDefaults(ctx, houseID, input.ProductID)
		if err != nil {
			return nil, err
		}
	}
	item := &Item{
		HouseID:     houseID,
		ProductID:   input.ProductID,
		Quantity:    input.Quantity,
		MinQuantity: minQuantity,
	}
	if err := s.repo.Upsert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, houseID, id int64) (*Item, error) {
	return s.repo.Get(ctx, houseID, id)
}

func (s *Service) List(ctx context.Context, houseID int64) ([]Item, error) {
	return s.repo.List(ctx, houseID)
}

func (s *Service) Update(ctx context.Context, houseID, id int64, quantity, minQuantity float64) (*Item, error) {
	if quantity < 0 || minQuantity < 0 {
		return nil, ErrInvalidInput
	}
	item, err := s.repo.Get(ctx, houseID, id)
	if err != nil {
		return nil, err
	}
	item.Quantity = quantity
	if minQuantity > 0 {
		item.MinQuantity = minQuantity
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, houseID, id int64) error {
	return s.repo.Delete(ctx, houseID, id)
}
