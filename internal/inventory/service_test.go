package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	nextID   int64
	items    map[int64]Item
	products map[int64]float64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, items: map[int64]Item{}, products: map[int64]float64{}}
}

func (m *memoryRepo) Upsert(_ context.Context, item *Item) error {
	for id, existing := range m.items {
		if existing.HouseID == item.HouseID && existing.ProductID == item.ProductID {
			item.ID = id
			m.items[id] = *item
			return nil
		}
	}
	item.ID = m.nextID
	m.nextID++
	m.items[item.ID] = *item
	return nil
}

func (m *memoryRepo) Get(_ context.Context, houseID, id int64) (*Item, error) {
	item, ok := m.items[id]
	if !ok || item.HouseID != houseID {
		return nil, ErrNotFound
	}
	out := item
	return &out, nil
}

func (m *memoryRepo) GetByProduct(_ context.Context, houseID, productID int64) (*Item, error) {
	for _, item := range m.items {
		if item.HouseID == houseID && item.ProductID == productID {
			out := item
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryRepo) List(_ context.Context, houseID int64) ([]Item, error) {
	var out []Item
	for _, item := range m.items {
		if item.HouseID == houseID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *memoryRepo) Update(_ context.Context, item *Item) error {
	if _, ok := m.items[item.ID]; !ok {
		return ErrNotFound
	}
	m.items[item.ID] = *item
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, houseID, id int64) error {
	item, ok := m.items[id]
	if !ok || item.HouseID != houseID {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memoryRepo) ProductDefaults(_ context.Context, _, productID int64) (float64, error) {
	minQuantity, ok := m.products[productID]
	if !ok {
		return 0, ErrNotFound
	}
	return minQuantity, nil
}

func TestSetInheritsProductThreshold(t *testing.T) {
	repo := newMemoryRepo()
	repo.products[5] = 3
	svc := NewService(repo, nil)

	item, err := svc.Set(context.Background(), 1, Input{ProductID: 5, Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, 3.0, item.MinQuantity)
}

func TestSetExplicitThresholdWins(t *testing.T) {
	repo := newMemoryRepo()
	repo.products[5] = 3
	svc := NewService(repo, nil)

	item, err := svc.Set(context.Background(), 1, Input{ProductID: 5, Quantity: 10, MinQuantity: 7})
	require.NoError(t, err)
	assert.Equal(t, 7.0, item.MinQuantity)
}

func TestSetReplacesExistingEntry(t *testing.T) {
	repo := newMemoryRepo()
	repo.products[5] = 1
	svc := NewService(repo, nil)

	first, err := svc.Set(context.Background(), 1, Input{ProductID: 5, Quantity: 10})
	require.NoError(t, err)
	second, err := svc.Set(context.Background(), 1, Input{ProductID: 5, Quantity: 4})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.items, 1)
	assert.Equal(t, 4.0, repo.items[first.ID].Quantity)
}

func TestSetUnknownProduct(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	_, err := svc.Set(context.Background(), 1, Input{ProductID: 99, Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateKeepsThresholdWhenZero(t *testing.T) {
	repo := newMemoryRepo()
	repo.products[5] = 2
	svc := NewService(repo, nil)

	item, err := svc.Set(context.Background(), 1, Input{ProductID: 5, Quantity: 10})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), 1, item.ID, 6, 0)
	require.NoError(t, err)
	assert.Equal(t, 6.0, updated.Quantity)
	assert.Equal(t, 2.0, updated.MinQuantity)
}
