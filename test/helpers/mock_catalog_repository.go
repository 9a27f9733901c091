// Package helpers holds in-memory test doubles for the domain layer's
// repository ports, one file per port.
package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/catalog"
)

// MockCatalogRepository is an in-memory test double for catalog.Repository.
type MockCatalogRepository struct {
	mu    sync.RWMutex
	items map[string]*catalog.Item
}

// NewMockCatalogRepository creates a new empty mock catalog.
func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{items: make(map[string]*catalog.Item)}
}

// Seed registers item directly, bypassing Create, for test setup.
func (m *MockCatalogRepository) Seed(item *catalog.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID()] = item
}

// FindByID implements catalog.Repository.
func (m *MockCatalogRepository) FindByID(ctx context.Context, itemID string) (*catalog.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[itemID]
	if !ok {
		return nil, &catalog.ErrUnknownItem{ItemID: itemID}
	}
	return item, nil
}

// List implements catalog.Repository.
func (m *MockCatalogRepository) List(ctx context.Context, category *catalog.Category) ([]*catalog.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]*catalog.Item, 0, len(m.items))
	for _, item := range m.items {
		if category != nil && item.Category() != *category {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Create implements catalog.Repository.
func (m *MockCatalogRepository) Create(ctx context.Context, item *catalog.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[item.ID()] = item
	return nil
}

// Update implements catalog.Repository.
func (m *MockCatalogRepository) Update(ctx context.Context, item *catalog.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[item.ID()] = item
	return nil
}
