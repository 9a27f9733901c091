package catalog

import "context"

// Repository defines persistence operations for the catalog.
type Repository interface {
	// FindByID returns the item row regardless of active flag, or
	// ErrUnknownItem if it does not exist.
	FindByID(ctx context.Context, itemID string) (*Item, error)

	// List returns items, optionally filtered by category. Inactive items
	// are included; callers that need only tradable items should check
	// IsActive themselves (price-history lookups need inactive items too).
	List(ctx context.Context, category *Category) ([]*Item, error)

	// Create persists a new item.
	Create(ctx context.Context, item *Item) error

	// Update persists changes to an existing item (including the active
	// flag).
	Update(ctx context.Context, item *Item) error
}
