package shop

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/vendor-pricing-engine/internal/application/common"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/catalog"
)

// AddItemCommand creates a new catalog entry (the admin path §3's
// Lifecycle describes: "items are created by an admin path").
type AddItemCommand struct {
	ID            string
	Name          string
	Category      catalog.Category
	Nutrition     catalog.Nutrition
	Complexity    catalog.ComplexityClass
	BaseSellPrice decimal.Decimal
	BaseBuyPrice  decimal.Decimal
	MinPrice      decimal.Decimal
	MaxPrice      decimal.Decimal
}

// AddItemResponse wraps the newly created item.
type AddItemResponse struct {
	Item *catalog.Item
}

// AddItemHandler handles AddItemCommand.
type AddItemHandler struct {
	catalog catalog.Repository
}

// NewAddItemHandler creates a new item-creation handler.
func NewAddItemHandler(catalogRepo catalog.Repository) *AddItemHandler {
	return &AddItemHandler{catalog: catalogRepo}
}

// Handle executes the item-creation command.
func (h *AddItemHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*AddItemCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	item, err := catalog.NewItem(
		cmd.ID, cmd.Name, cmd.Category, cmd.Nutrition, cmd.Complexity,
		cmd.BaseSellPrice, cmd.BaseBuyPrice, cmd.MinPrice, cmd.MaxPrice,
	)
	if err != nil {
		return nil, err
	}

	if err := h.catalog.Create(ctx, item); err != nil {
		return nil, err
	}

	return &AddItemResponse{Item: item}, nil
}

// DeactivateItemCommand soft-deletes a catalog item: invisible to the
// transaction executor from this point on, still resolvable by
// price-history lookups (§4.2).
type DeactivateItemCommand struct {
	ItemID string
}

// DeactivateItemResponse confirms the deactivation.
type DeactivateItemResponse struct {
	Item *catalog.Item
}

// DeactivateItemHandler handles DeactivateItemCommand.
type DeactivateItemHandler struct {
	catalog catalog.Repository
}

// NewDeactivateItemHandler creates a new item-deactivation handler.
func NewDeactivateItemHandler(catalogRepo catalog.Repository) *DeactivateItemHandler {
	return &DeactivateItemHandler{catalog: catalogRepo}
}

// Handle executes the deactivation command.
func (h *DeactivateItemHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DeactivateItemCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	item, err := h.catalog.FindByID(ctx, cmd.ItemID)
	if err != nil {
		return nil, err
	}

	item.Deactivate()
	if err := h.catalog.Update(ctx, item); err != nil {
		return nil, err
	}

	return &DeactivateItemResponse{Item: item}, nil
}
