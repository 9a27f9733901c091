package persistence

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/catalog"
)

// GormCatalogRepository implements catalog.Repository using GORM.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM catalog repository.
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// FindByID returns the item row regardless of active flag, or
// ErrUnknownItem if it does not exist (§4.2).
func (r *GormCatalogRepository) FindByID(ctx context.Context, itemID string) (*catalog.Item, error) {
	var model ItemModel
	result := r.db.WithContext(ctx).Where("id = ?", itemID).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, &catalog.ErrUnknownItem{ItemID: itemID}
		}
		return nil, fmt.Errorf("failed to find item: %w", result.Error)
	}
	return modelToItem(&model)
}

// List returns items, optionally filtered by category.
func (r *GormCatalogRepository) List(ctx context.Context, category *catalog.Category) ([]*catalog.Item, error) {
	query := r.db.WithContext(ctx).Model(&ItemModel{})
	if category != nil {
		query = query.Where("category = ?", category.String())
	}

	var models []ItemModel
	if result := query.Order("id ASC").Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list items: %w", result.Error)
	}

	items := make([]*catalog.Item, 0, len(models))
	for i := range models {
		item, err := modelToItem(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert item model %q: %w", models[i].ID, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Create persists a new item.
func (r *GormCatalogRepository) Create(ctx context.Context, item *catalog.Item) error {
	model := itemToModel(item)
	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return fmt.Errorf("failed to create item: %w", result.Error)
	}
	return nil
}

// Update persists changes to an existing item (including the active flag).
func (r *GormCatalogRepository) Update(ctx context.Context, item *catalog.Item) error {
	model := itemToModel(item)
	result := r.db.WithContext(ctx).Model(&ItemModel{}).Where("id = ?", item.ID()).Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &catalog.ErrUnknownItem{ItemID: item.ID()}
	}
	return nil
}

func modelToItem(model *ItemModel) (*catalog.Item, error) {
	category, err := catalog.ParseCategory(model.Category)
	if err != nil {
		return nil, fmt.Errorf("invalid category in database: %w", err)
	}

	var complexity catalog.ComplexityClass
	if model.ComplexityClass != "" {
		complexity, err = catalog.ParseComplexityClass(model.ComplexityClass)
		if err != nil {
			return nil, fmt.Errorf("invalid complexity class in database: %w", err)
		}
	}

	baseSell, err := decimal.NewFromString(model.BaseSellPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid base_sell_price in database: %w", err)
	}
	baseBuy, err := decimal.NewFromString(model.BaseBuyPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid base_buy_price in database: %w", err)
	}
	minPrice, err := decimal.NewFromString(model.MinPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid min_price in database: %w", err)
	}
	maxPrice, err := decimal.NewFromString(model.MaxPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid max_price in database: %w", err)
	}

	return catalog.ReconstructItem(
		model.ID,
		model.Name,
		category,
		catalog.Nutrition{Hunger: model.NutritionHunger, Saturation: model.Saturation},
		complexity,
		baseSell, baseBuy, minPrice, maxPrice,
		model.Active,
	), nil
}

func itemToModel(item *catalog.Item) *ItemModel {
	return &ItemModel{
		ID:              item.ID(),
		Name:            item.Name(),
		Category:        item.Category().String(),
		NutritionHunger: item.Nutrition().Hunger,
		Saturation:      item.Nutrition().Saturation,
		ComplexityClass: item.ComplexityClass().String(),
		BaseSellPrice:   item.BaseSellPrice().StringFixed(2),
		BaseBuyPrice:    item.BaseBuyPrice().StringFixed(2),
		MinPrice:        item.MinPrice().StringFixed(2),
		MaxPrice:        item.MaxPrice().StringFixed(2),
		Active:          item.IsActive(),
	}
}
