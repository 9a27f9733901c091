package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Item is a catalog entry: a tradable good a vendor quotes buy and sell
// prices for. Items are read-mostly once created; deactivation is a soft
// flag rather than a delete, so price history referencing an inactive item
// remains resolvable.
type Item struct {
	id            string
	name          string
	category      Category
	nutrition     Nutrition
	complexity    ComplexityClass
	baseSellPrice decimal.Decimal
	baseBuyPrice  decimal.Decimal
	minPrice      decimal.Decimal
	maxPrice      decimal.Decimal
	active        bool
}

// NewItem constructs an Item, enforcing the §3 price-bound invariants:
// min <= base_sell <= max, min <= base_buy <= max, base_buy <= base_sell.
func NewItem(
	id, name string,
	category Category,
	nutrition Nutrition,
	complexity ComplexityClass,
	baseSellPrice, baseBuyPrice, minPrice, maxPrice decimal.Decimal,
) (*Item, error) {
	item := &Item{
		id:            id,
		name:          name,
		category:      category,
		nutrition:     nutrition,
		complexity:    complexity,
		baseSellPrice: baseSellPrice,
		baseBuyPrice:  baseBuyPrice,
		minPrice:      minPrice,
		maxPrice:      maxPrice,
		active:        true,
	}

	if err := item.validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// ReconstructItem rebuilds an Item from persistence without re-deriving the
// active flag from the constructor's default.
func ReconstructItem(
	id, name string,
	category Category,
	nutrition Nutrition,
	complexity ComplexityClass,
	baseSellPrice, baseBuyPrice, minPrice, maxPrice decimal.Decimal,
	active bool,
) *Item {
	return &Item{
		id:            id,
		name:          name,
		category:      category,
		nutrition:     nutrition,
		complexity:    complexity,
		baseSellPrice: baseSellPrice,
		baseBuyPrice:  baseBuyPrice,
		minPrice:      minPrice,
		maxPrice:      maxPrice,
		active:        active,
	}
}

func (it *Item) validate() error {
	if it.id == "" {
		return &ErrInvalidItem{Field: "id", Reason: "id must not be empty"}
	}
	if !it.category.IsValid() {
		return &ErrInvalidItem{Field: "category", Reason: fmt.Sprintf("invalid category: %s", it.category)}
	}
	if it.complexity != "" && !it.complexity.IsValid() {
		return &ErrInvalidItem{Field: "complexity_class", Reason: fmt.Sprintf("invalid complexity class: %s", it.complexity)}
	}
	if it.minPrice.GreaterThan(it.maxPrice) {
		return &ErrInvalidItem{Field: "min_price", Reason: "min_price must be <= max_price"}
	}
	if it.baseSellPrice.LessThan(it.minPrice) || it.baseSellPrice.GreaterThan(it.maxPrice) {
		return &ErrInvalidItem{Field: "base_sell_price", Reason: "base_sell_price must be within [min_price, max_price]"}
	}
	if it.baseBuyPrice.LessThan(it.minPrice) || it.baseBuyPrice.GreaterThan(it.maxPrice) {
		return &ErrInvalidItem{Field: "base_buy_price", Reason: "base_buy_price must be within [min_price, max_price]"}
	}
	if it.baseBuyPrice.GreaterThan(it.baseSellPrice) {
		return &ErrInvalidItem{Field: "base_buy_price", Reason: "base_buy_price must be <= base_sell_price"}
	}
	return nil
}

// Getters.

func (it *Item) ID() string                      { return it.id }
func (it *Item) Name() string                     { return it.name }
func (it *Item) Category() Category               { return it.category }
func (it *Item) Nutrition() Nutrition             { return it.nutrition }
func (it *Item) ComplexityClass() ComplexityClass { return it.complexity }
func (it *Item) BaseSellPrice() decimal.Decimal    { return it.baseSellPrice }
func (it *Item) BaseBuyPrice() decimal.Decimal     { return it.baseBuyPrice }
func (it *Item) MinPrice() decimal.Decimal         { return it.minPrice }
func (it *Item) MaxPrice() decimal.Decimal         { return it.maxPrice }
func (it *Item) IsActive() bool                    { return it.active }

// Deactivate soft-deletes the item: invisible to the transaction executor
// from this point on, but still resolvable by price-history lookups.
func (it *Item) Deactivate() {
	it.active = false
}

// Activate reinstates a previously deactivated item.
func (it *Item) Activate() {
	it.active = true
}

// BidAskRatio returns base_buy_price / base_sell_price, the ratio §4.6
// holds fixed when deriving a sell-side quote from the tracked buy-side
// current price.
func (it *Item) BidAskRatio() decimal.Decimal {
	if it.baseSellPrice.IsZero() {
		return decimal.Zero
	}
	return it.baseBuyPrice.Div(it.baseSellPrice)
}

// ClampPrice projects p into [item.min, item.max]. Exposed as a pure
// function for reuse by the pricing engine and the transaction executor.
func ClampPrice(item *Item, p decimal.Decimal) decimal.Decimal {
	if p.LessThan(item.minPrice) {
		return item.minPrice
	}
	if p.GreaterThan(item.maxPrice) {
		return item.maxPrice
	}
	return p
}
