package persistence

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/pricing"
)

// GormPriceHistoryRepository implements pricing.HistoryWriter and
// pricing.HistoryReader over the price_history table.
type GormPriceHistoryRepository struct {
	db *gorm.DB
}

// NewGormPriceHistoryRepository creates a new GORM price-history repository.
func NewGormPriceHistoryRepository(db *gorm.DB) *GormPriceHistoryRepository {
	return &GormPriceHistoryRepository{db: db}
}

// Append persists one repricing tick's outcome for a single item.
func (r *GormPriceHistoryRepository) Append(ctx context.Context, entry pricing.HistoryEntry) error {
	model := historyEntryToModel(entry)
	if result := r.db.WithContext(ctx).Create(model); result.Error != nil {
		return fmt.Errorf("failed to append price history: %w", result.Error)
	}
	return nil
}

// FindByItem returns the most recent history entries for an item, newest
// first.
func (r *GormPriceHistoryRepository) FindByItem(ctx context.Context, itemID string, limit, offset int) ([]pricing.HistoryEntry, error) {
	query := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("tick_time DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var models []PriceHistoryModel
	if result := query.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to find price history: %w", result.Error)
	}

	entries := make([]pricing.HistoryEntry, 0, len(models))
	for i := range models {
		entry, err := modelToHistoryEntry(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert price history model: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func historyEntryToModel(entry pricing.HistoryEntry) *PriceHistoryModel {
	return &PriceHistoryModel{
		ItemID:             entry.ItemID,
		TickTime:           entry.TickTime,
		PreviousPrice:      entry.PreviousPrice.StringFixed(2),
		NewPrice:           entry.NewPrice.StringFixed(2),
		PercentChange:      entry.PercentChange.StringFixed(3),
		DemandPressure:     entry.Demand.StringFixed(3),
		SupplyPressure:     entry.Supply.StringFixed(3),
		NetPressure:        entry.Net.StringFixed(3),
		RawBuyVolume:       entry.RawBuyVolume,
		RawSellVolume:      entry.RawSellVolume,
		WeightedBuyVolume:  entry.WeightedBuyVolume.StringFixed(1),
		WeightedSellVolume: entry.WeightedSellVolume.StringFixed(1),
		OnlineCount:        entry.OnlineCount,
		PlayerCorrection:   entry.PlayerCorrection.StringFixed(3),
	}
}

func modelToHistoryEntry(model *PriceHistoryModel) (pricing.HistoryEntry, error) {
	previousPrice, err := decimal.NewFromString(model.PreviousPrice)
	if err != nil {
		return pricing.HistoryEntry{}, fmt.Errorf("invalid previous_price in database: %w", err)
	}
	newPrice, err := decimal.NewFromString(model.NewPrice)
	if err != nil {
		return pricing.HistoryEntry{}, fmt.Errorf("invalid new_price in database: %w", err)
	}
	percentChange, err := decimal.NewFromString(model.PercentChange)
	if err != nil {
		return pricing.HistoryEntry{}, fmt.Errorf("invalid percent_change in database: %w", err)
	}
	demand, err := decimal.NewFromString(model.DemandPressure)
	if err != nil {
		return pricing.HistoryEntry{}, fmt.Errorf("invalid demand_pressure in database: %w", err)
	}
	supply, err := decimal.NewFromString(model.SupplyPressure)
	if err != nil {
		return pricing.HistoryEntry{}, fmt.Errorf("invalid supply_pressure in database: %w", err)
	}
	net, err := decimal.NewFromString(model.NetPressure)
	if err != nil {
		return pricing.HistoryEntry{}, fmt.Errorf("invalid net_pressure in database: %w", err)
	}
	weightedBuy, err := decimal.NewFromString(model.WeightedBuyVolume)
	if err != nil {
		return pricing.HistoryEntry{}, fmt.Errorf("invalid weighted_buy_volume in database: %w", err)
	}
	weightedSell, err := decimal.NewFromString(model.WeightedSellVolume)
	if err != nil {
		return pricing.HistoryEntry{}, fmt.Errorf("invalid weighted_sell_volume in database: %w", err)
	}
	playerCorrection, err := decimal.NewFromString(model.PlayerCorrection)
	if err != nil {
		return pricing.HistoryEntry{}, fmt.Errorf("invalid player_correction in database: %w", err)
	}

	return pricing.HistoryEntry{
		ItemID:             model.ItemID,
		TickTime:           model.TickTime,
		PreviousPrice:      previousPrice,
		NewPrice:           newPrice,
		PercentChange:      percentChange,
		Demand:             demand,
		Supply:             supply,
		Net:                net,
		RawBuyVolume:       model.RawBuyVolume,
		RawSellVolume:      model.RawSellVolume,
		WeightedBuyVolume:  weightedBuy,
		WeightedSellVolume: weightedSell,
		OnlineCount:        model.OnlineCount,
		PlayerCorrection:   playerCorrection,
	}, nil
}
