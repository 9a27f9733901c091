package pricing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// HistoryEntry is one repricing tick's outcome for a single item (§3).
type HistoryEntry struct {
	ItemID             string
	TickTime           time.Time
	PreviousPrice      decimal.Decimal
	NewPrice           decimal.Decimal
	PercentChange      decimal.Decimal
	Demand             decimal.Decimal
	Supply             decimal.Decimal
	Net                decimal.Decimal
	RawBuyVolume       int
	RawSellVolume      int
	WeightedBuyVolume  decimal.Decimal
	WeightedSellVolume decimal.Decimal
	OnlineCount        int
	PlayerCorrection   decimal.Decimal
}

// HistoryWriter persists price-history entries. Truncation beyond a
// retention window is an external maintenance concern (§3).
type HistoryWriter interface {
	Append(ctx context.Context, entry HistoryEntry) error
}

// HistoryReader supports the paged lookups the read path needs.
type HistoryReader interface {
	FindByItem(ctx context.Context, itemID string, limit, offset int) ([]HistoryEntry, error)
}
