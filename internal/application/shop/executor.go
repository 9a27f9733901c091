// Package shop implements the transaction executor and its supporting
// query handlers, each command and query dispatched through a shared
// mediator rather than called directly.
package shop

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/catalog"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/pricing"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/session"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/settings"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
	"github.com/andrescamacho/vendor-pricing-engine/pkg/money"
)

const (
	minQuantity  = 1
	maxQuantity  = 10000
	maxBatchSize = 50
)

// Executor is the transaction executor described in §4.7: resolve and
// validate, acquire the per-player lock, quote, commit the ledger, then
// feed the pressure accumulator. It is shared by both the single-trade and
// batch command handlers so the two paths never diverge on validation or
// settlement order.
type Executor struct {
	catalog     catalog.Repository
	ledger      *ledger.Ledger
	cache       *pricing.Cache
	accumulator *pricing.Accumulator
	sessions    *session.Registry
	settings    *settings.Store
	clock       shared.Clock
	loc         *time.Location
	sink        shared.EventSink
}

// NewExecutor wires the transaction executor over its collaborators.
func NewExecutor(
	catalogRepo catalog.Repository,
	led *ledger.Ledger,
	cache *pricing.Cache,
	accumulator *pricing.Accumulator,
	sessions *session.Registry,
	store *settings.Store,
	clock shared.Clock,
	loc *time.Location,
) *Executor {
	if loc == nil {
		loc = time.Local
	}
	return &Executor{
		catalog:     catalogRepo,
		ledger:      led,
		cache:       cache,
		accumulator: accumulator,
		sessions:    sessions,
		settings:    store,
		clock:       clock,
		loc:         loc,
		sink:        shared.NoopEventSink{},
	}
}

// WithEventSink attaches the sink executed trades report to.
func (x *Executor) WithEventSink(sink shared.EventSink) *Executor {
	if sink == nil {
		sink = shared.NoopEventSink{}
	}
	x.sink = sink
	return x
}

// TradeResult is the outcome of one Execute call.
type TradeResult struct {
	TransactionID string
	PlayerID      string
	ItemID        string
	Direction     ledger.Direction
	Quantity      int
	UnitPrice     decimal.Decimal
	Total         decimal.Decimal
	NewBalance    decimal.Decimal
}

// Execute implements §4.7 end to end for one buy or sell operation. It
// acquires playerID's ledger lock itself, so it must not be called while
// that lock is held; the batch handler takes the lock once and calls
// executeLocked for each entry instead.
func (x *Executor) Execute(ctx context.Context, playerID shared.PlayerID, playerName, itemID string, quantity int, direction ledger.Direction) (*TradeResult, error) {
	unlock := x.ledger.Lock(playerID)
	defer unlock()

	return x.executeLocked(ctx, playerID, playerName, itemID, quantity, direction)
}

// executeLocked performs steps 1, 3-6 of §4.7 assuming the caller already
// holds the per-player lock (step 2).
func (x *Executor) executeLocked(ctx context.Context, playerID shared.PlayerID, playerName, itemID string, quantity int, direction ledger.Direction) (*TradeResult, error) {
	if quantity < minQuantity || quantity > maxQuantity {
		return nil, &catalog.ErrInvalidQuantity{Quantity: quantity}
	}

	item, err := x.catalog.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsActive() {
		return nil, &catalog.ErrItemInactive{ItemID: itemID}
	}

	quote, err := x.cache.Get(itemID, direction)
	if err != nil {
		return nil, err
	}
	total := money.RoundAmount(quote.Price.Mul(decimal.NewFromInt(int64(quantity))))

	now := x.clock.Now()
	onlineCount := x.sessions.OnlineCount()
	snap := x.settings.Snapshot()

	pressure := x.pressureSnapshot(itemID, onlineCount, snap)

	txn, err := ledger.NewTransaction(playerID, playerName, itemID, direction, quantity, quote.Price, pressure, now)
	if err != nil {
		return nil, err
	}

	newBalance, err := x.ledger.Commit(ctx, txn)
	if err != nil {
		return nil, err
	}

	x.feedAccumulator(playerID, itemID, direction, quantity, now, onlineCount, snap)

	x.sink.Emit(shared.NewEvent("trade_executed", map[string]interface{}{
		"player_id": playerID.Value(),
		"item_id":   itemID,
		"direction": string(direction),
		"quantity":  quantity,
		"total":     total.StringFixed(2),
	}))

	return &TradeResult{
		TransactionID: txn.ID().String(),
		PlayerID:      playerID.Value(),
		ItemID:        itemID,
		Direction:     direction,
		Quantity:      quantity,
		UnitPrice:     quote.Price,
		Total:         total,
		NewBalance:    newBalance,
	}, nil
}

// pressureSnapshot reads the accumulator's current totals without draining
// them (§4.7 step 5: "current pressures snapshot (from C5 read without
// drain)"), scaled the same way the tick scales demand/supply (§4.6 step 3).
func (x *Executor) pressureSnapshot(itemID string, onlineCount int, snap settings.Snapshot) ledger.PressureSnapshot {
	totals := x.accumulator.Peek(itemID)

	scale := decimal.NewFromInt(int64(snap.BaseOnlinePlayers))
	if scale.LessThan(decimal.NewFromInt(1)) {
		scale = decimal.NewFromInt(1)
	}

	return ledger.PressureSnapshot{
		Demand:        money.RoundPressure(totals.BuyW.Div(scale)),
		Supply:        money.RoundPressure(totals.SellW.Div(scale)),
		OnlineAtTrade: onlineCount,
	}
}

// feedAccumulator pushes the weighted contribution of a committed
// transaction into the pressure accumulator (§4.5), run only after a
// successful ledger commit. A trade is treated as an activity signal for
// the session registry (spec.md has no dedicated login/activity endpoint
// in its HTTP surface, so a committed trade is the closest thing to a
// presence ping this system observes).
func (x *Executor) feedAccumulator(playerID shared.PlayerID, itemID string, direction ledger.Direction, quantity int, at time.Time, onlineCount int, snap settings.Snapshot) {
	x.sessions.OnActivity(playerID, at)
	sessionWeight := x.sessions.WeightFor(playerID, at)
	timeWeight := pricing.TimeOfDayWeight(at, x.loc)
	correction := pricing.PlayerCorrection(onlineCount, snap.BaseOnlinePlayers)

	contribution := pricing.Contribution(quantity, sessionWeight, timeWeight, correction)
	x.accumulator.Add(itemID, direction == ledger.PlayerBuys, quantity, contribution)
}
