package pricing

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/catalog"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/session"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/settings"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
	"github.com/andrescamacho/vendor-pricing-engine/pkg/money"
)

// maxConcurrentItems bounds how many items a single tick reprices at once,
// using a bounded worker pool rather than spawning one goroutine per item
// unconditionally.
const maxConcurrentItems = 8

// decayDivisor is the "one step of at most max_price_change/4" the tick
// applies when both weighted volumes drained to zero (§4.6).
const decayDivisor = 4

// Engine is the repricing tick (C6): for each active item it drains the
// accumulator, computes a clamped candidate price, publishes it to the
// cache, and appends a history entry. It is also the Resolver the cache
// falls back to on a miss.
type Engine struct {
	catalog     catalog.Repository
	accumulator *Accumulator
	cache       *Cache
	history     HistoryWriter
	settings    *settings.Store
	sessions    *session.Registry
	clock       shared.Clock
	loc         *time.Location

	mu            sync.RWMutex
	currentPrices map[string]decimal.Decimal

	sink shared.EventSink
}

// NewEngine wires the pricing engine over its collaborators. loc is the
// time zone §4.5's time-of-day weighting resolves against; a nil loc
// defaults to time.Local, the documented fallback.
func NewEngine(
	catalogRepo catalog.Repository,
	accumulator *Accumulator,
	history HistoryWriter,
	store *settings.Store,
	sessions *session.Registry,
	clock shared.Clock,
	loc *time.Location,
) *Engine {
	if loc == nil {
		loc = time.Local
	}
	e := &Engine{
		catalog:       catalogRepo,
		accumulator:   accumulator,
		history:       history,
		settings:      store,
		sessions:      sessions,
		clock:         clock,
		loc:           loc,
		currentPrices: make(map[string]decimal.Decimal),
		sink:          shared.NoopEventSink{},
	}
	e.cache = NewCache(e)
	return e
}

// WithEventSink attaches the sink the tick reports structured events to.
// The engine emits events; sinks stay external and swappable.
func (e *Engine) WithEventSink(sink shared.EventSink) *Engine {
	if sink == nil {
		sink = shared.NoopEventSink{}
	}
	e.sink = sink
	return e
}

// Cache returns the engine's price cache, the C8 read path.
func (e *Engine) Cache() *Cache {
	return e.cache
}

// Location returns the time zone §4.5's time-of-day weighting resolves
// against, so the transaction executor computes contributions consistently
// with the engine it feeds.
func (e *Engine) Location() *time.Location {
	return e.loc
}

func (e *Engine) previousPrice(item *catalog.Item) decimal.Decimal {
	e.mu.RLock()
	p, ok := e.currentPrices[item.ID()]
	e.mu.RUnlock()
	if ok {
		return p
	}
	return item.BaseSellPrice()
}

func (e *Engine) setPrice(itemID string, p decimal.Decimal) {
	e.mu.Lock()
	e.currentPrices[itemID] = p
	e.mu.Unlock()
}

// CurrentQuote implements Resolver: it derives a buy or sell quote from the
// tracked buy-side current_price, per §4.6's two quote formulas.
func (e *Engine) CurrentQuote(itemID string, direction ledger.Direction) (Quote, error) {
	item, err := e.catalog.FindByID(context.Background(), itemID)
	if err != nil {
		return Quote{}, err
	}

	current := e.previousPrice(item)
	price := current
	if direction == ledger.PlayerSells {
		price = current.Mul(item.BidAskRatio())
	}
	price = catalog.ClampPrice(item, price)

	return Quote{Price: money.RoundPrice(price), TickTime: e.clock.Now()}, nil
}

// Tick runs one repricing cycle over every active catalog item, bounded to
// maxConcurrentItems concurrent items via errgroup. Two items never block
// each other and reprice in no particular cross-item order (§5).
func (e *Engine) Tick(ctx context.Context) error {
	items, err := e.catalog.List(ctx, nil)
	if err != nil {
		return err
	}

	snap := e.settings.Snapshot()
	tickTime := e.clock.Now()
	onlineCount := e.sessions.OnlineCount()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentItems)

	for _, item := range items {
		item := item
		if !item.IsActive() {
			continue
		}
		group.Go(func() error {
			return e.repriceItem(groupCtx, item, snap, tickTime, onlineCount)
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	e.sink.Emit(shared.NewEvent("repricing_tick", map[string]interface{}{
		"item_count":   len(items),
		"online_count": onlineCount,
		"tick_time":    tickTime,
	}))
	return nil
}

func (e *Engine) repriceItem(
	ctx context.Context,
	item *catalog.Item,
	snap settings.Snapshot,
	tickTime time.Time,
	onlineCount int,
) error {
	previous := e.previousPrice(item)
	totals := e.accumulator.Drain(item.ID())

	scale := decimal.NewFromInt(int64(snap.BaseOnlinePlayers))
	if scale.LessThan(decimal.NewFromInt(1)) {
		scale = decimal.NewFromInt(1)
	}

	demand := money.RoundPressure(totals.BuyW.Div(scale))
	supply := money.RoundPressure(totals.SellW.Div(scale))
	net := money.RoundPressure(demand.Sub(supply))

	newPrice := previous
	switch {
	case net.IsZero() && totals.BuyW.IsZero() && totals.SellW.IsZero():
		newPrice = decayToward(previous, item.BaseSellPrice(), snap.MaxPriceChange.Div(decimal.NewFromInt(decayDivisor)))
	case net.IsZero():
		// price does not move
	default:
		change := money.Clamp(net, snap.MaxPriceChange.Neg(), snap.MaxPriceChange)
		candidate := previous.Mul(decimal.NewFromInt(1).Add(change))
		newPrice = clampToRatioBounds(item, candidate, snap)
	}

	newPrice = money.RoundPrice(newPrice)
	e.setPrice(item.ID(), newPrice)

	buyQuote := Quote{Price: newPrice, TickTime: tickTime}
	sellQuote := Quote{Price: money.RoundPrice(catalog.ClampPrice(item, newPrice.Mul(item.BidAskRatio()))), TickTime: tickTime}
	e.cache.Publish(item.ID(), ledger.PlayerBuys, buyQuote)
	e.cache.Publish(item.ID(), ledger.PlayerSells, sellQuote)

	percentChange := decimal.Zero
	if !previous.IsZero() {
		percentChange = money.RoundPressure(newPrice.Sub(previous).Div(previous))
	}

	return e.history.Append(ctx, HistoryEntry{
		ItemID:             item.ID(),
		TickTime:           tickTime,
		PreviousPrice:      previous,
		NewPrice:           newPrice,
		PercentChange:      percentChange,
		Demand:             demand,
		Supply:             supply,
		Net:                net,
		RawBuyVolume:       totals.BuyRaw,
		RawSellVolume:      totals.SellRaw,
		WeightedBuyVolume:  totals.BuyW,
		WeightedSellVolume: totals.SellW,
		OnlineCount:        onlineCount,
		PlayerCorrection:   PlayerCorrection(onlineCount, snap.BaseOnlinePlayers),
	})
}

// clampToRatioBounds enforces the absolute [min,max] bound, then the ratio
// bound relative to base_sell_price, intersected with the absolute bound
// (§4.6 step 6).
func clampToRatioBounds(item *catalog.Item, p decimal.Decimal, snap settings.Snapshot) decimal.Decimal {
	p = catalog.ClampPrice(item, p)

	ratioMin := item.BaseSellPrice().Mul(snap.MinPriceRatio)
	ratioMax := item.BaseSellPrice().Mul(snap.MaxPriceRatio)

	lo := money.Max(item.MinPrice(), ratioMin)
	hi := money.Min(item.MaxPrice(), ratioMax)
	if lo.GreaterThan(hi) {
		lo, hi = hi, lo
	}

	return money.Clamp(p, lo, hi)
}

// decayToward moves previous one step of at most maxStep toward target,
// never overshooting it (§4.6's documented decay-to-base behavior). A
// partial step is rounded to whole cents toward previous, so the half-up
// rounding of the final price cannot stretch the step past maxStep.
func decayToward(previous, target, maxStep decimal.Decimal) decimal.Decimal {
	if previous.Equal(target) {
		return previous
	}

	diff := target.Sub(previous)
	if diff.Abs().LessThanOrEqual(maxStep) {
		return target
	}
	if diff.IsPositive() {
		return previous.Add(maxStep).RoundFloor(2)
	}
	return previous.Sub(maxStep).RoundCeil(2)
}
