package pricing

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/vendor-pricing-engine/pkg/money"
)

// Totals is the four running aggregates the accumulator keeps per item
// between repricing ticks (§4.5): raw counts are integers, weighted
// volumes carry one fractional digit.
type Totals struct {
	BuyRaw  int
	SellRaw int
	BuyW    decimal.Decimal
	SellW   decimal.Decimal
}

// perItem is the mutable, lock-guarded state for one item's totals.
type perItem struct {
	mu     sync.Mutex
	totals Totals
}

// Accumulator is the process-wide, per-item pressure accumulator (C5). The
// transaction executor appends contributions under the per-player ledger
// lock; the pricing engine drains one item at a time during a tick. Drain
// is an atomic exchange so a transaction is counted in exactly one tick
// (§5's ordering guarantee).
type Accumulator struct {
	mu    sync.RWMutex
	items map[string]*perItem
}

// NewAccumulator builds an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{items: make(map[string]*perItem)}
}

func (a *Accumulator) entry(itemID string) *perItem {
	a.mu.RLock()
	e, ok := a.items[itemID]
	a.mu.RUnlock()
	if ok {
		return e
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if e, ok = a.items[itemID]; ok {
		return e
	}
	e = &perItem{totals: Totals{BuyW: decimal.Zero, SellW: decimal.Zero}}
	a.items[itemID] = e
	return e
}

// Add feeds a weighted contribution for itemID. isBuy selects which side
// of the raw/weighted pair the contribution lands on.
func (a *Accumulator) Add(itemID string, isBuy bool, quantity int, contribution decimal.Decimal) {
	e := a.entry(itemID)

	e.mu.Lock()
	defer e.mu.Unlock()

	if isBuy {
		e.totals.BuyRaw += quantity
		e.totals.BuyW = money.RoundWeightedVolume(e.totals.BuyW.Add(contribution))
	} else {
		e.totals.SellRaw += quantity
		e.totals.SellW = money.RoundWeightedVolume(e.totals.SellW.Add(contribution))
	}
}

// Peek returns itemID's current aggregates without draining them, used by
// the transaction executor to snapshot pressures onto a transaction row
// without disturbing the tick's eventual Drain (§4.7 step 5).
func (a *Accumulator) Peek(itemID string) Totals {
	e := a.entry(itemID)

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.totals
}

// Drain returns and zeros itemID's four aggregates atomically.
func (a *Accumulator) Drain(itemID string) Totals {
	e := a.entry(itemID)

	e.mu.Lock()
	defer e.mu.Unlock()

	totals := e.totals
	e.totals = Totals{BuyW: decimal.Zero, SellW: decimal.Zero}
	return totals
}

// KnownItems returns the ids of every item that has ever received a
// contribution. Engine.Tick does not call it; a tick iterates the catalog
// only.
func (a *Accumulator) KnownItems() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	ids := make([]string, 0, len(a.items))
	for id := range a.items {
		ids = append(ids, id)
	}
	return ids
}
