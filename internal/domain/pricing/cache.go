package pricing

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
)

// Quote is a cached buy or sell price with the tick timestamp it was
// published under.
type Quote struct {
	Price    decimal.Decimal
	TickTime time.Time
}

// Resolver computes the current quote for an item/direction pair directly,
// used by the cache on a miss (e.g. a newly activated item). The pricing
// Engine implements this.
type Resolver interface {
	CurrentQuote(itemID string, direction ledger.Direction) (Quote, error)
}

// Cache is the low-latency read path for buy/sell prices (C8). Keyed by
// (item_id, direction); the pricing engine's tick publishes every new
// quote, and a miss in Get stores the resolver's quote once. Reads never
// observe a torn value because each slot is written via a
// single atomic.Value store (an atomic pointer/versioned-slot scheme, per
// §4.8).
type Cache struct {
	mu       sync.RWMutex
	slots    map[string]*atomic.Value
	resolver Resolver
}

// NewCache builds an empty price cache. resolver is consulted on a miss.
func NewCache(resolver Resolver) *Cache {
	return &Cache{
		slots:    make(map[string]*atomic.Value),
		resolver: resolver,
	}
}

func cacheKey(itemID string, direction ledger.Direction) string {
	return itemID + "|" + string(direction)
}

func (c *Cache) slotFor(key string) *atomic.Value {
	c.mu.RLock()
	slot, ok := c.slots[key]
	c.mu.RUnlock()
	if ok {
		return slot
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if slot, ok = c.slots[key]; ok {
		return slot
	}
	slot = &atomic.Value{}
	c.slots[key] = slot
	return slot
}

// Publish is the path the engine's tick uses to make a new
// quote visible to readers. The store is wait-free for concurrent readers.
func (c *Cache) Publish(itemID string, direction ledger.Direction, quote Quote) {
	c.slotFor(cacheKey(itemID, direction)).Store(quote)
}

// Get returns the last published quote for (itemID, direction). On a miss
// it asks the resolver directly and stores the result before returning it,
// so subsequent reads hit the cache.
func (c *Cache) Get(itemID string, direction ledger.Direction) (Quote, error) {
	slot := c.slotFor(cacheKey(itemID, direction))
	if v := slot.Load(); v != nil {
		return v.(Quote), nil
	}

	quote, err := c.resolver.CurrentQuote(itemID, direction)
	if err != nil {
		return Quote{}, err
	}
	slot.Store(quote)
	return quote, nil
}
