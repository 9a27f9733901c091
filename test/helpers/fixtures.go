package helpers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/vendor-pricing-engine/internal/application/shop"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/catalog"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/pricing"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/session"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/settings"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
)

// Harness wires a complete in-memory instance of the engine (C1-C8) for
// tests, built from mock repositories rather than a live database.
type Harness struct {
	Clock    *shared.MockClock
	Catalog  *MockCatalogRepository
	Ledger   *ledger.Ledger
	LedgerDB *MockLedgerRepository
	Sessions *session.Registry
	Settings *settings.Store
	Accumulator *pricing.Accumulator
	Engine   *pricing.Engine
	History  *InMemoryHistoryWriter
	Executor *shop.Executor
}

// NewHarness builds a Harness starting at startTime, defaulting every
// setting per §3.
func NewHarness(startTime time.Time) *Harness {
	clock := shared.NewMockClock(startTime)

	catalogRepo := NewMockCatalogRepository()
	ledgerDB := NewMockLedgerRepository()
	led := ledger.NewLedger(ledgerDB, ledgerDB, clock)
	sessions := session.NewRegistry(session.DefaultTiers(), clock, nil)
	store := settings.NewStore(clock, nil)
	accumulator := pricing.NewAccumulator()
	history := NewInMemoryHistoryWriter()

	engine := pricing.NewEngine(catalogRepo, accumulator, history, store, sessions, clock, time.UTC)
	executor := shop.NewExecutor(catalogRepo, led, engine.Cache(), accumulator, sessions, store, clock, time.UTC)

	return &Harness{
		Clock:       clock,
		Catalog:     catalogRepo,
		Ledger:      led,
		LedgerDB:    ledgerDB,
		Sessions:    sessions,
		Settings:    store,
		Accumulator: accumulator,
		Engine:      engine,
		History:     history,
		Executor:    executor,
	}
}

// SeedItem registers an active catalog item with the given bounds.
func (h *Harness) SeedItem(id, name string, baseSell, baseBuy, min, max decimal.Decimal) *catalog.Item {
	item, err := catalog.NewItem(id, name, catalog.CategoryCrops, catalog.Nutrition{}, catalog.ComplexityLow, baseSell, baseBuy, min, max)
	if err != nil {
		panic(err)
	}
	h.Catalog.Seed(item)
	return item
}

// LoginPlayer logs a player in at the harness's current clock time and
// seeds their starting balance.
func (h *Harness) LoginPlayer(id, name string, balance decimal.Decimal) shared.PlayerID {
	playerID := shared.MustNewPlayerID(id)
	h.Sessions.OnLogin(playerID, name, h.Clock.Now())
	h.LedgerDB.SeedBalance(playerID, balance)
	return playerID
}
