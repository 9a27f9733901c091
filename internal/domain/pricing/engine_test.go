package pricing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/pricing"
	"github.com/andrescamacho/vendor-pricing-engine/test/helpers"
)

var tickStart = time.Date(2026, 1, 6, 19, 0, 0, 0, time.UTC) // weekday peak

// feedSells has count distinct players each log in, wait 130 minutes (Long
// session tier, weight 1.0) and sell 10 units of itemID. The shared clock
// advances with every player and players stay logged in, so the
// time-of-day weight and the online count vary across the batch.
func feedSells(t *testing.T, h *helpers.Harness, itemID string, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		player := h.LoginPlayer(uuidAt(i), "Seller", decFromStr("100000"))
		h.Clock.Advance(130 * time.Minute) // Long session tier
		_, err := h.Executor.Execute(context.Background(), player, "Seller", itemID, 10, ledger.PlayerSells)
		require.NoError(t, err)
	}
}

func feedBuys(t *testing.T, h *helpers.Harness, itemID string, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		player := h.LoginPlayer(uuidAt(i), "Buyer", decFromStr("100000"))
		h.Clock.Advance(130 * time.Minute)
		_, err := h.Executor.Execute(context.Background(), player, "Buyer", itemID, 10, ledger.PlayerBuys)
		require.NoError(t, err)
	}
}

func uuidAt(i int) string {
	s := "99999999-9999-9999-9999-000000000000"
	suffix := []byte(s)
	for pos := len(suffix) - 1; i > 0 && pos >= len(suffix)-8; pos-- {
		suffix[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(suffix)
}

// Scenario 1 (§8): floor lock. Rounds of 200 qty-10 sells at the Long
// session tier (driven by feedSells, base_online_players=25), each followed
// by a tick, walk wheat (base=2.00, min=1.00, max=6.00) down by
// max_price_change per tick to its floor, where it then holds.
func TestEngine_Tick_FloorLock(t *testing.T) {
	h := helpers.NewHarness(tickStart)
	h.Settings.Set("base_online_players", "25")
	h.SeedItem("wheat", "Wheat", decFromStr("2.00"), decFromStr("1.50"), decFromStr("1.00"), decFromStr("6.00"))

	var entry pricing.HistoryEntry
	for i := 0; i < 20; i++ {
		feedSells(t, h, "wheat", 200)
		require.NoError(t, h.Engine.Tick(context.Background()))
		var ok bool
		entry, ok = h.History.Latest("wheat")
		require.True(t, ok)
		if entry.NewPrice.Equal(decFromStr("1.00")) {
			break
		}
	}
	assert.True(t, entry.NewPrice.Equal(decFromStr("1.00")), "got %s", entry.NewPrice)

	// A subsequent tick under continued sell pressure must hold the floor.
	feedSells(t, h, "wheat", 200)
	require.NoError(t, h.Engine.Tick(context.Background()))
	entry, ok := h.History.Latest("wheat")
	require.True(t, ok)
	assert.True(t, entry.NewPrice.Equal(decFromStr("1.00")))
}

// Scenario 2 (§8): ceiling lock. Rounds of 200 qty-10 buys, driven the same
// way as feedSells, push the price toward max_price_ratio*base (6.00)
// across sufficient ticks, and it holds there once reached.
func TestEngine_Tick_CeilingLock(t *testing.T) {
	h := helpers.NewHarness(tickStart)
	h.Settings.Set("base_online_players", "25")
	h.SeedItem("wheat", "Wheat", decFromStr("2.00"), decFromStr("1.50"), decFromStr("1.00"), decFromStr("6.00"))

	var entry pricing.HistoryEntry
	for i := 0; i < 20; i++ {
		feedBuys(t, h, "wheat", 200)
		require.NoError(t, h.Engine.Tick(context.Background()))
		var ok bool
		entry, ok = h.History.Latest("wheat")
		require.True(t, ok)
		if entry.NewPrice.Equal(decFromStr("6.00")) {
			break
		}
	}
	assert.True(t, entry.NewPrice.Equal(decFromStr("6.00")), "got %s", entry.NewPrice)

	// Holds once at the ceiling even with continued buy pressure.
	feedBuys(t, h, "wheat", 200)
	require.NoError(t, h.Engine.Tick(context.Background()))
	entry, ok := h.History.Latest("wheat")
	require.True(t, ok)
	assert.True(t, entry.NewPrice.Equal(decFromStr("6.00")))
}

// Empty accumulator on a tick decays toward base_sell_price by at most
// max_price_change/4, per §8's boundary behavior.
func TestEngine_Tick_EmptyAccumulatorDecaysTowardBase(t *testing.T) {
	h := helpers.NewHarness(tickStart)
	h.SeedItem("carrot", "Carrot", decFromStr("2.00"), decFromStr("1.50"), decFromStr("0.50"), decFromStr("6.00"))

	feedSells(t, h, "carrot", 200)
	require.NoError(t, h.Engine.Tick(context.Background()))
	priceAfterSells, ok := h.History.Latest("carrot")
	require.True(t, ok)
	require.True(t, priceAfterSells.NewPrice.LessThan(decFromStr("2.00")))

	// No trades this cycle: price decays one step of at most 0.10/4=0.025
	// back toward the 2.00 base.
	require.NoError(t, h.Engine.Tick(context.Background()))
	decayed, ok := h.History.Latest("carrot")
	require.True(t, ok)
	assert.True(t, decayed.NewPrice.GreaterThan(priceAfterSells.NewPrice))
	step := decayed.NewPrice.Sub(priceAfterSells.NewPrice).Abs()
	assert.True(t, step.LessThanOrEqual(decFromStr("0.025")), "decay step too large: %s", step)
}

// Invariant 1 (§8): the new price always lies within the intersection of
// the absolute and ratio bounds, for an arbitrary sequence of ticks.
func TestEngine_Tick_AlwaysWithinBounds(t *testing.T) {
	h := helpers.NewHarness(tickStart)
	h.SeedItem("iron_ore", "Iron Ore", decFromStr("5.00"), decFromStr("4.00"), decFromStr("2.00"), decFromStr("20.00"))

	for round := 0; round < 10; round++ {
		if round%2 == 0 {
			feedBuys(t, h, "iron_ore", 50)
		} else {
			feedSells(t, h, "iron_ore", 50)
		}
		require.NoError(t, h.Engine.Tick(context.Background()))
		entry, ok := h.History.Latest("iron_ore")
		require.True(t, ok)

		assert.True(t, entry.NewPrice.GreaterThanOrEqual(decFromStr("2.50")))
		assert.True(t, entry.NewPrice.LessThanOrEqual(decFromStr("15.00")))
	}
}

// The sole-writer cache publish must be visible to readers without a torn
// value: Get after a Tick returns exactly what was published.
func TestEngine_CacheReflectsLatestTick(t *testing.T) {
	h := helpers.NewHarness(tickStart)
	h.SeedItem("wheat", "Wheat", decFromStr("2.00"), decFromStr("1.50"), decFromStr("1.00"), decFromStr("6.00"))

	feedSells(t, h, "wheat", 200)
	require.NoError(t, h.Engine.Tick(context.Background()))

	quote, err := h.Engine.Cache().Get("wheat", ledger.PlayerBuys)
	require.NoError(t, err)
	entry, ok := h.History.Latest("wheat")
	require.True(t, ok)
	assert.True(t, quote.Price.Equal(entry.NewPrice))
}

// Before any tick has run, a quote resolves against base_sell_price
// rather than a zero value.
func TestEngine_PreviousPriceDefaultsToBaseSell(t *testing.T) {
	h := helpers.NewHarness(tickStart)
	item := h.SeedItem("wheat", "Wheat", decFromStr("2.00"), decFromStr("1.50"), decFromStr("1.00"), decFromStr("6.00"))

	quote, err := h.Engine.CurrentQuote(item.ID(), ledger.PlayerBuys)
	require.NoError(t, err)
	assert.True(t, quote.Price.Equal(decFromStr("2.00")))
}
