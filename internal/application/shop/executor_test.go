package shop_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/vendor-pricing-engine/internal/application/shop"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
	"github.com/andrescamacho/vendor-pricing-engine/test/helpers"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// peakWeekday is a fixed Tuesday 19:00 UTC instant: peak time-of-day weight
// (1.0) under the §4.5 schedule, used to keep scenario arithmetic
// predictable across tests.
var peakWeekday = time.Date(2026, 1, 6, 19, 0, 0, 0, time.UTC)

// Scenario 3 (§8): insufficient funds leaves balance, log and accumulator
// untouched.
func TestExecutor_InsufficientFundsHasNoObservableEffect(t *testing.T) {
	h := helpers.NewHarness(peakWeekday)
	h.SeedItem("wheat", "Wheat", dec("2.00"), dec("1.50"), dec("1.00"), dec("6.00"))
	player := h.LoginPlayer("11111111-1111-1111-1111-111111111111", "Steve", dec("10.00"))

	before := h.Accumulator.Peek("wheat")

	_, err := h.Executor.Execute(context.Background(), player, "Steve", "wheat", 6, ledger.PlayerBuys)
	require.Error(t, err)
	assert.IsType(t, &ledger.ErrInsufficientFunds{}, err)

	balance, err := h.Ledger.Balance(context.Background(), player)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("10.00")))
	assert.Empty(t, h.LedgerDB.AllTransactions())

	after := h.Accumulator.Peek("wheat")
	assert.Equal(t, before, after)
}

// Scenario 4 (§8): batch partial success — first and third entries succeed,
// the second fails on funds; balance reflects only the two successes and
// exactly two transaction rows appear.
func TestBatchExecuteHandler_PartialSuccess(t *testing.T) {
	h := helpers.NewHarness(peakWeekday)
	h.SeedItem("wheat", "Wheat", dec("2.00"), dec("1.50"), dec("1.00"), dec("6.00"))
	player := h.LoginPlayer("22222222-2222-2222-2222-222222222222", "Steve", dec("1000.00"))

	handler := shop.NewBatchExecuteHandler(h.Executor, h.Ledger)
	resp, err := handler.Handle(context.Background(), &shop.BatchExecuteCommand{
		PlayerID:   player.Value(),
		PlayerName: "Steve",
		Operations: []shop.BatchOperation{
			{ItemID: "wheat", Quantity: 1, Direction: ledger.PlayerBuys},
			{ItemID: "wheat", Quantity: 10000, Direction: ledger.PlayerBuys},
			{ItemID: "wheat", Quantity: 1, Direction: ledger.PlayerSells},
		},
	})
	require.NoError(t, err)

	batchResp := resp.(*shop.BatchExecuteResponse)
	require.Len(t, batchResp.Entries, 3)
	assert.NoError(t, batchResp.Entries[0].Err)
	assert.Error(t, batchResp.Entries[1].Err)
	// 10000 is within the [1,10000] quantity bound, so the second entry
	// fails on funds (20000 owed against a balance of 998), not validation.
	assert.IsType(t, &ledger.ErrInsufficientFunds{}, batchResp.Entries[1].Err)
	assert.NoError(t, batchResp.Entries[2].Err)

	assert.Len(t, h.LedgerDB.AllTransactions(), 2)

	balance, err := h.Ledger.Balance(context.Background(), player)
	require.NoError(t, err)
	// 1000 - (2.00*1) [buy] + (1.50*1) [sell] = 999.50
	assert.True(t, balance.Equal(dec("999.50")), "got %s", balance.String())
}

// Scenario 5 (§8): online-player correction. Two otherwise identical trades
// under different online counts must produce net pressures in exactly a
// 4:1 ratio.
func TestExecutor_OnlinePlayerCorrectionRatio(t *testing.T) {
	// Both trades happen at the Long session tier (weight 1.0) and peak
	// time-of-day (weight 1.0), so the resulting weighted volume is an
	// exact multiple of 0.1 and the correction ratio survives rounding.
	h1 := helpers.NewHarness(peakWeekday)
	h1.Settings.Set("base_online_players", "25")
	h1.SeedItem("wheat", "Wheat", dec("2.00"), dec("1.50"), dec("1.00"), dec("6.00"))
	solo := h1.LoginPlayer("33333333-3333-3333-3333-333333333333", "Solo", dec("1000.00"))
	h1.Clock.Advance(130 * time.Minute)

	_, err := h1.Executor.Execute(context.Background(), solo, "Solo", "wheat", 1, ledger.PlayerBuys)
	require.NoError(t, err)
	lowOnlineTotals := h1.Accumulator.Peek("wheat")

	h2 := helpers.NewHarness(peakWeekday)
	h2.Settings.Set("base_online_players", "25")
	h2.SeedItem("wheat", "Wheat", dec("2.00"), dec("1.50"), dec("1.00"), dec("6.00"))
	// Seed 49 additional online sessions so OnlineCount()==50 at trade time.
	for i := 0; i < 49; i++ {
		h2.LoginPlayer(padUUID(i), "Filler", dec("0"))
	}
	crowd := h2.LoginPlayer("44444444-4444-4444-4444-444444444444", "Crowd", dec("1000.00"))
	h2.Clock.Advance(130 * time.Minute)

	_, err = h2.Executor.Execute(context.Background(), crowd, "Crowd", "wheat", 1, ledger.PlayerBuys)
	require.NoError(t, err)
	highOnlineTotals := h2.Accumulator.Peek("wheat")

	ratio := lowOnlineTotals.BuyW.Div(highOnlineTotals.BuyW)
	assert.True(t, ratio.Equal(dec("4")), "got ratio %s (low=%s high=%s)", ratio, lowOnlineTotals.BuyW, highOnlineTotals.BuyW)
}

func padUUID(i int) string {
	s := "00000000-0000-0000-0000-000000000000"
	suffix := []byte(s)
	digits := []byte{byte('0' + i/100), byte('0' + (i/10)%10), byte('0' + i%10)}
	copy(suffix[len(suffix)-3:], digits)
	return string(suffix)
}

// Scenario 6 (§8): 1000 concurrent sells from 1000 distinct players for the
// same item complete with exactly 1000 transaction rows, no balance
// corruption, and an accumulator raw sell total equal to the sum of the
// individual quantities.
func TestExecutor_ConcurrentTradesNoCorruption(t *testing.T) {
	h := helpers.NewHarness(peakWeekday)
	h.SeedItem("wheat", "Wheat", dec("2.00"), dec("1.50"), dec("1.00"), dec("6.00"))

	const n = 1000
	players := make([]shared.PlayerID, n)
	for i := 0; i < n; i++ {
		players[i] = h.LoginPlayer(uuidForIndex(i), "Player", dec("1000.00"))
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.Executor.Execute(context.Background(), players[i], "Player", "wheat", 1, ledger.PlayerSells)
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, h.LedgerDB.AllTransactions(), n)
	assert.Equal(t, n, h.Accumulator.Peek("wheat").SellRaw)

	for _, p := range players {
		balance, err := h.Ledger.Balance(context.Background(), p)
		require.NoError(t, err)
		assert.True(t, balance.Equal(dec("1001.50")), "got %s", balance.String())
	}
}

func uuidForIndex(i int) string {
	s := "11111111-1111-1111-1111-000000000000"
	suffix := []byte(s)
	for pos := len(suffix) - 1; i > 0 && pos >= len(suffix)-8; pos-- {
		suffix[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(suffix)
}
