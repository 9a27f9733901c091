package ledger_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func newTxn(t *testing.T, playerID shared.PlayerID, direction ledger.Direction, quantity int, unitPrice decimal.Decimal, when time.Time) *ledger.Transaction {
	t.Helper()
	txn, err := ledger.NewTransaction(playerID, "Steve", "wheat", direction, quantity, unitPrice, ledger.PressureSnapshot{}, when)
	require.NoError(t, err)
	return txn
}

func TestLedger_CommitDebitsAndCreditsCorrectly(t *testing.T) {
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := helpers.NewMockLedgerRepository()
	led := ledger.NewLedger(repo, repo, clock)
	player := shared.MustNewPlayerID("11111111-1111-1111-1111-111111111111")
	repo.SeedBalance(player, dec("1000.00"))

	unlock := led.Lock(player)
	buy := newTxn(t, player, ledger.PlayerBuys, 5, dec("2.00"), clock.Now())
	newBalance, err := led.Commit(context.Background(), buy)
	unlock()
	require.NoError(t, err)
	assert.True(t, newBalance.Equal(dec("990.00")))

	unlock = led.Lock(player)
	sell := newTxn(t, player, ledger.PlayerSells, 5, dec("1.00"), clock.Now())
	newBalance, err = led.Commit(context.Background(), sell)
	unlock()
	require.NoError(t, err)
	assert.True(t, newBalance.Equal(dec("995.00")))

	balance, err := led.Balance(context.Background(), player)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("995.00")))
}

func TestLedger_CommitRejectsNegativeBalance(t *testing.T) {
	clock := shared.NewMockClock(time.Now())
	repo := helpers.NewMockLedgerRepository()
	led := ledger.NewLedger(repo, repo, clock)
	player := shared.MustNewPlayerID("22222222-2222-2222-2222-222222222222")
	repo.SeedBalance(player, dec("10.00"))

	unlock := led.Lock(player)
	defer unlock()

	buy := newTxn(t, player, ledger.PlayerBuys, 6, dec("2.00"), clock.Now())
	_, err := led.Commit(context.Background(), buy)
	require.Error(t, err)
	assert.IsType(t, &ledger.ErrInsufficientFunds{}, err)

	balance, err := led.Balance(context.Background(), player)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("10.00")), "balance must be untouched on rejection")
	assert.Empty(t, repo.AllTransactions(), "no transaction row on rejection")
}

func TestLedger_CommitLeavesStateUntouchedOnStorageFailure(t *testing.T) {
	clock := shared.NewMockClock(time.Now())
	repo := helpers.NewMockLedgerRepository()
	repo.StorageErr = assert.AnError
	led := ledger.NewLedger(repo, repo, clock)
	player := shared.MustNewPlayerID("33333333-3333-3333-3333-333333333333")
	repo.SeedBalance(player, dec("100.00"))

	unlock := led.Lock(player)
	defer unlock()

	sell := newTxn(t, player, ledger.PlayerSells, 1, dec("5.00"), clock.Now())
	_, err := led.Commit(context.Background(), sell)
	require.Error(t, err)

	balance, err := led.Balance(context.Background(), player)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("100.00")))
	assert.Empty(t, repo.AllTransactions())
}

func TestLedger_CommitRetriesTransientStorageFailures(t *testing.T) {
	clock := shared.NewMockClock(time.Now())
	repo := helpers.NewMockLedgerRepository()
	repo.TransientFailures = 2
	led := ledger.NewLedger(repo, repo, clock)
	player := shared.MustNewPlayerID("77777777-7777-7777-7777-777777777777")
	repo.SeedBalance(player, dec("100.00"))

	unlock := led.Lock(player)
	defer unlock()

	sell := newTxn(t, player, ledger.PlayerSells, 1, dec("5.00"), clock.Now())
	newBalance, err := led.Commit(context.Background(), sell)
	require.NoError(t, err)
	assert.True(t, newBalance.Equal(dec("105.00")))
	assert.Len(t, repo.AllTransactions(), 1)
}

func TestLedger_CommitGivesUpAfterExhaustingTransientRetries(t *testing.T) {
	clock := shared.NewMockClock(time.Now())
	repo := helpers.NewMockLedgerRepository()
	repo.TransientFailures = 100
	led := ledger.NewLedger(repo, repo, clock)
	player := shared.MustNewPlayerID("88888888-8888-8888-8888-888888888888")
	repo.SeedBalance(player, dec("100.00"))

	unlock := led.Lock(player)
	defer unlock()

	sell := newTxn(t, player, ledger.PlayerSells, 1, dec("5.00"), clock.Now())
	_, err := led.Commit(context.Background(), sell)
	require.Error(t, err)
	assert.True(t, ledger.IsTransient(err))

	balance, err := led.Balance(context.Background(), player)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("100.00")))
}

func TestTransaction_RejectsInvalidQuantity(t *testing.T) {
	player := shared.MustNewPlayerID("44444444-4444-4444-4444-444444444444")
	_, err := ledger.NewTransaction(player, "Steve", "wheat", ledger.PlayerBuys, 0, dec("1.00"), ledger.PressureSnapshot{}, time.Now())
	require.Error(t, err)
	assert.IsType(t, &ledger.ErrInvalidTransaction{}, err)

	_, err = ledger.NewTransaction(player, "Steve", "wheat", ledger.PlayerBuys, 10001, dec("1.00"), ledger.PressureSnapshot{}, time.Now())
	require.Error(t, err)
}

func TestTransaction_TotalWithinCentTolerance(t *testing.T) {
	player := shared.MustNewPlayerID("55555555-5555-5555-5555-555555555555")
	txn, err := ledger.NewTransaction(player, "Steve", "wheat", ledger.PlayerBuys, 3, dec("1.115"), ledger.PressureSnapshot{}, time.Now())
	require.NoError(t, err)

	expected := dec("1.115").Mul(dec("3"))
	assert.True(t, txn.Total().Sub(expected).Abs().LessThanOrEqual(dec("0.01")))
}

func TestTransaction_BalanceDeltaSignConvention(t *testing.T) {
	player := shared.MustNewPlayerID("66666666-6666-6666-6666-666666666666")
	buy, err := ledger.NewTransaction(player, "Steve", "wheat", ledger.PlayerBuys, 2, dec("3.00"), ledger.PressureSnapshot{}, time.Now())
	require.NoError(t, err)
	assert.True(t, buy.BalanceDelta().Equal(dec("-6.00")))

	sell, err := ledger.NewTransaction(player, "Steve", "wheat", ledger.PlayerSells, 2, dec("3.00"), ledger.PressureSnapshot{}, time.Now())
	require.NoError(t, err)
	assert.True(t, sell.BalanceDelta().Equal(dec("6.00")))
}

func TestLedger_ConcurrentCommitsForDistinctPlayersDoNotCorruptBalances(t *testing.T) {
	clock := shared.NewMockClock(time.Now())
	repo := helpers.NewMockLedgerRepository()
	led := ledger.NewLedger(repo, repo, clock)

	const players = 200
	ids := make([]shared.PlayerID, players)
	for i := 0; i < players; i++ {
		id := shared.MustNewPlayerID(uuidFor(i))
		repo.SeedBalance(id, dec("1000.00"))
		ids[i] = id
	}

	done := make(chan error, players)
	for i := 0; i < players; i++ {
		go func(player shared.PlayerID) {
			unlock := led.Lock(player)
			defer unlock()
			sell := newTxn(t, player, ledger.PlayerSells, 10, dec("2.00"), clock.Now())
			_, err := led.Commit(context.Background(), sell)
			done <- err
		}(ids[i])
	}
	for i := 0; i < players; i++ {
		require.NoError(t, <-done)
	}

	assert.Len(t, repo.AllTransactions(), players)
	for _, id := range ids {
		balance, err := led.Balance(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, balance.Equal(dec("1020.00")))
	}
}

func uuidFor(i int) string {
	return fmt.Sprintf("player-%04d", i)
}
