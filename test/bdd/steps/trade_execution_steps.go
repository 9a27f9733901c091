package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/vendor-pricing-engine/internal/application/shop"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
	"github.com/andrescamacho/vendor-pricing-engine/test/helpers"
)

type tradeExecutionContext struct {
	harness *helpers.Harness
	players map[string]shared.PlayerID

	tradeErr  error
	batchResp *shop.BatchExecuteResponse
	batchErr  error

	secondHarness *helpers.Harness
}

func (c *tradeExecutionContext) reset() {
	c.harness = helpers.NewHarness(peakTuesday)
	c.players = make(map[string]shared.PlayerID)
	c.tradeErr = nil
	c.batchResp = nil
	c.batchErr = nil
	c.secondHarness = nil
}

func (c *tradeExecutionContext) anItemWithPricesTrade(itemID string, baseSell, baseBuy, min, max float64) error {
	c.harness.SeedItem(itemID, itemID, decimal.NewFromFloat(baseSell), decimal.NewFromFloat(baseBuy), decimal.NewFromFloat(min), decimal.NewFromFloat(max))
	return nil
}

func (c *tradeExecutionContext) aPlayerNamedWithBalance(playerUUID, name string, balance float64) error {
	id := c.harness.LoginPlayer(playerUUID, name, decimal.NewFromFloat(balance))
	c.players[name] = id
	return nil
}

func (c *tradeExecutionContext) playerTriesToBuyUnitsOf(name string, quantity int, itemID string) error {
	player, ok := c.players[name]
	if !ok {
		return fmt.Errorf("player %s not set up", name)
	}
	_, err := c.harness.Executor.Execute(context.Background(), player, name, itemID, quantity, ledger.PlayerBuys)
	c.tradeErr = err
	return nil
}

func (c *tradeExecutionContext) theTradeShouldFailWithInsufficientFunds() error {
	if c.tradeErr == nil {
		return fmt.Errorf("expected an error but the trade succeeded")
	}
	if _, ok := c.tradeErr.(*ledger.ErrInsufficientFunds); !ok {
		return fmt.Errorf("expected ErrInsufficientFunds, got %T: %v", c.tradeErr, c.tradeErr)
	}
	return nil
}

func (c *tradeExecutionContext) playerBalanceShouldEqual(name string, want float64) error {
	player, ok := c.players[name]
	if !ok {
		return fmt.Errorf("player %s not set up", name)
	}
	balance, err := c.harness.Ledger.Balance(context.Background(), player)
	if err != nil {
		return err
	}
	if !balance.Equal(decimal.NewFromFloat(want)) {
		return fmt.Errorf("expected balance %.2f, got %s", want, balance)
	}
	return nil
}

func (c *tradeExecutionContext) noTransactionsShouldBeRecorded() error {
	if len(c.harness.LedgerDB.AllTransactions()) != 0 {
		return fmt.Errorf("expected zero transactions, got %d", len(c.harness.LedgerDB.AllTransactions()))
	}
	return nil
}

func (c *tradeExecutionContext) thePressureTotalsForShouldBeUnchanged(itemID string) error {
	totals := c.harness.Accumulator.Peek(itemID)
	if !totals.BuyW.IsZero() || !totals.SellW.IsZero() || totals.BuyRaw != 0 || totals.SellRaw != 0 {
		return fmt.Errorf("expected untouched totals, got %+v", totals)
	}
	return nil
}

func (c *tradeExecutionContext) playerSubmitsABatchOfOperationsOn(name, itemID string, table *godog.Table) error {
	player, ok := c.players[name]
	if !ok {
		return fmt.Errorf("player %s not set up", name)
	}

	var ops []shop.BatchOperation
	for _, row := range table.Rows[1:] {
		direction := ledger.PlayerBuys
		if row.Cells[0].Value == "sell" {
			direction = ledger.PlayerSells
		}
		var quantity int
		if _, err := fmt.Sscanf(row.Cells[1].Value, "%d", &quantity); err != nil {
			return err
		}
		ops = append(ops, shop.BatchOperation{ItemID: itemID, Quantity: quantity, Direction: direction})
	}

	handler := shop.NewBatchExecuteHandler(c.harness.Executor, c.harness.Ledger)
	resp, err := handler.Handle(context.Background(), &shop.BatchExecuteCommand{
		PlayerID:   player.Value(),
		PlayerName: name,
		Operations: ops,
	})
	c.batchErr = err
	if err == nil {
		c.batchResp = resp.(*shop.BatchExecuteResponse)
	}
	return nil
}

func (c *tradeExecutionContext) batchEntryShouldSucceed(n int) error {
	if c.batchResp == nil {
		return fmt.Errorf("no batch response recorded")
	}
	entry := c.batchResp.Entries[n-1]
	if entry.Err != nil {
		return fmt.Errorf("expected entry %d to succeed, got %v", n, entry.Err)
	}
	return nil
}

func (c *tradeExecutionContext) batchEntryShouldFailWithInsufficientFunds(n int) error {
	if c.batchResp == nil {
		return fmt.Errorf("no batch response recorded")
	}
	entry := c.batchResp.Entries[n-1]
	if _, ok := entry.Err.(*ledger.ErrInsufficientFunds); !ok {
		return fmt.Errorf("expected entry %d to fail with insufficient funds, got %v", n, entry.Err)
	}
	return nil
}

func (c *tradeExecutionContext) exactlyTransactionsShouldBeRecorded(n int) error {
	got := len(c.harness.LedgerDB.AllTransactions())
	if got != n {
		return fmt.Errorf("expected %d transactions, got %d", n, got)
	}
	return nil
}

func (c *tradeExecutionContext) aSoloHarnessWithAPlayerNamedWithBalance(playerUUID, name string, balance float64) error {
	c.harness.LoginPlayer(playerUUID, name, decimal.NewFromFloat(balance))
	c.players[name] = shared.MustNewPlayerID(playerUUID)
	return nil
}

func (c *tradeExecutionContext) aCrowdedHarnessWithFillerPlayersAndAPlayerNamedWithBalance(fillerCount int, playerUUID, name string, balance float64) error {
	c.secondHarness = helpers.NewHarness(peakTuesday)
	c.secondHarness.Settings.Set("base_online_players", "25")
	c.secondHarness.SeedItem("wheat", "wheat", decimal.NewFromFloat(2.00), decimal.NewFromFloat(1.50), decimal.NewFromFloat(1.00), decimal.NewFromFloat(6.00))
	for i := 0; i < fillerCount; i++ {
		c.secondHarness.LoginPlayer(uuidForRoundTrip(i), "Filler", decimal.Zero)
	}
	c.secondHarness.LoginPlayer(playerUUID, name, decimal.NewFromFloat(balance))
	c.players[name] = shared.MustNewPlayerID(playerUUID)
	return nil
}

func (c *tradeExecutionContext) theSoloPlayerBuysAtPeakWithALongSession(quantity int, itemID string) error {
	player := c.players["Solo"]
	c.harness.Clock.Advance(130 * time.Minute)
	_, err := c.harness.Executor.Execute(context.Background(), player, "Solo", itemID, quantity, ledger.PlayerBuys)
	return err
}

func (c *tradeExecutionContext) theCrowdPlayerBuysAtPeakWithALongSession(quantity int, itemID string) error {
	player := c.players["Crowd"]
	c.secondHarness.Clock.Advance(130 * time.Minute)
	_, err := c.secondHarness.Executor.Execute(context.Background(), player, "Crowd", itemID, quantity, ledger.PlayerBuys)
	return err
}

func (c *tradeExecutionContext) theSoloHarnessRatio(want int) error {
	solo := c.harness.Accumulator.Peek("wheat")
	crowd := c.secondHarness.Accumulator.Peek("wheat")
	if crowd.BuyW.IsZero() {
		return fmt.Errorf("crowded harness weighted buy volume is zero")
	}
	ratio := solo.BuyW.Div(crowd.BuyW)
	if !ratio.Equal(decimal.NewFromInt(int64(want))) {
		return fmt.Errorf("expected ratio %d, got %s (solo=%s crowd=%s)", want, ratio, solo.BuyW, crowd.BuyW)
	}
	return nil
}

func (c *tradeExecutionContext) distinctPlayersEachWithBalance(n int, balance float64) error {
	c.players = make(map[string]shared.PlayerID, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("player-%d", i)
		id := c.harness.LoginPlayer(uuidForConcurrency(i), name, decimal.NewFromFloat(balance))
		c.players[name] = id
	}
	return nil
}

func (c *tradeExecutionContext) allPlayersConcurrentlySellUnitOf(n int, itemID string) error {
	done := make(chan error, n)
	for _, id := range c.players {
		go func(player shared.PlayerID) {
			_, err := c.harness.Executor.Execute(context.Background(), player, "Player", itemID, 1, ledger.PlayerSells)
			done <- err
		}(id)
	}
	for i := 0; i < n; i++ {
		if err := <-done; err != nil {
			return err
		}
	}
	return nil
}

func (c *tradeExecutionContext) everyPlayerSBalanceShouldEqual(want float64) error {
	for name, id := range c.players {
		balance, err := c.harness.Ledger.Balance(context.Background(), id)
		if err != nil {
			return err
		}
		if !balance.Equal(decimal.NewFromFloat(want)) {
			return fmt.Errorf("player %s expected balance %.2f, got %s", name, want, balance)
		}
	}
	return nil
}

func uuidForConcurrency(i int) string {
	s := "77777777-7777-7777-7777-000000000000"
	suffix := []byte(s)
	for pos := len(suffix) - 1; i > 0 && pos >= len(suffix)-8; pos-- {
		suffix[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(suffix)
}

func InitializeTradeExecutionScenario(sc *godog.ScenarioContext) {
	tc := &tradeExecutionContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	sc.Step(`^the shop stocks "([^"]*)" at base sell price ([\d.]+), base buy price ([\d.]+), min price ([\d.]+) and max price ([\d.]+)$`, tc.anItemWithPricesTrade)
	sc.Step(`^a player "([^"]*)" named "([^"]*)" with balance ([\d.]+)$`, tc.aPlayerNamedWithBalance)
	sc.Step(`^"([^"]*)" tries to buy (\d+) units of "([^"]*)"$`, tc.playerTriesToBuyUnitsOf)
	sc.Step(`^the trade should fail with insufficient funds$`, tc.theTradeShouldFailWithInsufficientFunds)
	sc.Step(`^"([^"]*)" balance should equal ([\d.]+)$`, tc.playerBalanceShouldEqual)
	sc.Step(`^no transactions should be recorded$`, tc.noTransactionsShouldBeRecorded)
	sc.Step(`^the pressure totals for "([^"]*)" should be unchanged$`, tc.thePressureTotalsForShouldBeUnchanged)
	sc.Step(`^"([^"]*)" submits a batch of operations on "([^"]*)":$`, tc.playerSubmitsABatchOfOperationsOn)
	sc.Step(`^batch entry (\d+) should succeed$`, tc.batchEntryShouldSucceed)
	sc.Step(`^batch entry (\d+) should fail with insufficient funds$`, tc.batchEntryShouldFailWithInsufficientFunds)
	sc.Step(`^exactly (\d+) transactions should be recorded$`, tc.exactlyTransactionsShouldBeRecorded)
	sc.Step(`^the shop's base online players setting is (\d+)$`, tc.theBaseOnlinePlayersSettingIsTrade)
	sc.Step(`^a solo harness with a player "([^"]*)" named "([^"]*)" with balance ([\d.]+)$`, tc.aSoloHarnessWithAPlayerNamedWithBalance)
	sc.Step(`^a crowded harness with (\d+) filler players and a player "([^"]*)" named "([^"]*)" with balance ([\d.]+)$`, tc.aCrowdedHarnessWithFillerPlayersAndAPlayerNamedWithBalance)
	sc.Step(`^the solo player buys (\d+) unit of "([^"]*)" at peak time with a long session$`, tc.theSoloPlayerBuysAtPeakWithALongSession)
	sc.Step(`^the crowd player buys (\d+) unit of "([^"]*)" at peak time with a long session$`, tc.theCrowdPlayerBuysAtPeakWithALongSession)
	sc.Step(`^the solo harness weighted buy pressure divided by the crowded harness weighted buy pressure equals (\d+)$`, tc.theSoloHarnessRatio)
	sc.Step(`^(\d+) distinct players each with balance ([\d.]+)$`, tc.distinctPlayersEachWithBalance)
	sc.Step(`^all (\d+) players concurrently sell 1 unit of "([^"]*)"$`, tc.allPlayersConcurrentlySellUnitOf)
	sc.Step(`^every player's balance should equal ([\d.]+)$`, tc.everyPlayerSBalanceShouldEqual)
}

func (c *tradeExecutionContext) theBaseOnlinePlayersSettingIsTrade(n int) error {
	c.harness.Settings.Set("base_online_players", fmt.Sprintf("%d", n))
	return nil
}
