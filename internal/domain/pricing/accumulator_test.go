package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/pricing"
)

// Property 5 (§8): the raw buy/sell aggregates track total traded
// quantity, not transaction count, matching §3's "raw period buy/sell
// volume" naming for PriceHistoryEntry. A single transaction for 10 units
// contributes 10 to the raw total, not 1.
func TestAccumulator_RawCountsSumQuantityNotTransactions(t *testing.T) {
	a := pricing.NewAccumulator()

	a.Add("wheat", true, 10, decimal.NewFromInt(10))
	a.Add("wheat", true, 5, decimal.NewFromInt(5))
	a.Add("wheat", false, 3, decimal.NewFromInt(3))

	totals := a.Peek("wheat")
	assert.Equal(t, 15, totals.BuyRaw, "raw buy total must be the summed quantity across both transactions, not a count of 2")
	assert.Equal(t, 3, totals.SellRaw)
}

func TestAccumulator_DrainZeroesTotals(t *testing.T) {
	a := pricing.NewAccumulator()
	a.Add("wheat", true, 10, decimal.NewFromInt(10))

	drained := a.Drain("wheat")
	assert.Equal(t, 10, drained.BuyRaw)

	after := a.Peek("wheat")
	assert.Equal(t, 0, after.BuyRaw)
	assert.True(t, after.BuyW.IsZero())
}
