package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/catalog"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNewItem_RejectsBuyAboveSell(t *testing.T) {
	_, err := catalog.NewItem(
		"apple", "Apple", catalog.CategoryFoodCore, catalog.Nutrition{Hunger: 4, Saturation: 2.4},
		catalog.ComplexityLow,
		dec("10.00"), dec("12.00"), dec("1.00"), dec("50.00"),
	)
	require.Error(t, err)
	assert.IsType(t, &catalog.ErrInvalidItem{}, err)
}

func TestNewItem_RejectsOutOfBoundPrices(t *testing.T) {
	_, err := catalog.NewItem(
		"apple", "Apple", catalog.CategoryFoodCore, catalog.Nutrition{},
		catalog.ComplexityLow,
		dec("60.00"), dec("5.00"), dec("1.00"), dec("50.00"),
	)
	require.Error(t, err)
}

func TestNewItem_AcceptsValidBounds(t *testing.T) {
	item, err := catalog.NewItem(
		"apple", "Apple", catalog.CategoryFoodCore, catalog.Nutrition{Hunger: 4, Saturation: 2.4},
		catalog.ComplexityLow,
		dec("10.00"), dec("8.00"), dec("1.00"), dec("50.00"),
	)
	require.NoError(t, err)
	assert.True(t, item.IsActive())
	assert.Equal(t, dec("8.00").Div(dec("10.00")).String(), item.BidAskRatio().String())
}

func TestClampPrice(t *testing.T) {
	item, err := catalog.NewItem(
		"apple", "Apple", catalog.CategoryFoodCore, catalog.Nutrition{},
		catalog.ComplexityLow,
		dec("10.00"), dec("8.00"), dec("1.00"), dec("50.00"),
	)
	require.NoError(t, err)

	assert.True(t, catalog.ClampPrice(item, dec("100.00")).Equal(dec("50.00")))
	assert.True(t, catalog.ClampPrice(item, dec("0.50")).Equal(dec("1.00")))
	assert.True(t, catalog.ClampPrice(item, dec("20.00")).Equal(dec("20.00")))
}

func TestDeactivate(t *testing.T) {
	item, err := catalog.NewItem(
		"apple", "Apple", catalog.CategoryFoodCore, catalog.Nutrition{},
		catalog.ComplexityLow,
		dec("10.00"), dec("8.00"), dec("1.00"), dec("50.00"),
	)
	require.NoError(t, err)

	item.Deactivate()
	assert.False(t, item.IsActive())

	item.Activate()
	assert.True(t, item.IsActive())
}
