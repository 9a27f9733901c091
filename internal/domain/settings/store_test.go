package settings_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/settings"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
)

func decimalFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestStore_DefaultsOnMiss(t *testing.T) {
	var missed []string
	clock := shared.NewMockClock(time.Now())
	store := settings.NewStore(clock, func(key, def string) {
		missed = append(missed, key)
	})

	assert.Equal(t, 25, store.Int(settings.KeyBaseOnlinePlayers))
	assert.Equal(t, 600*time.Second, store.DurationSeconds(settings.KeyPriceUpdateInterval))
	assert.True(t, store.Decimal(settings.KeyMaxPriceChange).Equal(decimalFromString("0.10")))
}

func TestStore_SetBumpsUpdatedAt(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := shared.NewMockClock(start)
	store := settings.NewStore(clock, nil)

	clock.Advance(5 * time.Minute)
	store.Set(settings.KeyMaxPriceChange, "0.20")

	assert.True(t, store.UpdatedAt().Equal(start.Add(5*time.Minute)))
	assert.True(t, store.Decimal(settings.KeyMaxPriceChange).Equal(decimalFromString("0.20")))
}

func TestIsRecognizedKey(t *testing.T) {
	assert.True(t, settings.IsRecognizedKey(settings.KeyBaseOnlinePlayers))
	assert.False(t, settings.IsRecognizedKey("not_a_real_key"))
}
