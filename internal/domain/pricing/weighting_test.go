package pricing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/pricing"
)

func TestTimeOfDayWeight(t *testing.T) {
	utc := time.UTC

	// Weekday peak: Tuesday 19:00.
	tue19 := time.Date(2026, 1, 6, 19, 0, 0, 0, utc)
	assert.True(t, pricing.TimeOfDayWeight(tue19, utc).Equal(decFromStr("1")))

	// Weekday dead: Tuesday 03:00.
	tue3 := time.Date(2026, 1, 6, 3, 0, 0, 0, utc)
	assert.True(t, pricing.TimeOfDayWeight(tue3, utc).Equal(decFromStr("0.3")))

	// Weekday dead: Tuesday 12:00 (09:00-17:00 window).
	tue12 := time.Date(2026, 1, 6, 12, 0, 0, 0, utc)
	assert.True(t, pricing.TimeOfDayWeight(tue12, utc).Equal(decFromStr("0.3")))

	// Weekend peak: Saturday 11:00.
	sat11 := time.Date(2026, 1, 3, 11, 0, 0, 0, utc)
	assert.True(t, pricing.TimeOfDayWeight(sat11, utc).Equal(decFromStr("1")))

	// Weekday mid: Tuesday 17:30, after the 09:00-17:00 dead window and
	// before the 18:00 peak.
	tue1730 := time.Date(2026, 1, 6, 17, 30, 0, 0, utc)
	assert.True(t, pricing.TimeOfDayWeight(tue1730, utc).Equal(decFromStr("0.7")))
}

func TestPlayerCorrection(t *testing.T) {
	assert.True(t, pricing.PlayerCorrection(0, 25).Equal(decFromStr("2")))
	assert.True(t, pricing.PlayerCorrection(25, 25).Equal(decFromStr("1")))
	assert.True(t, pricing.PlayerCorrection(100, 25).LessThan(decFromStr("1")))
}
