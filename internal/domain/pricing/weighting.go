package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	weightPeak    = decimal.NewFromFloat(1.0)
	weightDead    = decimal.NewFromFloat(0.3)
	weightMid     = decimal.NewFromFloat(0.7)
	correctionCap = decimal.NewFromFloat(2.0)
)

// TimeOfDayWeight implements §4.5's three-tier schedule in the given
// location (documented default: the server's local zone).
//
//   - peak (1.0): weekday 18:00-24:00, weekend 10:00-24:00
//   - dead (0.3): 02:00-08:00 every day, weekday 09:00-17:00
//   - otherwise (0.7)
func TimeOfDayWeight(t time.Time, loc *time.Location) decimal.Decimal {
	local := t.In(loc)
	hour := local.Hour()
	weekday := local.Weekday()
	isWeekend := weekday == time.Saturday || weekday == time.Sunday

	if isWeekend {
		if hour >= 10 && hour < 24 {
			return weightPeak
		}
		if hour >= 2 && hour < 8 {
			return weightDead
		}
		return weightMid
	}

	// Weekday.
	if hour >= 18 && hour < 24 {
		return weightPeak
	}
	if (hour >= 2 && hour < 8) || (hour >= 9 && hour < 17) {
		return weightDead
	}
	return weightMid
}

// PlayerCorrection implements §4.5's online-player correction factor:
// min(2.0, base_online_players / max(n, 1)), with n=0 naturally yielding
// base_online_players (capped at 2.0 by the min).
func PlayerCorrection(onlineCount, baseOnlinePlayers int) decimal.Decimal {
	denominator := onlineCount
	if denominator < 1 {
		denominator = 1
	}

	ratio := decimal.NewFromInt(int64(baseOnlinePlayers)).Div(decimal.NewFromInt(int64(denominator)))
	if ratio.GreaterThan(correctionCap) {
		return correctionCap
	}
	return ratio
}

// Contribution computes §4.5's per-transaction weighted contribution:
// quantity * session_weight * time_of_day_weight * player_correction.
func Contribution(quantity int, sessionWeight, timeOfDayWeight, playerCorrection decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).
		Mul(sessionWeight).
		Mul(timeOfDayWeight).
		Mul(playerCorrection)
}
