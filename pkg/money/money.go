// Package money centralizes the fixed-point decimal rounding rules used
// across the pricing engine. Every place that needs to round a monetary
// value or a pressure figure goes through here so the rounding mode is
// documented in exactly one site.
package money

import "github.com/shopspring/decimal"

// RoundPrice rounds a price to 2 decimal places, half-up. This is the scale
// used for item prices, quotes, and transaction totals.
func RoundPrice(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RoundAmount rounds a monetary amount (transaction total, balance delta)
// to 2 decimal places, half-up.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return RoundPrice(d)
}

// RoundPressure rounds an intermediate pressure figure to 3 decimal places,
// half-up.
func RoundPressure(d decimal.Decimal) decimal.Decimal {
	return d.Round(3)
}

// RoundWeightedVolume rounds a weighted buy/sell volume to 1 decimal place,
// half-up.
func RoundWeightedVolume(d decimal.Decimal) decimal.Decimal {
	return d.Round(1)
}

// Clamp projects d into [lo, hi]. Callers are responsible for ensuring
// lo <= hi; EngineFault-worthy violations are caught by the caller.
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}

// Min returns the smaller of two decimals.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of two decimals.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
