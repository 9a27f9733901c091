package session

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
)

// Weight is the session-age multiplier applied to a player's contribution
// to the pressure accumulator (§4.5). Exactly four tiers exist.
type Weight = decimal.Decimal

// Session is a player's online/offline record, carrying the login and
// last-activity timestamps a session-weight tier is derived from.
type Session struct {
	PlayerID     shared.PlayerID
	Name         string
	LoginTime    time.Time
	LastActivity time.Time
	IsOnline     bool
	weight       decimal.Decimal
}

// Tiers holds the four configured session-weight values (§3's
// ServerConfig keys session_weight_instant/short/medium/long).
type Tiers struct {
	Instant decimal.Decimal
	Short   decimal.Decimal
	Medium  decimal.Decimal
	Long    decimal.Decimal
}

// DefaultTiers returns the documented §3 defaults: 0.3 / 0.6 / 0.8 / 1.0.
func DefaultTiers() Tiers {
	return Tiers{
		Instant: decimal.NewFromFloat(0.3),
		Short:   decimal.NewFromFloat(0.6),
		Medium:  decimal.NewFromFloat(0.8),
		Long:    decimal.NewFromFloat(1.0),
	}
}

// tierFor resolves the session-weight tier for a session age, per §4.3's
// boundaries: <10min, 10-30min, 30-120min, >=120min.
func tierFor(tiers Tiers, age time.Duration) decimal.Decimal {
	switch {
	case age < 10*time.Minute:
		return tiers.Instant
	case age < 30*time.Minute:
		return tiers.Short
	case age < 120*time.Minute:
		return tiers.Medium
	default:
		return tiers.Long
	}
}
