package settings

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
)

// Recognized keys, with their documented §3 defaults.
const (
	KeyBaseOnlinePlayers    = "base_online_players"
	KeyPriceUpdateInterval  = "price_update_interval"
	KeyMaxPriceChange       = "max_price_change"
	KeyMinPriceRatio        = "min_price_ratio"
	KeyMaxPriceRatio        = "max_price_ratio"
	KeySessionWeightInstant = "session_weight_instant"
	KeySessionWeightShort   = "session_weight_short"
	KeySessionWeightMedium  = "session_weight_medium"
	KeySessionWeightLong    = "session_weight_long"
)

func defaults() map[string]string {
	return map[string]string{
		KeyBaseOnlinePlayers:    "25",
		KeyPriceUpdateInterval:  "600",
		KeyMaxPriceChange:       "0.10",
		KeyMinPriceRatio:        "0.50",
		KeyMaxPriceRatio:        "3.00",
		KeySessionWeightInstant: "0.3",
		KeySessionWeightShort:   "0.6",
		KeySessionWeightMedium:  "0.8",
		KeySessionWeightLong:    "1.0",
	}
}

// MissingKeyLogger is called when Store falls back to a documented default
// because a key was never written. Kept as a narrow function type rather
// than pulling in the adapters/metrics event sink, so this package stays
// free of any infrastructure dependency.
type MissingKeyLogger func(key, defaultValue string)

// Store is the named-scalar settings table described in §4.1: typed reads
// over a key -> string map, hot-reloadable via Set, with a single mutator
// bumping updated_at.
type Store struct {
	mu        sync.RWMutex
	values    map[string]string
	updatedAt time.Time
	clock     shared.Clock
	onMissing MissingKeyLogger
}

// NewStore seeds a Store with the documented defaults.
func NewStore(clock shared.Clock, onMissing MissingKeyLogger) *Store {
	if onMissing == nil {
		onMissing = func(string, string) {}
	}
	return &Store{
		values:    defaults(),
		updatedAt: clock.Now(),
		clock:     clock,
		onMissing: onMissing,
	}
}

// Set writes a key's string value and bumps updated_at. This is the single
// mutator path §4.1 requires.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	s.updatedAt = s.clock.Now()
}

// UpdatedAt returns the timestamp of the most recent Set call.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

func (s *Store) raw(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.values[key]; ok {
		return v
	}
	def := defaults()[key]
	s.onMissing(key, def)
	return def
}

// String reads key's raw stored value, falling back to the documented
// default (and logging the omission) on miss. Used by the CLI/HTTP config
// read path, which has no need for the typed accessors below.
func (s *Store) String(key string) string {
	return s.raw(key)
}

// Int reads key as an integer, falling back to the documented default (and
// logging the omission) on miss or on parse failure.
func (s *Store) Int(key string) int {
	v := s.raw(key)
	n, err := strconv.Atoi(v)
	if err != nil {
		def := defaults()[key]
		s.onMissing(key, def)
		n, _ = strconv.Atoi(def)
	}
	return n
}

// Decimal reads key as a fixed-point decimal.
func (s *Store) Decimal(key string) decimal.Decimal {
	v := s.raw(key)
	d, err := decimal.NewFromString(v)
	if err != nil {
		def := defaults()[key]
		s.onMissing(key, def)
		d, _ = decimal.NewFromString(def)
	}
	return d
}

// DurationSeconds reads key as a duration expressed in whole seconds.
func (s *Store) DurationSeconds(key string) time.Duration {
	return time.Duration(s.Int(key)) * time.Second
}

// Snapshot is a read-once copy of every configured value, used so a single
// tick or transaction observes a consistent view for its whole computation
// (§4.1: "readers achieve this by reading once at entry").
type Snapshot struct {
	BaseOnlinePlayers    int
	PriceUpdateInterval  time.Duration
	MaxPriceChange       decimal.Decimal
	MinPriceRatio        decimal.Decimal
	MaxPriceRatio        decimal.Decimal
	SessionWeightInstant decimal.Decimal
	SessionWeightShort   decimal.Decimal
	SessionWeightMedium  decimal.Decimal
	SessionWeightLong    decimal.Decimal
}

// Snapshot takes a single consistent read of every recognized key.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		BaseOnlinePlayers:    s.Int(KeyBaseOnlinePlayers),
		PriceUpdateInterval:  s.DurationSeconds(KeyPriceUpdateInterval),
		MaxPriceChange:       s.Decimal(KeyMaxPriceChange),
		MinPriceRatio:        s.Decimal(KeyMinPriceRatio),
		MaxPriceRatio:        s.Decimal(KeyMaxPriceRatio),
		SessionWeightInstant: s.Decimal(KeySessionWeightInstant),
		SessionWeightShort:   s.Decimal(KeySessionWeightShort),
		SessionWeightMedium:  s.Decimal(KeySessionWeightMedium),
		SessionWeightLong:    s.Decimal(KeySessionWeightLong),
	}
}

// ErrUnrecognizedKey is returned by validated writers that reject keys
// outside the documented §3 set.
type ErrUnrecognizedKey struct {
	Key string
}

func (e *ErrUnrecognizedKey) Error() string {
	return fmt.Sprintf("unrecognized settings key: %s", e.Key)
}

// IsRecognizedKey reports whether key is one of the documented §3 keys.
func IsRecognizedKey(key string) bool {
	_, ok := defaults()[key]
	return ok
}
