package config

import "time"

// EngineConfig bootstraps the pricing engine's process-wide singletons
// (§4.1, §4.6, §5). The §3 ServerConfig table of named settings is a
// separate, hot-reloadable runtime store (internal/domain/settings); these
// fields are process bootstrap values only, read once at startup.
type EngineConfig struct {
	// TickInterval seeds the settings store's price_update_interval (in
	// whole seconds) at startup when no value for it has been persisted.
	TickInterval time.Duration `mapstructure:"tick_interval"`

	// DisableTickJitter is loaded from configuration but nothing reads it:
	// the repricing scheduler always applies the +/-5% jitter §4.6
	// documents against herd effects, whatever this field holds.
	DisableTickJitter bool `mapstructure:"disable_tick_jitter"`

	// BaseOnlinePlayers seeds the settings store's base_online_players at
	// startup when no value for it has been persisted (§3, §6
	// "Environment").
	BaseOnlinePlayers int `mapstructure:"base_online_players"`

	// TimeZone is the IANA zone name §4.5's time-of-day weighting
	// resolves against. Empty means the server's local zone.
	TimeZone string `mapstructure:"time_zone"`

	// CommitTimeout is the ledger commit deadline (§5 "Timeouts").
	CommitTimeout time.Duration `mapstructure:"commit_timeout"`
}
