package contextualmocker

import "time"

// CleanupConfig configures the background cleanup engine.
type CleanupConfig struct {
	// MaxInvocationsPerContext evicts the oldest records once a
	// (mock, context) invocation queue exceeds this size. Zero disables
	// size-based eviction.
	MaxInvocationsPerContext int
	// MaxAge drops invocation records older than this. Zero disables
	// age-based eviction.
	MaxAge time.Duration
	// CleanupInterval is the background tick period.
	CleanupInterval time.Duration
	// AutoEnabled starts the background ticker at construction.
	AutoEnabled bool
}

// DefaultCleanupConfig returns the package defaults: a 10000-invocation cap
// per (mock, context), a 5-minute max age, a 1-minute sweep interval, with
// the background ticker enabled.
func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		MaxInvocationsPerContext: 10000,
		MaxAge:                   5 * time.Minute,
		CleanupInterval:          time.Minute,
		AutoEnabled:              true,
	}
}

// Option configures a Registry at construction time, in the same
// functional-options idiom used elsewhere in this package.
type Option func(*Registry)

// WithCleanupConfig overrides the registry's cleanup configuration.
func WithCleanupConfig(cfg CleanupConfig) Option {
	return func(reg *Registry) { reg.cfg.Store(&cfg) }
}

// WithCleanupRateLimit overrides the rates governing how often manual
// PerformCleanup calls may actually run a sweep.
func WithCleanupRateLimit(rates map[time.Duration]int) Option {
	return func(reg *Registry) { reg.cleanupLimiter = newCleanupLimiter(rates) }
}

// SetCleanupConfig replaces the registry's cleanup configuration.
func (reg *Registry) SetCleanupConfig(cfg CleanupConfig) { reg.cfg.Store(&cfg) }

// GetCleanupConfig returns the registry's current cleanup configuration.
func (reg *Registry) GetCleanupConfig() CleanupConfig { return *reg.cfg.Load() }
