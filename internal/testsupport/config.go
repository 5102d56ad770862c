package testsupport

import (
	"path/filepath"
	"testing"

	"loom/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.SchedulePath = filepath.Join(base, "schedule.toml")
	cfg.Booking.BaseURL = "http://booking.test.invalid"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBookingURL sets the booking service base URL on the test config.
func WithBookingURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Booking.BaseURL = url
	}
}

// WithPopulationScope sets the planner population scope on the test config.
func WithPopulationScope(scope string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Planner.PopulationScope = scope
	}
}
