package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBooking(); err != nil {
		return err
	}
	if err := c.validatePlanner(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateBooking() error {
	if c.Booking.BaseURL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/loom/config.toml"
		}
		return fmt.Errorf("booking.base_url is required. Set LOOM_BOOKING_URL env var or edit %s (create with 'loom config init')", defaultPath)
	}
	if c.Booking.TimeoutSeconds <= 0 {
		return errors.New("booking.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validatePlanner() error {
	if c.Planner.LookaheadDays <= 0 {
		return errors.New("planner.lookahead_days must be positive")
	}
	switch c.Planner.PopulationScope {
	case PopulationScopePlatform, PopulationScopeGlobal:
		return nil
	default:
		return fmt.Errorf("planner.population_scope must be %q or %q, got %q",
			PopulationScopePlatform, PopulationScopeGlobal, c.Planner.PopulationScope)
	}
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
