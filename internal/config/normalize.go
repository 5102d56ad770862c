package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBooking()
	c.normalizePlanner()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SchedulePath) == "" {
		c.Paths.SchedulePath = defaultSchedulePath
	}
	if c.Paths.SchedulePath, err = expandPath(c.Paths.SchedulePath); err != nil {
		return fmt.Errorf("paths.schedule_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeBooking() {
	c.Booking.BaseURL = strings.TrimRight(strings.TrimSpace(c.Booking.BaseURL), "/")
	if c.Booking.BaseURL == "" {
		if value, ok := os.LookupEnv("LOOM_BOOKING_URL"); ok {
			c.Booking.BaseURL = strings.TrimRight(strings.TrimSpace(value), "/")
		}
	}
	c.Booking.APIToken = strings.TrimSpace(c.Booking.APIToken)
	if c.Booking.APIToken == "" {
		if value, ok := os.LookupEnv("LOOM_BOOKING_TOKEN"); ok {
			c.Booking.APIToken = strings.TrimSpace(value)
		}
	}
	if c.Booking.TimeoutSeconds <= 0 {
		c.Booking.TimeoutSeconds = defaultBookingTimeoutSeconds
	}
}

func (c *Config) normalizePlanner() {
	c.Planner.PopulationScope = strings.ToLower(strings.TrimSpace(c.Planner.PopulationScope))
	if c.Planner.PopulationScope == "" {
		c.Planner.PopulationScope = defaultPopulationScope
	}
	if c.Planner.LookaheadDays <= 0 {
		c.Planner.LookaheadDays = defaultLookaheadDays
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
