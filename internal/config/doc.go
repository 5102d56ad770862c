// Package config loads, normalizes, and validates loom configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// LOOM_BOOKING_URL and LOOM_BOOKING_TOKEN. A missing config file is valid and
// yields the defaults; a malformed file is a hard error.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical values, and clear validation errors.
package config
