// Package schedule loads and caches per-platform posting cadence definitions.
//
// The slot plan is a TOML document mapping canonical platform keys to named
// slots (day-of-week recurrence, time of day, IANA timezone) plus an alias
// table (for example twitter -> x). An absent file is valid and means no
// platform has a schedule; a malformed file surfaces as a configuration
// error. Alias resolution is a pure lookup table built once at load time so
// callers never scatter name normalization logic.
package schedule
