// Package calendar merges remote bookings and local pending commitments into
// a single time-ordered view used for collision checks.
//
// A failed remote fetch never propagates: the builder returns a calendar
// flagged Degraded so callers can tell "remote is empty" from "remote was
// unreachable". Collision granularity is exact-timestamp equality after
// normalizing to UTC.
package calendar
