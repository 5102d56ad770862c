// Package slotfinder walks the configured posting schedule forward from the
// current time, day by day and within each day in the order slots are
// declared, and returns the first free slot instant that does not collide
// with an existing calendar entry. The search is bounded by a lookahead
// window measured in days; exhausting the window is reported as a no-slot
// error rather than an empty result so callers can distinguish saturation
// from an unconfigured platform.
package slotfinder
