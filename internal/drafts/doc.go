// Package drafts persists locally authored posts in SQLite.
//
// Drafts serve two roles: planned drafts are the local-only commitments the
// calendar builder merges alongside remote bookings, and unscheduled drafts
// are the content pool the realignment planner draws on to fill priority
// shortfalls. The database is working state, not an archive; schema changes
// bump the version in schema.go and users rebuild by deleting the file.
package drafts
