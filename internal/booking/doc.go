// Package booking is the HTTP client for the remote booking service: listing
// booked posts, creating new ones, and cancelling existing ones.
//
// Every write is a single attempt. Errors are tagged with the shared sentinel
// taxonomy so the calendar builder and planner can apply their soft-fail
// degradation without inspecting HTTP details.
package booking
