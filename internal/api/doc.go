// Package api exposes the engine's caller-facing workflows as a single
// wired service: calendar views, slot lookups, realignment planning, plan
// application, and draft pushes. It converts engine types into
// transport-friendly DTOs so the CLI and any future surfaces share one
// contract.
//
// Plan application is deliberately single-attempt. A partial apply is
// reported, not repaired; the recovery path is a fresh plan against a fresh
// fetch.
package api
