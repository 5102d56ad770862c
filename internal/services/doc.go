// Package services holds the shared error taxonomy and context helpers used
// across loom's planning components.
//
// Sentinel errors tag failures for classification at the CLI boundary:
// configuration and validation failures need a config or argument change,
// ErrNoSlot means the slot search exhausted its lookahead, and everything
// else is transient. Wrap attaches component/operation context while keeping
// the sentinel reachable through errors.Is.
package services
