package testsupport

import (
	"os"
	"testing"

	"loom/internal/config"
	"loom/internal/drafts"
	"loom/internal/schedule"
)

// MustOpenDrafts opens a drafts.Store for tests and registers cleanup.
func MustOpenDrafts(t testing.TB, cfg *config.Config) *drafts.Store {
	t.Helper()

	store, err := drafts.Open(cfg)
	if err != nil {
		t.Fatalf("drafts.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// WriteSchedule writes a slot plan file into the config's schedule path and
// returns a store backed by it.
func WriteSchedule(t testing.TB, cfg *config.Config, body string) *schedule.Store {
	t.Helper()

	if err := os.WriteFile(cfg.Paths.SchedulePath, []byte(body), 0o644); err != nil {
		t.Fatalf("write schedule: %v", err)
	}
	return schedule.NewStore(cfg.Paths.SchedulePath)
}
