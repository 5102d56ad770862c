package realign_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"loom/internal/realign"
	"loom/internal/services"
)

func writePriorities(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "priorities.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write priorities: %v", err)
	}
	return path
}

func TestLoadPriorities(t *testing.T) {
	path := writePriorities(t, `
[[priorities]]
name = "engineering"
keywords = ["DevOps", " golang "]
saturation = 0.4
platforms = ["x", "linkedin"]

[[priorities]]
keywords = ["travel"]
saturation = 1.0
`)

	priorities, err := realign.LoadPriorities(path)
	if err != nil {
		t.Fatalf("LoadPriorities: %v", err)
	}
	if len(priorities) != 2 {
		t.Fatalf("got %d priorities, want 2", len(priorities))
	}
	first := priorities[0]
	if first.Keywords[0] != "devops" || first.Keywords[1] != "golang" {
		t.Fatalf("keywords not normalized: %v", first.Keywords)
	}
	if first.Saturation != 0.4 || len(first.Platforms) != 2 {
		t.Fatalf("unexpected first priority: %+v", first)
	}
}

func TestLoadPrioritiesRejectsBadSaturation(t *testing.T) {
	path := writePriorities(t, `
[[priorities]]
keywords = ["devops"]
saturation = 1.5
`)

	if _, err := realign.LoadPriorities(path); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadPrioritiesRejectsEmptyKeywords(t *testing.T) {
	path := writePriorities(t, `
[[priorities]]
keywords = ["  "]
saturation = 0.5
`)

	if _, err := realign.LoadPriorities(path); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadPrioritiesMissingFile(t *testing.T) {
	if _, err := realign.LoadPriorities(filepath.Join(t.TempDir(), "absent.toml")); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
