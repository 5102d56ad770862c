package schedule_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"loom/internal/schedule"
	"loom/internal/services"
)

const samplePlan = `
[platforms.linkedin]
timezone = "America/New_York"

[[platforms.linkedin.slots]]
name = "weekday-morning"
days = ["mon", "tue", "wed", "thu", "fri"]
at = "09:00"
content_types = ["medium-clip", "text"]

[[platforms.linkedin.slots]]
name = "weekend-recap"
days = ["sat"]
at = "11:30"

[platforms.x]
timezone = "UTC"

[[platforms.x.slots]]
name = "daily"
days = ["mon", "tue", "wed", "thu", "fri", "sat", "sun"]
at = "17:00"

[aliases]
twitter = "x"
`

func writePlan(t *testing.T, body string) *schedule.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schedule.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	return schedule.NewStore(path)
}

func TestLoadParsesPlatformsAndSlots(t *testing.T) {
	store := writePlan(t, samplePlan)

	platform, err := store.Platform("LinkedIn")
	if err != nil {
		t.Fatalf("Platform returned error: %v", err)
	}
	if platform == nil {
		t.Fatal("expected linkedin platform")
	}
	if platform.Timezone != "America/New_York" {
		t.Fatalf("unexpected timezone: %q", platform.Timezone)
	}
	if len(platform.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(platform.Slots))
	}
	first := platform.Slots[0]
	if first.Name != "weekday-morning" || first.Hour != 9 || first.Minute != 0 {
		t.Fatalf("unexpected first slot: %+v", first)
	}
	if !first.Matches(time.Wednesday) || first.Matches(time.Sunday) {
		t.Fatalf("unexpected recurrence: %+v", first.Days)
	}
	if !first.Accepts("medium-clip") || first.Accepts("long-form") {
		t.Fatal("unexpected content type acceptance")
	}
	if !platform.Slots[1].Accepts("long-form") {
		t.Fatal("slot without content types should accept everything")
	}
}

func TestAliasResolvesToCanonicalKey(t *testing.T) {
	store := writePlan(t, samplePlan)

	canonical, ok := store.Canonical("Twitter")
	if !ok || canonical != "x" {
		t.Fatalf("expected twitter -> x, got %q ok=%v", canonical, ok)
	}
	platform, err := store.Platform("twitter")
	if err != nil {
		t.Fatalf("Platform returned error: %v", err)
	}
	if platform == nil || platform.Key != "x" {
		t.Fatalf("expected alias to resolve to x, got %+v", platform)
	}
}

func TestUnknownPlatformIsNilNotError(t *testing.T) {
	store := writePlan(t, samplePlan)

	platform, err := store.Platform("myspace")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if platform != nil {
		t.Fatalf("expected nil for unknown platform, got %+v", platform)
	}
}

func TestMissingFileYieldsEmptyPlan(t *testing.T) {
	store := schedule.NewStore(filepath.Join(t.TempDir(), "absent.toml"))

	plan, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}
	if got := plan.Platform("linkedin"); got != nil {
		t.Fatalf("expected no schedule, got %+v", got)
	}
}

func TestMalformedPlanIsConfigurationError(t *testing.T) {
	cases := map[string]string{
		"bad toml":     "[platforms.linkedin\n",
		"bad day":      "[platforms.linkedin]\n[[platforms.linkedin.slots]]\nname = \"s\"\ndays = [\"funday\"]\nat = \"09:00\"\n",
		"bad time":     "[platforms.linkedin]\n[[platforms.linkedin.slots]]\nname = \"s\"\ndays = [\"mon\"]\nat = \"25:00\"\n",
		"bad timezone": "[platforms.linkedin]\ntimezone = \"Mars/Olympus\"\n",
		"bad alias":    "[platforms.x]\n[aliases]\ntwitter = \"missing\"\n",
	}
	for name, body := range cases {
		store := writePlan(t, body)
		if _, err := store.Load(); !errors.Is(err, services.ErrConfiguration) {
			t.Fatalf("%s: expected configuration error, got %v", name, err)
		}
	}
}

func TestClearMakesEditsObservable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.toml")
	if err := os.WriteFile(path, []byte(samplePlan), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	store := schedule.NewStore(path)

	if _, err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := os.WriteFile(path, []byte("[platforms.tiktok]\n"), 0o644); err != nil {
		t.Fatalf("rewrite plan: %v", err)
	}

	// Cached plan still serves the old contents until cleared.
	if platform, _ := store.Platform("linkedin"); platform == nil {
		t.Fatal("expected cached plan before Clear")
	}

	store.Clear()
	if platform, _ := store.Platform("linkedin"); platform != nil {
		t.Fatal("expected reload after Clear")
	}
	if platform, _ := store.Platform("tiktok"); platform == nil {
		t.Fatal("expected new platform after Clear")
	}
}

func TestSlotInstantOnUsesPlatformZone(t *testing.T) {
	store := writePlan(t, samplePlan)
	platform, _ := store.Platform("linkedin")

	anchor := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC) // a Wednesday
	instant := platform.Slots[0].InstantOn(anchor, platform.Location)
	if instant.Hour() != 9 || instant.Location() != platform.Location {
		t.Fatalf("unexpected instant: %v", instant)
	}
	if _, offset := instant.Zone(); offset == 0 {
		t.Fatalf("expected non-UTC offset for America/New_York, got %v", instant)
	}
}
