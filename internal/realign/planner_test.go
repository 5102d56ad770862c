package realign_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"loom/internal/booking"
	"loom/internal/calendar"
	"loom/internal/classify"
	"loom/internal/config"
	"loom/internal/drafts"
	"loom/internal/logging"
	"loom/internal/realign"
	"loom/internal/schedule"
	"loom/internal/slotfinder"
	"loom/internal/testsupport"
)

const planBody = `
[platforms.x]
timezone = "UTC"

[[platforms.x.slots]]
name = "daily"
days = ["mon", "tue", "wed", "thu", "fri", "sat", "sun"]
at = "09:00"

[aliases]
twitter = "x"
`

// mondayNoon is Monday 2026-03-02 12:00 UTC. The daily 09:00 slot for day
// zero has already passed at that point.
var mondayNoon = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

// slotAt returns the daily slot instant n days after mondayNoon.
func slotAt(days int) time.Time {
	return time.Date(2026, time.March, 2+days, 9, 0, 0, 0, time.UTC)
}

func scheduled(id, platform, content string, at time.Time) booking.Post {
	return booking.Post{
		ID:           id,
		Platform:     platform,
		Content:      content,
		ScheduledFor: at,
		Status:       booking.StatusScheduled,
	}
}

func slotFinder(store *schedule.Store, builder *calendar.Builder, lookaheadDays int) *slotfinder.Finder {
	return slotfinder.New(store, builder, lookaheadDays, logging.NewNop()).
		WithNow(func() time.Time { return mondayNoon })
}

type fixture struct {
	gateway *testsupport.FakeGateway
	drafts  *drafts.Store
	planner *realign.Planner
}

func newFixture(t *testing.T, lookaheadDays int, gateway *testsupport.FakeGateway) *fixture {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.WriteSchedule(t, cfg, planBody)
	draftStore := testsupport.MustOpenDrafts(t, cfg)

	builder := calendar.NewBuilder(gateway, draftStore, store, logging.NewNop()).
		WithNow(func() time.Time { return mondayNoon })
	finder := slotFinder(store, builder, lookaheadDays)
	planner := realign.New(gateway, store, builder, finder, draftStore,
		config.PopulationScopePlatform, logging.NewNop()).
		WithNow(func() time.Time { return mondayNoon })

	return &fixture{gateway: gateway, drafts: draftStore, planner: planner}
}

func (f *fixture) addDraft(t *testing.T, platform, content string) *drafts.Draft {
	t.Helper()

	draft, err := f.drafts.Add(context.Background(), drafts.Draft{Platform: platform, Content: content})
	if err != nil {
		t.Fatalf("add draft: %v", err)
	}
	return draft
}

func TestBuildEmptyPriorities(t *testing.T) {
	gateway := &testsupport.FakeGateway{Posts: []booking.Post{
		scheduled("p1", "x", "devops deep dive", slotAt(1)),
		scheduled("p2", "x", "random musings", slotAt(2)),
	}}
	f := newFixture(t, 30, gateway)

	plan, err := f.planner.Build(context.Background(), nil, classify.New())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan.Posts) != 0 || len(plan.ToCancel) != 0 || plan.Skipped != 0 {
		t.Fatalf("empty priorities must produce an empty plan, got %+v", plan)
	}
	if plan.TotalFetched != 2 {
		t.Fatalf("TotalFetched = %d, want 2", plan.TotalFetched)
	}
}

func TestBuildDegradedFetch(t *testing.T) {
	gateway := &testsupport.FakeGateway{ListErr: errors.New("service unavailable")}
	f := newFixture(t, 30, gateway)

	priorities := []realign.Priority{{Keywords: []string{"devops"}, Saturation: 1.0, Platforms: []string{"x"}}}
	plan, err := f.planner.Build(context.Background(), priorities, classify.New())
	if err != nil {
		t.Fatalf("Build must degrade, not fail: %v", err)
	}
	if !plan.Degraded {
		t.Fatal("plan not marked degraded")
	}
	if plan.TotalFetched != 0 {
		t.Fatalf("TotalFetched = %d, want 0 after failed fetch", plan.TotalFetched)
	}
	if plan.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1 (nothing to reserve against)", plan.Skipped)
	}
	if !plan.Empty() {
		t.Fatalf("degraded plan must propose no writes, got %+v", plan)
	}
}

func TestBuildZeroFetchedSkipsEveryPriority(t *testing.T) {
	f := newFixture(t, 30, &testsupport.FakeGateway{})

	priorities := []realign.Priority{
		{Keywords: []string{"devops"}, Saturation: 1.0},
		{Keywords: []string{"golang"}, Saturation: 0.5},
	}
	plan, err := f.planner.Build(context.Background(), priorities, classify.New())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if plan.Skipped != len(priorities) {
		t.Fatalf("Skipped = %d, want %d", plan.Skipped, len(priorities))
	}
	if plan.TotalFetched != 0 || plan.Unmatched != 0 || !plan.Empty() {
		t.Fatalf("zero fetched must zero every other count, got %+v", plan)
	}
}

func TestBuildSatisfiedPriorityMakesNoChanges(t *testing.T) {
	gateway := &testsupport.FakeGateway{Posts: []booking.Post{
		scheduled("p1", "x", "devops deep dive", slotAt(1)),
		scheduled("p2", "x", "more devops tips", slotAt(2)),
	}}
	f := newFixture(t, 30, gateway)

	priorities := []realign.Priority{{Keywords: []string{"devops"}, Saturation: 1.0, Platforms: []string{"x"}}}
	plan, err := f.planner.Build(context.Background(), priorities, classify.New())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !plan.Empty() || plan.Skipped != 0 {
		t.Fatalf("fully saturated priority must change nothing, got %+v", plan)
	}
}

func TestBuildSchedulesDraftForShortfall(t *testing.T) {
	gateway := &testsupport.FakeGateway{Posts: []booking.Post{
		scheduled("p1", "x", "devops deep dive", slotAt(1)),
		scheduled("p2", "x", "weekend photography", slotAt(2)),
	}}
	f := newFixture(t, 30, gateway)
	draft := f.addDraft(t, "x", "devops incident review")

	// Population 2, saturation 1.0, one existing match: shortfall of one.
	priorities := []realign.Priority{{Keywords: []string{"devops"}, Saturation: 1.0, Platforms: []string{"x"}}}
	plan, err := f.planner.Build(context.Background(), priorities, classify.New())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan.Posts) != 1 {
		t.Fatalf("Posts = %d, want 1", len(plan.Posts))
	}
	post := plan.Posts[0]
	if post.DraftID != draft.ID {
		t.Fatalf("planned post draft = %q, want %q", post.DraftID, draft.ID)
	}
	if post.Spec.Platform != "x" || post.Spec.Content != draft.Content {
		t.Fatalf("planned post spec %+v does not carry the draft", post.Spec)
	}
	// Lookahead is wide open, so no eviction is needed.
	if len(plan.ToCancel) != 0 {
		t.Fatalf("ToCancel = %v, want none with free slots available", plan.ToCancel)
	}
	if plan.Skipped != 0 {
		t.Fatalf("Skipped = %d, want 0 after full fill", plan.Skipped)
	}
	// The scheduled instant must be a free slot, not one already booked.
	at, err := time.Parse("2006-01-02T15:04:05-07:00", post.Spec.ScheduledFor)
	if err != nil {
		t.Fatalf("parse scheduled time %q: %v", post.Spec.ScheduledFor, err)
	}
	if at.Equal(slotAt(1)) || at.Equal(slotAt(2)) {
		t.Fatalf("draft scheduled into an occupied slot %s", at)
	}
}

func TestBuildEvictsOnlyUnmatchedPosts(t *testing.T) {
	// A two-day lookahead leaves exactly two reachable slots, both booked.
	gateway := &testsupport.FakeGateway{Posts: []booking.Post{
		scheduled("match-1", "x", "devops deep dive", slotAt(1)),
		scheduled("filler-1", "x", "weekend photography", slotAt(2)),
	}}
	f := newFixture(t, 2, gateway)
	f.addDraft(t, "x", "devops incident review")

	priorities := []realign.Priority{{Keywords: []string{"devops"}, Saturation: 1.0, Platforms: []string{"x"}}}
	plan, err := f.planner.Build(context.Background(), priorities, classify.New())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan.ToCancel) != 1 || plan.ToCancel[0] != "filler-1" {
		t.Fatalf("ToCancel = %v, want [filler-1]", plan.ToCancel)
	}
	for _, id := range plan.ToCancel {
		if id == "match-1" {
			t.Fatal("reserved priority match appeared in ToCancel")
		}
	}
	if len(plan.Posts) != 1 {
		t.Fatalf("Posts = %d, want 1 scheduled into the freed slot", len(plan.Posts))
	}
	if plan.Skipped != 0 {
		t.Fatalf("Skipped = %d, want 0", plan.Skipped)
	}
}

func TestBuildNoCancellationsWhenEvictionCannotHelp(t *testing.T) {
	// The only reachable slot holds a reserved match; the unmatched post sits
	// at 10:00 where no slot exists, so evicting it frees nothing.
	gateway := &testsupport.FakeGateway{Posts: []booking.Post{
		scheduled("match-1", "x", "devops deep dive", slotAt(1)),
		scheduled("offgrid-1", "x", "random musings", time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)),
	}}
	f := newFixture(t, 1, gateway)
	f.addDraft(t, "x", "devops incident review")

	priorities := []realign.Priority{{Keywords: []string{"devops"}, Saturation: 1.0, Platforms: []string{"x"}}}
	plan, err := f.planner.Build(context.Background(), priorities, classify.New())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan.ToCancel) != 0 {
		t.Fatalf("ToCancel = %v, want none when eviction frees no slot", plan.ToCancel)
	}
	if len(plan.Posts) != 0 {
		t.Fatalf("Posts = %d, want 0", len(plan.Posts))
	}
	if plan.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1", plan.Skipped)
	}
}

func TestBuildEvictionPassesOverOffGridPosts(t *testing.T) {
	// offgrid-far is the farthest-future unmatched post but sits between slot
	// instants; the eviction must target the slot holder instead.
	gateway := &testsupport.FakeGateway{Posts: []booking.Post{
		scheduled("match-1", "x", "devops deep dive", slotAt(1)),
		scheduled("filler-1", "x", "weekend photography", slotAt(2)),
		scheduled("offgrid-far", "x", "random musings", time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC)),
	}}
	f := newFixture(t, 2, gateway)
	f.addDraft(t, "x", "devops incident review")

	priorities := []realign.Priority{{Keywords: []string{"devops"}, Saturation: 0.4, Platforms: []string{"x"}}}
	plan, err := f.planner.Build(context.Background(), priorities, classify.New())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan.ToCancel) != 1 || plan.ToCancel[0] != "filler-1" {
		t.Fatalf("ToCancel = %v, want [filler-1]", plan.ToCancel)
	}
	if len(plan.Posts) != 1 {
		t.Fatalf("Posts = %d, want 1 scheduled into the freed slot", len(plan.Posts))
	}
	if plan.Skipped != 0 {
		t.Fatalf("Skipped = %d, want 0", plan.Skipped)
	}
}

func TestBuildCancelsFarthestFutureFirst(t *testing.T) {
	// All three reachable slots booked: one match and two fillers.
	gateway := &testsupport.FakeGateway{Posts: []booking.Post{
		scheduled("match-1", "x", "devops deep dive", slotAt(1)),
		scheduled("filler-near", "x", "weekend photography", slotAt(2)),
		scheduled("filler-far", "x", "travel notes", slotAt(3)),
	}}
	f := newFixture(t, 3, gateway)
	f.addDraft(t, "x", "devops incident review")

	// Target ceil(1.0 x 3) = 3 with one match: shortfall of two, but only
	// one draft exists, so one new post and one skip.
	priorities := []realign.Priority{{Keywords: []string{"devops"}, Saturation: 1.0, Platforms: []string{"x"}}}
	plan, err := f.planner.Build(context.Background(), priorities, classify.New())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan.ToCancel) == 0 || plan.ToCancel[0] != "filler-far" {
		t.Fatalf("ToCancel = %v, want filler-far evicted first", plan.ToCancel)
	}
	if plan.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1 for the unfillable shortfall", plan.Skipped)
	}
}

func TestBuildCeilingTarget(t *testing.T) {
	gateway := &testsupport.FakeGateway{Posts: []booking.Post{
		scheduled("p1", "x", "devops deep dive", slotAt(1)),
		scheduled("p2", "x", "weekend photography", slotAt(2)),
		scheduled("p3", "x", "travel notes", slotAt(3)),
	}}
	f := newFixture(t, 30, gateway)
	f.addDraft(t, "x", "devops incident review")

	// ceil(0.5 x 3) = 2: one reserved match plus one new draft post.
	priorities := []realign.Priority{{Keywords: []string{"devops"}, Saturation: 0.5, Platforms: []string{"x"}}}
	plan, err := f.planner.Build(context.Background(), priorities, classify.New())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan.Posts) != 1 {
		t.Fatalf("Posts = %d, want 1 for a ceil target of 2", len(plan.Posts))
	}
	if len(plan.ToCancel) != 0 {
		t.Fatalf("ToCancel = %v, want none", plan.ToCancel)
	}
}

func TestBuildSkipsWhenNoContentAvailable(t *testing.T) {
	gateway := &testsupport.FakeGateway{Posts: []booking.Post{
		scheduled("p1", "x", "weekend photography", slotAt(1)),
	}}
	f := newFixture(t, 30, gateway)

	priorities := []realign.Priority{{Keywords: []string{"devops"}, Saturation: 1.0, Platforms: []string{"x"}}}
	plan, err := f.planner.Build(context.Background(), priorities, classify.New())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if plan.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1 when no drafts can fill the shortfall", plan.Skipped)
	}
	if len(plan.Posts) != 0 || len(plan.ToCancel) != 0 {
		t.Fatalf("unfillable shortfall must not schedule or cancel, got %+v", plan)
	}
}

func TestBuildClassificationMapMatchesByID(t *testing.T) {
	// The content carries no keyword; the classification map supplies it.
	gateway := &testsupport.FakeGateway{Posts: []booking.Post{
		scheduled("p1", "x", "quarterly review thread", slotAt(1)),
	}}
	f := newFixture(t, 30, gateway)

	classifier := classify.New()
	classifier.AddByID("p1", classify.Category{Name: "engineering", Keywords: []string{"devops"}})

	priorities := []realign.Priority{{Keywords: []string{"devops"}, Saturation: 1.0, Platforms: []string{"x"}}}
	plan, err := f.planner.Build(context.Background(), priorities, classifier)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !plan.Empty() || plan.Skipped != 0 {
		t.Fatalf("classified match must satisfy the priority in place, got %+v", plan)
	}
	if plan.Unmatched != 0 {
		t.Fatalf("Unmatched = %d, want 0 for a classified post", plan.Unmatched)
	}
}

func TestBuildCountsUnmatched(t *testing.T) {
	gateway := &testsupport.FakeGateway{Posts: []booking.Post{
		scheduled("p1", "x", "devops deep dive", slotAt(1)),
		scheduled("p2", "x", "weekend photography", slotAt(2)),
		scheduled("p3", "x", "travel notes", slotAt(3)),
	}}
	f := newFixture(t, 30, gateway)

	priorities := []realign.Priority{{Keywords: []string{"devops"}, Saturation: 0.1, Platforms: []string{"x"}}}
	plan, err := f.planner.Build(context.Background(), priorities, classify.New())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if plan.Unmatched != 2 {
		t.Fatalf("Unmatched = %d, want 2", plan.Unmatched)
	}
	if plan.TotalFetched < plan.Unmatched {
		t.Fatalf("totals invariant violated: fetched %d < unmatched %d", plan.TotalFetched, plan.Unmatched)
	}
}

func TestBuildHonorsPlatformAliases(t *testing.T) {
	gateway := &testsupport.FakeGateway{Posts: []booking.Post{
		scheduled("p1", "twitter", "devops deep dive", slotAt(1)),
	}}
	f := newFixture(t, 30, gateway)

	priorities := []realign.Priority{{Keywords: []string{"devops"}, Saturation: 1.0, Platforms: []string{"x"}}}
	plan, err := f.planner.Build(context.Background(), priorities, classify.New())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !plan.Empty() || plan.Skipped != 0 {
		t.Fatalf("aliased platform must count toward the canonical population, got %+v", plan)
	}
}

func TestBuildDeterministicForIdenticalSnapshots(t *testing.T) {
	gateway := &testsupport.FakeGateway{Posts: []booking.Post{
		scheduled("b", "x", "travel notes", slotAt(2)),
		scheduled("a", "x", "weekend photography", slotAt(2)),
		scheduled("m", "x", "devops deep dive", slotAt(1)),
	}}
	f := newFixture(t, 2, gateway)
	f.addDraft(t, "x", "devops incident review")

	priorities := []realign.Priority{{Keywords: []string{"devops"}, Saturation: 1.0, Platforms: []string{"x"}}}
	first, err := f.planner.Build(context.Background(), priorities, classify.New())
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}
	second, err := f.planner.Build(context.Background(), priorities, classify.New())
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("plans differ for identical snapshots:\n%+v\n%+v", first, second)
	}
	// Same-timestamp eviction candidates are ordered by id for determinism.
	if len(first.ToCancel) > 0 && first.ToCancel[0] != "a" {
		t.Fatalf("ToCancel = %v, want id tiebreak to pick a first", first.ToCancel)
	}
}
