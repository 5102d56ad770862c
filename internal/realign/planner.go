package realign

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"time"

	"loom/internal/booking"
	"loom/internal/calendar"
	"loom/internal/classify"
	"loom/internal/config"
	"loom/internal/drafts"
	"loom/internal/logging"
	"loom/internal/schedule"
	"loom/internal/services"
	"loom/internal/slotfinder"
	"loom/internal/textutil"
)

// ContentSource supplies the draft content the planner schedules to cover a
// priority's shortfall, plus the planned drafts already committed locally.
// A nil source means shortfalls can never be filled.
type ContentSource interface {
	Matching(ctx context.Context, keywords, platforms []string) ([]drafts.Draft, error)
	Planned(ctx context.Context) ([]drafts.Draft, error)
}

// Planner computes realignment plans from a single fetch snapshot. It holds
// no state between runs; re-running after a partially applied plan is the
// prescribed recovery path.
type Planner struct {
	gateway  booking.Gateway
	schedule *schedule.Store
	builder  *calendar.Builder
	finder   *slotfinder.Finder
	source   ContentSource
	scope    string
	logger   *slog.Logger
	now      func() time.Time
}

// New constructs a planner. scope is a population scope constant from the
// config package and controls the denominator of each priority's target.
func New(gateway booking.Gateway, store *schedule.Store, builder *calendar.Builder, finder *slotfinder.Finder, source ContentSource, scope string, logger *slog.Logger) *Planner {
	if scope == "" {
		scope = config.PopulationScopePlatform
	}
	return &Planner{
		gateway:  gateway,
		schedule: store,
		builder:  builder,
		finder:   finder,
		source:   source,
		scope:    scope,
		logger:   logging.WithComponent(logger, "realign"),
		now:      time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (p *Planner) WithNow(now func() time.Time) *Planner {
	if now != nil {
		p.now = now
	}
	return p
}

// fetchedPost is one snapshot post plus everything the allocation pass needs
// to know about it.
type fetchedPost struct {
	post       booking.Post
	platform   string
	classified bool
	matchedBy  []int
}

// run carries the mutable state of one planning invocation.
type run struct {
	plan       *Plan
	cal        *calendar.Calendar
	snapshot   []*fetchedPost
	reserved   map[string]bool
	usedDrafts map[string]bool
	cancelled  map[string]bool
}

// Build computes a realignment plan for the given priorities. A failed fetch
// degrades to zero posts examined rather than an error; local store failures
// are real errors.
func (p *Planner) Build(ctx context.Context, priorities []Priority, classifier *classify.Map) (*Plan, error) {
	plan := &Plan{}

	remote, err := p.gateway.ListFuturePosts(ctx)
	if err != nil {
		plan.Degraded = true
		remote = nil
		p.logger.Warn("remote fetch failed, planning against zero posts", logging.Error(err))
	}

	now := p.now()
	future := make([]booking.Post, 0, len(remote))
	for _, post := range remote {
		if post.Status != booking.StatusScheduled || !post.ScheduledFor.After(now) {
			continue
		}
		future = append(future, post)
	}
	plan.TotalFetched = len(future)

	snapshot := p.classifySnapshot(future, priorities, classifier)
	for _, entry := range snapshot {
		if !entry.classified && len(entry.matchedBy) == 0 {
			plan.Unmatched++
		}
	}

	var planned []drafts.Draft
	if p.source != nil {
		planned, err = p.source.Planned(ctx)
		if err != nil {
			return nil, err
		}
	}

	r := &run{
		plan:       plan,
		cal:        p.builder.Merge(future, planned),
		snapshot:   snapshot,
		reserved:   make(map[string]bool),
		usedDrafts: make(map[string]bool),
		cancelled:  make(map[string]bool),
	}

	for i, priority := range priorities {
		population := p.population(snapshot, priority)
		if len(population) == 0 {
			plan.Skipped++
			continue
		}
		target := int(math.Ceil(priority.Saturation * float64(len(population))))
		if target == 0 {
			continue
		}

		matches := make([]*fetchedPost, 0, len(population))
		for _, entry := range population {
			if containsInt(entry.matchedBy, i) {
				matches = append(matches, entry)
			}
		}
		sortEarliestFirst(matches)

		kept := 0
		for _, match := range matches {
			if kept == target {
				break
			}
			r.reserved[match.post.ID] = true
			kept++
		}

		shortfall := target - kept
		if shortfall == 0 {
			continue
		}
		filled, err := p.fillShortfall(ctx, r, priority, shortfall)
		if err != nil {
			return nil, err
		}
		if filled < shortfall {
			plan.Skipped++
			p.logger.Info("priority shortfall not fully covered",
				slog.String("priority", priorityLabel(priority, i)),
				slog.Int("target", target),
				slog.Int("reserved", kept),
				slog.Int("scheduled", filled))
		}
	}

	p.logger.Info("plan computed",
		slog.Int("posts", len(plan.Posts)),
		slog.Int("to_cancel", len(plan.ToCancel)),
		slog.Int("skipped", plan.Skipped),
		slog.Int("unmatched", plan.Unmatched),
		slog.Int("total_fetched", plan.TotalFetched),
		slog.Bool("degraded", plan.Degraded))
	return plan, nil
}

// classifySnapshot canonicalizes platforms and resolves which priorities
// each post satisfies. Classified posts match through their category's
// keywords; unclassified posts get a direct keyword check against their
// content before they count as unmatched.
func (p *Planner) classifySnapshot(future []booking.Post, priorities []Priority, classifier *classify.Map) []*fetchedPost {
	snapshot := make([]*fetchedPost, 0, len(future))
	for _, post := range future {
		entry := &fetchedPost{post: post, platform: p.canonical(post.Platform)}
		category, ok := classifier.Lookup(post.ID, post.Content)
		entry.classified = ok
		for i, priority := range priorities {
			if ok {
				if textutil.KeywordsIntersect(category.Keywords, priority.Keywords) {
					entry.matchedBy = append(entry.matchedBy, i)
				}
				continue
			}
			if textutil.ContainsKeyword(post.Content, priority.Keywords) {
				entry.matchedBy = append(entry.matchedBy, i)
			}
		}
		snapshot = append(snapshot, entry)
	}
	return snapshot
}

// population selects the posts a priority's target is computed against. The
// platform scope restricts it to the priority's platforms; the global scope
// and priorities without a platform list use the whole snapshot.
func (p *Planner) population(snapshot []*fetchedPost, priority Priority) []*fetchedPost {
	if p.scope == config.PopulationScopeGlobal || len(priority.Platforms) == 0 {
		return snapshot
	}
	covered := make(map[string]bool, len(priority.Platforms))
	for _, platform := range priority.Platforms {
		covered[p.canonical(platform)] = true
	}
	out := make([]*fetchedPost, 0, len(snapshot))
	for _, entry := range snapshot {
		if covered[entry.platform] {
			out = append(out, entry)
		}
	}
	return out
}

// fillShortfall schedules new posts from the content source until the
// shortfall is covered or content runs out. When a platform's calendar is
// saturated it cancels unreserved posts that no priority matched, farthest
// future first, before giving up on a draft.
func (p *Planner) fillShortfall(ctx context.Context, r *run, priority Priority, shortfall int) (int, error) {
	if p.source == nil {
		return 0, nil
	}
	candidates, err := p.source.Matching(ctx, priority.Keywords, priority.Platforms)
	if err != nil {
		return 0, err
	}

	filled := 0
	for _, draft := range candidates {
		if filled == shortfall {
			break
		}
		if r.usedDrafts[draft.ID] {
			continue
		}
		candidate, err := p.placeDraft(r, draft)
		if err != nil {
			return filled, err
		}
		if candidate == nil {
			continue
		}
		r.plan.Posts = append(r.plan.Posts, PlannedPost{
			Spec: booking.PostSpec{
				Platform:     candidate.Platform,
				Account:      draft.Account,
				Content:      draft.Content,
				ContentType:  draft.ContentType,
				ScheduledFor: candidate.ISO(),
			},
			DraftID: draft.ID,
			Slot:    candidate.Slot,
		})
		r.usedDrafts[draft.ID] = true
		r.cal = r.cal.With(calendar.Entry{
			Platform: candidate.Platform,
			At:       candidate.At,
			Origin:   calendar.OriginLocal,
			DraftID:  draft.ID,
		})
		filled++
	}
	return filled, nil
}

// placeDraft finds a free slot for one draft, evicting victims as needed.
// Evictions stay tentative until a slot is actually found, so a draft that
// cannot be placed leaves the plan untouched. Returns nil when the draft's
// platform has no schedule or no room can be made.
func (p *Planner) placeDraft(r *run, draft drafts.Draft) (*slotfinder.Candidate, error) {
	cal := r.cal
	pending := make(map[string]bool)
	var victims []*fetchedPost
	for {
		candidate, err := p.finder.NextIn(cal, draft.Platform, draft.ContentType)
		if err == nil {
			if candidate == nil {
				return nil, nil
			}
			for _, victim := range victims {
				r.plan.ToCancel = append(r.plan.ToCancel, victim.post.ID)
				r.cancelled[victim.post.ID] = true
				p.logger.Debug("evicting post to make room",
					slog.String(logging.FieldPlatform, victim.platform),
					slog.String(logging.FieldPostID, victim.post.ID),
					slog.Time("at", victim.post.ScheduledFor))
			}
			r.cal = cal
			return candidate, nil
		}
		if !errors.Is(err, services.ErrNoSlot) {
			return nil, err
		}
		victim := p.selectVictim(r, pending, p.canonical(draft.Platform), draft.ContentType)
		if victim == nil {
			return nil, nil
		}
		pending[victim.post.ID] = true
		victims = append(victims, victim)
		cal = cal.Without(victim.post.ID)
	}
}

// selectVictim picks the cancellation candidate for a saturated platform:
// never reserved, matched by no priority, sitting on a slot instant the draft
// could actually use, farthest in the future, remote id as the tiebreak.
func (p *Planner) selectVictim(r *run, pending map[string]bool, platform, contentType string) *fetchedPost {
	var victim *fetchedPost
	for _, entry := range r.snapshot {
		if entry.platform != platform {
			continue
		}
		if r.reserved[entry.post.ID] || r.cancelled[entry.post.ID] || pending[entry.post.ID] {
			continue
		}
		if len(entry.matchedBy) > 0 {
			continue
		}
		if !p.occupiesSlot(platform, entry.post.ScheduledFor, contentType) {
			continue
		}
		if victim == nil || laterThan(entry, victim) {
			victim = entry
		}
	}
	return victim
}

// occupiesSlot reports whether at lands exactly on one of the platform's slot
// instants serving the given content type. Evicting a post anywhere else
// frees nothing.
func (p *Planner) occupiesSlot(platform string, at time.Time, contentType string) bool {
	if p.schedule == nil {
		return false
	}
	entry, err := p.schedule.Platform(platform)
	if err != nil || entry == nil {
		return false
	}
	local := at.In(entry.Location)
	for _, slot := range entry.Slots {
		if !slot.Accepts(contentType) || !slot.Matches(local.Weekday()) {
			continue
		}
		if slot.InstantOn(local, entry.Location).Equal(at) {
			return true
		}
	}
	return false
}

func laterThan(a, b *fetchedPost) bool {
	at, bt := a.post.ScheduledFor.UTC(), b.post.ScheduledFor.UTC()
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return a.post.ID < b.post.ID
}

func sortEarliestFirst(posts []*fetchedPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		it, jt := posts[i].post.ScheduledFor.UTC(), posts[j].post.ScheduledFor.UTC()
		if !it.Equal(jt) {
			return it.Before(jt)
		}
		return posts[i].post.ID < posts[j].post.ID
	})
}

func (p *Planner) canonical(platform string) string {
	if p.schedule != nil {
		if key, ok := p.schedule.Canonical(platform); ok {
			return key
		}
	}
	return textutil.Normalize(platform)
}

func containsInt(values []int, want int) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func priorityLabel(priority Priority, index int) string {
	if priority.Name != "" {
		return priority.Name
	}
	if len(priority.Keywords) > 0 {
		return priority.Keywords[0]
	}
	return "priority-" + strconv.Itoa(index+1)
}
