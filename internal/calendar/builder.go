package calendar

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"loom/internal/booking"
	"loom/internal/drafts"
	"loom/internal/logging"
)

// DraftSource supplies the locally planned posts merged into the calendar.
type DraftSource interface {
	Planned(ctx context.Context) ([]drafts.Draft, error)
}

// Resolver maps platform names and aliases to canonical keys.
type Resolver interface {
	Canonical(nameOrAlias string) (string, bool)
}

// Builder assembles the merged calendar from the remote booking service and
// the local draft store.
type Builder struct {
	gateway booking.Gateway
	source  DraftSource
	resolve Resolver
	logger  *slog.Logger
	now     func() time.Time
}

// NewBuilder constructs a calendar builder. source and resolve may be nil
// when no local store or slot plan is available.
func NewBuilder(gateway booking.Gateway, source DraftSource, resolve Resolver, logger *slog.Logger) *Builder {
	return &Builder{
		gateway: gateway,
		source:  source,
		resolve: resolve,
		logger:  logging.WithComponent(logger, "calendar"),
		now:     time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (b *Builder) WithNow(now func() time.Time) *Builder {
	if now != nil {
		b.now = now
	}
	return b
}

// Build fetches remote bookings, merges the local pending commitments, and
// returns the time-ordered calendar restricted to the inclusive [from, to]
// window when bounds are given. A failed remote fetch degrades to an empty
// remote set; the result is always a usable calendar.
func (b *Builder) Build(ctx context.Context, from, to *time.Time) (*Calendar, error) {
	var remote []booking.Post
	degraded := false
	if b.gateway != nil {
		posts, err := b.gateway.ListFuturePosts(ctx)
		if err != nil {
			degraded = true
			b.logger.Warn("remote fetch failed, building degraded calendar", logging.Error(err))
		} else {
			remote = posts
		}
	}

	var planned []drafts.Draft
	if b.source != nil {
		local, err := b.source.Planned(ctx)
		if err != nil {
			return nil, err
		}
		planned = local
	}

	cal := b.Merge(remote, planned)
	cal.Degraded = degraded
	return cal.Filter(from, to), nil
}

// Merge assembles a calendar from an already-fetched snapshot. The planner
// uses this directly so collision checks and plan accounting share one fetch.
func (b *Builder) Merge(remote []booking.Post, planned []drafts.Draft) *Calendar {
	cal := &Calendar{}
	for _, post := range remote {
		if post.Status != booking.StatusScheduled {
			continue
		}
		cal.Entries = append(cal.Entries, Entry{
			Platform: b.canonical(post.Platform),
			At:       post.ScheduledFor,
			Origin:   OriginRemote,
			PostID:   post.ID,
		})
	}
	for _, draft := range planned {
		if draft.PlannedFor == nil {
			continue
		}
		cal.Entries = append(cal.Entries, Entry{
			Platform: b.canonical(draft.Platform),
			At:       *draft.PlannedFor,
			Origin:   OriginLocal,
			DraftID:  draft.ID,
		})
	}
	sortEntries(cal.Entries)
	return cal
}

func (b *Builder) canonical(platform string) string {
	if b.resolve != nil {
		if key, ok := b.resolve.Canonical(platform); ok {
			return key
		}
	}
	return strings.ToLower(strings.TrimSpace(platform))
}
