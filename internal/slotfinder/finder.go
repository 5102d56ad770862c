package slotfinder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loom/internal/calendar"
	"loom/internal/logging"
	"loom/internal/schedule"
	"loom/internal/services"
)

// isoLayout renders timestamps with an explicit numeric UTC offset, at the
// platform timezone's offset for that date.
const isoLayout = "2006-01-02T15:04:05-07:00"

// Candidate is a proposed posting slot.
type Candidate struct {
	Platform string
	Slot     string
	At       time.Time
}

// ISO formats the candidate timestamp with its explicit UTC offset.
func (c *Candidate) ISO() string {
	return c.At.Format(isoLayout)
}

// Finder computes the next collision-free posting slot for a platform.
type Finder struct {
	schedule  *schedule.Store
	builder   *calendar.Builder
	lookahead int
	logger    *slog.Logger
	now       func() time.Time
}

// New constructs a slot finder. lookaheadDays bounds the forward search so a
// pathologically saturated calendar cannot loop forever.
func New(store *schedule.Store, builder *calendar.Builder, lookaheadDays int, logger *slog.Logger) *Finder {
	if lookaheadDays <= 0 {
		lookaheadDays = 60
	}
	return &Finder{
		schedule:  store,
		builder:   builder,
		lookahead: lookaheadDays,
		logger:    logging.WithComponent(logger, "slotfinder"),
		now:       time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (f *Finder) WithNow(now func() time.Time) *Finder {
	if now != nil {
		f.now = now
	}
	return f
}

// Next builds a fresh calendar and returns the next free slot for the
// platform and optional content type. Unknown platforms and platforms with
// no matching slots return (nil, nil). Concurrent calls for the same platform
// without an intervening calendar refresh can propose the same slot; the
// remote write remains the authoritative conflict check.
func (f *Finder) Next(ctx context.Context, platform, contentType string) (*Candidate, error) {
	cal, err := f.builder.Build(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	return f.NextIn(cal, platform, contentType)
}

// NextIn searches within an already-built calendar. The realignment planner
// uses this form so proposed posts and cancellations stay visible to
// subsequent searches in the same run.
func (f *Finder) NextIn(cal *calendar.Calendar, platform, contentType string) (*Candidate, error) {
	entry, err := f.schedule.Platform(platform)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	slots := make([]schedule.Slot, 0, len(entry.Slots))
	for _, slot := range entry.Slots {
		if slot.Accepts(contentType) {
			slots = append(slots, slot)
		}
	}
	if len(slots) == 0 {
		return nil, nil
	}

	now := f.now()
	for day := 0; day <= f.lookahead; day++ {
		anchor := now.In(entry.Location).AddDate(0, 0, day)
		for _, slot := range slots {
			if !slot.Matches(anchor.Weekday()) {
				continue
			}
			at := slot.InstantOn(anchor, entry.Location)
			if !at.After(now) {
				continue
			}
			if cal.HasConflict(entry.Key, at) {
				continue
			}
			f.logger.Debug("slot selected",
				slog.String(logging.FieldPlatform, entry.Key),
				slog.String("slot", slot.Name),
				slog.Time("at", at))
			return &Candidate{Platform: entry.Key, Slot: slot.Name, At: at}, nil
		}
	}

	return nil, services.Wrap(services.ErrNoSlot, "slotfinder", "next",
		fmt.Sprintf("no free slot for %s within %d days", entry.Key, f.lookahead), nil)
}
