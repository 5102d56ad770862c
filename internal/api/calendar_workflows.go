package api

import (
	"context"
	"time"
)

// Calendar builds the merged posting calendar, optionally restricted to an
// inclusive window. A degraded fetch is reported through the notifier but
// still yields a usable view.
func (s *Service) Calendar(ctx context.Context, from, to *time.Time) (*CalendarView, error) {
	cal, err := s.builder.Build(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if cal.Degraded && s.notifier != nil {
		_ = s.notifier.NotifyDegradedFetch(ctx, "calendar")
	}
	return FromCalendar(cal), nil
}

// NextSlot returns the next free posting slot for the platform and optional
// content type. Unknown platforms return (nil, nil).
func (s *Service) NextSlot(ctx context.Context, platform, contentType string) (*SlotView, error) {
	candidate, err := s.finder.Next(ctx, platform, contentType)
	if err != nil {
		return nil, err
	}
	return FromCandidate(candidate), nil
}
