package api

import (
	"loom/internal/calendar"
	"loom/internal/drafts"
	"loom/internal/realign"
	"loom/internal/slotfinder"
)

// FromCalendar converts a merged calendar into its API view.
func FromCalendar(cal *calendar.Calendar) *CalendarView {
	if cal == nil {
		return &CalendarView{Entries: []CalendarEntry{}}
	}
	view := &CalendarView{
		Entries:  make([]CalendarEntry, 0, len(cal.Entries)),
		Degraded: cal.Degraded,
	}
	for _, entry := range cal.Entries {
		id := entry.PostID
		if id == "" {
			id = entry.DraftID
		}
		view.Entries = append(view.Entries, CalendarEntry{
			Platform: entry.Platform,
			At:       entry.At.Format(dateTimeFormat),
			Origin:   string(entry.Origin),
			ID:       id,
		})
	}
	return view
}

// FromCandidate converts a slot candidate into its API view.
func FromCandidate(candidate *slotfinder.Candidate) *SlotView {
	if candidate == nil {
		return nil
	}
	return &SlotView{
		Platform: candidate.Platform,
		Slot:     candidate.Slot,
		At:       candidate.ISO(),
	}
}

// FromPlan converts a realignment plan into its API view.
func FromPlan(plan *realign.Plan) *PlanView {
	view := &PlanView{
		Posts:        make([]PlannedPostView, 0, len(plan.Posts)),
		ToCancel:     append([]string{}, plan.ToCancel...),
		Skipped:      plan.Skipped,
		Unmatched:    plan.Unmatched,
		TotalFetched: plan.TotalFetched,
		Degraded:     plan.Degraded,
	}
	for _, post := range plan.Posts {
		view.Posts = append(view.Posts, PlannedPostView{
			Platform:     post.Spec.Platform,
			Account:      post.Spec.Account,
			Content:      post.Spec.Content,
			ContentType:  post.Spec.ContentType,
			ScheduledFor: post.Spec.ScheduledFor,
			DraftID:      post.DraftID,
			Slot:         post.Slot,
		})
	}
	return view
}

// FromDraft converts a stored draft into its API view.
func FromDraft(draft drafts.Draft) DraftView {
	view := DraftView{
		ID:          draft.ID,
		Platform:    draft.Platform,
		Account:     draft.Account,
		Content:     draft.Content,
		ContentType: draft.ContentType,
		Status:      string(draft.Status),
		RemoteID:    draft.RemoteID,
	}
	if draft.PlannedFor != nil {
		view.PlannedFor = draft.PlannedFor.Format(dateTimeFormat)
	}
	if !draft.CreatedAt.IsZero() {
		view.CreatedAt = draft.CreatedAt.Format(dateTimeFormat)
	}
	return view
}

// FromDrafts converts a draft list into API views.
func FromDrafts(items []drafts.Draft) []DraftView {
	out := make([]DraftView, 0, len(items))
	for _, draft := range items {
		out = append(out, FromDraft(draft))
	}
	return out
}
