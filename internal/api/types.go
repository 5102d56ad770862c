package api

// dateTimeFormat is used for timestamps in API payloads. The explicit
// numeric offset is part of the booking service contract.
const dateTimeFormat = "2006-01-02T15:04:05-07:00"

// CalendarEntry describes one merged calendar entry in a transport-friendly
// format.
type CalendarEntry struct {
	Platform string `json:"platform"`
	At       string `json:"at"`
	Origin   string `json:"origin"`
	ID       string `json:"id,omitempty"`
}

// CalendarView is the merged posting calendar. Degraded marks a view built
// after a failed remote fetch.
type CalendarView struct {
	Entries  []CalendarEntry `json:"entries"`
	Degraded bool            `json:"degraded"`
}

// SlotView describes a proposed posting slot.
type SlotView struct {
	Platform string `json:"platform"`
	Slot     string `json:"slot"`
	At       string `json:"at"`
}

// PlannedPostView describes one proposed post in a realignment plan.
type PlannedPostView struct {
	Platform     string `json:"platform"`
	Account      string `json:"account,omitempty"`
	Content      string `json:"content"`
	ContentType  string `json:"contentType,omitempty"`
	ScheduledFor string `json:"scheduledFor"`
	DraftID      string `json:"draftId"`
	Slot         string `json:"slot,omitempty"`
}

// PlanView is a realignment plan in a transport-friendly format.
type PlanView struct {
	Posts        []PlannedPostView `json:"posts"`
	ToCancel     []string          `json:"toCancel"`
	Skipped      int               `json:"skipped"`
	Unmatched    int               `json:"unmatched"`
	TotalFetched int               `json:"totalFetched"`
	Degraded     bool              `json:"degraded"`
}

// ApplyFailure records one plan operation that the booking service rejected.
type ApplyFailure struct {
	Operation string `json:"operation"`
	Target    string `json:"target"`
	Error     string `json:"error"`
}

// ApplyResult summarizes a plan application. Failures are reported, never
// retried; the caller re-plans from a fresh fetch instead.
type ApplyResult struct {
	Created   []string       `json:"created"`
	Cancelled []string       `json:"cancelled"`
	Failed    []ApplyFailure `json:"failed,omitempty"`
}

// Partial reports whether some plan operations failed.
func (r *ApplyResult) Partial() bool {
	return len(r.Failed) > 0
}

// PushResult describes a single draft booked directly onto the remote
// service.
type PushResult struct {
	PostID       string `json:"postId"`
	DraftID      string `json:"draftId"`
	Platform     string `json:"platform"`
	Slot         string `json:"slot,omitempty"`
	ScheduledFor string `json:"scheduledFor"`
}

// DraftView describes a stored draft in a transport-friendly format.
type DraftView struct {
	ID          string `json:"id"`
	Platform    string `json:"platform"`
	Account     string `json:"account,omitempty"`
	Content     string `json:"content"`
	ContentType string `json:"contentType,omitempty"`
	Status      string `json:"status"`
	PlannedFor  string `json:"plannedFor,omitempty"`
	RemoteID    string `json:"remoteId,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}
