package realign

import "loom/internal/booking"

// Priority expresses a content goal: a keyword set, the minimum fraction of
// the relevant post population that must match it, and the platforms it
// covers. An empty platform list covers every platform.
type Priority struct {
	Name       string   `toml:"name"`
	Keywords   []string `toml:"keywords"`
	Saturation float64  `toml:"saturation"`
	Platforms  []string `toml:"platforms"`
}

// PlannedPost pairs a remote post spec with the local draft that supplies its
// content and the schedule slot it was placed into.
type PlannedPost struct {
	Spec    booking.PostSpec
	DraftID string
	Slot    string
}

// Plan is the planner's proposal. Posts and ToCancel are not executed here;
// the caller applies them against the booking service and re-plans from a
// fresh fetch after any partial failure.
type Plan struct {
	Posts        []PlannedPost
	ToCancel     []string
	Skipped      int
	Unmatched    int
	TotalFetched int
	Degraded     bool
}

// Empty reports whether the plan proposes no writes.
func (p *Plan) Empty() bool {
	return len(p.Posts) == 0 && len(p.ToCancel) == 0
}
