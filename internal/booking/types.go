package booking

import "time"

// Status is the lifecycle state of a booked post.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
	StatusCancelled Status = "cancelled"
)

// Post is an immutable snapshot of a booked post fetched from the remote
// service. The engine never mutates fetched posts; it only proposes creates
// and cancels.
type Post struct {
	ID           string    `json:"id"`
	Platform     string    `json:"platform"`
	Account      string    `json:"account"`
	Content      string    `json:"content"`
	ScheduledFor time.Time `json:"scheduled_for"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PostSpec describes a post to be created on the remote service. ScheduledFor
// carries an explicit numeric UTC offset.
type PostSpec struct {
	Platform     string `json:"platform"`
	Account      string `json:"account,omitempty"`
	Content      string `json:"content"`
	ContentType  string `json:"content_type,omitempty"`
	ScheduledFor string `json:"scheduled_for"`
}
