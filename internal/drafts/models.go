package drafts

import "time"

// Status represents the lifecycle of a local draft.
type Status string

const (
	// StatusDraft is unscheduled content available to the planner.
	StatusDraft Status = "draft"
	// StatusPlanned has a local target time but no remote booking yet.
	StatusPlanned Status = "planned"
	// StatusPushed has been created on the remote service.
	StatusPushed Status = "pushed"
	// StatusCancelled was withdrawn before ever being pushed.
	StatusCancelled Status = "cancelled"
)

var allStatuses = []Status{StatusDraft, StatusPlanned, StatusPushed, StatusCancelled}

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	for _, status := range allStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Draft is a locally stored post waiting to be booked remotely.
type Draft struct {
	ID          string
	Platform    string
	Account     string
	Content     string
	ContentType string
	Status      Status
	PlannedFor  *time.Time
	RemoteID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
