package calendar

import (
	"sort"
	"strings"
	"time"
)

// Origin identifies where a calendar entry came from.
type Origin string

const (
	// OriginRemote entries are booked on the remote service.
	OriginRemote Origin = "remote"
	// OriginLocal entries are planned drafts not yet pushed.
	OriginLocal Origin = "local-pending"
)

// Entry is the reduced view of a scheduled post used for collision checks.
// It never carries content.
type Entry struct {
	Platform string
	At       time.Time
	Origin   Origin
	PostID   string
	DraftID  string
}

func (e Entry) identity() string {
	if e.PostID != "" {
		return e.PostID
	}
	return e.DraftID
}

// Calendar is a time-ordered merged view of remote bookings and local
// pending commitments. Degraded marks a calendar built after a failed remote
// fetch; it is structurally valid but missing the remote set.
type Calendar struct {
	Entries  []Entry
	Degraded bool
}

// HasConflict reports whether an entry exists for the platform at the exact
// instant, compared after normalizing to UTC. Entries one second apart do not
// collide.
func (c *Calendar) HasConflict(platform string, at time.Time) bool {
	if c == nil {
		return false
	}
	platform = strings.ToLower(strings.TrimSpace(platform))
	utc := at.UTC()
	for _, entry := range c.Entries {
		if entry.Platform == platform && entry.At.UTC().Equal(utc) {
			return true
		}
	}
	return false
}

// With returns a copy of the calendar with the entry added, keeping order.
func (c *Calendar) With(entry Entry) *Calendar {
	entry.Platform = strings.ToLower(strings.TrimSpace(entry.Platform))
	out := &Calendar{Degraded: c.Degraded}
	out.Entries = make([]Entry, 0, len(c.Entries)+1)
	out.Entries = append(out.Entries, c.Entries...)
	out.Entries = append(out.Entries, entry)
	sortEntries(out.Entries)
	return out
}

// Without returns a copy of the calendar with the identified entry removed.
func (c *Calendar) Without(identity string) *Calendar {
	out := &Calendar{Degraded: c.Degraded}
	out.Entries = make([]Entry, 0, len(c.Entries))
	for _, entry := range c.Entries {
		if entry.identity() == identity {
			continue
		}
		out.Entries = append(out.Entries, entry)
	}
	return out
}

// Filter returns the entries within the inclusive [from, to] window. Nil
// bounds are open.
func (c *Calendar) Filter(from, to *time.Time) *Calendar {
	out := &Calendar{Degraded: c.Degraded}
	for _, entry := range c.Entries {
		if from != nil && entry.At.Before(*from) {
			continue
		}
		if to != nil && entry.At.After(*to) {
			continue
		}
		out.Entries = append(out.Entries, entry)
	}
	return out
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		au, bu := a.At.UTC(), b.At.UTC()
		if !au.Equal(bu) {
			return au.Before(bu)
		}
		if a.Platform != b.Platform {
			return a.Platform < b.Platform
		}
		return a.identity() < b.identity()
	})
}
