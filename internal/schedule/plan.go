package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"loom/internal/services"
)

// Slot is a recurring, named posting opportunity for a platform.
type Slot struct {
	Name         string
	Days         []time.Weekday
	Hour         int
	Minute       int
	ContentTypes []string
}

// Matches reports whether the slot recurs on the given weekday.
func (s Slot) Matches(day time.Weekday) bool {
	for _, d := range s.Days {
		if d == day {
			return true
		}
	}
	return false
}

// Accepts reports whether the slot serves the given content type. Slots with
// no declared content types accept everything; an empty request matches any
// slot.
func (s Slot) Accepts(contentType string) bool {
	if contentType == "" || len(s.ContentTypes) == 0 {
		return true
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, ct := range s.ContentTypes {
		if ct == contentType {
			return true
		}
	}
	return false
}

// InstantOn anchors the slot's time of day to the civil date of anchor in loc.
func (s Slot) InstantOn(anchor time.Time, loc *time.Location) time.Time {
	local := anchor.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), s.Hour, s.Minute, 0, 0, loc)
}

// Platform is a canonical platform's cadence: its timezone and ordered slots.
type Platform struct {
	Key      string
	Timezone string
	Location *time.Location
	Slots    []Slot
}

// Plan is a parsed slot-plan document: canonical platforms plus an alias table
// built once at load time.
type Plan struct {
	platforms map[string]*Platform
	aliases   map[string]string
}

// Canonical resolves a platform name or alias, case-insensitively, to its
// canonical key. Unknown names resolve to ("", false), never an error.
func (p *Plan) Canonical(nameOrAlias string) (string, bool) {
	if p == nil {
		return "", false
	}
	key := strings.ToLower(strings.TrimSpace(nameOrAlias))
	if key == "" {
		return "", false
	}
	if _, ok := p.platforms[key]; ok {
		return key, true
	}
	if canonical, ok := p.aliases[key]; ok {
		return canonical, true
	}
	return "", false
}

// Platform returns the cadence for a platform name or alias, or nil when the
// platform is unrecognized.
func (p *Plan) Platform(nameOrAlias string) *Platform {
	key, ok := p.Canonical(nameOrAlias)
	if !ok {
		return nil
	}
	return p.platforms[key]
}

// Platforms returns the canonical platform keys in sorted order.
func (p *Plan) Platforms() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, 0, len(p.platforms))
	for key := range p.platforms {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

type slotDocument struct {
	Name         string   `toml:"name"`
	Days         []string `toml:"days"`
	At           string   `toml:"at"`
	ContentTypes []string `toml:"content_types"`
}

type platformDocument struct {
	Timezone string         `toml:"timezone"`
	Slots    []slotDocument `toml:"slots"`
}

type planDocument struct {
	Platforms map[string]platformDocument `toml:"platforms"`
	Aliases   map[string]string           `toml:"aliases"`
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

func buildPlan(doc planDocument) (*Plan, error) {
	plan := &Plan{
		platforms: make(map[string]*Platform, len(doc.Platforms)),
		aliases:   make(map[string]string, len(doc.Aliases)),
	}

	for rawKey, entry := range doc.Platforms {
		key := strings.ToLower(strings.TrimSpace(rawKey))
		if key == "" {
			return nil, services.Wrap(services.ErrConfiguration, "schedule", "load", "empty platform key", nil)
		}
		tz := strings.TrimSpace(entry.Timezone)
		if tz == "" {
			tz = "UTC"
		}
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "schedule", "load",
				fmt.Sprintf("platform %s: timezone %q", key, tz), err)
		}
		platform := &Platform{Key: key, Timezone: tz, Location: loc}
		for i, slotDoc := range entry.Slots {
			slot, err := buildSlot(key, i, slotDoc)
			if err != nil {
				return nil, err
			}
			platform.Slots = append(platform.Slots, slot)
		}
		plan.platforms[key] = platform
	}

	for rawAlias, rawTarget := range doc.Aliases {
		alias := strings.ToLower(strings.TrimSpace(rawAlias))
		target := strings.ToLower(strings.TrimSpace(rawTarget))
		if alias == "" || target == "" {
			continue
		}
		if _, ok := plan.platforms[target]; !ok {
			return nil, services.Wrap(services.ErrConfiguration, "schedule", "load",
				fmt.Sprintf("alias %s points at undeclared platform %s", alias, target), nil)
		}
		plan.aliases[alias] = target
	}

	return plan, nil
}

func buildSlot(platform string, index int, doc slotDocument) (Slot, error) {
	name := strings.TrimSpace(doc.Name)
	if name == "" {
		name = fmt.Sprintf("slot-%d", index+1)
	}
	slot := Slot{Name: name}

	if len(doc.Days) == 0 {
		return Slot{}, services.Wrap(services.ErrConfiguration, "schedule", "load",
			fmt.Sprintf("platform %s slot %s: days required", platform, name), nil)
	}
	for _, rawDay := range doc.Days {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(rawDay))]
		if !ok {
			return Slot{}, services.Wrap(services.ErrConfiguration, "schedule", "load",
				fmt.Sprintf("platform %s slot %s: unknown day %q", platform, name, rawDay), nil)
		}
		if !slot.Matches(day) {
			slot.Days = append(slot.Days, day)
		}
	}

	hour, minute, err := parseClock(doc.At)
	if err != nil {
		return Slot{}, services.Wrap(services.ErrConfiguration, "schedule", "load",
			fmt.Sprintf("platform %s slot %s: at %q", platform, name, doc.At), err)
	}
	slot.Hour = hour
	slot.Minute = minute

	for _, ct := range doc.ContentTypes {
		ct = strings.ToLower(strings.TrimSpace(ct))
		if ct != "" {
			slot.ContentTypes = append(slot.ContentTypes, ct)
		}
	}
	return slot, nil
}

func parseClock(value string) (int, int, error) {
	value = strings.TrimSpace(value)
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want HH:MM")
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("bad hour %q", parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("bad minute %q", parts[1])
	}
	return hour, minute, nil
}
