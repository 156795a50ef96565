package domain

import (
	"time"

	"github.com/google/uuid"
)

// SlotType represents the state of a slot in the employee calendar
type SlotType string

const (
	SlotAvailable SlotType = "AVAILABLE"
	SlotBlocked   SlotType = "BLOCKED"
	SlotBooked    SlotType = "BOOKED"
)

// IsValid returns true if the type is one of the known slot types
func (t SlotType) IsValid() bool {
	switch t {
	case SlotAvailable, SlotBlocked, SlotBooked:
		return true
	default:
		return false
	}
}

// Slot represents a bookable time unit of one employee
type Slot struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	Type       SlotType
	StartTime  time.Time
	Duration   int // minutes, one of AllowedDurations
	Recurring  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// End returns the instant the slot ends
func (s *Slot) End() time.Time {
	return s.StartTime.Add(time.Duration(s.Duration) * time.Minute)
}

// IsBooked returns true if a session is bound to the slot
func (s *Slot) IsBooked() bool {
	return s.Type == SlotBooked
}

// Overlaps returns true if [start, start+duration) intersects the slot interval.
// Adjacent intervals do not overlap.
func (s *Slot) Overlaps(start time.Time, duration int) bool {
	end := start.Add(time.Duration(duration) * time.Minute)
	return s.StartTime.Before(end) && s.End().After(start)
}

// SameTimeOfDay returns true if both instants share hour and minute
func SameTimeOfDay(a, b time.Time) bool {
	return a.Hour() == b.Hour() && a.Minute() == b.Minute()
}

// IsAllowedDuration returns true for 30, 45 and 60 minutes
func IsAllowedDuration(minutes int) bool {
	for _, d := range AllowedDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

// IsAllowedMinute returns true for quarter-hour minutes
func IsAllowedMinute(minute int) bool {
	for _, m := range AllowedMinutes {
		if m == minute {
			return true
		}
	}
	return false
}

// IsValidHour returns true for 0..23
func IsValidHour(hour int) bool {
	return hour >= 0 && hour <= 23
}

// SlotIDs collects slot identifiers
func SlotIDs(slots []*Slot) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	return ids
}

// SeriesChanges splits the rows returned by an adopting insert into the
// slots it created and the existing slots it switched to recurring.
// prior holds the rows found at the same instants before the insert;
// rows that were already recurring belong to neither group.
func SeriesChanges(prior, rows []*Slot) (created, adopted []uuid.UUID) {
	before := make(map[int64]*Slot, len(prior))
	for _, s := range prior {
		before[s.StartTime.UnixNano()] = s
	}

	created = []uuid.UUID{}
	adopted = []uuid.UUID{}
	for _, row := range rows {
		old, ok := before[row.StartTime.UnixNano()]
		switch {
		case !ok:
			created = append(created, row.ID)
		case !old.Recurring:
			adopted = append(adopted, row.ID)
		}
	}
	return created, adopted
}
