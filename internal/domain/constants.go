package domain

import "time"

// Slot defaults
const (
	DefaultSlotDuration = 30
	SlotSearchStep      = 15 * time.Minute
	SlotSearchStartHour = 8  // first candidate 08:00
	SlotSearchEndHour   = 20 // candidates strictly before 20:00
)

// AllowedDurations lists slot lengths in minutes
var AllowedDurations = []int{30, 45, 60}

// AllowedMinutes lists minute values a slot may start at
var AllowedMinutes = []int{0, 15, 30, 45}

// Time format constants
const (
	DateFormat      = "2006-01-02" // YYYY-MM-DD
	TimestampFormat = time.RFC3339 // ISO 8601
)

// Calendar location: timestamps are stored and compared in server time (UTC)
var Location = time.UTC
