package year_rollover

import "github.com/google/uuid"

// Report итог переноса серий на новый год
type Report struct {
	Year      int
	Employees int
	Slots     int
	Dates     int
	Failed    []uuid.UUID
}
