package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecurringDate marks a day whose slot pattern repeats weekly through year-end.
// Day-level recurrence is authoritative over the slots of the day.
type RecurringDate struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	Date       time.Time
	CreatedAt  time.Time
}
