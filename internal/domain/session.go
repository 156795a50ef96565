package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session represents a booking bound to exactly one BOOKED slot.
// StartTime is a denormalized copy of the slot start time.
type Session struct {
	ID         uuid.UUID
	SlotID     uuid.UUID
	EmployeeID uuid.UUID
	CustomerID uuid.UUID
	StartTime  time.Time
	Message    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SessionView is a session with customer fields joined in
type SessionView struct {
	Session
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// Customer represents the person a session is booked for
type Customer struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone string
}

// NewSessionView joins a session with its customer; customer may be nil
func NewSessionView(s *Session, c *Customer) *SessionView {
	view := &SessionView{Session: *s}
	if c != nil {
		view.CustomerName = c.Name
		view.CustomerEmail = c.Email
		view.CustomerPhone = c.Phone
	}
	return view
}
