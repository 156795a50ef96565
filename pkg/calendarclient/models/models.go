// Package models описывает строки API календаря так, как их видит клиент,
// и проверяет их форму до того, как клиент им поверит.
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	DateFormat      = "2006-01-02"
	TimestampFormat = time.RFC3339

	SlotAvailable = "AVAILABLE"
	SlotBlocked   = "BLOCKED"
	SlotBooked    = "BOOKED"
)

// ErrInvalidShape строка ответа не прошла проверку формы
var ErrInvalidShape = errors.New("calendarclient.models: invalid shape")

// Slot слот в формате API
type Slot struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Type       string `json:"type"`
	StartTime  string `json:"startTime"`
	Duration   int    `json:"duration"`
	Recurring  bool   `json:"recurring"`
}

// Session сессия в формате API вместе с данными клиента
type Session struct {
	ID            string  `json:"id"`
	SlotID        string  `json:"slotId"`
	EmployeeID    string  `json:"employeeId"`
	CustomerID    string  `json:"customerId"`
	StartTime     string  `json:"startTime"`
	Message       *string `json:"message"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone"`
}

// Validate проверяет идентификаторы, тип, длительность и время слота
func (s *Slot) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: slot is null", ErrInvalidShape)
	}
	if err := validateUUID("slot.id", s.ID); err != nil {
		return err
	}
	if err := validateUUID("slot.employeeId", s.EmployeeID); err != nil {
		return err
	}
	switch s.Type {
	case SlotAvailable, SlotBlocked, SlotBooked:
	default:
		return fmt.Errorf("%w: slot.type %q", ErrInvalidShape, s.Type)
	}
	switch s.Duration {
	case 30, 45, 60:
	default:
		return fmt.Errorf("%w: slot.duration %d", ErrInvalidShape, s.Duration)
	}
	return validateTimestamp("slot.startTime", s.StartTime)
}

// Start время начала слота; для непроверенного слота нулевое время
func (s *Slot) Start() time.Time {
	t, _ := time.Parse(TimestampFormat, s.StartTime)
	return t.UTC()
}

// Validate проверяет идентификаторы и время сессии
func (s *Session) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: session is null", ErrInvalidShape)
	}
	for field, value := range map[string]string{
		"session.id":         s.ID,
		"session.slotId":     s.SlotID,
		"session.employeeId": s.EmployeeID,
		"session.customerId": s.CustomerID,
	} {
		if err := validateUUID(field, value); err != nil {
			return err
		}
	}
	return validateTimestamp("session.startTime", s.StartTime)
}

// Start время начала сессии
func (s *Session) Start() time.Time {
	t, _ := time.Parse(TimestampFormat, s.StartTime)
	return t.UTC()
}

// ValidateSlots проверяет каждый слот списка
func ValidateSlots(slots []*Slot) error {
	for i, s := range slots {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("slots[%d]: %w", i, err)
		}
	}
	return nil
}

// ValidateSessions проверяет каждую сессию списка
func ValidateSessions(sessions []*Session) error {
	for i, s := range sessions {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("sessions[%d]: %w", i, err)
		}
	}
	return nil
}

// ValidateIDs проверяет список идентификаторов
func ValidateIDs(field string, ids []string) error {
	for i, id := range ids {
		if err := validateUUID(fmt.Sprintf("%s[%d]", field, i), id); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDate проверяет дату YYYY-MM-DD
func ValidateDate(field, value string) error {
	if _, err := time.Parse(DateFormat, value); err != nil {
		return fmt.Errorf("%w: %s %q", ErrInvalidShape, field, value)
	}
	return nil
}

func validateUUID(field, value string) error {
	id, err := uuid.Parse(value)
	if err != nil || id == uuid.Nil {
		return fmt.Errorf("%w: %s %q", ErrInvalidShape, field, value)
	}
	return nil
}

func validateTimestamp(field, value string) error {
	t, err := time.Parse(TimestampFormat, value)
	if err != nil {
		return fmt.Errorf("%w: %s %q", ErrInvalidShape, field, value)
	}
	if t.Second() != 0 || t.Nanosecond() != 0 {
		return fmt.Errorf("%w: %s is not minute-granular", ErrInvalidShape, field)
	}
	switch t.Minute() {
	case 0, 15, 30, 45:
	default:
		return fmt.Errorf("%w: %s minute %d", ErrInvalidShape, field, t.Minute())
	}
	return nil
}
