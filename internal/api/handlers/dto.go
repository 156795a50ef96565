package handlers

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// Slot представление слота в API
type Slot struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Type       string `json:"type"`
	StartTime  string `json:"startTime"`
	Duration   int    `json:"duration"`
	Recurring  bool   `json:"recurring"`
}

// Session представление сессии в API вместе с данными клиента
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

// FromDomainSlot конвертирует слот; nil остается nil
func FromDomainSlot(s *domain.Slot) *Slot {
	if s == nil {
		return nil
	}
	return &Slot{
		ID:         s.ID.String(),
		EmployeeID: s.EmployeeID.String(),
		Type:       string(s.Type),
		StartTime:  s.StartTime.UTC().Format(time.RFC3339),
		Duration:   s.Duration,
		Recurring:  s.Recurring,
	}
}

// FromDomainSlots конвертирует список; пустой список сериализуется как []
func FromDomainSlots(slots []*domain.Slot) []*Slot {
	out := make([]*Slot, 0, len(slots))
	for _, s := range slots {
		out = append(out, FromDomainSlot(s))
	}
	return out
}

// FromUUIDs конвертирует идентификаторы; пустой список сериализуется как []
func FromUUIDs(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

// FromDomainSession конвертирует сессию; nil остается nil
func FromDomainSession(s *domain.SessionView) *Session {
	if s == nil {
		return nil
	}
	return &Session{
		ID:            s.ID.String(),
		SlotID:        s.SlotID.String(),
		EmployeeID:    s.EmployeeID.String(),
		CustomerID:    s.CustomerID.String(),
		StartTime:     s.StartTime.UTC().Format(time.RFC3339),
		Message:       s.Message,
		CustomerName:  s.CustomerName,
		CustomerEmail: s.CustomerEmail,
		CustomerPhone: s.CustomerPhone,
	}
}

// FromDomainSessions конвертирует список; пустой список сериализуется как []
func FromDomainSessions(sessions []*domain.SessionView) []*Session {
	out := make([]*Session, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, FromDomainSession(s))
	}
	return out
}

// ToDomain проверяет и конвертирует слот из тела запроса
func (s *Slot) ToDomain(field string) (*domain.Slot, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: %s is required", ErrInvalidField, field)
	}
	id, err := ParseUUID(field+".id", s.ID)
	if err != nil {
		return nil, err
	}
	employeeID, err := ParseUUID(field+".employeeId", s.EmployeeID)
	if err != nil {
		return nil, err
	}
	slotType := domain.SlotType(s.Type)
	if !slotType.IsValid() {
		return nil, fmt.Errorf("%w: %s.type must be AVAILABLE, BLOCKED or BOOKED", ErrInvalidField, field)
	}
	start, err := ParseTimestamp(field+".startTime", s.StartTime)
	if err != nil {
		return nil, err
	}
	if !domain.IsAllowedDuration(s.Duration) {
		return nil, fmt.Errorf("%w: %s.duration must be one of 30, 45, 60", ErrInvalidField, field)
	}

	return &domain.Slot{
		ID:         id,
		EmployeeID: employeeID,
		Type:       slotType,
		StartTime:  start,
		Duration:   s.Duration,
		Recurring:  s.Recurring,
	}, nil
}

// ToDomain проверяет и конвертирует сессию из тела запроса
func (s *Session) ToDomain(field string) (*domain.Session, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: %s is required", ErrInvalidField, field)
	}
	id, err := ParseUUID(field+".id", s.ID)
	if err != nil {
		return nil, err
	}
	slotID, err := ParseUUID(field+".slotId", s.SlotID)
	if err != nil {
		return nil, err
	}
	customerID, err := ParseUUID(field+".customerId", s.CustomerID)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:         id,
		SlotID:     slotID,
		CustomerID: customerID,
		Message:    s.Message,
	}
	if s.EmployeeID != "" {
		if session.EmployeeID, err = ParseUUID(field+".employeeId", s.EmployeeID); err != nil {
			return nil, err
		}
	}
	if s.StartTime != "" {
		if session.StartTime, err = ParseTimestamp(field+".startTime", s.StartTime); err != nil {
			return nil, err
		}
	}
	return session, nil
}
