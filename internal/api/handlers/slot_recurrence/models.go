package slot_recurrence

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	slotRecurrence "github.com/m04kA/SMC-CalendarService/internal/usecase/slot_recurrence"
)

// SlotRequest HTTP request model
type SlotRequest struct {
	SlotID string `json:"slotId"`
}

// SetResponse HTTP response model включения повторения
type SetResponse struct {
	Seed       *handlers.Slot   `json:"seed"`
	Slots      []*handlers.Slot `json:"slots"`
	CreatedIDs []string         `json:"createdIds"`
	AdoptedIDs []string         `json:"adoptedIds"`
}

// RemoveResponse HTTP response model отключения повторения
type RemoveResponse struct {
	Seed         *handlers.Slot   `json:"seed"`
	Deleted      []*handlers.Slot `json:"deleted"`
	Detached     []*handlers.Slot `json:"detached"`
	UnflaggedIDs []string         `json:"unflaggedIds"`
}

// RevertRequest HTTP request model отката серии
type RevertRequest struct {
	CreatedSlotIDs []string `json:"createdSlotIds"`
	AdoptedSlotIDs []string `json:"adoptedSlotIds"`
}

// RestoreRequest HTTP request model восстановления серии
type RestoreRequest struct {
	Slots            []*handlers.Slot `json:"slots"`
	RecurringSlotIDs []string         `json:"recurringSlotIds"`
}

// RestoreResponse HTTP response model восстановления серии
type RestoreResponse struct {
	Slots   []*handlers.Slot `json:"slots"`
	Flagged []*handlers.Slot `json:"flagged"`
}

// ToSlotID проверяет идентификатор слота
func (r *SlotRequest) ToSlotID() (uuid.UUID, error) {
	return handlers.ParseUUID("slotId", r.SlotID)
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RevertRequest) ToUseCaseRequest() (*slotRecurrence.RevertRequest, error) {
	created, err := parseOptionalUUIDs("createdSlotIds", r.CreatedSlotIDs)
	if err != nil {
		return nil, err
	}
	adopted, err := parseOptionalUUIDs("adoptedSlotIds", r.AdoptedSlotIDs)
	if err != nil {
		return nil, err
	}
	return &slotRecurrence.RevertRequest{Created: created, Adopted: adopted}, nil
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RestoreRequest) ToUseCaseRequest() (*slotRecurrence.RestoreRequest, error) {
	slots := make([]*domain.Slot, 0, len(r.Slots))
	for i, s := range r.Slots {
		slot, err := s.ToDomain(fmt.Sprintf("slots[%d]", i))
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	recurring, err := parseOptionalUUIDs("recurringSlotIds", r.RecurringSlotIDs)
	if err != nil {
		return nil, err
	}
	return &slotRecurrence.RestoreRequest{Slots: slots, Recurring: recurring}, nil
}

func parseOptionalUUIDs(field string, values []string) ([]uuid.UUID, error) {
	if len(values) == 0 {
		return []uuid.UUID{}, nil
	}
	return handlers.ParseUUIDs(field, values)
}

// FromSetResponse конвертирует ответ use case в HTTP response
func FromSetResponse(resp *slotRecurrence.SetResponse) *SetResponse {
	return &SetResponse{
		Seed:       handlers.FromDomainSlot(resp.Seed),
		Slots:      handlers.FromDomainSlots(resp.Slots),
		CreatedIDs: handlers.FromUUIDs(resp.Created),
		AdoptedIDs: handlers.FromUUIDs(resp.Adopted),
	}
}

// FromRemoveResponse конвертирует ответ use case в HTTP response
func FromRemoveResponse(resp *slotRecurrence.RemoveResponse) *RemoveResponse {
	return &RemoveResponse{
		Seed:         handlers.FromDomainSlot(resp.Seed),
		Deleted:      handlers.FromDomainSlots(resp.Deleted),
		Detached:     handlers.FromDomainSlots(resp.Detached),
		UnflaggedIDs: handlers.FromUUIDs(resp.Unflagged),
	}
}

// FromRestoreResponse конвертирует ответ use case в HTTP response
func FromRestoreResponse(resp *slotRecurrence.RestoreResponse) *RestoreResponse {
	return &RestoreResponse{
		Slots:   handlers.FromDomainSlots(resp.Restored),
		Flagged: handlers.FromDomainSlots(resp.Flagged),
	}
}
