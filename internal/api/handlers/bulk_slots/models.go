package bulk_slots

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/internal/service/slots/models"
)

// AddSlotsRequest HTTP request model восстановления слотов
type AddSlotsRequest struct {
	Slots []*handlers.Slot `json:"slots"`
}

// DeleteSlotsRequest HTTP request model удаления слотов
type DeleteSlotsRequest struct {
	SlotIDs []string `json:"slotIds"`
}

// AddSlotsResponse HTTP response model
type AddSlotsResponse struct {
	Slots  []*handlers.Slot `json:"slots"`
	Copies []*handlers.Slot `json:"copies"`
}

// DeleteSlotsResponse HTTP response model
type DeleteSlotsResponse struct {
	Slots   []*handlers.Slot `json:"slots"`
	Removed []*handlers.Slot `json:"removed"`
}

// ToDomainSlots проверяет и конвертирует слоты запроса
func (r *AddSlotsRequest) ToDomainSlots() ([]*domain.Slot, error) {
	if len(r.Slots) == 0 {
		return nil, fmt.Errorf("%w: slots must not be empty", handlers.ErrInvalidField)
	}
	out := make([]*domain.Slot, 0, len(r.Slots))
	for i, s := range r.Slots {
		slot, err := s.ToDomain(fmt.Sprintf("slots[%d]", i))
		if err != nil {
			return nil, err
		}
		out = append(out, slot)
	}
	return out, nil
}

// ToSlotIDs проверяет идентификаторы запроса
func (r *DeleteSlotsRequest) ToSlotIDs() ([]uuid.UUID, error) {
	return handlers.ParseUUIDs("slotIds", r.SlotIDs)
}

// FromAddResponse конвертирует ответ сервиса в HTTP response
func FromAddResponse(resp *models.AddSlotsResponse) *AddSlotsResponse {
	return &AddSlotsResponse{
		Slots:  handlers.FromDomainSlots(resp.Inserted),
		Copies: handlers.FromDomainSlots(resp.Copies),
	}
}

// FromDeleteResponse конвертирует ответ сервиса в HTTP response
func FromDeleteResponse(resp *models.DeleteSlotsResponse) *DeleteSlotsResponse {
	return &DeleteSlotsResponse{
		Slots:   handlers.FromDomainSlots(resp.Deleted),
		Removed: handlers.FromDomainSlots(resp.Removed),
	}
}
