package update_slot_time

import (
	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	updateSlotTime "github.com/m04kA/SMC-CalendarService/internal/usecase/update_slot_time"
)

// UpdateHourRequest HTTP request model
type UpdateHourRequest struct {
	SlotID string `json:"slotId"`
	Hour   *int   `json:"hour"`
}

// UpdateMinutesRequest HTTP request model
type UpdateMinutesRequest struct {
	SlotID  string `json:"slotId"`
	Minutes *int   `json:"minutes"`
}

// UpdateSlotTimeResponse HTTP response model
type UpdateSlotTimeResponse struct {
	PreviousHour    int              `json:"previousHour"`
	PreviousMinutes int              `json:"previousMinutes"`
	Slots           []*handlers.Slot `json:"slots"`
	Skipped         []*handlers.Slot `json:"skipped"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateHourRequest) ToUseCaseRequest(recurring bool) (*updateSlotTime.Request, error) {
	slotID, err := handlers.ParseUUID("slotId", r.SlotID)
	if err != nil {
		return nil, err
	}
	hour, err := handlers.ParseHour("hour", r.Hour)
	if err != nil {
		return nil, err
	}
	return &updateSlotTime.Request{
		SlotID:    slotID,
		Field:     updateSlotTime.FieldHour,
		Value:     hour,
		Recurring: recurring,
	}, nil
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateMinutesRequest) ToUseCaseRequest(recurring bool) (*updateSlotTime.Request, error) {
	slotID, err := handlers.ParseUUID("slotId", r.SlotID)
	if err != nil {
		return nil, err
	}
	minutes, err := handlers.ParseMinutes("minutes", r.Minutes)
	if err != nil {
		return nil, err
	}
	return &updateSlotTime.Request{
		SlotID:    slotID,
		Field:     updateSlotTime.FieldMinute,
		Value:     minutes,
		Recurring: recurring,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateSlotTime.Response) *UpdateSlotTimeResponse {
	return &UpdateSlotTimeResponse{
		PreviousHour:    resp.PreviousHour,
		PreviousMinutes: resp.PreviousMinute,
		Slots:           handlers.FromDomainSlots(resp.Slots),
		Skipped:         handlers.FromDomainSlots(resp.Skipped),
	}
}
