package add_slot

import (
	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	addSlot "github.com/m04kA/SMC-CalendarService/internal/usecase/add_slot"
)

// AddSlotRequest HTTP request model
type AddSlotRequest struct {
	EmployeeID string `json:"employeeId"`
	Day        string `json:"day"` // "2025-06-02"
}

// AddSlotResponse HTTP response model
type AddSlotResponse struct {
	Seed       *handlers.Slot   `json:"seed"`
	Slots      []*handlers.Slot `json:"slots"`
	CreatedIDs []string         `json:"createdIds"`
	AdoptedIDs []string         `json:"adoptedIds"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *AddSlotRequest) ToUseCaseRequest(recurring bool) (*addSlot.Request, error) {
	employeeID, err := handlers.ParseUUID("employeeId", r.EmployeeID)
	if err != nil {
		return nil, err
	}
	day, err := handlers.ParseDate("day", r.Day)
	if err != nil {
		return nil, err
	}
	return &addSlot.Request{EmployeeID: employeeID, Day: day, Recurring: recurring}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *addSlot.Response) *AddSlotResponse {
	return &AddSlotResponse{
		Seed:       handlers.FromDomainSlot(resp.Seed),
		Slots:      handlers.FromDomainSlots(resp.Slots),
		CreatedIDs: handlers.FromUUIDs(resp.Created),
		AdoptedIDs: handlers.FromUUIDs(resp.Adopted),
	}
}
