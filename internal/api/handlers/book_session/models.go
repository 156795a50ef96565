package book_session

import (
	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	bookSession "github.com/m04kA/SMC-CalendarService/internal/usecase/book_session"
)

// BookSessionRequest HTTP request model
type BookSessionRequest struct {
	SlotID     string  `json:"slotId"`
	CustomerID string  `json:"customerId"`
	Message    *string `json:"message,omitempty"`
}

// BookSessionResponse HTTP response model
type BookSessionResponse struct {
	Session *handlers.Session `json:"session"`
	Slot    *handlers.Slot    `json:"slot"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookSessionRequest) ToUseCaseRequest() (*bookSession.Request, error) {
	slotID, err := handlers.ParseUUID("slotId", r.SlotID)
	if err != nil {
		return nil, err
	}
	customerID, err := handlers.ParseUUID("customerId", r.CustomerID)
	if err != nil {
		return nil, err
	}
	return &bookSession.Request{SlotID: slotID, CustomerID: customerID, Message: r.Message}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookSession.Response) *BookSessionResponse {
	return &BookSessionResponse{
		Session: handlers.FromDomainSession(resp.Session),
		Slot:    handlers.FromDomainSlot(resp.Slot),
	}
}
