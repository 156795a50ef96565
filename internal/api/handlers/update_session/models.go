package update_session

import (
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	updateSession "github.com/m04kA/SMC-CalendarService/internal/usecase/update_session"
)

// UpdateSessionRequest HTTP request model
type UpdateSessionRequest struct {
	SessionID string `json:"sessionId"`
	SlotID    string `json:"slotId"`
}

// UpdateSessionResponse HTTP response model
type UpdateSessionResponse struct {
	Session           *handlers.Session `json:"session"`
	PreviousSlotID    string            `json:"previousSlotId"`
	PreviousStartTime string            `json:"previousStartTime"`
	Released          *handlers.Slot    `json:"released"`
	Booked            *handlers.Slot    `json:"booked"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateSessionRequest) ToUseCaseRequest() (*updateSession.Request, error) {
	sessionID, err := handlers.ParseUUID("sessionId", r.SessionID)
	if err != nil {
		return nil, err
	}
	slotID, err := handlers.ParseUUID("slotId", r.SlotID)
	if err != nil {
		return nil, err
	}
	return &updateSession.Request{SessionID: sessionID, SlotID: slotID}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateSession.Response) *UpdateSessionResponse {
	return &UpdateSessionResponse{
		Session:           handlers.FromDomainSession(resp.Session),
		PreviousSlotID:    resp.PreviousSlotID.String(),
		PreviousStartTime: resp.PreviousStartTime.UTC().Format(time.RFC3339),
		Released:          handlers.FromDomainSlot(resp.Released),
		Booked:            handlers.FromDomainSlot(resp.Booked),
	}
}
