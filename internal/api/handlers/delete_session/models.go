package delete_session

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	deleteSession "github.com/m04kA/SMC-CalendarService/internal/usecase/delete_session"
)

// DeleteSessionRequest HTTP request model
type DeleteSessionRequest struct {
	SessionID string `json:"sessionId"`
}

// UndoDeleteSessionRequest HTTP request model: сессия в том виде, в каком ее вернул delete-session
type UndoDeleteSessionRequest struct {
	Session *handlers.Session `json:"session"`
}

// SessionResponse HTTP response model
type SessionResponse struct {
	Session *handlers.Session `json:"session"`
	Slot    *handlers.Slot    `json:"slot"`
}

// ToSessionID проверяет идентификатор сессии
func (r *DeleteSessionRequest) ToSessionID() (uuid.UUID, error) {
	return handlers.ParseUUID("sessionId", r.SessionID)
}

// ToDomainSession проверяет и конвертирует восстанавливаемую сессию
func (r *UndoDeleteSessionRequest) ToDomainSession() (*domain.Session, error) {
	return r.Session.ToDomain("session")
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *deleteSession.Response) *SessionResponse {
	return &SessionResponse{
		Session: handlers.FromDomainSession(resp.Session),
		Slot:    handlers.FromDomainSlot(resp.Slot),
	}
}
