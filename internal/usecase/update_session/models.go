package update_session

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// Request модель запроса на перенос сессии
type Request struct {
	SessionID uuid.UUID
	SlotID    uuid.UUID // целевой слот
}

// Response модель ответа
type Response struct {
	Session           *domain.SessionView
	PreviousSlotID    uuid.UUID
	PreviousStartTime time.Time
	// Released прежний слот, снова AVAILABLE
	Released *domain.Slot
	// Booked целевой слот, теперь BOOKED
	Booked *domain.Slot
}
