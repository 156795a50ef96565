package book_session

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// Request модель запроса на бронирование слота
type Request struct {
	SlotID     uuid.UUID
	CustomerID uuid.UUID
	Message    *string
}

// Response модель ответа
type Response struct {
	Session *domain.SessionView
	Slot    *domain.Slot
}
