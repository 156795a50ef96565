package bulk_slots

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/internal/service/slots/models"
)

type SlotService interface {
	AddSlots(ctx context.Context, slots []*domain.Slot) (*models.AddSlotsResponse, error)
	DeleteSlots(ctx context.Context, ids []uuid.UUID) (*models.DeleteSlotsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
