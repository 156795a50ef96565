package get_week_slots

import (
	"context"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/internal/service/slots/models"
)

type SlotService interface {
	GetWeekSlots(ctx context.Context, req *models.WeekRequest) ([]*domain.Slot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
