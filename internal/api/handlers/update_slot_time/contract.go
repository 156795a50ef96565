package update_slot_time

import (
	"context"

	updateSlotTime "github.com/m04kA/SMC-CalendarService/internal/usecase/update_slot_time"
)

type UpdateSlotTimeUseCase interface {
	Execute(ctx context.Context, req *updateSlotTime.Request) (*updateSlotTime.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
