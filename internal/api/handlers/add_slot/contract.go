package add_slot

import (
	"context"

	addSlot "github.com/m04kA/SMC-CalendarService/internal/usecase/add_slot"
)

type AddSlotUseCase interface {
	Execute(ctx context.Context, req *addSlot.Request) (*addSlot.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
