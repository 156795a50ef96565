package slot_recurrence

import (
	"context"

	"github.com/google/uuid"

	slotRecurrence "github.com/m04kA/SMC-CalendarService/internal/usecase/slot_recurrence"
)

type SlotRecurrenceUseCase interface {
	Set(ctx context.Context, slotID uuid.UUID) (*slotRecurrence.SetResponse, error)
	Disable(ctx context.Context, slotID uuid.UUID) (*slotRecurrence.RemoveResponse, error)
	UndoAdd(ctx context.Context, slotID uuid.UUID) (*slotRecurrence.RemoveResponse, error)
	Revert(ctx context.Context, req *slotRecurrence.RevertRequest) (*slotRecurrence.RemoveResponse, error)
	Restore(ctx context.Context, req *slotRecurrence.RestoreRequest) (*slotRecurrence.RestoreResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
