package recurring_day

import (
	"context"

	recurringDay "github.com/m04kA/SMC-CalendarService/internal/usecase/recurring_day"
)

type RecurringDayUseCase interface {
	Set(ctx context.Context, req *recurringDay.DayRequest) (*recurringDay.Response, error)
	Disable(ctx context.Context, req *recurringDay.DayRequest) (*recurringDay.Response, error)
	Duplicate(ctx context.Context, req *recurringDay.DuplicateRequest) (*recurringDay.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
