package feed

import (
	"context"

	"github.com/m04kA/SMC-CalendarService/internal/infra/changefeed"
)

type Subscriber interface {
	Subscribe(ctx context.Context) (*changefeed.Subscription, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
