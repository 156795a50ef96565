package week_sessions

import (
	"context"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/internal/service/sessions/models"
)

type SessionService interface {
	GetWeekSessions(ctx context.Context, req *models.WeekRequest) ([]*domain.SessionView, error)
	ExportWeek(ctx context.Context, req *models.ExportRequest) (string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
