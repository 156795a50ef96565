package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	ListViewsByRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*domain.SessionView, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListByRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*domain.Slot, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().In(domain.Location)
}
