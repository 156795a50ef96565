package update_slot_time

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error)
	ListAtInstants(ctx context.Context, employeeID uuid.UUID, instants []time.Time) ([]*domain.Slot, error)
	UpdateStartTime(ctx context.Context, id uuid.UUID, startTime time.Time) (*domain.Slot, error)
}

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	SyncStartTimes(ctx context.Context, slotIDs []uuid.UUID) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
