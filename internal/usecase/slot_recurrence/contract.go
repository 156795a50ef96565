package slot_recurrence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Slot, error)
	ListAtInstants(ctx context.Context, employeeID uuid.UUID, instants []time.Time) ([]*domain.Slot, error)
	InsertMany(ctx context.Context, slots []*domain.Slot, policy domain.ConflictPolicy) ([]*domain.Slot, error)
	SetRecurring(ctx context.Context, ids []uuid.UUID, recurring bool) ([]*domain.Slot, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Slot, error)
	DeleteAtInstants(ctx context.Context, employeeID uuid.UUID, instants []time.Time, except []uuid.UUID) ([]*domain.Slot, error)
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
