package slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListByRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*domain.Slot, error)
	InsertMany(ctx context.Context, slots []*domain.Slot, policy domain.ConflictPolicy) ([]*domain.Slot, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Slot, error)
}

// Reconciler согласует повторяющиеся дни с добавленными и удаленными слотами
type Reconciler interface {
	SlotsAdded(ctx context.Context, added []*domain.Slot) ([]*domain.Slot, error)
	SlotsDeleted(ctx context.Context, deleted []*domain.Slot) ([]*domain.Slot, error)
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
