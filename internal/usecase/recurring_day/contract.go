package recurring_day

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
	DeleteAtInstants(ctx context.Context, employeeID uuid.UUID, instants []time.Time, except []uuid.UUID) ([]*domain.Slot, error)
}

// RecurringDateRepository интерфейс репозитория повторяющихся дней
type RecurringDateRepository interface {
	InsertMany(ctx context.Context, employeeID uuid.UUID, dates []time.Time) ([]*domain.RecurringDate, error)
	DeleteDates(ctx context.Context, employeeID uuid.UUID, dates []time.Time) ([]*domain.RecurringDate, error)
}

// Reconciler согласует повторяющиеся дни с добавленными слотами
type Reconciler interface {
	SlotsAdded(ctx context.Context, added []*domain.Slot) ([]*domain.Slot, error)
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
