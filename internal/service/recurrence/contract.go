package recurrence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	InsertMany(ctx context.Context, slots []*domain.Slot, policy domain.ConflictPolicy) ([]*domain.Slot, error)
	DeleteAtInstants(ctx context.Context, employeeID uuid.UUID, instants []time.Time, except []uuid.UUID) ([]*domain.Slot, error)
}

// RecurringDateRepository интерфейс репозитория повторяющихся дней
type RecurringDateRepository interface {
	ListByDates(ctx context.Context, employeeID uuid.UUID, dates []time.Time) ([]*domain.RecurringDate, error)
}

// RowCounter считает строки, записанные проекцией (метрики)
type RowCounter interface {
	AddRecurrenceRows(operation string, n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
