package year_rollover

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListRecurringInRange(ctx context.Context, from, to time.Time) ([]*domain.Slot, error)
	ListByRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*domain.Slot, error)
	InsertMany(ctx context.Context, slots []*domain.Slot, policy domain.ConflictPolicy) ([]*domain.Slot, error)
}

// RecurringDateRepository интерфейс репозитория повторяющихся дней
type RecurringDateRepository interface {
	ListInRange(ctx context.Context, from, to time.Time) ([]*domain.RecurringDate, error)
	InsertMany(ctx context.Context, employeeID uuid.UUID, dates []time.Time) ([]*domain.RecurringDate, error)
}

// RowCounter считает строки, записанные переносом (метрики)
type RowCounter interface {
	AddRecurrenceRows(operation string, n int)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
