package add_slot

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListByRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*domain.Slot, error)
	ListAtInstants(ctx context.Context, employeeID uuid.UUID, instants []time.Time) ([]*domain.Slot, error)
	Insert(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	InsertMany(ctx context.Context, slots []*domain.Slot, policy domain.ConflictPolicy) ([]*domain.Slot, error)
}

// Reconciler согласует повторяющиеся дни с добавленными слотами
type Reconciler interface {
	SlotsAdded(ctx context.Context, added []*domain.Slot) ([]*domain.Slot, error)
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
