package recurring_day

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// DayRequest запрос на включение или отключение повторения дня
type DayRequest struct {
	EmployeeID uuid.UUID
	Date       time.Time
}

// DuplicateRequest запрос на копирование дня
type DuplicateRequest struct {
	EmployeeID  uuid.UUID
	SourceDate  time.Time
	TargetDates []time.Time
}

// Response результат операции над днями
type Response struct {
	// Dates вставленные или удалённые отметки повторяющихся дней
	Dates []*domain.RecurringDate
	// Slots вставленные или удалённые слоты по возрастанию времени
	Slots []*domain.Slot
}
