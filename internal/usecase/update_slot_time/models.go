package update_slot_time

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// Field изменяемая часть времени слота
type Field int

const (
	FieldHour Field = iota
	FieldMinute
)

// String возвращает имя поля
func (f Field) String() string {
	if f == FieldMinute {
		return "minutes"
	}
	return "hour"
}

// Request модель запроса на изменение времени слота
type Request struct {
	SlotID    uuid.UUID
	Field     Field
	Value     int  // час [0,23] или минуты {0,15,30,45}
	Recurring bool // изменить все повторяющиеся слоты серии до конца года
}

// Response модель ответа
type Response struct {
	PreviousHour   int
	PreviousMinute int
	// Slots перенесённые слоты по возрастанию времени
	Slots []*domain.Slot
	// Skipped слоты серии, которые не перенесены: новое время занято
	Skipped []*domain.Slot
}
