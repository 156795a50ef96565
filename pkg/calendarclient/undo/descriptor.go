package undo

import "github.com/m04kA/SMC-CalendarService/pkg/calendarclient/models"

// ActionKind мутация, которую отменяет запись
type ActionKind string

const (
	KindAddSlot                    ActionKind = "add_slot"
	KindAddRecurringSlot           ActionKind = "add_recurring_slot"
	KindDeleteSlots                ActionKind = "delete_slots"
	KindUpdateSlotHour             ActionKind = "update_slot_hour"
	KindUpdateRecurringSlotHour    ActionKind = "update_recurring_slot_hour"
	KindUpdateSlotMinutes          ActionKind = "update_slot_minutes"
	KindUpdateRecurringSlotMinutes ActionKind = "update_recurring_slot_minutes"
	KindDuplicateDay               ActionKind = "duplicate_day"
	KindSetSlotRecurrence          ActionKind = "set_slot_recurrence"
	KindDisableSlotRecurrence      ActionKind = "disable_slot_recurrence"
	KindSetRecurringDay            ActionKind = "set_recurring_day"
	KindDisableRecurringDay        ActionKind = "disable_recurring_day"
	KindBookSession                ActionKind = "book_session"
	KindUpdateSession              ActionKind = "update_session"
	KindDeleteSession              ActionKind = "delete_session"
)

// Descriptor снимок состояния до мутации, достаточный для ее отмены.
// Какие поля заполнены, определяет Kind.
type Descriptor struct {
	Kind ActionKind

	// Slots созданные или удаленные слоты
	Slots []*models.Slot
	// Session сессия до мутации
	Session *models.Session

	// CreatedIDs слоты, вставленные мутацией
	CreatedIDs []string
	// FlaggedIDs слоты, у которых мутация переключила флаг повторения
	FlaggedIDs []string

	SlotID string
	Hour   int
	Minute int

	PreviousSlotID string

	EmployeeID string
	Date       string
}
