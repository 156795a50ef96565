package slot_recurrence

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// SetResponse результат включения повторения
type SetResponse struct {
	Seed  *domain.Slot
	Slots []*domain.Slot // вся серия по возрастанию, включая Seed
	// Created слоты, вставленные операцией
	Created []uuid.UUID
	// Adopted существующие слоты, которые операция сделала повторяющимися (включая Seed)
	Adopted []uuid.UUID
}

// RemoveResponse результат отключения повторения или отмены повторяющегося слота
type RemoveResponse struct {
	// Seed исходный слот после операции; nil, если он удалён
	Seed *domain.Slot
	// Deleted удалённые экземпляры серии
	Deleted []*domain.Slot
	// Detached оставшиеся слоты серии, которые больше не повторяются
	// (забронированные экземпляры, а при откате также принятые слоты)
	Detached []*domain.Slot
	// Unflagged слоты, с которых операция сняла флаг повторения
	Unflagged []uuid.UUID
}

// RevertRequest откат серии: удалить созданные слоты, снять флаг с принятых
type RevertRequest struct {
	Created []uuid.UUID
	Adopted []uuid.UUID
}

// RestoreRequest восстановление удаленной серии
type RestoreRequest struct {
	// Slots удаленные слоты; вставляются с прежними идентификаторами
	Slots []*domain.Slot
	// Recurring слоты, которым возвращается флаг повторения
	Recurring []uuid.UUID
}

// RestoreResponse результат восстановления серии
type RestoreResponse struct {
	// Restored вставленные слоты; занятые моменты пропускаются
	Restored []*domain.Slot
	// Flagged слоты, снова помеченные повторяющимися
	Flagged []*domain.Slot
}
