package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// MaxWeekSpan наибольшая длина запрашиваемого окна в днях (включительно)
const MaxWeekSpan = 7

// WeekRequest запрос слотов сотрудника за окно [Start, End], даты включительно
type WeekRequest struct {
	EmployeeID uuid.UUID
	Start      time.Time
	End        time.Time
}

// Until возвращает исключающую верхнюю границу окна
func (r *WeekRequest) Until() time.Time {
	return domain.StartOfDay(r.End.In(domain.Location)).AddDate(0, 0, 1)
}

// From возвращает начало окна
func (r *WeekRequest) From() time.Time {
	return domain.StartOfDay(r.Start.In(domain.Location))
}

// AddSlotsResponse результат массового восстановления слотов
type AddSlotsResponse struct {
	Inserted []*domain.Slot // вставленные строки; занятые моменты пропущены
	Copies   []*domain.Slot // копии на последующие повторяющиеся дни
}

// DeleteSlotsResponse результат удаления слотов
type DeleteSlotsResponse struct {
	Deleted []*domain.Slot // удаленные строки, пригодные для восстановления через AddSlots
	Removed []*domain.Slot // слоты, удаленные с последующих повторяющихся дней
}
