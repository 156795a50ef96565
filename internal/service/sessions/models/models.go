package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// MaxWeekSpan наибольшая длина запрашиваемого окна в днях (включительно)
const MaxWeekSpan = 7

// WeekRequest запрос сессий сотрудника за окно [Start, End], даты включительно
type WeekRequest struct {
	EmployeeID uuid.UUID
	Start      time.Time
	End        time.Time
}

// From возвращает начало окна
func (r *WeekRequest) From() time.Time {
	return domain.StartOfDay(r.Start.In(domain.Location))
}

// Until возвращает исключающую верхнюю границу окна
func (r *WeekRequest) Until() time.Time {
	return domain.StartOfDay(r.End.In(domain.Location)).AddDate(0, 0, 1)
}

// ExportRequest запрос выгрузки недели, содержащей Start, в iCalendar
type ExportRequest struct {
	EmployeeID uuid.UUID
	Start      time.Time
}

// Week возвращает окно понедельник..воскресенье
func (r *ExportRequest) Week() domain.Week {
	return domain.WeekOf(r.Start.In(domain.Location))
}
