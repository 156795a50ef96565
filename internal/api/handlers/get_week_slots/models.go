package get_week_slots

import (
	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/service/slots/models"
)

// GetWeekSlotsRequest HTTP request model
type GetWeekSlotsRequest struct {
	EmployeeID string `json:"employeeId"`
	Start      string `json:"start"` // "2025-06-02"
	End        string `json:"end"`   // "2025-06-08"
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *GetWeekSlotsRequest) ToServiceRequest() (*models.WeekRequest, error) {
	employeeID, err := handlers.ParseUUID("employeeId", r.EmployeeID)
	if err != nil {
		return nil, err
	}
	start, err := handlers.ParseDate("start", r.Start)
	if err != nil {
		return nil, err
	}
	end, err := handlers.ParseDate("end", r.End)
	if err != nil {
		return nil, err
	}
	return &models.WeekRequest{EmployeeID: employeeID, Start: start, End: end}, nil
}
