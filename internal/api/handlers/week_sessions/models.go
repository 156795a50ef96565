package week_sessions

import (
	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/service/sessions/models"
)

// GetWeekSessionsRequest HTTP request model
type GetWeekSessionsRequest struct {
	EmployeeID string `json:"employeeId"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *GetWeekSessionsRequest) ToServiceRequest() (*models.WeekRequest, error) {
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

// exportRequest разбирает query-параметры выгрузки
func exportRequest(employeeID, start string) (*models.ExportRequest, error) {
	id, err := handlers.ParseUUID("employeeId", employeeID)
	if err != nil {
		return nil, err
	}
	date, err := handlers.ParseDate("start", start)
	if err != nil {
		return nil, err
	}
	return &models.ExportRequest{EmployeeID: id, Start: date}, nil
}
