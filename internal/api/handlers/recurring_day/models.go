package recurring_day

import (
	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	recurringDay "github.com/m04kA/SMC-CalendarService/internal/usecase/recurring_day"
)

// DayRequest HTTP request model
type DayRequest struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"` // "2025-06-02"
}

// DuplicateDayRequest HTTP request model
type DuplicateDayRequest struct {
	EmployeeID  string   `json:"employeeId"`
	SourceDate  string   `json:"sourceDate"`
	TargetDates []string `json:"targetDates"`
}

// DayResponse HTTP response model
type DayResponse struct {
	Dates []string         `json:"dates"`
	Slots []*handlers.Slot `json:"slots"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *DayRequest) ToUseCaseRequest() (*recurringDay.DayRequest, error) {
	employeeID, err := handlers.ParseUUID("employeeId", r.EmployeeID)
	if err != nil {
		return nil, err
	}
	date, err := handlers.ParseDate("date", r.Date)
	if err != nil {
		return nil, err
	}
	return &recurringDay.DayRequest{EmployeeID: employeeID, Date: date}, nil
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *DuplicateDayRequest) ToUseCaseRequest() (*recurringDay.DuplicateRequest, error) {
	employeeID, err := handlers.ParseUUID("employeeId", r.EmployeeID)
	if err != nil {
		return nil, err
	}
	source, err := handlers.ParseDate("sourceDate", r.SourceDate)
	if err != nil {
		return nil, err
	}
	targets, err := handlers.ParseDates("targetDates", r.TargetDates)
	if err != nil {
		return nil, err
	}
	return &recurringDay.DuplicateRequest{EmployeeID: employeeID, SourceDate: source, TargetDates: targets}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *recurringDay.Response) *DayResponse {
	dates := make([]string, 0, len(resp.Dates))
	for _, d := range resp.Dates {
		dates = append(dates, d.Date.Format(domain.DateFormat))
	}
	return &DayResponse{
		Dates: dates,
		Slots: handlers.FromDomainSlots(resp.Slots),
	}
}
