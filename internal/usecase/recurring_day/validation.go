package recurring_day

import (
	"fmt"

	"github.com/google/uuid"
)

func validateDayRequest(req *DayRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if req.EmployeeID == uuid.Nil {
		return fmt.Errorf("%w: employeeId is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

func validateDuplicateRequest(req *DuplicateRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if req.EmployeeID == uuid.Nil {
		return fmt.Errorf("%w: employeeId is required", ErrInvalidInput)
	}
	if req.SourceDate.IsZero() {
		return fmt.Errorf("%w: sourceDate is required", ErrInvalidInput)
	}
	if len(req.TargetDates) == 0 {
		return fmt.Errorf("%w: targetDates must not be empty", ErrInvalidInput)
	}
	for i, d := range req.TargetDates {
		if d.IsZero() {
			return fmt.Errorf("%w: targetDates[%d] is empty", ErrInvalidInput, i)
		}
	}
	return nil
}
