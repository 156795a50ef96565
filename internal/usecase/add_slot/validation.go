package add_slot

import (
	"fmt"

	"github.com/google/uuid"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if req.EmployeeID == uuid.Nil {
		return fmt.Errorf("%w: employeeId is required", ErrInvalidInput)
	}
	if req.Day.IsZero() {
		return fmt.Errorf("%w: day is required", ErrInvalidInput)
	}
	return nil
}
