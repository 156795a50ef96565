package update_slot_time

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if req.SlotID == uuid.Nil {
		return fmt.Errorf("%w: slotId is required", ErrInvalidInput)
	}

	switch req.Field {
	case FieldHour:
		if !domain.IsValidHour(req.Value) {
			return fmt.Errorf("%w: hour must be in [0, 23], got %d", ErrInvalidInput, req.Value)
		}
	case FieldMinute:
		if !domain.IsAllowedMinute(req.Value) {
			return fmt.Errorf("%w: minutes must be one of 0, 15, 30, 45, got %d", ErrInvalidInput, req.Value)
		}
	default:
		return fmt.Errorf("%w: unknown field %d", ErrInvalidInput, req.Field)
	}
	return nil
}
