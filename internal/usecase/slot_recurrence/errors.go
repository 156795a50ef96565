package slot_recurrence

import "errors"

var (
	// ErrSlotNotFound возвращается, когда исходный слот не найден
	ErrSlotNotFound = errors.New("slot_recurrence: slot not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("slot_recurrence: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("slot_recurrence: internal error")
)
