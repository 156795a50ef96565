package add_slot

import "errors"

var (
	// ErrNoSlotAvailable возвращается, когда в дне нет свободного времени
	ErrNoSlotAvailable = errors.New("add_slot: no slot available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("add_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("add_slot: internal error")
)
