package update_slot_time

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("update_slot_time: slot not found")

	// ErrSlotTimeTaken возвращается, когда новое время занято другим слотом
	ErrSlotTimeTaken = errors.New("update_slot_time: slot time is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_slot_time: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_slot_time: internal error")
)
