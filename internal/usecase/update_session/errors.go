package update_session

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("update_session: session not found")

	// ErrSlotNotFound возвращается, когда целевой слот не найден
	ErrSlotNotFound = errors.New("update_session: slot not found")

	// ErrSlotNotAvailable возвращается, когда целевой слот не AVAILABLE
	ErrSlotNotAvailable = errors.New("update_session: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_session: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_session: internal error")
)
