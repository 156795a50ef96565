package delete_session

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("delete_session: session not found")

	// ErrSessionExists возвращается при восстановлении уже существующей сессии
	ErrSessionExists = errors.New("delete_session: session already exists")

	// ErrSlotNotFound возвращается, когда слот восстанавливаемой сессии удалён
	ErrSlotNotFound = errors.New("delete_session: slot not found")

	// ErrSlotNotAvailable возвращается, когда слот уже занят или заблокирован
	ErrSlotNotAvailable = errors.New("delete_session: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("delete_session: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("delete_session: internal error")
)
