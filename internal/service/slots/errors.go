package slots

import "errors"

var (
	// ErrNothingDeleted возвращается, когда ни один слот не был удален
	// (слоты не найдены или все забронированы)
	ErrNothingDeleted = errors.New("no slots were deleted")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidTimeRange возвращается при некорректном временном диапазоне
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
