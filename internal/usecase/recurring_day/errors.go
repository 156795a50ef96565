package recurring_day

import "errors"

var (
	// ErrNotRecurringDay возвращается при отключении дня, который не повторяется
	ErrNotRecurringDay = errors.New("recurring_day: day is not recurring")

	// ErrEmptySourceDay возвращается, если в исходном дне нет слотов для копирования
	ErrEmptySourceDay = errors.New("recurring_day: source day has no slots")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("recurring_day: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("recurring_day: internal error")
)
