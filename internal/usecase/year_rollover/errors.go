package year_rollover

import "errors"

var (
	// ErrInvalidYear возвращается для года вне допустимого диапазона
	ErrInvalidYear = errors.New("year rollover: invalid year")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("year rollover: internal error")
)
