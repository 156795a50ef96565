package book_session

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("book_session: slot not found")

	// ErrSlotNotAvailable возвращается, когда слот не в состоянии AVAILABLE
	ErrSlotNotAvailable = errors.New("book_session: slot is not available")

	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("book_session: customer not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_session: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_session: internal error")
)
