package calendarclient

import (
	"errors"
	"fmt"
)

var (
	// ErrInternal возвращается при ошибках построения или отправки запроса
	ErrInternal = errors.New("calendarclient: internal error")

	// ErrInvalidResponse ответ не прошел проверку конверта или формы строк
	ErrInvalidResponse = errors.New("calendarclient: invalid response")

	// ErrRejected доменный отказ: 200 {message, data: null}
	ErrRejected = errors.New("calendarclient: rejected")

	// ErrBadRequest сервер отклонил запрос при валидации (400)
	ErrBadRequest = errors.New("calendarclient: bad request")

	// ErrServer ошибка хранилища на стороне сервера (5xx)
	ErrServer = errors.New("calendarclient: server error")

	// ErrNothingToUndo в журнале нет живых записей
	ErrNothingToUndo = errors.New("calendarclient: nothing to undo")
)

// APIError ответ сервера с сообщением для пользователя
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: status %d: %s", e.kind, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}
