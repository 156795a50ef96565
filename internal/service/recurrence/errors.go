package recurrence

import "errors"

var (
	// ErrInternal возвращается при ошибках хранилища во время согласования
	ErrInternal = errors.New("recurrence.reconciler: internal error")
)
