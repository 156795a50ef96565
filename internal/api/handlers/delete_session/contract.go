package delete_session

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	deleteSession "github.com/m04kA/SMC-CalendarService/internal/usecase/delete_session"
)

type DeleteSessionUseCase interface {
	Delete(ctx context.Context, sessionID uuid.UUID) (*deleteSession.Response, error)
	Restore(ctx context.Context, session *domain.Session) (*deleteSession.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
