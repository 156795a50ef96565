package delete_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	deleteSession "github.com/m04kA/SMC-CalendarService/internal/usecase/delete_session"
)

const (
	msgSessionDeleted   = "Session has been deleted."
	msgSessionRestored  = "Session has been restored."
	msgSessionNotFound  = "Session not found."
	msgSessionExists    = "Session already exists."
	msgSlotNotFound     = "Slot not found."
	msgSlotNotAvailable = "Slot is not available."
)

type Handler struct {
	useCase DeleteSessionUseCase
	logger  Logger
}

func NewHandler(useCase DeleteSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleDelete DELETE /api/v1/sessions/delete-session
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var req DeleteSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("DELETE /sessions/delete-session - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	sessionID, err := req.ToSessionID()
	if err != nil {
		h.logger.Warn("DELETE /sessions/delete-session - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.FieldMessage(err))
		return
	}

	result, err := h.useCase.Delete(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, deleteSession.ErrSessionNotFound):
			h.logger.Warn("DELETE /sessions/delete-session - Session not found: session_id=%s", sessionID)
			handlers.RespondFailure(w, msgSessionNotFound)
		case errors.Is(err, deleteSession.ErrInvalidInput):
			h.logger.Warn("DELETE /sessions/delete-session - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		default:
			h.logger.Error("DELETE /sessions/delete-session - Failed to delete session: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /sessions/delete-session - Session deleted: session_id=%s, slot_id=%s", sessionID, result.Session.SlotID)
	handlers.RespondData(w, msgSessionDeleted, FromUseCaseResponse(result))
}

// HandleUndo POST /api/v1/sessions/undo-delete-session
func (h *Handler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	var req UndoDeleteSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/undo-delete-session - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	session, err := req.ToDomainSession()
	if err != nil {
		h.logger.Warn("POST /sessions/undo-delete-session - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.FieldMessage(err))
		return
	}

	result, err := h.useCase.Restore(r.Context(), session)
	if err != nil {
		switch {
		case errors.Is(err, deleteSession.ErrSessionExists):
			h.logger.Warn("POST /sessions/undo-delete-session - Session exists: session_id=%s", session.ID)
			handlers.RespondFailure(w, msgSessionExists)
		case errors.Is(err, deleteSession.ErrSlotNotFound):
			h.logger.Warn("POST /sessions/undo-delete-session - Slot not found: slot_id=%s", session.SlotID)
			handlers.RespondFailure(w, msgSlotNotFound)
		case errors.Is(err, deleteSession.ErrSlotNotAvailable):
			h.logger.Warn("POST /sessions/undo-delete-session - Slot not available: slot_id=%s", session.SlotID)
			handlers.RespondFailure(w, msgSlotNotAvailable)
		case errors.Is(err, deleteSession.ErrInvalidInput):
			h.logger.Warn("POST /sessions/undo-delete-session - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		default:
			h.logger.Error("POST /sessions/undo-delete-session - Failed to restore session: session_id=%s, error=%v", session.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions/undo-delete-session - Session restored: session_id=%s", session.ID)
	handlers.RespondData(w, msgSessionRestored, FromUseCaseResponse(result))
}
