package update_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	updateSession "github.com/m04kA/SMC-CalendarService/internal/usecase/update_session"
)

const (
	msgSessionUpdated   = "Session has been updated."
	msgSessionNotFound  = "Session not found."
	msgSlotNotFound     = "Slot not found."
	msgSlotNotAvailable = "Slot is not available."
	msgSameSlot         = "Session is already bound to this slot."
)

type Handler struct {
	useCase UpdateSessionUseCase
	logger  Logger
}

func NewHandler(useCase UpdateSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/sessions/update-session
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req UpdateSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /sessions/update-session - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("PUT /sessions/update-session - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.FieldMessage(err))
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateSession.ErrSessionNotFound):
			h.logger.Warn("PUT /sessions/update-session - Session not found: session_id=%s", req.SessionID)
			handlers.RespondFailure(w, msgSessionNotFound)
		case errors.Is(err, updateSession.ErrSlotNotFound):
			h.logger.Warn("PUT /sessions/update-session - Slot not found: slot_id=%s", req.SlotID)
			handlers.RespondFailure(w, msgSlotNotFound)
		case errors.Is(err, updateSession.ErrSlotNotAvailable):
			h.logger.Warn("PUT /sessions/update-session - Slot not available: slot_id=%s", req.SlotID)
			handlers.RespondFailure(w, msgSlotNotAvailable)
		case errors.Is(err, updateSession.ErrInvalidInput):
			h.logger.Warn("PUT /sessions/update-session - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgSameSlot)
		default:
			h.logger.Error("PUT /sessions/update-session - Failed to update session: session_id=%s, error=%v", req.SessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /sessions/update-session - Session moved: session_id=%s, from=%s, to=%s",
		req.SessionID, result.PreviousSlotID, req.SlotID)
	handlers.RespondData(w, msgSessionUpdated, FromUseCaseResponse(result))
}
