package slot_recurrence

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	slotRecurrence "github.com/m04kA/SMC-CalendarService/internal/usecase/slot_recurrence"
)

const (
	msgRecurrenceSet      = "Slot recurrence has been set."
	msgRecurrenceDisabled = "Slot recurrence has been disabled."
	msgRecurringUndone    = "Recurring slot has been removed."
	msgSeriesReverted     = "Slot series has been reverted."
	msgSeriesRestored     = "Slot series has been restored."
	msgSlotNotFound       = "Slot not found."
)

type Handler struct {
	useCase SlotRecurrenceUseCase
	logger  Logger
}

func NewHandler(useCase SlotRecurrenceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleSet POST /api/v1/slots/set-slot-recurrence
func (h *Handler) HandleSet(w http.ResponseWriter, r *http.Request) {
	const route = "POST /slots/set-slot-recurrence"

	slotID, ok := h.decode(w, r, route)
	if !ok {
		return
	}

	result, err := h.useCase.Set(r.Context(), slotID)
	if err != nil {
		h.respondError(w, route, slotID, err)
		return
	}

	h.logger.Info("%s - Recurrence set: slot_id=%s, rows=%d", route, slotID, len(result.Slots))
	handlers.RespondData(w, msgRecurrenceSet, FromSetResponse(result))
}

// HandleDisable POST /api/v1/slots/disable-slot-recurrence
func (h *Handler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	h.handleRemove(w, r, "POST /slots/disable-slot-recurrence", h.useCase.Disable, msgRecurrenceDisabled)
}

// HandleUndoAdd POST /api/v1/slots/undo-add-recurring-slot
func (h *Handler) HandleUndoAdd(w http.ResponseWriter, r *http.Request) {
	h.handleRemove(w, r, "POST /slots/undo-add-recurring-slot", h.useCase.UndoAdd, msgRecurringUndone)
}

// HandleRevert POST /api/v1/slots/revert-slot-series
func (h *Handler) HandleRevert(w http.ResponseWriter, r *http.Request) {
	const route = "POST /slots/revert-slot-series"

	var req RevertRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondBadRequest(w, handlers.FieldMessage(err))
		return
	}

	result, err := h.useCase.Revert(r.Context(), ucReq)
	if err != nil {
		h.respondError(w, route, uuid.Nil, err)
		return
	}

	h.logger.Info("%s - Series reverted: deleted=%d, unflagged=%d", route, len(result.Deleted), len(result.Unflagged))
	handlers.RespondData(w, msgSeriesReverted, FromRemoveResponse(result))
}

// HandleRestore POST /api/v1/slots/restore-slot-series
func (h *Handler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	const route = "POST /slots/restore-slot-series"

	var req RestoreRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondBadRequest(w, handlers.FieldMessage(err))
		return
	}

	result, err := h.useCase.Restore(r.Context(), ucReq)
	if err != nil {
		h.respondError(w, route, uuid.Nil, err)
		return
	}

	h.logger.Info("%s - Series restored: slots=%d, flagged=%d", route, len(result.Restored), len(result.Flagged))
	handlers.RespondData(w, msgSeriesRestored, FromRestoreResponse(result))
}

func (h *Handler) handleRemove(
	w http.ResponseWriter,
	r *http.Request,
	route string,
	remove func(ctx context.Context, slotID uuid.UUID) (*slotRecurrence.RemoveResponse, error),
	success string,
) {
	slotID, ok := h.decode(w, r, route)
	if !ok {
		return
	}

	result, err := remove(r.Context(), slotID)
	if err != nil {
		h.respondError(w, route, slotID, err)
		return
	}

	h.logger.Info("%s - Series removed: slot_id=%s, deleted=%d, detached=%d",
		route, slotID, len(result.Deleted), len(result.Detached))
	handlers.RespondData(w, success, FromRemoveResponse(result))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, route string) (uuid.UUID, bool) {
	var req SlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return uuid.Nil, false
	}

	slotID, err := req.ToSlotID()
	if err != nil {
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondBadRequest(w, handlers.FieldMessage(err))
		return uuid.Nil, false
	}
	return slotID, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, slotID uuid.UUID, err error) {
	switch {
	case errors.Is(err, slotRecurrence.ErrSlotNotFound):
		h.logger.Warn("%s - Slot not found: slot_id=%s", route, slotID)
		handlers.RespondFailure(w, msgSlotNotFound)
	case errors.Is(err, slotRecurrence.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
	default:
		h.logger.Error("%s - Failed: slot_id=%s, error=%v", route, slotID, err)
		handlers.RespondInternalError(w)
	}
}
