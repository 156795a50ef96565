package bulk_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	slotsService "github.com/m04kA/SMC-CalendarService/internal/service/slots"
)

const (
	msgSlotsRestored   = "Slots have been restored."
	msgSlotsDeleted    = "Slots have been deleted."
	msgNothingDeleted  = "No slots were deleted."
	msgBookedNotAccept = "Booked slots cannot be restored; restore the session instead."
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleAdd POST /api/v1/slots/add-slots
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req AddSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/add-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	slots, err := req.ToDomainSlots()
	if err != nil {
		h.logger.Warn("POST /slots/add-slots - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.FieldMessage(err))
		return
	}

	result, err := h.service.AddSlots(r.Context(), slots)
	if err != nil {
		switch {
		case errors.Is(err, slotsService.ErrInvalidInput):
			h.logger.Warn("POST /slots/add-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgBookedNotAccept)
		default:
			h.logger.Error("POST /slots/add-slots - Failed to restore slots: count=%d, error=%v", len(slots), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/add-slots - Restored %d slot(s)", len(result.Inserted))
	handlers.RespondData(w, msgSlotsRestored, FromAddResponse(result))
}

// HandleDelete DELETE /api/v1/slots/delete-slots
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var req DeleteSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("DELETE /slots/delete-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	ids, err := req.ToSlotIDs()
	if err != nil {
		h.logger.Warn("DELETE /slots/delete-slots - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.FieldMessage(err))
		return
	}

	result, err := h.service.DeleteSlots(r.Context(), ids)
	if err != nil {
		switch {
		case errors.Is(err, slotsService.ErrNothingDeleted):
			h.logger.Warn("DELETE /slots/delete-slots - Nothing deleted: count=%d", len(ids))
			handlers.RespondFailure(w, msgNothingDeleted)
		case errors.Is(err, slotsService.ErrInvalidInput):
			h.logger.Warn("DELETE /slots/delete-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		default:
			h.logger.Error("DELETE /slots/delete-slots - Failed to delete slots: count=%d, error=%v", len(ids), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /slots/delete-slots - Deleted %d slot(s)", len(result.Deleted))
	handlers.RespondData(w, msgSlotsDeleted, FromDeleteResponse(result))
}
