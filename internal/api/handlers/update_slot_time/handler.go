package update_slot_time

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	updateSlotTime "github.com/m04kA/SMC-CalendarService/internal/usecase/update_slot_time"
)

const (
	msgHourUpdated             = "Slot hour has been updated."
	msgMinutesUpdated          = "Slot minutes have been updated."
	msgRecurringHourUpdated    = "Recurring slot hour has been updated."
	msgRecurringMinutesUpdated = "Recurring slot minutes have been updated."
	msgSlotTimeTaken           = "Slot time is already taken."
	msgSlotNotFound            = "Slot not found."
)

type Handler struct {
	useCase UpdateSlotTimeUseCase
	logger  Logger
}

func NewHandler(useCase UpdateSlotTimeUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleHour PUT /api/v1/slots/update-slot-hour
func (h *Handler) HandleHour(w http.ResponseWriter, r *http.Request) {
	h.handleHour(w, r, "PUT /slots/update-slot-hour", false, msgHourUpdated)
}

// HandleRecurringHour PUT /api/v1/slots/update-recurring-slot-hour
func (h *Handler) HandleRecurringHour(w http.ResponseWriter, r *http.Request) {
	h.handleHour(w, r, "PUT /slots/update-recurring-slot-hour", true, msgRecurringHourUpdated)
}

// HandleMinutes PUT /api/v1/slots/update-slot-minutes
func (h *Handler) HandleMinutes(w http.ResponseWriter, r *http.Request) {
	h.handleMinutes(w, r, "PUT /slots/update-slot-minutes", false, msgMinutesUpdated)
}

// HandleRecurringMinutes PUT /api/v1/slots/update-recurring-slot-minutes
func (h *Handler) HandleRecurringMinutes(w http.ResponseWriter, r *http.Request) {
	h.handleMinutes(w, r, "PUT /slots/update-recurring-slot-minutes", true, msgRecurringMinutesUpdated)
}

func (h *Handler) handleHour(w http.ResponseWriter, r *http.Request, route string, recurring bool, success string) {
	var req UpdateHourRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(recurring)
	if err != nil {
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondBadRequest(w, handlers.FieldMessage(err))
		return
	}

	h.execute(w, r, route, useCaseReq, success)
}

func (h *Handler) handleMinutes(w http.ResponseWriter, r *http.Request, route string, recurring bool, success string) {
	var req UpdateMinutesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(recurring)
	if err != nil {
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondBadRequest(w, handlers.FieldMessage(err))
		return
	}

	h.execute(w, r, route, useCaseReq, success)
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request, route string, req *updateSlotTime.Request, success string) {
	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, updateSlotTime.ErrSlotTimeTaken):
			h.logger.Warn("%s - Slot time taken: slot_id=%s, %s=%d", route, req.SlotID, req.Field, req.Value)
			handlers.RespondFailure(w, msgSlotTimeTaken)
		case errors.Is(err, updateSlotTime.ErrSlotNotFound):
			h.logger.Warn("%s - Slot not found: slot_id=%s", route, req.SlotID)
			handlers.RespondFailure(w, msgSlotNotFound)
		case errors.Is(err, updateSlotTime.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		default:
			h.logger.Error("%s - Failed to update slot time: slot_id=%s, error=%v", route, req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Slot time updated: slot_id=%s, moved=%d, skipped=%d",
		route, req.SlotID, len(result.Slots), len(result.Skipped))
	handlers.RespondData(w, success, FromUseCaseResponse(result))
}
