package get_week_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	slotsService "github.com/m04kA/SMC-CalendarService/internal/service/slots"
)

const (
	msgSuccess          = "Week slots have been fetched."
	msgInvalidTimeRange = "Invalid week window: end must not precede start and the window must not exceed 7 days."
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

// Handle POST /api/v1/slots/get-week-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req GetWeekSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/get-week-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /slots/get-week-slots - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.FieldMessage(err))
		return
	}

	slots, err := h.service.GetWeekSlots(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, slotsService.ErrInvalidTimeRange):
			h.logger.Warn("POST /slots/get-week-slots - Invalid window: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)
		case errors.Is(err, slotsService.ErrInvalidInput):
			h.logger.Warn("POST /slots/get-week-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		default:
			h.logger.Error("POST /slots/get-week-slots - Failed to fetch slots: employee_id=%s, error=%v", req.EmployeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/get-week-slots - Fetched %d slot(s): employee_id=%s", len(slots), req.EmployeeID)
	handlers.RespondData(w, msgSuccess, handlers.FromDomainSlots(slots))
}
