package add_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	addSlot "github.com/m04kA/SMC-CalendarService/internal/usecase/add_slot"
)

const (
	msgSlotAdded          = "Slot has been added."
	msgRecurringSlotAdded = "Recurring slot has been added."
	msgNoSlotAvailable    = "No slot available."
)

type Handler struct {
	useCase AddSlotUseCase
	logger  Logger
}

func NewHandler(useCase AddSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/add-slot
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "POST /slots/add-slot", false, msgSlotAdded)
}

// HandleRecurring POST /api/v1/slots/add-recurring-slot
func (h *Handler) HandleRecurring(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "POST /slots/add-recurring-slot", true, msgRecurringSlotAdded)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, route string, recurring bool, success string) {
	var req AddSlotRequest
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

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, addSlot.ErrNoSlotAvailable):
			h.logger.Warn("%s - No slot available: employee_id=%s, day=%s", route, req.EmployeeID, req.Day)
			handlers.RespondFailure(w, msgNoSlotAvailable)
		case errors.Is(err, addSlot.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		default:
			h.logger.Error("%s - Failed to add slot: employee_id=%s, day=%s, error=%v", route, req.EmployeeID, req.Day, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Slot added: slot_id=%s, rows=%d", route, result.Seed.ID, len(result.Slots))
	handlers.RespondData(w, success, FromUseCaseResponse(result))
}
