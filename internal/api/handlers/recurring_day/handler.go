package recurring_day

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	recurringDay "github.com/m04kA/SMC-CalendarService/internal/usecase/recurring_day"
)

const (
	msgRecurringDaySet      = "Recurring day has been set."
	msgRecurringDayDisabled = "Recurring day has been disabled."
	msgDayDuplicated        = "Day has been duplicated."
	msgNotRecurringDay      = "Day is not recurring."
	msgEmptySourceDay       = "Source day has no slots."
)

type Handler struct {
	useCase RecurringDayUseCase
	logger  Logger
}

func NewHandler(useCase RecurringDayUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleSet POST /api/v1/slots/set-recurring-day
func (h *Handler) HandleSet(w http.ResponseWriter, r *http.Request) {
	h.handleDay(w, r, "POST /slots/set-recurring-day", h.useCase.Set, msgRecurringDaySet)
}

// HandleDisable POST /api/v1/slots/disable-recurring-day
func (h *Handler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	h.handleDay(w, r, "POST /slots/disable-recurring-day", h.useCase.Disable, msgRecurringDayDisabled)
}

// HandleDuplicate POST /api/v1/slots/duplicate-day
func (h *Handler) HandleDuplicate(w http.ResponseWriter, r *http.Request) {
	const route = "POST /slots/duplicate-day"

	var req DuplicateDayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondBadRequest(w, handlers.FieldMessage(err))
		return
	}

	result, err := h.useCase.Duplicate(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, route, req.EmployeeID, err)
		return
	}

	h.logger.Info("%s - Day duplicated: employee_id=%s, source=%s, targets=%d, slots=%d",
		route, req.EmployeeID, req.SourceDate, len(req.TargetDates), len(result.Slots))
	handlers.RespondData(w, msgDayDuplicated, FromUseCaseResponse(result))
}

func (h *Handler) handleDay(
	w http.ResponseWriter,
	r *http.Request,
	route string,
	run func(ctx context.Context, req *recurringDay.DayRequest) (*recurringDay.Response, error),
	success string,
) {
	var req DayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("%s - Validation failed: %v", route, err)
		handlers.RespondBadRequest(w, handlers.FieldMessage(err))
		return
	}

	result, err := run(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, route, req.EmployeeID, err)
		return
	}

	h.logger.Info("%s - Done: employee_id=%s, date=%s, dates=%d, slots=%d",
		route, req.EmployeeID, req.Date, len(result.Dates), len(result.Slots))
	handlers.RespondData(w, success, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, route, employeeID string, err error) {
	switch {
	case errors.Is(err, recurringDay.ErrNotRecurringDay):
		h.logger.Warn("%s - Day is not recurring: employee_id=%s", route, employeeID)
		handlers.RespondFailure(w, msgNotRecurringDay)
	case errors.Is(err, recurringDay.ErrEmptySourceDay):
		h.logger.Warn("%s - Source day is empty: employee_id=%s", route, employeeID)
		handlers.RespondFailure(w, msgEmptySourceDay)
	case errors.Is(err, recurringDay.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
	default:
		h.logger.Error("%s - Failed: employee_id=%s, error=%v", route, employeeID, err)
		handlers.RespondInternalError(w)
	}
}
