package week_sessions

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/domain"
	sessionsService "github.com/m04kA/SMC-CalendarService/internal/service/sessions"
)

const (
	msgSuccess          = "Week sessions have been fetched."
	msgInvalidTimeRange = "Invalid week window: end must not precede start and the window must not exceed 7 days."
)

type Handler struct {
	service SessionService
	logger  Logger
}

func NewHandler(service SessionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/get-week-sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req GetWeekSessionsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/get-week-sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /sessions/get-week-sessions - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.FieldMessage(err))
		return
	}

	sessions, err := h.service.GetWeekSessions(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, sessionsService.ErrInvalidTimeRange):
			h.logger.Warn("POST /sessions/get-week-sessions - Invalid window: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)
		case errors.Is(err, sessionsService.ErrInvalidInput):
			h.logger.Warn("POST /sessions/get-week-sessions - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		default:
			h.logger.Error("POST /sessions/get-week-sessions - Failed to fetch sessions: employee_id=%s, error=%v", req.EmployeeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions/get-week-sessions - Fetched %d session(s): employee_id=%s", len(sessions), req.EmployeeID)
	handlers.RespondData(w, msgSuccess, handlers.FromDomainSessions(sessions))
}

// HandleExport GET /api/v1/sessions/export-week?employeeId=...&start=YYYY-MM-DD
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req, err := exportRequest(query.Get("employeeId"), query.Get("start"))
	if err != nil {
		h.logger.Warn("GET /sessions/export-week - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.FieldMessage(err))
		return
	}

	body, err := h.service.ExportWeek(r.Context(), req)
	if err != nil {
		if errors.Is(err, sessionsService.ErrInvalidInput) {
			h.logger.Warn("GET /sessions/export-week - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
			return
		}
		h.logger.Error("GET /sessions/export-week - Failed to export week: employee_id=%s, error=%v", req.EmployeeID, err)
		handlers.RespondInternalError(w)
		return
	}

	filename := fmt.Sprintf("sessions-%s.ics", req.Week().Start.Format(domain.DateFormat))
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))

	h.logger.Info("GET /sessions/export-week - Exported week %s: employee_id=%s", filename, req.EmployeeID)
}
