package book_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	bookSession "github.com/m04kA/SMC-CalendarService/internal/usecase/book_session"
)

const (
	msgSessionBooked    = "Session has been booked."
	msgSlotNotAvailable = "Slot is not available."
	msgSlotNotFound     = "Slot not found."
	msgCustomerNotFound = "Customer not found."
)

type Handler struct {
	useCase BookSessionUseCase
	logger  Logger
}

func NewHandler(useCase BookSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/book-session
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req BookSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/book-session - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /sessions/book-session - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.FieldMessage(err))
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, bookSession.ErrSlotNotAvailable):
			h.logger.Warn("POST /sessions/book-session - Slot not available: slot_id=%s", req.SlotID)
			handlers.RespondFailure(w, msgSlotNotAvailable)
		case errors.Is(err, bookSession.ErrSlotNotFound):
			h.logger.Warn("POST /sessions/book-session - Slot not found: slot_id=%s", req.SlotID)
			handlers.RespondFailure(w, msgSlotNotFound)
		case errors.Is(err, bookSession.ErrCustomerNotFound):
			h.logger.Warn("POST /sessions/book-session - Customer not found: customer_id=%s", req.CustomerID)
			handlers.RespondFailure(w, msgCustomerNotFound)
		case errors.Is(err, bookSession.ErrInvalidInput):
			h.logger.Warn("POST /sessions/book-session - Invalid input: %v", err)
			handlers.RespondBadRequest(w, handlers.MsgInvalidRequestBody)
		default:
			h.logger.Error("POST /sessions/book-session - Failed to book session: slot_id=%s, error=%v", req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions/book-session - Session booked: session_id=%s, slot_id=%s", result.Session.ID, req.SlotID)
	handlers.RespondData(w, msgSessionBooked, FromUseCaseResponse(result))
}
