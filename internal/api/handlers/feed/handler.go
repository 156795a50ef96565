package feed

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarService/internal/infra/changefeed"
)

const (
	msgFeedUnavailable = "Change feed is unavailable."
	defaultHeartbeat   = 25 * time.Second
)

type Handler struct {
	subscriber Subscriber
	heartbeat  time.Duration
	logger     Logger
}

func NewHandler(subscriber Subscriber, logger Logger) *Handler {
	return &Handler{
		subscriber: subscriber,
		heartbeat:  defaultHeartbeat,
		logger:     logger,
	}
}

// WithHeartbeat задает интервал комментариев-пингов
func (h *Handler) WithHeartbeat(d time.Duration) *Handler {
	h.heartbeat = d
	return h
}

// Handle GET /api/v1/feed[?employeeId=...]
// Отдает ленту изменений как Server-Sent Events: event = топик, data = событие.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var employeeID uuid.UUID
	if raw := r.URL.Query().Get("employeeId"); raw != "" {
		id, err := handlers.ParseUUID("employeeId", raw)
		if err != nil {
			h.logger.Warn("GET /feed - Validation failed: %v", err)
			handlers.RespondBadRequest(w, handlers.FieldMessage(err))
			return
		}
		employeeID = id
	}

	sub, err := h.subscriber.Subscribe(r.Context())
	if err != nil {
		h.logger.Error("GET /feed - Failed to subscribe: %v", err)
		handlers.RespondError(w, http.StatusServiceUnavailable, msgFeedUnavailable)
		return
	}
	defer sub.Close()

	rc := http.NewResponseController(w)
	// Поток живет дольше WriteTimeout сервера
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger.Error("GET /feed - Streaming is not supported: %v", err)
		return
	}

	h.logger.Info("GET /feed - Client subscribed: employee_id=%s", employeeID)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	errs := sub.Errors()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Info("GET /feed - Client disconnected: employee_id=%s", employeeID)
			return

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			h.logger.Warn("GET /feed - Dropped malformed event: %v", err)

		case ev, ok := <-sub.Events():
			if !ok {
				h.logger.Warn("GET /feed - Subscription closed: employee_id=%s", employeeID)
				return
			}
			if !matches(ev, employeeID) {
				continue
			}
			if err := writeEvent(w, ev); err != nil {
				h.logger.Warn("GET /feed - Failed to write event: %v", err)
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func matches(ev changefeed.Event, employeeID uuid.UUID) bool {
	if employeeID == uuid.Nil {
		return true
	}
	ref, err := ev.Ref()
	if err != nil {
		return false
	}
	return ref.EmployeeID == employeeID
}

func writeEvent(w http.ResponseWriter, ev changefeed.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Topic, payload)
	return err
}
