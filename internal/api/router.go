// Package api собирает HTTP-маршруты сервиса календаря
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	addSlotHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/add_slot"
	bookSessionHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/book_session"
	bulkSlotsHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/bulk_slots"
	deleteSessionHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/delete_session"
	feedHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/feed"
	getWeekSlotsHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/get_week_slots"
	recurringDayHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/recurring_day"
	slotRecurrenceHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/slot_recurrence"
	updateSessionHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/update_session"
	updateSlotTimeHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/update_slot_time"
	weekSessionsHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/week_sessions"
	"github.com/m04kA/SMC-CalendarService/internal/api/middleware"
)

// Handlers все обработчики API. Feed может быть nil, если лента выключена
type Handlers struct {
	GetWeekSlots   *getWeekSlotsHandler.Handler
	AddSlot        *addSlotHandler.Handler
	SlotRecurrence *slotRecurrenceHandler.Handler
	BulkSlots      *bulkSlotsHandler.Handler
	UpdateSlotTime *updateSlotTimeHandler.Handler
	RecurringDay   *recurringDayHandler.Handler
	WeekSessions   *weekSessionsHandler.Handler
	BookSession    *bookSessionHandler.Handler
	UpdateSession  *updateSessionHandler.Handler
	DeleteSession  *deleteSessionHandler.Handler
	Feed           *feedHandler.Handler
}

// MetricsExporter сборщик HTTP-метрик с обработчиком для Prometheus
type MetricsExporter interface {
	middleware.HTTPCollector
	Handler() http.Handler
}

// Options настройки роутера
type Options struct {
	Metrics     MetricsExporter // nil - метрики выключены
	MetricsPath string
	Logger      middleware.Logger
}

// NewRouter регистрирует маршруты /api/v1 и /metrics
func NewRouter(h Handlers, opts Options) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Recover(opts.Logger))
	r.Use(middleware.RequestLogger(opts.Logger))

	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.Metrics))

		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, opts.Metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Слоты ---
	slots := api.PathPrefix("/slots").Subrouter()
	slots.HandleFunc("/get-week-slots", h.GetWeekSlots.Handle).Methods(http.MethodPost)
	slots.HandleFunc("/add-slot", h.AddSlot.Handle).Methods(http.MethodPost)
	slots.HandleFunc("/add-recurring-slot", h.AddSlot.HandleRecurring).Methods(http.MethodPost)
	slots.HandleFunc("/undo-add-recurring-slot", h.SlotRecurrence.HandleUndoAdd).Methods(http.MethodPost)
	slots.HandleFunc("/add-slots", h.BulkSlots.HandleAdd).Methods(http.MethodPost)
	slots.HandleFunc("/delete-slots", h.BulkSlots.HandleDelete).Methods(http.MethodDelete)
	slots.HandleFunc("/update-slot-hour", h.UpdateSlotTime.HandleHour).Methods(http.MethodPut)
	slots.HandleFunc("/update-recurring-slot-hour", h.UpdateSlotTime.HandleRecurringHour).Methods(http.MethodPut)
	slots.HandleFunc("/update-slot-minutes", h.UpdateSlotTime.HandleMinutes).Methods(http.MethodPut)
	slots.HandleFunc("/update-recurring-slot-minutes", h.UpdateSlotTime.HandleRecurringMinutes).Methods(http.MethodPut)
	slots.HandleFunc("/duplicate-day", h.RecurringDay.HandleDuplicate).Methods(http.MethodPost)
	slots.HandleFunc("/set-slot-recurrence", h.SlotRecurrence.HandleSet).Methods(http.MethodPost)
	slots.HandleFunc("/disable-slot-recurrence", h.SlotRecurrence.HandleDisable).Methods(http.MethodPost)
	slots.HandleFunc("/revert-slot-series", h.SlotRecurrence.HandleRevert).Methods(http.MethodPost)
	slots.HandleFunc("/restore-slot-series", h.SlotRecurrence.HandleRestore).Methods(http.MethodPost)
	slots.HandleFunc("/set-recurring-day", h.RecurringDay.HandleSet).Methods(http.MethodPost)
	slots.HandleFunc("/disable-recurring-day", h.RecurringDay.HandleDisable).Methods(http.MethodPost)

	// --- Сессии ---
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.HandleFunc("/get-week-sessions", h.WeekSessions.Handle).Methods(http.MethodPost)
	sessions.HandleFunc("/export-week", h.WeekSessions.HandleExport).Methods(http.MethodGet)
	sessions.HandleFunc("/book-session", h.BookSession.Handle).Methods(http.MethodPost)
	sessions.HandleFunc("/update-session", h.UpdateSession.Handle).Methods(http.MethodPut)
	sessions.HandleFunc("/delete-session", h.DeleteSession.HandleDelete).Methods(http.MethodDelete)
	sessions.HandleFunc("/undo-delete-session", h.DeleteSession.HandleUndo).Methods(http.MethodPost)

	// --- Лента изменений ---
	if h.Feed != nil {
		api.HandleFunc("/feed", h.Feed.Handle).Methods(http.MethodGet)
	}

	return r
}
