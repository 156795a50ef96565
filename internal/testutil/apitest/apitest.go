// Package apitest собирает полный HTTP стек сервиса поверх memstore для тестов
package apitest

import (
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/api"
	addSlotHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/add_slot"
	bookSessionHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/book_session"
	bulkSlotsHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/bulk_slots"
	deleteSessionHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/delete_session"
	getWeekSlotsHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/get_week_slots"
	recurringDayHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/recurring_day"
	slotRecurrenceHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/slot_recurrence"
	updateSessionHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/update_session"
	updateSlotTimeHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/update_slot_time"
	weekSessionsHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/week_sessions"
	recurrenceService "github.com/m04kA/SMC-CalendarService/internal/service/recurrence"
	sessionsService "github.com/m04kA/SMC-CalendarService/internal/service/sessions"
	slotsService "github.com/m04kA/SMC-CalendarService/internal/service/slots"
	"github.com/m04kA/SMC-CalendarService/internal/testutil/memstore"
	addSlotUC "github.com/m04kA/SMC-CalendarService/internal/usecase/add_slot"
	bookSessionUC "github.com/m04kA/SMC-CalendarService/internal/usecase/book_session"
	deleteSessionUC "github.com/m04kA/SMC-CalendarService/internal/usecase/delete_session"
	recurringDayUC "github.com/m04kA/SMC-CalendarService/internal/usecase/recurring_day"
	slotRecurrenceUC "github.com/m04kA/SMC-CalendarService/internal/usecase/slot_recurrence"
	updateSessionUC "github.com/m04kA/SMC-CalendarService/internal/usecase/update_session"
	updateSlotTimeUC "github.com/m04kA/SMC-CalendarService/internal/usecase/update_slot_time"
	"github.com/m04kA/SMC-CalendarService/pkg/logger"
	"github.com/m04kA/SMC-CalendarService/pkg/metrics"
)

// Options настройки тестового стека
type Options struct {
	// Now фиксирует время для add-slot; nil - системное время
	Now func() time.Time
}

type fixedTime struct {
	now func() time.Time
}

func (f fixedTime) Now() time.Time { return f.now() }

// NewRouter роутер /api/v1 с реальными use case и сервисами поверх store
func NewRouter(store *memstore.Store, opts Options) http.Handler {
	log := logger.NewWriter(io.Discard, "error")
	slots, sessions, dates, tx := store.Slots(), store.Sessions(), store.Dates(), store.TxManager()
	reconciler := recurrenceService.NewReconciler(slots, dates, nil, log)
	slotService := slotsService.NewService(slots, reconciler, tx, log)

	addSlot := addSlotUC.NewUseCase(slots, reconciler, tx, log)
	if opts.Now != nil {
		addSlot = addSlot.WithTimeProvider(fixedTime{now: opts.Now})
	}

	h := api.Handlers{
		GetWeekSlots:   getWeekSlotsHandler.NewHandler(slotService, log),
		AddSlot:        addSlotHandler.NewHandler(addSlot, log),
		SlotRecurrence: slotRecurrenceHandler.NewHandler(slotRecurrenceUC.NewUseCase(slots, tx, log), log),
		BulkSlots:      bulkSlotsHandler.NewHandler(slotService, log),
		UpdateSlotTime: updateSlotTimeHandler.NewHandler(updateSlotTimeUC.NewUseCase(slots, sessions, tx, log), log),
		RecurringDay:   recurringDayHandler.NewHandler(recurringDayUC.NewUseCase(slots, dates, reconciler, tx, log), log),
		WeekSessions:   weekSessionsHandler.NewHandler(sessionsService.NewService(sessions, slots, log), log),
		BookSession:    bookSessionHandler.NewHandler(bookSessionUC.NewUseCase(slots, sessions, tx, log), log),
		UpdateSession:  updateSessionHandler.NewHandler(updateSessionUC.NewUseCase(slots, sessions, tx, log), log),
		DeleteSession:  deleteSessionHandler.NewHandler(deleteSessionUC.NewUseCase(slots, sessions, tx, log), log),
	}

	return api.NewRouter(h, api.Options{Metrics: metrics.New("calendar_test"), Logger: log})
}
