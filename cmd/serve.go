package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-CalendarService/internal/api"
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
	"github.com/m04kA/SMC-CalendarService/internal/infra/changefeed"
	"github.com/m04kA/SMC-CalendarService/internal/infra/migrations"
	recurringDateRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/recurringdate"
	sessionRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/session"
	slotRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/slot"
	recurrenceService "github.com/m04kA/SMC-CalendarService/internal/service/recurrence"
	sessionsService "github.com/m04kA/SMC-CalendarService/internal/service/sessions"
	slotsService "github.com/m04kA/SMC-CalendarService/internal/service/slots"
	addSlotUC "github.com/m04kA/SMC-CalendarService/internal/usecase/add_slot"
	bookSessionUC "github.com/m04kA/SMC-CalendarService/internal/usecase/book_session"
	deleteSessionUC "github.com/m04kA/SMC-CalendarService/internal/usecase/delete_session"
	recurringDayUC "github.com/m04kA/SMC-CalendarService/internal/usecase/recurring_day"
	slotRecurrenceUC "github.com/m04kA/SMC-CalendarService/internal/usecase/slot_recurrence"
	updateSessionUC "github.com/m04kA/SMC-CalendarService/internal/usecase/update_session"
	updateSlotTimeUC "github.com/m04kA/SMC-CalendarService/internal/usecase/update_slot_time"
	"github.com/m04kA/SMC-CalendarService/internal/usecase/year_rollover"
)

var serveMigrate = true

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API, ленту изменений и годовой перенос серий",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), serveMigrate)
		},
	}
	cmd.Flags().BoolVar(&serveMigrate, "migrate", true, "apply pending migrations before start")
	return cmd
}

func runServe(ctx context.Context, migrate bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, log := a.cfg, a.log
	log.Info("Starting SMC-CalendarService...")

	if migrate {
		applied, err := migrations.NewRunner(a.db, log).Run(ctx)
		if err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		log.Info("Migrations applied: %d", applied)
	}

	// Репозитории
	slots := slotRepo.NewRepository(a.wrapped)
	sessions := sessionRepo.NewRepository(a.wrapped)
	dates := recurringDateRepo.NewRepository(a.wrapped)

	// Сервисы и use cases
	reconciler := recurrenceService.NewReconciler(slots, dates, a.rowCounter(), log)
	slotSvc := slotsService.NewService(slots, reconciler, a.tx, log)
	sessionSvc := sessionsService.NewService(sessions, slots, log)

	handlers := api.Handlers{
		GetWeekSlots:   getWeekSlotsHandler.NewHandler(slotSvc, log),
		AddSlot:        addSlotHandler.NewHandler(addSlotUC.NewUseCase(slots, reconciler, a.tx, log), log),
		SlotRecurrence: slotRecurrenceHandler.NewHandler(slotRecurrenceUC.NewUseCase(slots, a.tx, log), log),
		BulkSlots:      bulkSlotsHandler.NewHandler(slotSvc, log),
		UpdateSlotTime: updateSlotTimeHandler.NewHandler(updateSlotTimeUC.NewUseCase(slots, sessions, a.tx, log), log),
		RecurringDay:   recurringDayHandler.NewHandler(recurringDayUC.NewUseCase(slots, dates, reconciler, a.tx, log), log),
		WeekSessions:   weekSessionsHandler.NewHandler(sessionSvc, log),
		BookSession:    bookSessionHandler.NewHandler(bookSessionUC.NewUseCase(slots, sessions, a.tx, log), log),
		UpdateSession:  updateSessionHandler.NewHandler(updateSessionUC.NewUseCase(slots, sessions, a.tx, log), log),
		DeleteSession:  deleteSessionHandler.NewHandler(deleteSessionUC.NewUseCase(slots, sessions, a.tx, log), log),
	}

	// Лента изменений: pg_notify -> Redis -> SSE
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			log.Warn("Redis unavailable at %s, change feed disabled: %v", cfg.Redis.Addr, err)
			rdb = nil
		}
	}

	if rdb != nil && cfg.Calendar.FeedEnabled {
		broker := changefeed.NewRedisBroker(rdb, cfg.Redis.Prefix)
		handlers.Feed = feedHandler.NewHandler(broker, log)

		var counter changefeed.EventCounter
		if a.metrics != nil {
			counter = a.metrics
		}
		listener := changefeed.NewListener(cfg.Database.DSN(), broker, counter, log)
		go func() {
			if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error("Change feed listener stopped: %v", err)
			}
		}()
		log.Info("Change feed enabled (prefix=%s)", cfg.Redis.Prefix)
	}

	// Годовой перенос серий
	var scheduler *year_rollover.Scheduler
	if cfg.Calendar.RolloverEnabled {
		scheduler, err = year_rollover.NewScheduler(cfg.Calendar.RolloverSchedule, a.rolloverUseCase(), log)
		if err != nil {
			return fmt.Errorf("failed to create rollover scheduler: %w", err)
		}
		scheduler.Start()
		log.Info("Year rollover scheduled (%s)", cfg.Calendar.RolloverSchedule)
	}

	opts := api.Options{MetricsPath: cfg.Metrics.Path, Logger: log}
	if a.metrics != nil {
		opts.Metrics = a.metrics
	}
	router := api.NewRouter(handlers, opts)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server listening on port %d", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		log.Info("Received signal %s, shutting down...", sig)
	case err := <-serverErr:
		log.Error("Server failed: %v", err)
		return err
	}

	// Останавливаем слушателя ленты до закрытия соединений
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			log.Warn("Rollover scheduler did not stop in time: %v", err)
		}
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		return err
	}

	log.Info("Server exited gracefully")
	return nil
}
