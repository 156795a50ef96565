package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-CalendarService/internal/config"
	recurringDateRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/recurringdate"
	slotRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/slot"
	recurrenceService "github.com/m04kA/SMC-CalendarService/internal/service/recurrence"
	"github.com/m04kA/SMC-CalendarService/internal/usecase/year_rollover"
	"github.com/m04kA/SMC-CalendarService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CalendarService/pkg/logger"
	"github.com/m04kA/SMC-CalendarService/pkg/metrics"
	"github.com/m04kA/SMC-CalendarService/pkg/txmanager"
)

// app общие зависимости всех подкоманд
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics // nil, если метрики выключены
	db      *sql.DB
	wrapped *dbmetrics.DB
	tx      *txmanager.TransactionManager
	stopCh  chan struct{}
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Info("Configuration loaded from %s", configPath)

	a := &app{cfg: cfg, log: log, stopCh: make(chan struct{})}

	if cfg.Metrics.Enabled {
		a.metrics = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		log.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	a.db = db
	if a.metrics != nil {
		a.wrapped = dbmetrics.WrapWithDefault(db, a.metrics, a.stopCh)
		log.Info("Database metrics collection started")
	} else {
		a.wrapped = dbmetrics.Wrap(db, nil)
	}
	a.tx = txmanager.NewTransactionManager(a.wrapped)

	return a, nil
}

// rowCounter счетчик строк проекции; nil-интерфейс при выключенных метриках
func (a *app) rowCounter() recurrenceService.RowCounter {
	if a.metrics == nil {
		return nil
	}
	return a.metrics
}

func (a *app) rolloverUseCase() *year_rollover.UseCase {
	var counter year_rollover.RowCounter
	if a.metrics != nil {
		counter = a.metrics
	}
	return year_rollover.NewUseCase(
		slotRepo.NewRepository(a.wrapped),
		recurringDateRepo.NewRepository(a.wrapped),
		counter,
		a.tx,
		a.log,
	)
}

func (a *app) Close() {
	close(a.stopCh)
	if err := a.db.Close(); err != nil {
		a.log.Error("Failed to close database: %v", err)
	}
	a.log.Close()
}
