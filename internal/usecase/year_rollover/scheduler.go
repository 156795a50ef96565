package year_rollover

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule 05:00 первого января
const DefaultSchedule = "0 5 1 1 *"

// ErrInvalidSchedule возвращается для некорректного cron-выражения
var ErrInvalidSchedule = errors.New("year rollover: invalid schedule")

// Scheduler запускает перенос серий по cron-расписанию
type Scheduler struct {
	cron    *cron.Cron
	job     cron.Job
	uc      *UseCase
	timeout time.Duration
	logger  Logger
}

// NewScheduler регистрирует задачу переноса с расписанием spec
func NewScheduler(spec string, uc *UseCase, logger Logger) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSchedule
	}

	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		uc:      uc,
		timeout: 30 * time.Minute,
		logger:  logger,
	}
	// Паника в задаче не должна останавливать процесс
	s.job = cron.NewChain(cron.Recover(cronLogger{logger: logger})).Then(cron.FuncJob(s.run))

	if _, err := s.cron.AddJob(spec, s.job); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, spec, err)
	}
	return s, nil
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	s.logger.Info("YearRollover: scheduler started")
	s.cron.Start()
}

// Stop останавливает планировщик и ждет завершения запущенной задачи
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("YearRollover: scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.uc.Execute(ctx, s.uc.CurrentYear()); err != nil {
		s.logger.Error("YearRollover: scheduled run failed: %v", err)
	}
}

// cronLogger адаптирует Logger к интерфейсу cron.Logger
type cronLogger struct {
	logger Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info("YearRollover: cron %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("YearRollover: cron %s: %v %v", msg, err, keysAndValues)
}
