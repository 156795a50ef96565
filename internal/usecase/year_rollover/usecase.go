package year_rollover

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/internal/recurrence"
	recurrenceService "github.com/m04kA/SMC-CalendarService/internal/service/recurrence"
)

const metricOperation = "rollover"

// UseCase продлевает недельные серии, дошедшие до 31 декабря, на следующий год
type UseCase struct {
	slotRepo     SlotRepository
	dateRepo     RecurringDateRepository
	counter      RowCounter
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	dateRepo RecurringDateRepository,
	counter RowCounter,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		dateRepo:     dateRepo,
		counter:      counter,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// CurrentYear год по часам use case
func (uc *UseCase) CurrentYear() int {
	return uc.timeProvider.Now().Year()
}

// Execute переносит на год year повторяющиеся слоты и дни из последней недели года year-1.
// Каждый сотрудник обрабатывается в своей транзакции; ошибка одного не откатывает других.
func (uc *UseCase) Execute(ctx context.Context, year int) (*Report, error) {
	if year < 1970 || year > 9999 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, domain.Location)
	yearEnd := domain.EndOfYear(yearStart)
	lastWeek := yearStart.AddDate(0, 0, -7)

	uc.logger.Info("YearRollover: year=%d, source window %s..%s",
		year, lastWeek.Format(domain.DateFormat), yearStart.AddDate(0, 0, -1).Format(domain.DateFormat))

	slots, err := uc.slotRepo.ListRecurringInRange(ctx, lastWeek, yearStart)
	if err != nil {
		uc.logger.Error("YearRollover: failed to list recurring slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list recurring slots: %v", ErrInternal, err)
	}

	dates, err := uc.dateRepo.ListInRange(ctx, lastWeek, yearStart.AddDate(0, 0, -1))
	if err != nil {
		uc.logger.Error("YearRollover: failed to list recurring dates: %v", err)
		return nil, fmt.Errorf("%w: failed to list recurring dates: %v", ErrInternal, err)
	}

	plans := groupByEmployee(slots, dates)
	report := &Report{Year: year, Failed: []uuid.UUID{}}

	for _, p := range plans {
		var slotRows, dateRows int

		err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			var err error
			slotRows, dateRows, err = uc.rollEmployee(txCtx, p, yearStart, yearEnd)
			return err
		})
		if err != nil {
			uc.logger.Error("YearRollover: employee=%s failed: %v", p.employeeID, err)
			report.Failed = append(report.Failed, p.employeeID)
			continue
		}

		report.Employees++
		report.Slots += slotRows
		report.Dates += dateRows
	}

	if uc.counter != nil {
		uc.counter.AddRecurrenceRows(metricOperation, report.Slots)
	}

	uc.logger.Info("YearRollover: year=%d, employees=%d, slots=%d, dates=%d, failed=%d",
		year, report.Employees, report.Slots, report.Dates, len(report.Failed))
	return report, nil
}

func (uc *UseCase) rollEmployee(ctx context.Context, p *plan, yearStart, yearEnd time.Time) (int, int, error) {
	// 1. Серии отдельных слотов: существующие слоты в тех же моментах становятся повторяющимися
	series := make([]*domain.Slot, 0)
	seen := make(map[int64]struct{})
	for _, s := range p.slots {
		instants, err := recurrence.WeeklyBetween(s.StartTime, yearStart, yearEnd)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		for _, t := range instants {
			if _, dup := seen[t.Unix()]; dup {
				continue
			}
			seen[t.Unix()] = struct{}{}
			series = append(series, &domain.Slot{
				EmployeeID: s.EmployeeID,
				Type:       domain.SlotAvailable,
				StartTime:  t,
				Duration:   s.Duration,
				Recurring:  true,
			})
		}
	}

	slotRows := 0
	if len(series) > 0 {
		rows, err := uc.slotRepo.InsertMany(ctx, series, domain.ConflictAdopt)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: failed to extend slot series: %v", ErrInternal, err)
		}
		slotRows += len(rows)
	}

	// 2. Повторяющиеся дни: отметки и копии слотов дня, занятые моменты пропускаются
	dateRows := 0
	for _, d := range p.dates {
		day := domain.StartOfDay(d.Date.In(domain.Location))
		targets, err := recurrence.WeeklyBetween(day, yearStart, yearEnd)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		if len(targets) == 0 {
			continue
		}

		inserted, err := uc.dateRepo.InsertMany(ctx, p.employeeID, targets)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: failed to extend recurring dates: %v", ErrInternal, err)
		}
		dateRows += len(inserted)

		source, err := uc.slotRepo.ListByRange(ctx, p.employeeID, day, day.AddDate(0, 0, 1))
		if err != nil {
			return 0, 0, fmt.Errorf("%w: failed to list source day: %v", ErrInternal, err)
		}
		if len(source) == 0 {
			continue
		}

		copies, err := uc.slotRepo.InsertMany(ctx, recurrenceService.CopiesOnto(source, targets), domain.ConflictSkip)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: failed to copy recurring day: %v", ErrInternal, err)
		}
		slotRows += len(copies)
	}

	return slotRows, dateRows, nil
}

type plan struct {
	employeeID uuid.UUID
	slots      []*domain.Slot
	dates      []*domain.RecurringDate
}

func groupByEmployee(slots []*domain.Slot, dates []*domain.RecurringDate) []*plan {
	byEmployee := make(map[uuid.UUID]*plan)
	get := func(id uuid.UUID) *plan {
		p, ok := byEmployee[id]
		if !ok {
			p = &plan{employeeID: id}
			byEmployee[id] = p
		}
		return p
	}

	for _, s := range slots {
		p := get(s.EmployeeID)
		p.slots = append(p.slots, s)
	}
	for _, d := range dates {
		p := get(d.EmployeeID)
		p.dates = append(p.dates, d)
	}

	out := make([]*plan, 0, len(byEmployee))
	for _, p := range byEmployee {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].employeeID.String() < out[j].employeeID.String() })
	return out
}
