package recurring_day

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

// UseCase управляет повторяющимися днями и копированием дней
type UseCase struct {
	slotRepo   SlotRepository
	dateRepo   RecurringDateRepository
	reconciler Reconciler
	txManager  TransactionManager
	logger     Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	dateRepo RecurringDateRepository,
	reconciler Reconciler,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:   slotRepo,
		dateRepo:   dateRepo,
		reconciler: reconciler,
		txManager:  txManager,
		logger:     logger,
	}
}

// Set отмечает день и все такие же дни недели до 31 декабря повторяющимися
// и копирует слоты дня на каждый последующий из них. Занятые моменты пропускаются.
func (uc *UseCase) Set(ctx context.Context, req *DayRequest) (*Response, error) {
	if err := validateDayRequest(req); err != nil {
		uc.logger.Warn("SetRecurringDay: validation failed: %v", err)
		return nil, err
	}

	day := domain.StartOfDay(req.Date.In(domain.Location))
	uc.logger.Info("SetRecurringDay: employee=%s, date=%s", req.EmployeeID, day.Format(domain.DateFormat))

	result := &Response{}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		series, err := recurrence.WeeklyOccurrences(day)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		result.Dates, err = uc.dateRepo.InsertMany(txCtx, req.EmployeeID, series)
		if err != nil {
			uc.logger.Error("SetRecurringDay: failed to insert recurring dates: %v", err)
			return fmt.Errorf("%w: failed to insert recurring dates: %v", ErrInternal, err)
		}

		source, err := uc.daySlots(txCtx, req.EmployeeID, day)
		if err != nil {
			return err
		}

		copies := recurrenceService.CopiesOnto(source, series[1:])
		result.Slots, err = uc.slotRepo.InsertMany(txCtx, copies, domain.ConflictSkip)
		if err != nil {
			uc.logger.Error("SetRecurringDay: failed to insert copies: %v", err)
			return fmt.Errorf("%w: failed to insert copies: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortSlots(result.Slots)
	uc.logger.Info("SetRecurringDay: %d date(s) marked, %d slot(s) copied", len(result.Dates), len(result.Slots))
	return result, nil
}

// Disable снимает отметку повторения с дня и всех последующих таких же дней
// недели, удаляя на последующих днях незабронированные копии слотов исходного дня
func (uc *UseCase) Disable(ctx context.Context, req *DayRequest) (*Response, error) {
	if err := validateDayRequest(req); err != nil {
		uc.logger.Warn("DisableRecurringDay: validation failed: %v", err)
		return nil, err
	}

	day := domain.StartOfDay(req.Date.In(domain.Location))
	uc.logger.Info("DisableRecurringDay: employee=%s, date=%s", req.EmployeeID, day.Format(domain.DateFormat))

	result := &Response{}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		series, err := recurrence.WeeklyOccurrences(day)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		result.Dates, err = uc.dateRepo.DeleteDates(txCtx, req.EmployeeID, series)
		if err != nil {
			uc.logger.Error("DisableRecurringDay: failed to delete recurring dates: %v", err)
			return fmt.Errorf("%w: failed to delete recurring dates: %v", ErrInternal, err)
		}
		if len(result.Dates) == 0 {
			uc.logger.Warn("DisableRecurringDay: %s is not recurring", day.Format(domain.DateFormat))
			return ErrNotRecurringDay
		}

		source, err := uc.daySlots(txCtx, req.EmployeeID, day)
		if err != nil {
			return err
		}

		instants := make([]time.Time, 0, len(source)*len(series))
		for _, s := range source {
			instants = append(instants, recurrence.ProjectTimeOfDay(series[1:], s.StartTime)...)
		}

		result.Slots, err = uc.slotRepo.DeleteAtInstants(txCtx, req.EmployeeID, instants, domain.SlotIDs(source))
		if err != nil {
			uc.logger.Error("DisableRecurringDay: failed to delete copies: %v", err)
			return fmt.Errorf("%w: failed to delete copies: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortSlots(result.Slots)
	uc.logger.Info("DisableRecurringDay: %d date(s) unmarked, %d slot(s) deleted", len(result.Dates), len(result.Slots))
	return result, nil
}

// Duplicate копирует слоты исходного дня на произвольные даты.
// Занятые моменты пропускаются, поэтому повторный вызов ничего не вставляет.
func (uc *UseCase) Duplicate(ctx context.Context, req *DuplicateRequest) (*Response, error) {
	if err := validateDuplicateRequest(req); err != nil {
		uc.logger.Warn("DuplicateDay: validation failed: %v", err)
		return nil, err
	}

	source := domain.StartOfDay(req.SourceDate.In(domain.Location))
	targets := make([]time.Time, 0, len(req.TargetDates))
	seen := make(map[time.Time]bool, len(req.TargetDates))
	for _, d := range req.TargetDates {
		day := domain.StartOfDay(d.In(domain.Location))
		if day.Equal(source) || seen[day] {
			continue
		}
		seen[day] = true
		targets = append(targets, day)
	}

	uc.logger.Info("DuplicateDay: employee=%s, source=%s, targets=%d",
		req.EmployeeID, source.Format(domain.DateFormat), len(targets))

	result := &Response{}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		slots, err := uc.daySlots(txCtx, req.EmployeeID, source)
		if err != nil {
			return err
		}
		if len(slots) == 0 {
			uc.logger.Warn("DuplicateDay: source day %s has no slots", source.Format(domain.DateFormat))
			return ErrEmptySourceDay
		}

		inserted, err := uc.slotRepo.InsertMany(txCtx, recurrenceService.CopiesOnto(slots, targets), domain.ConflictSkip)
		if err != nil {
			uc.logger.Error("DuplicateDay: failed to insert copies: %v", err)
			return fmt.Errorf("%w: failed to insert copies: %v", ErrInternal, err)
		}

		reconciled, err := uc.reconciler.SlotsAdded(txCtx, inserted)
		if err != nil {
			uc.logger.Error("DuplicateDay: failed to reconcile recurring days: %v", err)
			return fmt.Errorf("%w: failed to reconcile: %v", ErrInternal, err)
		}

		result.Slots = append(inserted, reconciled...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortSlots(result.Slots)
	uc.logger.Info("DuplicateDay: %d slot(s) inserted", len(result.Slots))
	return result, nil
}

func (uc *UseCase) daySlots(ctx context.Context, employeeID uuid.UUID, day time.Time) ([]*domain.Slot, error) {
	slots, err := uc.slotRepo.ListByRange(ctx, employeeID, day, day.AddDate(0, 0, 1))
	if err != nil {
		uc.logger.Error("failed to list slots of %s: %v", day.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to list day slots: %v", ErrInternal, err)
	}
	return slots, nil
}

func sortSlots(slots []*domain.Slot) {
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartTime.Before(slots[j].StartTime) })
}
