// Package recurrence согласует повторяющиеся дни (slots_recurring_dates)
// со слотами, добавленными или удалёнными в такие дни.
//
// Правило: строка slots_recurring_dates главнее своего дня. Слот, добавленный
// в повторяющийся день, копируется на все последующие повторяющиеся дни серии;
// удаление слота удаляет не забронированные слоты в то же время суток на этих днях.
// Изменение времени слота управляется только собственной серией слота.
package recurrence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/internal/recurrence"
)

// Reconciler выполняет согласование в транзакции, переданной через ctx
type Reconciler struct {
	slotRepo SlotRepository
	dateRepo RecurringDateRepository
	counter  RowCounter
	logger   Logger
}

// NewReconciler создает Reconciler. counter может быть nil
func NewReconciler(slotRepo SlotRepository, dateRepo RecurringDateRepository, counter RowCounter, logger Logger) *Reconciler {
	return &Reconciler{
		slotRepo: slotRepo,
		dateRepo: dateRepo,
		counter:  counter,
		logger:   logger,
	}
}

type dayKey struct {
	employeeID uuid.UUID
	day        time.Time
}

// SlotsAdded копирует добавленные слоты на последующие повторяющиеся дни.
// Возвращает реально вставленные копии.
func (r *Reconciler) SlotsAdded(ctx context.Context, added []*domain.Slot) ([]*domain.Slot, error) {
	var inserted []*domain.Slot

	for _, group := range groupByDay(added) {
		targets, err := r.followingRecurringDays(ctx, group.key)
		if err != nil {
			return nil, err
		}
		if len(targets) == 0 {
			continue
		}

		copies := CopiesOnto(group.slots, targets)
		if len(copies) == 0 {
			continue
		}

		rows, err := r.slotRepo.InsertMany(ctx, copies, domain.ConflictSkip)
		if err != nil {
			return nil, fmt.Errorf("%w: SlotsAdded - insert copies: %v", ErrInternal, err)
		}
		inserted = append(inserted, rows...)
	}

	if len(inserted) > 0 {
		r.logger.Info("Reconciler: copied %d slot(s) onto recurring days", len(inserted))
		r.count("reconcile_add", len(inserted))
	}
	return inserted, nil
}

// SlotsDeleted удаляет слоты в то же время суток на последующих повторяющихся днях.
// Забронированные слоты не удаляются.
func (r *Reconciler) SlotsDeleted(ctx context.Context, deleted []*domain.Slot) ([]*domain.Slot, error) {
	var removed []*domain.Slot

	for _, group := range groupByDay(deleted) {
		targets, err := r.followingRecurringDays(ctx, group.key)
		if err != nil {
			return nil, err
		}
		if len(targets) == 0 {
			continue
		}

		instants := make([]time.Time, 0, len(targets)*len(group.slots))
		for _, s := range group.slots {
			instants = append(instants, recurrence.ProjectTimeOfDay(targets, s.StartTime)...)
		}

		rows, err := r.slotRepo.DeleteAtInstants(ctx, group.key.employeeID, instants, domain.SlotIDs(deleted))
		if err != nil {
			return nil, fmt.Errorf("%w: SlotsDeleted - delete instances: %v", ErrInternal, err)
		}
		removed = append(removed, rows...)
	}

	if len(removed) > 0 {
		r.logger.Info("Reconciler: removed %d slot(s) from recurring days", len(removed))
		r.count("reconcile_delete", len(removed))
	}
	return removed, nil
}

// followingRecurringDays возвращает повторяющиеся дни серии после key.day,
// или nil, если сам key.day не повторяющийся
func (r *Reconciler) followingRecurringDays(ctx context.Context, key dayKey) ([]time.Time, error) {
	series, err := recurrence.WeeklyOccurrences(key.day)
	if err != nil {
		return nil, fmt.Errorf("%w: project series: %v", ErrInternal, err)
	}

	rows, err := r.dateRepo.ListByDates(ctx, key.employeeID, series)
	if err != nil {
		return nil, fmt.Errorf("%w: list recurring dates: %v", ErrInternal, err)
	}

	seedIsRecurring := false
	targets := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		day := domain.StartOfDay(row.Date)
		switch {
		case day.Equal(key.day):
			seedIsRecurring = true
		case day.After(key.day):
			targets = append(targets, day)
		}
	}

	if !seedIsRecurring {
		return nil, nil
	}
	return targets, nil
}

func (r *Reconciler) count(operation string, n int) {
	if r.counter != nil {
		r.counter.AddRecurrenceRows(operation, n)
	}
}

type dayGroup struct {
	key   dayKey
	slots []*domain.Slot
}

// groupByDay группирует слоты по сотруднику и дню, сохраняя порядок
func groupByDay(slots []*domain.Slot) []dayGroup {
	index := make(map[dayKey]int)
	var groups []dayGroup

	for _, s := range slots {
		key := dayKey{employeeID: s.EmployeeID, day: domain.StartOfDay(s.StartTime)}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, dayGroup{key: key})
		}
		groups[i].slots = append(groups[i].slots, s)
	}
	return groups
}

// CopiesOnto строит копии слотов на указанные даты: время суток, длительность
// и флаг recurring сохраняются, бронь не копируется (BOOKED становится AVAILABLE).
// Повторяющиеся моменты отбрасываются, первый выигрывает.
func CopiesOnto(source []*domain.Slot, dates []time.Time) []*domain.Slot {
	seen := make(map[int64]struct{})
	out := make([]*domain.Slot, 0, len(source)*len(dates))

	for _, date := range dates {
		for _, s := range source {
			start := recurrence.AtTimeOfDay(date, s.StartTime)
			if _, dup := seen[start.Unix()]; dup {
				continue
			}
			seen[start.Unix()] = struct{}{}

			slotType := s.Type
			if slotType == domain.SlotBooked {
				slotType = domain.SlotAvailable
			}

			out = append(out, &domain.Slot{
				EmployeeID: s.EmployeeID,
				Type:       slotType,
				StartTime:  start,
				Duration:   s.Duration,
				Recurring:  s.Recurring,
			})
		}
	}
	return out
}
