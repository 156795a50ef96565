package add_slot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	slotRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-CalendarService/internal/recurrence"
)

// UseCase use case для добавления слота в первое свободное время дня
type UseCase struct {
	slotRepo     SlotRepository
	reconciler   Reconciler
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	reconciler Reconciler,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		reconciler:   reconciler,
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

// Execute находит первое свободное время и создает слот.
// Для Recurring слот проецируется на все такие же дни недели до 31 декабря,
// существующие слоты в этих моментах помечаются повторяющимися, а не дублируются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AddSlot: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("AddSlot: employee=%s, day=%s, recurring=%t",
		req.EmployeeID, req.Day.Format(domain.DateFormat), req.Recurring)

	now := uc.timeProvider.Now()
	day := domain.StartOfDay(req.Day.In(domain.Location))

	var result *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Слоты дня под блокировкой
		existing, err := uc.slotRepo.ListByRange(txCtx, req.EmployeeID, day, day.AddDate(0, 0, 1))
		if err != nil {
			uc.logger.Error("AddSlot: failed to list day slots: %v", err)
			return fmt.Errorf("%w: failed to list day slots: %v", ErrInternal, err)
		}

		// 2. Первое свободное время
		start, err := recurrence.FirstFreeInstant(day, now, existing, domain.DefaultSlotDuration)
		if errors.Is(err, recurrence.ErrNoSlotAvailable) {
			uc.logger.Warn("AddSlot: no free time on %s", day.Format(domain.DateFormat))
			return ErrNoSlotAvailable
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		if req.Recurring {
			result, err = uc.addSeries(txCtx, req, start)
		} else {
			result, err = uc.addSingle(txCtx, req, start)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("AddSlot: created slot id=%s at %s, %d row(s) affected",
		result.Seed.ID, result.Seed.StartTime.Format(domain.TimestampFormat), len(result.Slots))
	return result, nil
}

func (uc *UseCase) addSingle(ctx context.Context, req *Request, start time.Time) (*Response, error) {
	created, err := uc.slotRepo.Insert(ctx, newSlot(req, start, false))
	if errors.Is(err, slotRepo.ErrSlotConflict) {
		return nil, ErrNoSlotAvailable
	}
	if err != nil {
		uc.logger.Error("AddSlot: failed to insert slot: %v", err)
		return nil, fmt.Errorf("%w: failed to insert slot: %v", ErrInternal, err)
	}

	copies, err := uc.reconciler.SlotsAdded(ctx, []*domain.Slot{created})
	if err != nil {
		uc.logger.Error("AddSlot: failed to reconcile recurring days: %v", err)
		return nil, fmt.Errorf("%w: failed to reconcile: %v", ErrInternal, err)
	}

	slots := append([]*domain.Slot{created}, copies...)
	return &Response{
		Seed:    created,
		Slots:   slots,
		Created: domain.SlotIDs(slots),
		Adopted: []uuid.UUID{},
	}, nil
}

func (uc *UseCase) addSeries(ctx context.Context, req *Request, start time.Time) (*Response, error) {
	occurrences, err := recurrence.WeeklyOccurrences(start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	series := make([]*domain.Slot, 0, len(occurrences))
	for _, t := range occurrences {
		series = append(series, newSlot(req, t, true))
	}

	prior, err := uc.slotRepo.ListAtInstants(ctx, req.EmployeeID, occurrences)
	if err != nil {
		uc.logger.Error("AddSlot: failed to list series instants: %v", err)
		return nil, fmt.Errorf("%w: failed to list series instants: %v", ErrInternal, err)
	}

	rows, err := uc.slotRepo.InsertMany(ctx, series, domain.ConflictAdopt)
	if err != nil {
		uc.logger.Error("AddSlot: failed to insert series: %v", err)
		return nil, fmt.Errorf("%w: failed to insert series: %v", ErrInternal, err)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].StartTime.Before(rows[j].StartTime) })

	var seed *domain.Slot
	for _, row := range rows {
		if row.StartTime.Equal(start) {
			seed = row
			break
		}
	}
	if seed == nil {
		return nil, fmt.Errorf("%w: seed slot missing from insert result", ErrInternal)
	}

	created, adopted := domain.SeriesChanges(prior, rows)
	return &Response{Seed: seed, Slots: rows, Created: created, Adopted: adopted}, nil
}

func newSlot(req *Request, start time.Time, recurring bool) *domain.Slot {
	return &domain.Slot{
		EmployeeID: req.EmployeeID,
		Type:       domain.SlotAvailable,
		StartTime:  start,
		Duration:   domain.DefaultSlotDuration,
		Recurring:  recurring,
	}
}
