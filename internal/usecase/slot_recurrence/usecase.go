package slot_recurrence

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

// UseCase управляет повторением отдельного слота
type UseCase struct {
	slotRepo  SlotRepository
	txManager TransactionManager
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, txManager TransactionManager, logger Logger) *UseCase {
	return &UseCase{
		slotRepo:  slotRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// Set помечает слот повторяющимся и проецирует его время суток на все
// последующие такие же дни недели до 31 декабря. Существующие слоты
// в этих моментах принимаются в серию.
func (uc *UseCase) Set(ctx context.Context, slotID uuid.UUID) (*SetResponse, error) {
	if slotID == uuid.Nil {
		return nil, fmt.Errorf("%w: slotId is required", ErrInvalidInput)
	}
	uc.logger.Info("SetSlotRecurrence: slot=%s", slotID)

	var result *SetResponse

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		seed, err := uc.loadSeed(txCtx, "SetSlotRecurrence", slotID)
		if err != nil {
			return err
		}

		following, err := recurrence.FollowingOccurrences(seed.StartTime)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		prior, err := uc.slotRepo.ListAtInstants(txCtx, seed.EmployeeID, following)
		if err != nil {
			uc.logger.Error("SetSlotRecurrence: failed to list series instants: %v", err)
			return fmt.Errorf("%w: failed to list series instants: %v", ErrInternal, err)
		}

		updated, err := uc.slotRepo.SetRecurring(txCtx, []uuid.UUID{seed.ID}, true)
		if err != nil {
			uc.logger.Error("SetSlotRecurrence: failed to mark seed: %v", err)
			return fmt.Errorf("%w: failed to mark seed: %v", ErrInternal, err)
		}
		if len(updated) == 0 {
			uc.logger.Warn("SetSlotRecurrence: slot id=%s disappeared before update", slotID)
			return ErrSlotNotFound
		}

		instances := make([]*domain.Slot, 0, len(following))
		for _, t := range following {
			instances = append(instances, &domain.Slot{
				EmployeeID: seed.EmployeeID,
				Type:       projectedType(seed.Type),
				StartTime:  t,
				Duration:   seed.Duration,
				Recurring:  true,
			})
		}

		rows, err := uc.slotRepo.InsertMany(txCtx, instances, domain.ConflictAdopt)
		if err != nil {
			uc.logger.Error("SetSlotRecurrence: failed to insert series: %v", err)
			return fmt.Errorf("%w: failed to insert series: %v", ErrInternal, err)
		}

		created, adopted := domain.SeriesChanges(prior, rows)
		if !seed.Recurring {
			adopted = append([]uuid.UUID{seed.ID}, adopted...)
		}

		slots := append([]*domain.Slot{updated[0]}, rows...)
		sortSlots(slots)
		result = &SetResponse{Seed: updated[0], Slots: slots, Created: created, Adopted: adopted}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("SetSlotRecurrence: slot=%s series of %d slot(s)", slotID, len(result.Slots))
	return result, nil
}

// Disable снимает флаг повторения с исходного слота (слот остаётся) и удаляет
// слоты в то же время суток на последующих таких же днях недели до конца года
func (uc *UseCase) Disable(ctx context.Context, slotID uuid.UUID) (*RemoveResponse, error) {
	return uc.remove(ctx, "DisableSlotRecurrence", slotID, false)
}

// UndoAdd удаляет исходный слот вместе со всеми последующими экземплярами
func (uc *UseCase) UndoAdd(ctx context.Context, slotID uuid.UUID) (*RemoveResponse, error) {
	return uc.remove(ctx, "UndoAddRecurringSlot", slotID, true)
}

func (uc *UseCase) remove(ctx context.Context, op string, slotID uuid.UUID, withSeed bool) (*RemoveResponse, error) {
	if slotID == uuid.Nil {
		return nil, fmt.Errorf("%w: slotId is required", ErrInvalidInput)
	}
	uc.logger.Info("%s: slot=%s", op, slotID)

	var result *RemoveResponse

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		seed, err := uc.loadSeed(txCtx, op, slotID)
		if err != nil {
			return err
		}

		following, err := recurrence.FollowingOccurrences(seed.StartTime)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		instants := following
		var except []uuid.UUID
		if withSeed {
			instants = append([]time.Time{seed.StartTime}, following...)
		} else {
			except = []uuid.UUID{seed.ID}
		}

		// Забронированные экземпляры не удаляются: их сессия осталась бы без слота
		detached, err := uc.detachBooked(txCtx, seed, instants)
		if err != nil {
			uc.logger.Error("%s: failed to detach booked instances: %v", op, err)
			return fmt.Errorf("%w: failed to detach booked instances: %v", ErrInternal, err)
		}

		deleted, err := uc.slotRepo.DeleteAtInstants(txCtx, seed.EmployeeID, instants, except)
		if err != nil {
			uc.logger.Error("%s: failed to delete instances: %v", op, err)
			return fmt.Errorf("%w: failed to delete instances: %v", ErrInternal, err)
		}

		result = &RemoveResponse{Deleted: deleted, Detached: detached, Unflagged: domain.SlotIDs(detached)}

		if !withSeed {
			updated, err := uc.slotRepo.SetRecurring(txCtx, []uuid.UUID{seed.ID}, false)
			if err != nil {
				uc.logger.Error("%s: failed to unmark seed: %v", op, err)
				return fmt.Errorf("%w: failed to unmark seed: %v", ErrInternal, err)
			}
			if len(updated) == 0 {
				uc.logger.Warn("%s: slot id=%s disappeared before update", op, slotID)
				return ErrSlotNotFound
			}
			result.Seed = updated[0]
			if seed.Recurring {
				result.Unflagged = append(result.Unflagged, seed.ID)
			}
		} else if seed.IsBooked() {
			result.Seed = findByID(detached, seed.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("%s: slot=%s deleted=%d detached=%d", op, slotID, len(result.Deleted), len(result.Detached))
	return result, nil
}

// Revert откатывает включение повторения: удаляет созданные операцией слоты
// и снимает флаг с принятых. Забронированные созданные слоты остаются,
// но перестают повторяться.
func (uc *UseCase) Revert(ctx context.Context, req *RevertRequest) (*RemoveResponse, error) {
	if err := validateIDs(append(append([]uuid.UUID{}, req.Created...), req.Adopted...)); err != nil {
		uc.logger.Warn("RevertSlotSeries: validation failed: %v", err)
		return nil, err
	}
	uc.logger.Info("RevertSlotSeries: created=%d adopted=%d", len(req.Created), len(req.Adopted))

	var result *RemoveResponse

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		rows, err := uc.slotRepo.GetByIDs(txCtx, req.Created)
		if err != nil {
			uc.logger.Error("RevertSlotSeries: failed to get created slots: %v", err)
			return fmt.Errorf("%w: failed to get created slots: %v", ErrInternal, err)
		}

		var booked []uuid.UUID
		for _, row := range rows {
			if row.IsBooked() && row.Recurring {
				booked = append(booked, row.ID)
			}
		}
		unflag := append(booked, req.Adopted...)

		deleted, err := uc.slotRepo.DeleteByIDs(txCtx, req.Created)
		if err != nil {
			uc.logger.Error("RevertSlotSeries: failed to delete created slots: %v", err)
			return fmt.Errorf("%w: failed to delete created slots: %v", ErrInternal, err)
		}

		kept := []*domain.Slot{}
		if len(unflag) > 0 {
			kept, err = uc.slotRepo.SetRecurring(txCtx, unflag, false)
			if err != nil {
				uc.logger.Error("RevertSlotSeries: failed to unmark slots: %v", err)
				return fmt.Errorf("%w: failed to unmark slots: %v", ErrInternal, err)
			}
		}

		result = &RemoveResponse{
			Deleted:   nonNil(deleted),
			Detached:  nonNil(kept),
			Unflagged: domain.SlotIDs(kept),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RevertSlotSeries: deleted=%d unflagged=%d", len(result.Deleted), len(result.Unflagged))
	return result, nil
}

// Restore возвращает удаленные слоты серии с прежними идентификаторами
// и снова помечает повторяющимися переданные слоты
func (uc *UseCase) Restore(ctx context.Context, req *RestoreRequest) (*RestoreResponse, error) {
	if err := validateRestore(req); err != nil {
		uc.logger.Warn("RestoreSlotSeries: validation failed: %v", err)
		return nil, err
	}
	uc.logger.Info("RestoreSlotSeries: slots=%d recurring=%d", len(req.Slots), len(req.Recurring))

	var result *RestoreResponse

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		restored, err := uc.slotRepo.InsertMany(txCtx, req.Slots, domain.ConflictSkip)
		if err != nil {
			uc.logger.Error("RestoreSlotSeries: failed to insert slots: %v", err)
			return fmt.Errorf("%w: failed to insert slots: %v", ErrInternal, err)
		}

		flagged := []*domain.Slot{}
		if len(req.Recurring) > 0 {
			flagged, err = uc.slotRepo.SetRecurring(txCtx, req.Recurring, true)
			if err != nil {
				uc.logger.Error("RestoreSlotSeries: failed to mark slots: %v", err)
				return fmt.Errorf("%w: failed to mark slots: %v", ErrInternal, err)
			}
		}

		sortSlots(restored)
		result = &RestoreResponse{Restored: nonNil(restored), Flagged: nonNil(flagged)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RestoreSlotSeries: restored=%d flagged=%d", len(result.Restored), len(result.Flagged))
	return result, nil
}

func validateIDs(ids []uuid.UUID) error {
	for _, id := range ids {
		if id == uuid.Nil {
			return fmt.Errorf("%w: slot id must not be empty", ErrInvalidInput)
		}
	}
	return nil
}

func validateRestore(req *RestoreRequest) error {
	for _, s := range req.Slots {
		switch {
		case s == nil || s.ID == uuid.Nil || s.EmployeeID == uuid.Nil:
			return fmt.Errorf("%w: slot id and employeeId are required", ErrInvalidInput)
		case !s.Type.IsValid() || s.IsBooked():
			return fmt.Errorf("%w: slot %s has type %q that cannot be restored", ErrInvalidInput, s.ID, s.Type)
		case !domain.IsAllowedDuration(s.Duration):
			return fmt.Errorf("%w: slot %s has duration %d", ErrInvalidInput, s.ID, s.Duration)
		}
	}
	return validateIDs(req.Recurring)
}

func nonNil(slots []*domain.Slot) []*domain.Slot {
	if slots == nil {
		return []*domain.Slot{}
	}
	return slots
}

func (uc *UseCase) detachBooked(ctx context.Context, seed *domain.Slot, instants []time.Time) ([]*domain.Slot, error) {
	rows, err := uc.slotRepo.ListAtInstants(ctx, seed.EmployeeID, instants)
	if err != nil {
		return nil, err
	}

	var booked []uuid.UUID
	for _, row := range rows {
		if row.IsBooked() && row.Recurring {
			booked = append(booked, row.ID)
		}
	}
	if len(booked) == 0 {
		return []*domain.Slot{}, nil
	}

	return uc.slotRepo.SetRecurring(ctx, booked, false)
}

func (uc *UseCase) loadSeed(ctx context.Context, op string, slotID uuid.UUID) (*domain.Slot, error) {
	seed, err := uc.slotRepo.GetByID(ctx, slotID)
	if errors.Is(err, slotRepo.ErrSlotNotFound) {
		uc.logger.Warn("%s: slot id=%s not found", op, slotID)
		return nil, ErrSlotNotFound
	}
	if err != nil {
		uc.logger.Error("%s: failed to get slot id=%s: %v", op, slotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}
	return seed, nil
}

// projectedType тип экземпляров серии: бронь не копируется
func projectedType(t domain.SlotType) domain.SlotType {
	if t == domain.SlotBooked {
		return domain.SlotAvailable
	}
	return t
}

func findByID(slots []*domain.Slot, id uuid.UUID) *domain.Slot {
	for _, s := range slots {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func sortSlots(slots []*domain.Slot) {
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartTime.Before(slots[j].StartTime) })
}
