package update_slot_time

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	slotRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-CalendarService/internal/recurrence"
)

// UseCase use case для изменения часа или минут слота
type UseCase struct {
	slotRepo    SlotRepository
	sessionRepo SessionRepository
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	sessionRepo SessionRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:    slotRepo,
		sessionRepo: sessionRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute переносит слот (или всю его серию) на новый час или минуты.
// Время сессий забронированных слотов пересчитывается в той же транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateSlotTime: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("UpdateSlotTime: slot=%s, %s=%d, recurring=%t", req.SlotID, req.Field, req.Value, req.Recurring)

	var result *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		seed, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("UpdateSlotTime: slot id=%s not found", req.SlotID)
			return ErrSlotNotFound
		}
		if err != nil {
			uc.logger.Error("UpdateSlotTime: failed to get slot id=%s: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		result = &Response{
			PreviousHour:   seed.StartTime.Hour(),
			PreviousMinute: seed.StartTime.Minute(),
			Slots:          []*domain.Slot{},
			Skipped:        []*domain.Slot{},
		}

		if req.Recurring {
			err = uc.moveSeries(txCtx, req, seed, result)
		} else {
			err = uc.moveSingle(txCtx, req, seed, result)
		}
		if err != nil {
			return err
		}

		if _, err := uc.sessionRepo.SyncStartTimes(txCtx, domain.SlotIDs(result.Slots)); err != nil {
			uc.logger.Error("UpdateSlotTime: failed to sync session start times: %v", err)
			return fmt.Errorf("%w: failed to sync sessions: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateSlotTime: slot=%s moved=%d skipped=%d", req.SlotID, len(result.Slots), len(result.Skipped))
	return result, nil
}

func (uc *UseCase) moveSingle(ctx context.Context, req *Request, seed *domain.Slot, result *Response) error {
	target := shift(seed.StartTime, req)
	if target.Equal(seed.StartTime) {
		result.Slots = append(result.Slots, seed)
		return nil
	}

	occupants, err := uc.slotRepo.ListAtInstants(ctx, seed.EmployeeID, []time.Time{target})
	if err != nil {
		return fmt.Errorf("%w: failed to check target time: %v", ErrInternal, err)
	}
	if len(occupants) > 0 {
		uc.logger.Warn("UpdateSlotTime: %s already taken", target.Format(domain.TimestampFormat))
		return ErrSlotTimeTaken
	}

	moved, err := uc.slotRepo.UpdateStartTime(ctx, seed.ID, target)
	if errors.Is(err, slotRepo.ErrSlotConflict) {
		return ErrSlotTimeTaken
	}
	if err != nil {
		uc.logger.Error("UpdateSlotTime: failed to update slot id=%s: %v", seed.ID, err)
		return fmt.Errorf("%w: failed to update slot: %v", ErrInternal, err)
	}

	result.Slots = append(result.Slots, moved)
	return nil
}

// moveSeries переносит повторяющиеся слоты сотрудника в старое время суток
// в день недели исходного слота, от его даты до 31 декабря. Даты, где новое
// время занято другим слотом, пропускаются.
func (uc *UseCase) moveSeries(ctx context.Context, req *Request, seed *domain.Slot, result *Response) error {
	series, err := recurrence.WeeklyOccurrences(seed.StartTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	members, err := uc.slotRepo.ListAtInstants(ctx, seed.EmployeeID, series)
	if err != nil {
		return fmt.Errorf("%w: failed to list series: %v", ErrInternal, err)
	}

	moving := make([]*domain.Slot, 0, len(members))
	targets := make([]time.Time, 0, len(members))
	for _, m := range members {
		if m.ID != seed.ID && !m.Recurring {
			continue
		}
		moving = append(moving, m)
		targets = append(targets, shift(m.StartTime, req))
	}

	if len(moving) == 0 {
		return nil
	}
	if targets[0].Equal(moving[0].StartTime) {
		result.Slots = append(result.Slots, moving...)
		return nil
	}

	occupants, err := uc.slotRepo.ListAtInstants(ctx, seed.EmployeeID, targets)
	if err != nil {
		return fmt.Errorf("%w: failed to check target times: %v", ErrInternal, err)
	}
	taken := make(map[int64]bool, len(occupants))
	for _, o := range occupants {
		taken[o.StartTime.Unix()] = true
	}

	if taken[targets[0].Unix()] && moving[0].ID == seed.ID {
		uc.logger.Warn("UpdateSlotTime: seed slot id=%s target time taken", seed.ID)
		return ErrSlotTimeTaken
	}

	for i, m := range moving {
		if taken[targets[i].Unix()] {
			result.Skipped = append(result.Skipped, m)
			continue
		}

		moved, err := uc.slotRepo.UpdateStartTime(ctx, m.ID, targets[i])
		if errors.Is(err, slotRepo.ErrSlotConflict) {
			return ErrSlotTimeTaken
		}
		if err != nil {
			uc.logger.Error("UpdateSlotTime: failed to update slot id=%s: %v", m.ID, err)
			return fmt.Errorf("%w: failed to update slot: %v", ErrInternal, err)
		}
		result.Slots = append(result.Slots, moved)
	}

	sort.Slice(result.Slots, func(i, j int) bool { return result.Slots[i].StartTime.Before(result.Slots[j].StartTime) })
	return nil
}

func shift(t time.Time, req *Request) time.Time {
	if req.Field == FieldMinute {
		return recurrence.WithMinutes(t, req.Value)
	}
	return recurrence.WithHour(t, req.Value)
}
