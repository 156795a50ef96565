package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/internal/service/slots/models"
)

// Service сервис чтения недели слотов и массовых операций над ними
type Service struct {
	slotRepo   SlotRepository
	reconciler Reconciler
	txManager  TransactionManager
	logger     Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	reconciler Reconciler,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:   slotRepo,
		reconciler: reconciler,
		txManager:  txManager,
		logger:     logger,
	}
}

// GetWeekSlots получает слоты сотрудника за окно, упорядоченные по началу
func (s *Service) GetWeekSlots(ctx context.Context, req *models.WeekRequest) ([]*domain.Slot, error) {
	if err := validateWeekRequest(req); err != nil {
		s.logger.Warn("GetWeekSlots: validation failed: %v", err)
		return nil, err
	}

	s.logger.Info("GetWeekSlots: employee=%s, window=%s..%s",
		req.EmployeeID, req.Start.Format(domain.DateFormat), req.End.Format(domain.DateFormat))

	slots, err := s.slotRepo.ListByRange(ctx, req.EmployeeID, req.From(), req.Until())
	if err != nil {
		s.logger.Error("GetWeekSlots: repository error for employee=%s: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: GetWeekSlots - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetWeekSlots: fetched %d slot(s) for employee=%s", len(slots), req.EmployeeID)
	return slots, nil
}

// AddSlots восстанавливает ранее удаленные слоты с их идентификаторами.
// Занятые моменты пропускаются; вставленные слоты согласуются с повторяющимися днями.
func (s *Service) AddSlots(ctx context.Context, slots []*domain.Slot) (*models.AddSlotsResponse, error) {
	if err := validateRestoredSlots(slots); err != nil {
		s.logger.Warn("AddSlots: validation failed: %v", err)
		return nil, err
	}

	s.logger.Info("AddSlots: restoring %d slot(s)", len(slots))

	result := &models.AddSlotsResponse{}

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		inserted, err := s.slotRepo.InsertMany(txCtx, slots, domain.ConflictSkip)
		if err != nil {
			s.logger.Error("AddSlots: failed to insert slots: %v", err)
			return fmt.Errorf("%w: AddSlots - insert: %v", ErrInternal, err)
		}

		copies, err := s.reconciler.SlotsAdded(txCtx, inserted)
		if err != nil {
			s.logger.Error("AddSlots: failed to reconcile recurring days: %v", err)
			return fmt.Errorf("%w: AddSlots - reconcile: %v", ErrInternal, err)
		}

		result.Inserted = inserted
		result.Copies = copies
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("AddSlots: inserted %d slot(s), %d recurring-day copies", len(result.Inserted), len(result.Copies))
	return result, nil
}

// DeleteSlots удаляет слоты по идентификаторам. Забронированные слоты не удаляются.
// Если не удалено ничего, возвращается ErrNothingDeleted.
func (s *Service) DeleteSlots(ctx context.Context, ids []uuid.UUID) (*models.DeleteSlotsResponse, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: slotIds must not be empty", ErrInvalidInput)
	}
	for i, id := range ids {
		if id == uuid.Nil {
			return nil, fmt.Errorf("%w: slotIds[%d] is empty", ErrInvalidInput, i)
		}
	}

	s.logger.Info("DeleteSlots: deleting %d slot(s)", len(ids))

	result := &models.DeleteSlotsResponse{}

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		deleted, err := s.slotRepo.DeleteByIDs(txCtx, ids)
		if err != nil {
			s.logger.Error("DeleteSlots: failed to delete slots: %v", err)
			return fmt.Errorf("%w: DeleteSlots - delete: %v", ErrInternal, err)
		}
		if len(deleted) == 0 {
			return ErrNothingDeleted
		}

		removed, err := s.reconciler.SlotsDeleted(txCtx, deleted)
		if err != nil {
			s.logger.Error("DeleteSlots: failed to reconcile recurring days: %v", err)
			return fmt.Errorf("%w: DeleteSlots - reconcile: %v", ErrInternal, err)
		}

		result.Deleted = deleted
		result.Removed = removed
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNothingDeleted) {
			s.logger.Warn("DeleteSlots: nothing deleted, ids=%v", ids)
		}
		return nil, err
	}

	s.logger.Info("DeleteSlots: deleted %d slot(s), %d from recurring days", len(result.Deleted), len(result.Removed))
	return result, nil
}

func validateWeekRequest(req *models.WeekRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if req.EmployeeID == uuid.Nil {
		return fmt.Errorf("%w: employeeId is required", ErrInvalidInput)
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	if req.Until().Sub(req.From()) <= 0 {
		return fmt.Errorf("%w: end is before start", ErrInvalidTimeRange)
	}
	if req.Until().Sub(req.From()) > time.Duration(models.MaxWeekSpan)*24*time.Hour {
		return fmt.Errorf("%w: window is longer than %d days", ErrInvalidTimeRange, models.MaxWeekSpan)
	}
	return nil
}

func validateRestoredSlots(slots []*domain.Slot) error {
	if len(slots) == 0 {
		return fmt.Errorf("%w: slots must not be empty", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(slots))
	for i, slot := range slots {
		switch {
		case slot == nil:
			return fmt.Errorf("%w: slots[%d] is empty", ErrInvalidInput, i)
		case slot.EmployeeID == uuid.Nil:
			return fmt.Errorf("%w: slots[%d].employeeId is required", ErrInvalidInput, i)
		case !slot.Type.IsValid():
			return fmt.Errorf("%w: slots[%d].type %q is unknown", ErrInvalidInput, i, slot.Type)
		case slot.IsBooked():
			return fmt.Errorf("%w: slots[%d] is BOOKED, sessions are restored separately", ErrInvalidInput, i)
		case !domain.IsAllowedDuration(slot.Duration):
			return fmt.Errorf("%w: slots[%d].duration %d is not allowed", ErrInvalidInput, i, slot.Duration)
		case slot.StartTime.IsZero():
			return fmt.Errorf("%w: slots[%d].startTime is required", ErrInvalidInput, i)
		case slot.StartTime.Second() != 0 || slot.StartTime.Nanosecond() != 0:
			return fmt.Errorf("%w: slots[%d].startTime must be minute-granular", ErrInvalidInput, i)
		}

		key := slot.EmployeeID.String() + "|" + slot.StartTime.UTC().Format(time.RFC3339)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: slots[%d] duplicates another slot start", ErrInvalidInput, i)
		}
		seen[key] = struct{}{}
	}
	return nil
}
