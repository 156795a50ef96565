package delete_session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/session"
	slotRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/slot"
)

// UseCase use case для удаления сессии и её восстановления
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

// Delete удаляет сессию и освобождает её слот
func (uc *UseCase) Delete(ctx context.Context, sessionID uuid.UUID) (*Response, error) {
	if sessionID == uuid.Nil {
		return nil, fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
	}

	uc.logger.Info("DeleteSession: session=%s", sessionID)

	var result *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		deleted, err := uc.sessionRepo.Delete(txCtx, sessionID)
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			uc.logger.Warn("DeleteSession: session id=%s not found", sessionID)
			return ErrSessionNotFound
		}
		if err != nil {
			uc.logger.Error("DeleteSession: failed to delete session: %v", err)
			return fmt.Errorf("%w: failed to delete session: %v", ErrInternal, err)
		}

		released, err := uc.slotRepo.SetType(txCtx, deleted.SlotID, domain.SlotAvailable)
		if err != nil {
			uc.logger.Error("DeleteSession: failed to release slot id=%s: %v", deleted.SlotID, err)
			return fmt.Errorf("%w: failed to release slot: %v", ErrInternal, err)
		}

		customer, err := uc.sessionRepo.GetCustomer(txCtx, deleted.CustomerID)
		if err != nil && !errors.Is(err, sessionRepo.ErrCustomerNotFound) {
			return fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
		}

		result = &Response{Session: domain.NewSessionView(deleted, customer), Slot: released}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("DeleteSession: session id=%s deleted, slot id=%s released", sessionID, result.Slot.ID)
	return result, nil
}

// Restore восстанавливает удалённую сессию с исходным ID.
// Слот должен быть AVAILABLE, он снова становится BOOKED.
func (uc *UseCase) Restore(ctx context.Context, session *domain.Session) (*Response, error) {
	if session == nil || session.ID == uuid.Nil || session.SlotID == uuid.Nil || session.CustomerID == uuid.Nil {
		return nil, fmt.Errorf("%w: session id, slotId and customerId are required", ErrInvalidInput)
	}

	uc.logger.Info("UndoDeleteSession: session=%s, slot=%s", session.ID, session.SlotID)

	var result *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		slot, err := uc.slotRepo.GetByID(txCtx, session.SlotID)
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("UndoDeleteSession: slot id=%s not found", session.SlotID)
			return ErrSlotNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}
		if slot.Type != domain.SlotAvailable {
			uc.logger.Warn("UndoDeleteSession: slot id=%s is %s", slot.ID, slot.Type)
			return ErrSlotNotAvailable
		}

		booked, err := uc.slotRepo.SetType(txCtx, slot.ID, domain.SlotBooked)
		if err != nil {
			return fmt.Errorf("%w: failed to book slot: %v", ErrInternal, err)
		}

		created, err := uc.sessionRepo.Create(txCtx, &domain.Session{
			ID:         session.ID,
			SlotID:     slot.ID,
			EmployeeID: slot.EmployeeID,
			CustomerID: session.CustomerID,
			StartTime:  slot.StartTime,
			Message:    session.Message,
		})
		if errors.Is(err, sessionRepo.ErrSessionConflict) {
			uc.logger.Warn("UndoDeleteSession: session id=%s already exists", session.ID)
			return ErrSessionExists
		}
		if err != nil {
			uc.logger.Error("UndoDeleteSession: failed to create session: %v", err)
			return fmt.Errorf("%w: failed to create session: %v", ErrInternal, err)
		}

		customer, err := uc.sessionRepo.GetCustomer(txCtx, created.CustomerID)
		if err != nil && !errors.Is(err, sessionRepo.ErrCustomerNotFound) {
			return fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
		}

		result = &Response{Session: domain.NewSessionView(created, customer), Slot: booked}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("UndoDeleteSession: session id=%s restored", session.ID)
	return result, nil
}
