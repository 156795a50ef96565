package update_session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/session"
	slotRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/slot"
)

// UseCase use case для переноса сессии на другой слот
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

// Execute переносит сессию: прежний слот -> AVAILABLE, целевой -> BOOKED,
// сессия перепривязывается и получает время целевого слота. Всё в одной транзакции:
// при любой ошибке оба слота остаются как были.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.SessionID == uuid.Nil || req.SlotID == uuid.Nil {
		return nil, fmt.Errorf("%w: sessionId and slotId are required", ErrInvalidInput)
	}

	uc.logger.Info("UpdateSession: session=%s, target slot=%s", req.SessionID, req.SlotID)

	var result *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		session, err := uc.sessionRepo.GetByID(txCtx, req.SessionID)
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			uc.logger.Warn("UpdateSession: session id=%s not found", req.SessionID)
			return ErrSessionNotFound
		}
		if err != nil {
			uc.logger.Error("UpdateSession: failed to get session: %v", err)
			return fmt.Errorf("%w: failed to get session: %v", ErrInternal, err)
		}

		if session.SlotID == req.SlotID {
			return fmt.Errorf("%w: session is already bound to slot %s", ErrInvalidInput, req.SlotID)
		}

		target, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("UpdateSession: slot id=%s not found", req.SlotID)
			return ErrSlotNotFound
		}
		if err != nil {
			uc.logger.Error("UpdateSession: failed to get slot: %v", err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}
		if target.Type != domain.SlotAvailable || target.EmployeeID != session.EmployeeID {
			uc.logger.Warn("UpdateSession: slot id=%s is not available (%s)", target.ID, target.Type)
			return ErrSlotNotAvailable
		}

		// 1. Прежний слот освобождается
		released, err := uc.slotRepo.SetType(txCtx, session.SlotID, domain.SlotAvailable)
		if err != nil {
			uc.logger.Error("UpdateSession: failed to release slot id=%s: %v", session.SlotID, err)
			return fmt.Errorf("%w: failed to release slot: %v", ErrInternal, err)
		}

		// 2. Целевой слот бронируется
		booked, err := uc.slotRepo.SetType(txCtx, target.ID, domain.SlotBooked)
		if err != nil {
			uc.logger.Error("UpdateSession: failed to book slot id=%s: %v", target.ID, err)
			return fmt.Errorf("%w: failed to book slot: %v", ErrInternal, err)
		}

		// 3. Сессия перепривязывается
		rebound, err := uc.sessionRepo.Rebind(txCtx, session.ID, booked.ID, booked.StartTime)
		if err != nil {
			uc.logger.Error("UpdateSession: failed to rebind session: %v", err)
			return fmt.Errorf("%w: failed to rebind session: %v", ErrInternal, err)
		}

		customer, err := uc.sessionRepo.GetCustomer(txCtx, session.CustomerID)
		if err != nil && !errors.Is(err, sessionRepo.ErrCustomerNotFound) {
			return fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
		}

		result = &Response{
			Session:           domain.NewSessionView(rebound, customer),
			PreviousSlotID:    session.SlotID,
			PreviousStartTime: session.StartTime,
			Released:          released,
			Booked:            booked,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateSession: session id=%s moved from slot %s to %s",
		result.Session.ID, result.PreviousSlotID, result.Booked.ID)
	return result, nil
}
