package book_session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/session"
	slotRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/slot"
)

// UseCase use case для бронирования свободного слота
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

// Execute переводит слот AVAILABLE -> BOOKED и создает сессию в одной транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.SlotID == uuid.Nil || req.CustomerID == uuid.Nil {
		return nil, fmt.Errorf("%w: slotId and customerId are required", ErrInvalidInput)
	}

	uc.logger.Info("BookSession: slot=%s, customer=%s", req.SlotID, req.CustomerID)

	var result *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		slot, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("BookSession: slot id=%s not found", req.SlotID)
			return ErrSlotNotFound
		}
		if err != nil {
			uc.logger.Error("BookSession: failed to get slot: %v", err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		if slot.Type != domain.SlotAvailable {
			uc.logger.Warn("BookSession: slot id=%s is %s", slot.ID, slot.Type)
			return ErrSlotNotAvailable
		}

		customer, err := uc.sessionRepo.GetCustomer(txCtx, req.CustomerID)
		if errors.Is(err, sessionRepo.ErrCustomerNotFound) {
			uc.logger.Warn("BookSession: customer id=%s not found", req.CustomerID)
			return ErrCustomerNotFound
		}
		if err != nil {
			uc.logger.Error("BookSession: failed to get customer: %v", err)
			return fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
		}

		booked, err := uc.slotRepo.SetType(txCtx, slot.ID, domain.SlotBooked)
		if err != nil {
			uc.logger.Error("BookSession: failed to book slot: %v", err)
			return fmt.Errorf("%w: failed to book slot: %v", ErrInternal, err)
		}

		session, err := uc.sessionRepo.Create(txCtx, &domain.Session{
			SlotID:     slot.ID,
			EmployeeID: slot.EmployeeID,
			CustomerID: customer.ID,
			StartTime:  slot.StartTime,
			Message:    req.Message,
		})
		if errors.Is(err, sessionRepo.ErrSessionConflict) {
			return ErrSlotNotAvailable
		}
		if err != nil {
			uc.logger.Error("BookSession: failed to create session: %v", err)
			return fmt.Errorf("%w: failed to create session: %v", ErrInternal, err)
		}

		result = &Response{
			Session: domain.NewSessionView(session, customer),
			Slot:    booked,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookSession: session id=%s created for slot id=%s", result.Session.ID, result.Slot.ID)
	return result, nil
}
