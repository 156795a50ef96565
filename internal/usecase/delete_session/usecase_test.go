package delete_session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/internal/testutil/memstore"
	"github.com/m04kA/SMC-CalendarService/pkg/logger"
	"github.com/m04kA/SMC-CalendarService/pkg/ptr"
)

func newUseCase(store *memstore.Store) *UseCase {
	return NewUseCase(store.Slots(), store.Sessions(), store.TxManager(), logger.Nop())
}

func TestDeleteAndRestoreSession(t *testing.T) {
	store := memstore.New()
	slot := store.SeedSlot(domain.Slot{EmployeeID: uuid.New(), StartTime: time.Date(2025, 6, 2, 9, 0, 0, 0, domain.Location)})
	customer := store.SeedCustomer(domain.Customer{Name: "Vera", Phone: "+7"})
	session := store.SeedSession(domain.Session{SlotID: slot.ID, CustomerID: customer.ID, Message: ptr.Ptr("hi")})
	uc := newUseCase(store)

	deleted, err := uc.Delete(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, session.ID, deleted.Session.ID)
	assert.Equal(t, "Vera", deleted.Session.CustomerName)
	assert.Equal(t, domain.SlotAvailable, deleted.Slot.Type)
	assert.Equal(t, 0, store.SessionCount())

	restored, err := uc.Restore(context.Background(), &deleted.Session.Session)
	require.NoError(t, err)

	assert.Equal(t, session.ID, restored.Session.ID)
	assert.Equal(t, "hi", *restored.Session.Message)
	assert.Equal(t, domain.SlotBooked, restored.Slot.Type)
	assert.Equal(t, 1, store.SessionCount())
}

func TestDeleteSession_NotFound(t *testing.T) {
	_, err := newUseCase(memstore.New()).Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRestoreSession_SlotTaken(t *testing.T) {
	store := memstore.New()
	slot := store.SeedSlot(domain.Slot{EmployeeID: uuid.New(), StartTime: time.Now(), Type: domain.SlotBlocked})

	_, err := newUseCase(store).Restore(context.Background(), &domain.Session{
		ID:         uuid.New(),
		SlotID:     slot.ID,
		CustomerID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, 0, store.SessionCount())
}

func TestRestoreSession_SlotDeleted(t *testing.T) {
	_, err := newUseCase(memstore.New()).Restore(context.Background(), &domain.Session{
		ID:         uuid.New(),
		SlotID:     uuid.New(),
		CustomerID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestRestoreSession_Validation(t *testing.T) {
	_, err := newUseCase(memstore.New()).Restore(context.Background(), &domain.Session{SlotID: uuid.New()})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
