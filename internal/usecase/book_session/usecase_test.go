package book_session

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

func TestBookSession(t *testing.T) {
	store := memstore.New()
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, domain.Location)
	slot := store.SeedSlot(domain.Slot{EmployeeID: uuid.New(), StartTime: start})
	customer := store.SeedCustomer(domain.Customer{Name: "Anna", Email: "anna@example.com", Phone: "+100"})

	resp, err := newUseCase(store).Execute(context.Background(), &Request{
		SlotID:     slot.ID,
		CustomerID: customer.ID,
		Message:    ptr.Ptr("first visit"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SlotBooked, resp.Slot.Type)
	assert.Equal(t, slot.ID, resp.Session.SlotID)
	assert.Equal(t, slot.EmployeeID, resp.Session.EmployeeID)
	assert.True(t, resp.Session.StartTime.Equal(start))
	assert.Equal(t, "Anna", resp.Session.CustomerName)
	assert.Equal(t, "first visit", *resp.Session.Message)
	assert.Equal(t, 1, store.SessionCount())
}

func TestBookSession_SlotNotAvailable(t *testing.T) {
	for _, slotType := range []domain.SlotType{domain.SlotBlocked, domain.SlotBooked} {
		t.Run(string(slotType), func(t *testing.T) {
			store := memstore.New()
			slot := store.SeedSlot(domain.Slot{EmployeeID: uuid.New(), StartTime: time.Now(), Type: slotType})
			customer := store.SeedCustomer(domain.Customer{Name: "Anna"})

			_, err := newUseCase(store).Execute(context.Background(), &Request{SlotID: slot.ID, CustomerID: customer.ID})
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
			assert.Equal(t, 0, store.SessionCount())
		})
	}
}

func TestBookSession_UnknownCustomerRollsBack(t *testing.T) {
	store := memstore.New()
	slot := store.SeedSlot(domain.Slot{EmployeeID: uuid.New(), StartTime: time.Now()})

	_, err := newUseCase(store).Execute(context.Background(), &Request{SlotID: slot.ID, CustomerID: uuid.New()})
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	unchanged, _ := store.Slot(slot.ID)
	assert.Equal(t, domain.SlotAvailable, unchanged.Type)
}

func TestBookSession_NotFound(t *testing.T) {
	_, err := newUseCase(memstore.New()).Execute(context.Background(), &Request{SlotID: uuid.New(), CustomerID: uuid.New()})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = newUseCase(memstore.New()).Execute(context.Background(), &Request{SlotID: uuid.New()})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
